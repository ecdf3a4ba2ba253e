package coordinator

// OpState is the tagged state of one asynchronous operation. It replaces
// loose loading/executing booleans so impossible flag combinations cannot
// exist.
type OpState int

const (
	OpIdle OpState = iota
	OpLoading
	OpSuccess
	OpError
)

func (s OpState) String() string {
	switch s {
	case OpIdle:
		return "idle"
	case OpLoading:
		return "loading"
	case OpSuccess:
		return "success"
	case OpError:
		return "error"
	default:
		return "unknown"
	}
}
