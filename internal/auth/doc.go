// Package auth holds the client-side auth session and the gate that decides
// whether a user may reach a protected surface. Token issuance and
// verification belong to the backend; this layer only carries the token and
// reads its claims.
package auth
