// Package auth holds the stateless authentication core: the signed token
// codec, the claims-to-principal resolver, the authorization rules applied by
// the business services and the helpers that carry a principal through a
// request context.
//
// Nothing in this package performs I/O. The signing secret is injected once
// at construction and read concurrently without locking.
//
// Roles are taken from the token, not from the live account, so a role change
// only takes effect after the account logs in again. Likewise an account that
// is deactivated keeps working tokens until they expire.
package auth
