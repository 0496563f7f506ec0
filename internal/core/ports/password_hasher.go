package ports

// PasswordHasher produces and checks one-way salted password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}
