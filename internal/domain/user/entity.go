package user

// User represents a registered account in the system.
type User struct {
	ID           int64  // ID is the unique identifier for the user
	Email        string // Email is the unique email address used as the login key
	PasswordHash string // PasswordHash holds the one-way hash of the password, never the plaintext
}
