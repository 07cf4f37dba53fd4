package common

// Password length bounds enforced at user creation and update time.
// The hasher itself only rejects empty or oversized input.
const (
	PasswordMinLength = 8
	PasswordMaxLength = 128
)
