package security

// UserDirectoryNotFoundError indicates the requested user directory does
// not exist.
type UserDirectoryNotFoundError struct {
	UserDirectoryID string
}

func (e *UserDirectoryNotFoundError) Error() string {
	return "user directory not found: " + e.UserDirectoryID
}

// UserNotFoundError indicates the requested user does not exist.
type UserNotFoundError struct {
	Username string
}

func (e *UserNotFoundError) Error() string {
	return "user not found: " + e.Username
}

// TenantNotFoundError indicates the requested tenant does not exist.
type TenantNotFoundError struct {
	TenantID string
}

func (e *TenantNotFoundError) Error() string {
	return "tenant not found: " + e.TenantID
}
