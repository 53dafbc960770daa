package services

// Caller identifies the authenticated user a service call acts for.
type Caller struct {
	UserID    uint
	IPAddress string
	UserAgent string
}
