package utils

// Application constants
const (
	// Application name
	AppName = "CoinSphere"

	// API version
	APIVersion = "v1"

	// Token symbol shown in statements and emails
	TokenSymbol = "CSP"

	// Default port
	DefaultPort = "8080"
)

// Error messages
const (
	ErrInvalidCredentials = "Invalid email or password"
	ErrUserBlocked        = "Your account has been blocked"
	ErrInvalidToken       = "Invalid or expired token"
	ErrUnauthorized       = "Unauthorized access"
	ErrInvalidRequest     = "Invalid request data"
	ErrInternalServer     = "Internal server error"
)

// Success messages
const (
	MsgLoginSuccess    = "Login successful"
	MsgLogoutSuccess   = "Logout successful"
	MsgRegisterSuccess = "Registration successful"
	MsgApprovalNeeded  = "This transaction requires admin 2FA approval due to the large amount."
)
