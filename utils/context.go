package utils

// Keys stored on the gin context by middlewares.
const (
	RequestIDKey = "request_id"
	StaffKey     = "staff"
)
