package constants

// Context keys
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUser      = "user"
	ContextKeyTask      = "task"
	ContextKeyRequestID = "request_id"
)

const (
	HeaderRequestID = "X-Request-ID"

	// Accepted Authorization schemes
	AuthSchemeToken  = "Token"
	AuthSchemeBearer = "Bearer"
)

// Guest account
const (
	GuestEmail    = "guest@guest.com"
	GuestUsername = "guest"
	GuestEmblem   = "G"
	GuestColor    = "#091931"
)

const (
	DefaultPhone       = "123456789"
	MinPhoneLength     = 6
	MaxSubtasksPerTask = 5
	TokenKeyBytes      = 20
	DateLayout         = "2006-01-02"
)
