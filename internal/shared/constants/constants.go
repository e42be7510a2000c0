package constants

const (
	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	// HeaderEventDispatch is set to "failed" when a mutation committed but its event was not published.
	HeaderEventDispatch = "X-Event-Dispatch"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyActor     = "actor"
	ContextKeyRequestID = "request_id"
)

// Table names
const (
	TableTickets        = "tickets"
	TableTicketComments = "ticket_comments"
	TableAttachments    = "ticket_attachments"
	TableTicketHistory  = "ticket_history"
	TableCategories     = "ticket_categories"
	TableUsers          = "users"
	TableUserUnits      = "user_units"
	TableProperties     = "properties"
	TablePropertyAdmins = "property_admins"
	TableUnits          = "units"
)

// Environments
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)
