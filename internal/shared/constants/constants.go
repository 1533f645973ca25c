package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 24
	MaxPageSize     = 100

	// Payment history paging
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100

	// HTTP Headers
	HeaderAuthorization   = "Authorization"
	HeaderXRequestID      = "X-Request-ID"
	HeaderXAPIKey         = "X-API-Key"
	HeaderStripeSignature = "Stripe-Signature"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyPrincipal = "principal"
	ContextKeyAuthVia   = "auth_via"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableUsers          = "users"
	TablePlans          = "plans"
	TableSubscriptions  = "subscriptions"
	TablePurchases      = "purchases"
	TablePaymentHistory = "payment_history"
	TableWebhookEvents  = "webhook_events"
	TableDataReleases   = "data_releases"
	TableUserFavorites  = "user_favorites"

	// Billing
	DefaultCurrency = "usd"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgUnauthorized        = "Invalid or missing authentication credentials"
)
