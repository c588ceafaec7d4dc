package constants

// HTTP Response Messages
const (
	ResponseMethodNotAllowed  = "Method not allowed"
	ResponseMissingFields     = "Missing host_secret or family_code"
	ResponseInvalidHostSecret = "Invalid host secret"
	ResponseMissingConfig     = "Missing supabase config"
	ResponseGenerationFailed  = "Generation failed"
	ResponseServerError       = "Server error"
	ResponseGeneratedFallback = "generated"
)

// Generation outcomes, used for metrics labels and events
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

// Error Messages for Logging
const (
	LogFailedEncodeJSON = "Failed to encode JSON response"
	LogPublishFailed    = "Failed to publish generation event"
)
