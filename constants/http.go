package constants

// Content Types
const (
	ContentTypeJSON = "application/json"
)

// HTTP Headers
const (
	HeaderContentType      = "Content-Type"
	HeaderAuthorization    = "Authorization"
	HeaderAccept           = "Accept"
	HeaderOrigin           = "Origin"
	HeaderVary             = "Vary"
	HeaderRequestID        = "X-Request-ID"
	HeaderAPIKey           = "apikey"
	HeaderContentProfile   = "Content-Profile"
	HeaderAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAllowHeaders     = "Access-Control-Allow-Headers"
	HeaderAllowMethods     = "Access-Control-Allow-Methods"
	HeaderAllowCredentials = "Access-Control-Allow-Credentials"
)

// CORS values
const (
	CORSWildcard     = "*"
	CORSAllowHeaders = "Content-Type, Authorization"
	CORSAllowMethods = "POST, OPTIONS"
)

// Default Values
const (
	DefaultServeAddr = ":3000"
	DefaultRPCSchema = "public"
	RPCPathPrefix    = "/rest/v1/rpc/"
)
