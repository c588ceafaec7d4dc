package constants

// Environment Variables
const (
	EnvHostSecret      = "HOST_SECRET"
	EnvSupabaseURL     = "SUPABASE_URL"
	EnvServiceRoleKey  = "SUPABASE_SERVICE_ROLE_KEY"
	EnvAllowedOrigin   = "ALLOWED_ORIGIN"
	EnvDebug           = "DEBUG"
	EnvRPCDriver       = "RPC_DRIVER"
	EnvRPCSchema       = "RPC_SCHEMA"
	EnvRPCTimeout      = "RPC_TIMEOUT"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvSecretsDriver   = "SECRETS_DRIVER"
	EnvSecretsRegion   = "SECRETS_REGION"
	EnvSecretsPrefix   = "SECRETS_PREFIX"
	EnvEventDriver     = "EVENT_DRIVER"
	EnvEventURL        = "EVENT_URL"
	EnvStorageDriver   = "STORAGE_DRIVER"
	EnvStorageDSN      = "STORAGE_DSN"
	EnvTracingExporter = "TRACING_EXPORTER"
	EnvTracingEndpoint = "TRACING_ENDPOINT"
)

// RPC Drivers
const (
	RPCDriverREST     = "rest"
	RPCDriverPostgres = "postgres"
)

// Storage Drivers
const (
	StorageDriverMemory = "memory"
	StorageDriverSQLite = "sqlite"
)

// Event Drivers
const (
	EventDriverMemory = "memory"
	EventDriverNATS   = "nats"
)

// Remote procedure
const (
	ProcGenerateAssignments = "generate_assignments_for_family"
	ArgFamilyCode           = "in_family_code"
)

// Event topics
const (
	TopicAssignmentsGenerated = "assignments.generated"
)
