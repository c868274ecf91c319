package constants

// Common string constants used throughout the codebase
const (
	ServiceName = "cyphera-tax"

	// Log levels
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"

	// Environments
	ProdEnvironment  = "prod"
	DevEnvironment   = "dev"
	LocalEnvironment = "local"
	TestEnvironment  = "test"

	StderrOutput = "stderr"
)

// Environment variables read by the entry points and config package
const (
	StageEnvVar              = "STAGE"
	LogLevelEnvVar           = "LOG_LEVEL"
	LogOutputEnvVar          = "LOG_OUTPUT"
	APIPortEnvVar            = "API_PORT"
	CORSAllowedOriginsEnvVar = "CORS_ALLOWED_ORIGINS"
	CORSAllowedMethodsEnvVar = "CORS_ALLOWED_METHODS"
	CORSAllowedHeadersEnvVar = "CORS_ALLOWED_HEADERS"

	MaxRetriesEnvVar     = "TAX_MAX_RETRIES"
	FetchTimeoutEnvVar   = "TAX_FETCH_TIMEOUT"
	CacheTTLEnvVar       = "TAX_CACHE_TTL"
	InitialBackoffEnvVar = "TAX_INITIAL_BACKOFF"
	MaxBackoffEnvVar     = "TAX_MAX_BACKOFF"
	UserAgentEnvVar      = "TAX_USER_AGENT"
	SourcesFileEnvVar    = "TAX_SOURCES_FILE"
	RateLimitEnvVar      = "TAX_API_RATE_LIMIT"
	APIBaseURLEnvVar     = "TAX_API_URL"
)
