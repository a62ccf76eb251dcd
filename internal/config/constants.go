package config

// Application constants
const (
	AppName    = "salesreg"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. SALESREG_LOGGING_LEVEL
	EnvPrefix = "SALESREG"

	DefaultLogLevel = "info"
	DefaultLogFile  = "logs/salesreg.log"

	DefaultPreviewRows       = 3
	DefaultMaxConcurrentRuns = 4

	DefaultServerAddr     = ":8080"
	DefaultMaxUploadBytes = 32 << 20 // 32MB
	DefaultStoreFile      = "data/runs.db"

	// Rate limiting
	DefaultRateLimit = 5 // requests per second
	DefaultBurstSize = 10
)

// API endpoints
const (
	APIBasePath         = "/api/v1"
	RegressionsEndpoint = APIBasePath + "/regressions"
	EventsEndpoint      = APIBasePath + "/events"
	HealthEndpoint      = "/api/health"
	MetricsEndpoint     = "/metrics"
)

// DefaultConfigLocations are searched in order when no config file is given
var DefaultConfigLocations = []string{
	"salesreg.yaml",
	"configs/salesreg.yaml",
}
