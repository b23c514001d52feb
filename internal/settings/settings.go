package settings

// Settings is the service configuration read from the settings file.
type Settings struct {
	App           App           `yaml:"app"`
	API           API           `yaml:"api"`
	Truths        Truths        `yaml:"truths"`
	Selection     Selection     `yaml:"selection"`
	RateLimit     RateLimit     `yaml:"rate_limit"`
	Headers       Headers       `yaml:"headers"`
	Errors        Errors        `yaml:"errors"`
	CORS          CORS          `yaml:"cors"`
	Observability Observability `yaml:"observability"`
}

type App struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	// BaseURL prefixes shareable links encoded in QR codes. Empty uses the request host.
	BaseURL string `yaml:"base_url"`
}

type API struct {
	Endpoints          Endpoints          `yaml:"endpoints"`
	ContentNegotiation ContentNegotiation `yaml:"content_negotiation"`
	// AdminReload enables POST /admin/reload.
	AdminReload bool `yaml:"admin_reload"`
	// AdminReloadIntervalSeconds is the minimum spacing between reloads.
	AdminReloadIntervalSeconds int `yaml:"admin_reload_interval_seconds"`
}

type Endpoints struct {
	Root   string `yaml:"root"`
	Truth  string `yaml:"truth"`
	Health string `yaml:"health"`
}

type ContentNegotiation struct {
	// PlainTextAccept selects a text/plain truth when the Accept header contains it.
	PlainTextAccept string `yaml:"plain_text_accept"`
	// HTMLAccept selects the HTML truth page when the Accept header contains it.
	HTMLAccept string `yaml:"html_accept"`
}

// Truth sources.
const (
	SourceFile  = "file"
	SourceRedis = "redis"
)

type Truths struct {
	Source     string          `yaml:"source"`
	Path       string          `yaml:"path"`
	RedisKey   string          `yaml:"redis_key"`
	Validation TruthValidation `yaml:"validation"`
}

type TruthValidation struct {
	MinCount        int      `yaml:"min_count"`
	AllowedWeights  []string `yaml:"allowed_weights"`
	NormalizeTruths bool     `yaml:"normalize_truths"`
}

type Selection struct {
	// Seed makes selection reproducible when non-zero.
	Seed uint64 `yaml:"seed"`
	// DayWeightTable maps an English weekday name to weight per level.
	DayWeightTable map[string]map[string]float64 `yaml:"day_weight_table"`
}

type RateLimit struct {
	RequestsPerPeriod int      `yaml:"requests_per_period"`
	PeriodSeconds     int      `yaml:"period_seconds"`
	KeyStrategy       string   `yaml:"key_strategy"`
	ExemptRoutes      []string `yaml:"exempt_routes"`
	// TrustProxyHeaders derives the client address from forwarding headers.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers"`
	// CleanupIntervalSeconds controls eviction of idle client windows.
	CleanupIntervalSeconds int `yaml:"cleanup_interval_seconds"`
}

type Headers struct {
	CacheControl string            `yaml:"cache_control"`
	Vary         string            `yaml:"vary"`
	Security     map[string]string `yaml:"security"`
}

type Errors struct {
	FieldNames     FieldNames     `yaml:"field_names"`
	StatusMappings StatusMappings `yaml:"status_mappings"`
}

// FieldNames renames the keys of the error payload.
type FieldNames struct {
	Error             string `yaml:"error"`
	Message           string `yaml:"message"`
	RequestID         string `yaml:"request_id"`
	RetryAfterSeconds string `yaml:"retry_after_seconds"`
}

// StatusMappings assigns an HTTP status to each error kind.
type StatusMappings struct {
	RateLimited      int `yaml:"rate_limited"`
	NotFound         int `yaml:"not_found"`
	NoCandidates     int `yaml:"no_candidates"`
	MethodNotAllowed int `yaml:"method_not_allowed"`
	NotAcceptable    int `yaml:"not_acceptable"`
	ReloadThrottled  int `yaml:"reload_throttled"`
	Internal         int `yaml:"internal"`
}

type CORS struct {
	Enabled          bool     `yaml:"enabled"`
	AllowOrigins     []string `yaml:"allow_origins"`
	AllowMethods     []string `yaml:"allow_methods"`
	AllowHeaders     []string `yaml:"allow_headers"`
	ExposeHeaders    []string `yaml:"expose_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAgeSeconds    int      `yaml:"max_age_seconds"`
}

type Observability struct {
	Logging Logging `yaml:"logging"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
