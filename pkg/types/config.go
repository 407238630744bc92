package types

import "time"

// HTTPConfig holds shared HTTP settings for requests to E-utilities.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "get-papers-list/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Fetch defaults. NCBI caps ESearch retmax at 10000 and recommends at most
// a few hundred IDs per EFetch; 100 keeps URLs short enough for GET.
const (
	DefaultMaxResults    = 20
	DefaultBatchSize     = 100
	DefaultOvershoot     = 5
	DefaultSearchCap     = 10000
	DefaultMaxRetries    = 3
	DefaultTool          = "get-papers-list"
	RequestsPerSecond    = 3
	RequestsPerSecondKey = 10
)

// FetchConfig holds settings for the fetch-and-classify pipeline.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the E-utilities root (default https://eutils.ncbi.nlm.nih.gov/entrez/eutils).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is an optional NCBI API key that raises the request-rate ceiling.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Email is sent with each request as NCBI asks tools to identify themselves.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Tool is the registered tool name sent with each request.
	Tool string `json:"tool" yaml:"tool"`

	// BatchSize is the number of PMIDs per EFetch request (default 100).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Overshoot multiplies the result cap to size the ESearch request (default 5).
	Overshoot int `json:"overshoot" yaml:"overshoot"`

	// SearchCap is the largest retmax ESearch accepts (default 10000).
	SearchCap int `json:"search_cap" yaml:"search_cap"`

	// MaxRetries bounds retries on HTTP 429/503 responses (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RateLimit is the request rate in requests per second. Zero selects
	// 3 without an API key and 10 with one.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`
}

// WithDefaults returns a copy of c with zero fields replaced by defaults.
func (c FetchConfig) WithDefaults() FetchConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.Overshoot <= 0 {
		c.Overshoot = DefaultOvershoot
	}
	if c.SearchCap <= 0 {
		c.SearchCap = DefaultSearchCap
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.Tool == "" {
		c.Tool = DefaultTool
	}
	if c.RateLimit <= 0 {
		c.RateLimit = RequestsPerSecond
		if c.APIKey != "" {
			c.RateLimit = RequestsPerSecondKey
		}
	}
	return c
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is "console" (default) or "json".
	Format string `json:"format" yaml:"format"`
}
