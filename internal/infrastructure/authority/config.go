package authority

import (
	"fmt"
	"net/url"
	"strings"
)

// Default client settings
const (
	defaultTimeoutSeconds = 10
)

// Config holds the remote pricing authority connection settings
type Config struct {
	// BaseURL is the root of the authority's HTTP API
	BaseURL string
	// Token is the ambient auth credential attached to every request.
	// A per-request credential in the context takes precedence.
	Token string
	// TimeoutSeconds bounds every request. The resolver's fallback path
	// only engages when a hung call eventually fails, so a transport
	// timeout is mandatory; zero selects the default.
	TimeoutSeconds int
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("authority base URL is required")
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid authority base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("authority base URL must be http or https")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("authority timeout cannot be negative")
	}
	return nil
}

// timeoutSeconds returns the effective timeout
func (c *Config) timeoutSeconds() int {
	if c.TimeoutSeconds == 0 {
		return defaultTimeoutSeconds
	}
	return c.TimeoutSeconds
}
