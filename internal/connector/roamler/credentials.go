package roamler

import "os"

const defaultBaseURL = "https://api-customer.roamler.com"

// CredentialProvider supplies the API base URL and key for each call. The
// client asks the provider fresh on every request instead of caching values
// at construction time: hosting environments can inject secrets after
// process start, and a key that becomes valid mid-session must take effect
// without a restart.
type CredentialProvider interface {
	BaseURL() string
	APIKey() string
}

// EnvCredentials reads credentials from the environment on every call.
type EnvCredentials struct{}

// BaseURL returns ROAMLER_API_BASE_URL or the production default.
func (EnvCredentials) BaseURL() string {
	if v := os.Getenv("ROAMLER_API_BASE_URL"); v != "" {
		return v
	}
	return defaultBaseURL
}

// APIKey returns ROAMLER_API_KEY, empty when not configured.
func (EnvCredentials) APIKey() string {
	return os.Getenv("ROAMLER_API_KEY")
}

// StaticCredentials holds fixed values, used by tests and one-shot tools.
type StaticCredentials struct {
	URL string
	Key string
}

func (s StaticCredentials) BaseURL() string { return s.URL }
func (s StaticCredentials) APIKey() string  { return s.Key }
