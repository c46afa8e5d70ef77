package providers

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

// DefaultConnectTimeout bounds connection establishment for clients built by
// NewHTTPClient.
var DefaultConnectTimeout = 30 * time.Second

// ProviderError represents an error returned by an LLM provider API.
type ProviderError struct {
	statusCode int
	body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider api error (status %d): %s", e.statusCode, e.body)
}

func (e *ProviderError) StatusCode() int {
	return e.statusCode
}

func (e *ProviderError) Body() string {
	return e.body
}

// Retryable reports whether a caller-side retry could succeed. Adapters never
// retry themselves.
func (e *ProviderError) Retryable() bool {
	return shouldRetry(e.statusCode)
}

// NewError creates a new ProviderError.
func NewError(statusCode int, body string) error {
	return &ProviderError{statusCode: statusCode, body: body}
}

func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || // 429
		statusCode == http.StatusInternalServerError || // 500
		statusCode == http.StatusServiceUnavailable || // 503
		statusCode == http.StatusGatewayTimeout || // 504
		statusCode == 520 // Cloudflare
}

// NewHTTPClient returns a client whose dial and TLS handshake are bounded by
// connectTimeout. There is no overall request timeout, since streams may run
// for as long as the provider keeps sending; the request context governs the
// rest.
func NewHTTPClient(connectTimeout time.Duration) *http.Client {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = connectTimeout
	return &http.Client{Transport: transport}
}

// Getenv returns the value of the first environment variable that is set.
func Getenv(names ...string) string {
	for _, name := range names {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}
