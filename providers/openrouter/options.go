package openrouter

import "net/http"

type Option func(*Client)

func WithAPIKey(apiKey string) Option {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(c *Client) {
		c.maxTokens = maxTokens
	}
}

func WithClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithProviderOrder sets the upstream providers OpenRouter should try, in
// order. An empty list lets OpenRouter choose.
func WithProviderOrder(order ...string) Option {
	return func(c *Client) {
		c.providerOrder = order
	}
}

// WithIncludeReasoning controls whether reasoning deltas are requested and
// reported.
func WithIncludeReasoning(include bool) Option {
	return func(c *Client) {
		c.includeReasoning = include
	}
}

func WithSiteURL(siteURL string) Option {
	return func(c *Client) {
		c.siteURL = siteURL
	}
}

func WithSiteName(siteName string) Option {
	return func(c *Client) {
		c.siteName = siteName
	}
}
