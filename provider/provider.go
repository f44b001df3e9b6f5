// Package provider defines the AI provider interface and implementations.
package provider

import (
	"net/http"

	"github.com/ZaguanLabs/codelai"
)

// AIProvider is the interface for generative model backends.
// This is an alias to the main package interface for convenience.
type AIProvider = codelai.AIProvider

// userAgentTransport puts the codelai User-Agent in front of whatever agent
// the SDK already set.
type userAgentTransport struct {
	base  http.RoundTripper
	agent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	agent := t.agent
	if sdk := req.Header.Get("User-Agent"); sdk != "" {
		agent += " " + sdk
	}
	req.Header.Set("User-Agent", agent)
	return t.base.RoundTrip(req)
}

// defaultHTTPClient is used when a provider config carries no client.
func defaultHTTPClient() *http.Client {
	return &http.Client{
		Transport: &userAgentTransport{base: http.DefaultTransport, agent: codelai.UserAgent()},
	}
}
