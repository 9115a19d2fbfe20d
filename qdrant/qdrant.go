// Package qdrant implements docqa.VectorStore on a Qdrant server over gRPC.
package qdrant

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
)

// Ports Qdrant listens on by default.
const (
	RESTPort = 6333
	GRPCPort = 6334
)

// Dial connects to the Qdrant server at rawURL.
func Dial(rawURL, apiKey string) (*qdrant.Client, error) {
	config, err := ParseConfig(rawURL, apiKey)
	if err != nil {
		return nil, err
	}
	client, err := qdrant.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant at %s: %w", rawURL, err)
	}
	return client, nil
}

// ParseConfig turns a server URL into a client configuration. A URL naming
// the REST port is redirected to the gRPC port, and https enables TLS.
func ParseConfig(rawURL, apiKey string) (*qdrant.Config, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return nil, fmt.Errorf("invalid qdrant URL %q", rawURL)
	}

	port := GRPCPort
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid qdrant port %q", p)
		}
		if n != RESTPort {
			port = n
		}
	}

	return &qdrant.Config{
		Host:   u.Hostname(),
		Port:   port,
		APIKey: apiKey,
		UseTLS: u.Scheme == "https",
	}, nil
}
