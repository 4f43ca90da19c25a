package tpdb

import (
	"context"
	"time"
)

// Client is the interface for reading the TPDB catalog and statistics service.
type Client interface {
	// LoadBaseItems fetches every reference table and returns a frozen catalog.
	LoadBaseItems(ctx context.Context) (*Catalog, error)
	Integrations(ctx context.Context, q Query) (IntegrationsResult, error)
	// Statistics returns rows of [consumer, producer, logicalAddress, contract, calls].
	Statistics(ctx context.Context, q Query) ([][]int, error)
	History(ctx context.Context, q Query) (map[string]int, error)
}

// Config holds the connection settings for TPDB.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// NewClient creates a new TPDB client based on the provided configuration.
func NewClient(cfg Config) Client {
	return NewHTTPClient(cfg)
}
