package tpdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// HTTPClient talks to the TPDB REST API.
type HTTPClient struct {
	cfg        Config
	httpClient *http.Client

	integrations *queryCache[IntegrationsResult]
	statistics   *queryCache[[][]int]
	history      *queryCache[map[string]int]
}

// NewHTTPClient applies defaults to cfg and returns a ready client.
func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if !strings.HasSuffix(cfg.BaseURL, "/") {
		cfg.BaseURL += "/"
	}
	return &HTTPClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		integrations: newQueryCache[IntegrationsResult]("integrations", cfg.CacheTTL),
		statistics:   newQueryCache[[][]int]("statistics", cfg.CacheTTL),
		history:      newQueryCache[map[string]int]("history", cfg.CacheTTL),
	}
}

// getJSON performs a GET against path (relative to the base URL) and decodes the answer into out.
func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	url := c.cfg.BaseURL + path
	log.Debug().Str("url", url).Msg("TPDB request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("TPDB resource %s not found", path)
		case http.StatusTooManyRequests:
			retryAfter := resp.Header.Get("Retry-After")
			if retryAfter != "" {
				return fmt.Errorf("TPDB rate limit exceeded (429), retry after %s seconds", retryAfter)
			}
			return fmt.Errorf("TPDB rate limit exceeded (429)")
		default:
			return fmt.Errorf("TPDB returned status %d for %s", resp.StatusCode, path)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// LoadBaseItems fetches all reference tables in parallel. The catalog is only
// assembled once every fetch has succeeded; the first failure cancels the rest.
func (c *HTTPClient) LoadBaseItems(ctx context.Context) (*Catalog, error) {
	var (
		dates     datesDTO
		domains   []ServiceDomain
		contracts []ServiceContract
		comps     []Component
		addresses []LogicalAddressItem
		platforms []Platform
		chains    []platformChainDTO
		statPlats []StatisticsPlatform
	)

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(path string, out any) {
		g.Go(func() error {
			return c.getJSON(gctx, path, out)
		})
	}
	fetch("dates", &dates)
	fetch("domains", &domains)
	fetch("contracts", &contracts)
	fetch("components", &comps)
	fetch("logicalAddress", &addresses)
	fetch("plattforms", &platforms)
	fetch("plattformChains", &chains)
	fetch("statPlattforms", &statPlats)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load base items: %w", err)
	}

	cat := NewCatalog()
	cat.Dates = dates.Dates
	pcs := make([]PlatformChainItem, len(chains))
	for i, dto := range chains {
		pcs[i] = dto.toChain()
	}

	// A fresh catalog is never frozen, so these cannot fail.
	_ = cat.AddDomains(domains...)
	_ = cat.AddContracts(contracts...)
	_ = cat.AddComponents(comps...)
	_ = cat.AddLogicalAddresses(addresses...)
	_ = cat.AddPlatforms(platforms...)
	_ = cat.AddPlatformChains(pcs...)
	_ = cat.AddStatisticsPlatforms(statPlats...)
	_ = cat.AttachContractsToDomains()
	cat.Freeze()

	log.Info().Interface("counts", cat.Counts()).Int("integrationDates", len(cat.Dates.Integrations)).Msg("Base items loaded")
	return cat, nil
}

// Integrations fetches the integrations matching q.
func (c *HTTPClient) Integrations(ctx context.Context, q Query) (IntegrationsResult, error) {
	return c.integrations.fetch(q, func() (IntegrationsResult, error) {
		var dto integrationsDTO
		if err := c.getJSON(ctx, "integrations?"+q.Values().Encode(), &dto); err != nil {
			return IntegrationsResult{}, err
		}
		res, err := dto.decode()
		if err != nil {
			return IntegrationsResult{}, fmt.Errorf("failed to decode integrations: %w", err)
		}
		return res, nil
	})
}

// Statistics fetches raw call counts matching q.
func (c *HTTPClient) Statistics(ctx context.Context, q Query) ([][]int, error) {
	return c.statistics.fetch(q, func() ([][]int, error) {
		var dto statisticsDTO
		if err := c.getJSON(ctx, "statistics?"+q.Values().Encode(), &dto); err != nil {
			return nil, err
		}
		return dto.Statistics, nil
	})
}

// History fetches the calls-per-date series matching q.
func (c *HTTPClient) History(ctx context.Context, q Query) (map[string]int, error) {
	return c.history.fetch(q, func() (map[string]int, error) {
		var dto historyDTO
		if err := c.getJSON(ctx, "history?"+q.Values().Encode(), &dto); err != nil {
			return nil, err
		}
		return dto.History, nil
	})
}
