package tpdb

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// queryCache keeps one TPDB response per distinct Query for ttl.
type queryCache[V any] struct {
	resource string
	items    *cache.Cache
}

func newQueryCache[V any](resource string, ttl time.Duration) *queryCache[V] {
	return &queryCache[V]{
		resource: resource,
		items:    cache.New(ttl, 2*ttl),
	}
}

// fetch returns the cached response for q, or calls load and caches a successful result.
func (c *queryCache[V]) fetch(q Query, load func() (V, error)) (V, error) {
	key := q.cacheKey()
	if v, ok := c.items.Get(key); ok {
		log.Debug().Str("resource", c.resource).Str("query", key).Msg("Cache hit")
		return v.(V), nil
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	c.items.SetDefault(key, v)
	log.Debug().Str("resource", c.resource).Str("query", key).Int("entries", c.items.ItemCount()).Msg("Cached response")
	return v, nil
}

// cacheKey identifies q regardless of map iteration or id order.
func (q Query) cacheKey() string {
	var sb strings.Builder
	sb.WriteString(q.DateEffective)
	sb.WriteByte('|')
	sb.WriteString(q.DateEnd)
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(q.StatTpID))

	types := make([]ItemType, 0, len(q.Selected))
	for t, ids := range q.Selected {
		if len(ids) > 0 {
			types = append(types, t)
		}
	}
	slices.Sort(types)
	for _, t := range types {
		sb.WriteByte('|')
		sb.WriteString(string(t))
		sb.WriteByte('=')
		for i, id := range slices.Sorted(slices.Values(q.Selected[t])) {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(id))
		}
	}
	return sb.String()
}
