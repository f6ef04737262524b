package publish

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"soundstage.systems/foleydeck/pkg/cos"
)

const defaultWorkers = 4

// Signer produces serving URLs for object keys. *cos.Client satisfies it.
type Signer interface {
	SignURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	PublicURL(key string) string
}

// Resolver turns object keys into serving URLs, presigned when Sign is
// set. Signing failures fall back to the public URL with a warning.
type Resolver struct {
	Signer  Signer
	Sign    bool
	TTL     time.Duration // defaults to cos.DefaultSignTTL
	Workers int           // signing pool size, defaults to 4
}

// ResolveStats counts how each URL was produced.
type ResolveStats struct {
	Signed   int
	Public   int
	Fallback int
}

// Resolve maps every name in m to a URL. Signing runs on a bounded worker
// pool; the only terminal error is context cancellation.
func (r *Resolver) Resolve(ctx context.Context, m Mapping) (map[string]string, *ResolveStats, error) {
	urls := make(map[string]string, len(m))
	stats := &ResolveStats{}

	if !r.Sign {
		for name, key := range m {
			urls[name] = r.Signer.PublicURL(key)
			stats.Public++
		}
		return urls, stats, nil
	}

	ttl := r.TTL
	if ttl <= 0 {
		ttl = cos.DefaultSignTTL
	}
	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for name, key := range m {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			signed, err := r.Signer.SignURL(ctx, key, ttl)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				slog.Warn("signing failed, falling back to public url", "key", key, "error", err)
				urls[name] = r.Signer.PublicURL(key)
				stats.Fallback++
				return nil
			}
			urls[name] = signed
			stats.Signed++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return urls, stats, nil
}
