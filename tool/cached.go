package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amandeepsp/khojkar/cache"
	"github.com/amandeepsp/khojkar/logging"
)

// CachedTool decorates a Tool with content-addressed result caching. It
// exposes an identical contract, so a registry entry can be swapped for its
// cached variant without the engine noticing.
//
// The cache key is the tool name plus a canonical JSON serialization of the
// arguments; encoding/json emits map keys in sorted order, so two calls
// with the same arguments in any key order share one entry. Arguments that
// cannot be serialized degrade to a fmt rendering of the map — a weaker but
// stable key — and the degradation is logged rather than failing the call.
type CachedTool struct {
	delegate Tool
	store    cache.Store
	ttl      time.Duration
	logger   logging.Logger
}

// CachedToolOptions configures a CachedTool.
type CachedToolOptions struct {
	// TTL is the entry expiry, defaulting to cache.DefaultTTL (24h).
	TTL time.Duration
	// Logger records cache hits, misses and key degradations.
	Logger logging.Logger
}

// NewCachedTool wraps delegate with caching backed by store.
func NewCachedTool(delegate Tool, store cache.Store, optFns ...func(o *CachedToolOptions)) *CachedTool {
	opts := CachedToolOptions{
		TTL:    cache.DefaultTTL,
		Logger: logging.NewDefaultSlogLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &CachedTool{
		delegate: delegate,
		store:    store,
		ttl:      opts.TTL,
		logger:   opts.Logger,
	}
}

// Name forwards to the delegate.
func (t *CachedTool) Name() string { return t.delegate.Name() }

// Description forwards to the delegate.
func (t *CachedTool) Description() string { return t.delegate.Description() }

// Definition forwards to the delegate.
func (t *CachedTool) Definition() Definition { return t.delegate.Definition() }

// MaxResultLength forwards to the delegate.
func (t *CachedTool) MaxResultLength() int { return t.delegate.MaxResultLength() }

// Call returns the cached result when present, otherwise invokes the
// delegate and stores its result with the configured expiry. Delegate
// errors are never cached. Store read failures count as misses so a broken
// cache degrades to pass-through rather than blocking the tool.
func (t *CachedTool) Call(ctx context.Context, args map[string]any) (string, error) {
	key := t.cacheKey(args)

	value, ok, err := t.store.Get(key)
	if err != nil {
		t.logger.Warn("tool.cache.read_failed", "tool", t.Name(), "error", err.Error())
	} else if ok {
		t.logger.Debug("tool.cache.hit", "tool", t.Name(), "key", key)
		return value, nil
	}

	t.logger.Debug("tool.cache.miss", "tool", t.Name(), "key", key)

	result, err := t.delegate.Call(ctx, args)
	if err != nil {
		return "", err
	}

	if err := t.store.Set(key, result, t.ttl); err != nil {
		t.logger.Warn("tool.cache.write_failed", "tool", t.Name(), "error", err.Error())
	}

	return result, nil
}

func (t *CachedTool) cacheKey(args map[string]any) string {
	serialized, err := json.Marshal(args)
	if err != nil {
		// Known weak point: fall back to a best-effort rendering instead of
		// failing the call. fmt sorts map keys, so the key is still stable.
		t.logger.Warn("tool.cache.key_degraded", "tool", t.Name(), "error", err.Error())
		return fmt.Sprintf("%s:%v", t.Name(), args)
	}
	return fmt.Sprintf("%s:%s", t.Name(), serialized)
}
