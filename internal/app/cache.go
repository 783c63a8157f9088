package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"hbnb_web/internal/domain"
)

// sharedFetchTimeout bounds a collapsed fetch once it no longer follows
// the caller's cancellation.
const sharedFetchTimeout = 15 * time.Second

// cached serves key from c when warm, otherwise runs fetch once per key
// across concurrent callers and stores the result. A nil cache disables
// storage but keeps call collapsing. The shared fetch is detached from the
// first caller's cancellation; each caller stops waiting on its own ctx.
func cached[T any](ctx context.Context, c domain.Cache, sf *singleflight.Group, key string, ttlSec int, fetch func(context.Context) (T, error)) (T, error) {
	var out T
	if c != nil {
		if ok, err := c.Get(ctx, key, &out); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("cache get failed")
		} else if ok {
			return out, nil
		}
	}

	ch := sf.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		res, err := fetch(fctx)
		if err != nil {
			return res, err
		}
		if c != nil && ttlSec > 0 {
			if err := c.Set(fctx, key, res, ttlSec); err != nil {
				log.Debug().Err(err).Str("key", key).Msg("cache set failed")
			}
		}
		return res, nil
	})
	select {
	case <-ctx.Done():
		return out, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return out, r.Err
		}
		return r.Val.(T), nil
	}
}

func invalidate(ctx context.Context, c domain.Cache, keys ...string) {
	if c == nil {
		return
	}
	for _, k := range keys {
		if err := c.Del(ctx, k); err != nil {
			log.Debug().Err(err).Str("key", k).Msg("cache del failed")
		}
	}
}

// tokenDigest keys per-user entries without putting the token in Redis keys.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

func placesKey(token string) string { return "places:" + tokenDigest(token) }
func placeKey(id string) string     { return "place:" + id }
func reviewsKey(id string) string   { return "reviews:" + id }
func ownerKey(id string) string     { return "owner:" + id }

const amenitiesKey = "amenities"
