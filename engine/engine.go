package engine

import (
	"os"
	"sync"
	"time"

	"github.com/shamspias/pyjamaz"
	"github.com/shamspias/pyjamaz/cache"
	"github.com/shamspias/pyjamaz/candidate"
)

// defaultCacheOnce and defaultCache give the C ABI a process-global
// cache handle it can lazily create on first use and tear down on
// Shutdown, the same one-time-init-then-teardown shape as the bimg
// converter's vipsOnce guarding libvips setup: a sync.Once instead of
// a package-level init() because the cache directory is only known
// once the first request supplies cache_dir.
var (
	defaultCacheOnce sync.Once
	defaultCacheMu   sync.Mutex
	defaultCache     *cache.Cache
)

// DefaultCache lazily opens the shared cache handle used when a
// caller enables caching without managing its own *cache.Cache. Only
// the first call's dir/maxSize take effect until Shutdown; later calls
// return the same handle. Safe to call
// concurrently.
func DefaultCache(dir string, maxSize int64) (*cache.Cache, error) {
	defaultCacheMu.Lock()
	defer defaultCacheMu.Unlock()

	var openErr error
	defaultCacheOnce.Do(func() {
		defaultCache, openErr = cache.Open(dir, maxSize)
	})
	return defaultCache, openErr
}

// Shutdown releases process-global resources, mirroring pyj_cleanup's
// contract. Safe to call multiple times and safe to call even if
// DefaultCache was never used.
func Shutdown() {
	defaultCacheMu.Lock()
	defer defaultCacheMu.Unlock()
	defaultCache = nil
	defaultCacheOnce = sync.Once{}
}

// Optimize is the native entry point: decode-and-normalize, cache
// lookup, generate candidates on a miss, select, cache put whenever a
// candidate is selected, return. Every stage's wall-clock is recorded in
// Timings regardless of which branch (hit/miss/no-cache) is taken.
func Optimize(req Request) Result {
	start := time.Now()
	if err := validate(req); err != nil {
		return Result{Err: err}
	}

	inputBytes, err := resolveInput(req)
	if err != nil {
		return Result{Err: err}
	}

	decodeStart := time.Now()
	reference, originalFormat, err := pyjamaz.Decode(inputBytes)
	decodeNS := time.Since(decodeStart).Nanoseconds()
	if err != nil {
		return Result{Err: err, Timings: Timings{DecodeNS: decodeNS, TotalNS: time.Since(start).Nanoseconds()}}
	}

	var key cache.Key
	haveKey := false
	cacheNS := int64(0)
	if req.Cache != nil {
		cacheStart := time.Now()
		key = cache.DeriveKey(inputBytes, req.MaxBytes, req.MaxDiff, req.Metric, req.Formats)
		haveKey = true
		if entry, ok := req.Cache.Lookup(key); ok {
			cacheNS = time.Since(cacheStart).Nanoseconds()
			hit := candidate.EncodedCandidate{
				Format:  entry.Format,
				Data:    entry.Data,
				Quality: 100,
				Diff:    entry.Diff,
				Passed:  true,
			}
			return Result{
				Selected: &hit,
				CacheHit: true,
				Timings: Timings{
					DecodeNS: decodeNS,
					CacheNS:  cacheNS,
					TotalNS:  time.Since(start).Nanoseconds(),
				},
			}
		}
		cacheNS = time.Since(cacheStart).Nanoseconds()
	}

	genStart := time.Now()
	candidates, diagnostics := candidate.Generate(candidate.Request{
		Reference:      reference,
		OriginalData:   inputBytes,
		OriginalFormat: originalFormat,
		Formats:        req.Formats,
		MaxBytes:       req.MaxBytes,
		MetricTag:      req.Metric,
		Concurrency:    req.Concurrency,
	})
	genNS := time.Since(genStart).Nanoseconds()

	selStart := time.Now()
	selected, reason := candidate.Select(candidates, req.MaxBytes, req.MaxDiff)
	selNS := time.Since(selStart).Nanoseconds()

	if selected != nil && req.Cache != nil && haveKey {
		_ = req.Cache.Put(key, selected.Format, selected.Data, selected.Diff)
	}

	return Result{
		Selected:    selected,
		Candidates:  candidates,
		Diagnostics: diagnostics,
		Reason:      reason,
		Timings: Timings{
			DecodeNS:   decodeNS,
			CacheNS:    cacheNS,
			GenerateNS: genNS,
			SelectNS:   selNS,
			TotalNS:    time.Since(start).Nanoseconds(),
		},
	}
}

func resolveInput(req Request) ([]byte, error) {
	if req.Path != "" {
		data, err := os.ReadFile(req.Path)
		if err != nil {
			return nil, pyjamaz.WrapError(pyjamaz.KindDecode, "read input path", err)
		}
		return data, nil
	}
	return req.Bytes, nil
}
