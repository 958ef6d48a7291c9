package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/drainplan/pkg/cache"
	"github.com/matzehuels/drainplan/pkg/estimate"
	"github.com/matzehuels/drainplan/pkg/network"
	"github.com/matzehuels/drainplan/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different inputs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// cachedArtifact is the cache payload: the artifact and the warnings of the
// build that produced it.
type cachedArtifact struct {
	Data     []byte            `json:"data"`
	Warnings []network.Warning `json:"warnings,omitempty"`
}

// Execute produces every artifact opts selects for in.
func (r *Runner) Execute(ctx context.Context, in *Input, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8], "file", in.Name())
	opts.Network.Logger = logger
	customer := opts.Customer
	if customer == "" {
		customer = in.Base()
	}

	kinds := opts.kinds()
	keys := make(map[string]string, len(kinds))
	var missing []string
	for _, kind := range kinds {
		keys[kind] = r.Keyer.ArtifactKey(in.Hash(), opts.ArtifactKeyOpts(kind, customer))
		if opts.Refresh {
			missing = append(missing, kind)
			continue
		}
		entry, ok := r.lookup(ctx, kind, keys[kind])
		if !ok {
			missing = append(missing, kind)
			continue
		}
		result.Artifacts = append(result.Artifacts, Artifact{Kind: kind, Format: opts.format(kind), Data: entry.Data, Cached: true})
		result.Warnings = entry.Warnings
		result.Stats.CacheHits++
	}

	if len(missing) == 0 {
		logger.Info("all artifacts cached", "artifacts", len(result.Artifacts))
		return result, nil
	}

	buildStart := time.Now()
	net, err := r.Build(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	result.Network = net
	result.Warnings = net.Warnings
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = net.Len()

	renderStart := time.Now()
	for _, kind := range missing {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, err := r.render(ctx, net, kind, customer, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", kind, err)
		}
		result.Artifacts = append(result.Artifacts, a)
		r.store(ctx, kind, keys[kind], cachedArtifact{Data: a.Data, Warnings: net.Warnings})
	}
	result.Stats.RenderTime = time.Since(renderStart)

	if opts.Estimate {
		q := net.Takeoff()
		result.Stats.PipeLength = q.PipeLength()
		result.Stats.PartCount = q.PartCount()
	}

	logger.Info("rendered outputs",
		"artifacts", len(result.Artifacts),
		"cached", result.Stats.CacheHits,
		"warnings", len(result.Warnings),
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Build parses and levels the network described by in and resolves its
// label angles. Warnings are recorded on the returned network; a failed
// label resolution is a warning, not an error.
func (r *Runner) Build(ctx context.Context, in *Input, opts Options) (*network.Network, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Network.Logger == nil {
		opts.Network.Logger = r.Logger
	}
	hooks := observability.Pipeline()

	hooks.OnBuildStart(ctx, in.Name())
	start := time.Now()
	net, err := network.Read(in.Name(), bytes.NewReader(in.Source), opts.Network)
	if err != nil {
		hooks.OnBuildComplete(ctx, in.Name(), 0, 0, time.Since(start), err)
		return nil, fmt.Errorf("build: %w", err)
	}
	buildTime := time.Since(start)
	hooks.OnBuildComplete(ctx, in.Name(), net.Len(), len(net.Warnings), buildTime, nil)
	opts.Network.Logger.Info("built network", "nodes", net.Len(), "scale", net.Scale, "duration", buildTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	resolved := net.ResolveLabels()
	hooks.OnResolveComplete(ctx, in.Name(), resolved, time.Since(start))
	return net, nil
}

func (r *Runner) render(ctx context.Context, net *network.Network, kind, customer string, opts Options) (Artifact, error) {
	format := opts.format(kind)
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, kind, format)
	start := time.Now()

	var data []byte
	var err error
	switch kind {
	case cache.KindDrawing:
		data, err = RenderDrawing(ctx, net, format, opts.PNGScale)
	case cache.KindEstimate:
		data, err = RenderEstimate(net, customer, estimate.Format(format), estimate.NewPriceBook(opts.Prices))
	case cache.KindTopology:
		data, err = RenderTopology(ctx, net, format, opts.Detailed, opts.PNGScale)
	default:
		err = fmt.Errorf("unknown artifact kind %q", kind)
	}
	hooks.OnRenderComplete(ctx, kind, format, len(data), time.Since(start), err)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Kind: kind, Format: format, Data: data}, nil
}

func (r *Runner) lookup(ctx context.Context, kind, key string) (cachedArtifact, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, kind)
		return cachedArtifact{}, false
	}
	var entry cachedArtifact
	if err := json.Unmarshal(data, &entry); err != nil {
		hooks.OnCacheMiss(ctx, kind)
		return cachedArtifact{}, false
	}
	hooks.OnCacheHit(ctx, kind)
	return entry, true
}

func (r *Runner) store(ctx context.Context, kind, key string, entry cachedArtifact) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl(kind)); err != nil {
		r.Logger.Debug("cache write failed", "kind", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

func ttl(kind string) time.Duration {
	switch kind {
	case cache.KindEstimate:
		return cache.TTLEstimate
	case cache.KindTopology:
		return cache.TTLTopology
	}
	return cache.TTLDrawing
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
