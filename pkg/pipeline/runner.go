package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/lightning/pkg/cache"
	"github.com/matzehuels/lightning/pkg/infill"
	"github.com/matzehuels/lightning/pkg/observability"
	"github.com/matzehuels/lightning/pkg/slice"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	stack, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stack = stack
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.LayerCount = len(stack)

	if stackData, err := slice.Marshal(stack); err == nil {
		result.StackHash = cache.Hash(stackData)
	}

	r.Logger.Info("loaded stack",
		"layers", len(stack),
		"duration", result.Stats.LoadTime)

	// Stage 2: Generate
	generateStart := time.Now()
	layers, generateHit, err := r.GenerateWithCacheInfo(ctx, stack, result.StackHash, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Layers = layers
	result.Stats.GenerateTime = time.Since(generateStart)
	result.CacheInfo.GenerateHit = generateHit
	for _, layer := range layers {
		result.Stats.TreeCount += len(layer.Trees)
		result.Stats.LineCount += len(layer.Lines)
	}

	r.Logger.Info("generated infill",
		"layers", len(layers),
		"lines", result.Stats.LineCount,
		"cached", generateHit,
		"duration", result.Stats.GenerateTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, stack, layers, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and validates the slice stack named by the options.
func (r *Runner) Load(ctx context.Context, opts Options) (slice.Stack, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	source := opts.Input
	if opts.Stack != nil {
		source = "inline"
	}
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, source)

	var stack slice.Stack
	var err error
	if opts.Stack != nil {
		stack, err = opts.Stack, opts.Stack.Validate()
	} else {
		stack, err = slice.ReadFile(opts.Input)
	}
	observability.Pipeline().OnLoadComplete(ctx, source, len(stack), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return stack, nil
}

// GenerateWithCacheInfo grows the infill with caching and returns cache hit info.
// Cached entries carry the printable lines only; outputs that need the
// tree structure bypass the cache.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, stack slice.Stack, stackHash string, opts Options) ([]infill.LayerResult, bool, error) {
	cacheKey := r.Keyer.LayersKey(stackHash, opts.LayersKeyOpts())

	if !opts.Refresh && !opts.NeedsTrees() && stackHash != "" {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var layers []infill.LayerResult
			if err := json.Unmarshal(data, &layers); err == nil && len(layers) == len(stack) {
				observability.Cache().OnCacheHit(ctx, "layers")
				return layers, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layers")
	}

	gen, err := infill.NewGenerator(opts.InfillParams())
	if err != nil {
		return nil, false, err
	}
	gen.Logger = r.Logger
	layers, err := gen.Generate(ctx, stack)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if !opts.Refresh && stackHash != "" {
		if data, err := json.Marshal(layers); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayers)
			observability.Cache().OnCacheSet(ctx, "layers", len(data))
		}
	}

	return layers, false, nil // Cache miss
}

// Generate is a convenience wrapper that calls GenerateWithCacheInfo and discards the cache hit info.
func (r *Runner) Generate(ctx context.Context, stack slice.Stack, opts Options) ([]infill.LayerResult, error) {
	layers, _, err := r.GenerateWithCacheInfo(ctx, stack, "", opts)
	return layers, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, stack slice.Stack, layers []infill.LayerResult, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the generated lines
	layersData, err := json.Marshal(layers)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layers for cache key: %w", err)
	}
	layersHash := cache.Hash(layersData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layersHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := renderFormats(ctx, stack, layers, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layersHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, stack slice.Stack, layers []infill.LayerResult, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, stack, layers, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
