// Package pipeline provides the core generation pipeline for Lightning.
//
// This package implements the complete load → generate → render pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and validate a slice stack (layer outlines, bottom-up)
//  2. Generate: Grow lightning infill trees across the stack, top-down
//  3. Render: Emit output in various formats (SVG, DOT, JSON, G-code)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:   "benchy.json",
//	    Formats: []string{"svg", "gcode"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	stack, err := runner.Load(ctx, opts)
//
//	// Generate with an existing stack
//	layers, err := runner.Generate(ctx, stack, opts)
//
//	// Render existing layers
//	artifacts, err := runner.Render(ctx, layers, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lightning/pkg/cache"
	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/infill"
	"github.com/matzehuels/lightning/pkg/slice"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultPreviewWidth is the default preview width in pixels.
	DefaultPreviewWidth = 800

	// DefaultPreviewLayer selects the layer drawn by the svg and dot
	// formats when none is given. Negative values count from the top.
	DefaultPreviewLayer = 0
)

// Format constants for output formats.
const (
	FormatSVG   = "svg"
	FormatDOT   = "dot"
	FormatJSON  = "json"
	FormatGcode = "gcode"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatDOT:   true,
	FormatJSON:  true,
	FormatGcode: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the generation pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Exactly one of Input or Stack must be set; Stack
	// wins when both are.
	Input string      `json:"input,omitempty"`
	Stack slice.Stack `json:"stack,omitempty"`

	// Generation options, micrometers. Zero values take the infill
	// package defaults.
	LineWidth              int64 `json:"line_width,omitempty"`
	SupportingRadius       int64 `json:"supporting_radius,omitempty"`
	PruneLength            int64 `json:"prune_length,omitempty"`
	StraighteningMagnitude int64 `json:"straightening_magnitude,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Layer     int      `json:"layer,omitempty"` // layer index for svg/dot; negative counts from the top
	Width     int      `json:"width,omitempty"`
	ShowTrees bool     `json:"show_trees,omitempty"`

	// G-code options, millimeters.
	LayerHeight      float64 `json:"layer_height,omitempty"`
	ExtrusionWidth   float64 `json:"extrusion_width,omitempty"`
	FilamentDiameter float64 `json:"filament_diameter,omitempty"`
	PrintSpeed       float64 `json:"print_speed,omitempty"`
	TravelSpeed      float64 `json:"travel_speed,omitempty"`

	// Refresh bypasses cached generation results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline run.
	RunID string

	// Stack is the loaded input stack.
	Stack slice.Stack

	// StackHash is the content hash of the input stack.
	StackHash string

	// Layers is the generated output, indexed like the stack.
	Layers []infill.LayerResult

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayerCount   int
	TreeCount    int
	LineCount    int
	LoadTime     time.Duration
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit bool // Whether generated layers came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, dot, json, gcode)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" && o.Stack == nil {
		return fmt.Errorf("input path or stack is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultPreviewWidth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// InfillParams converts the generation options to infill tuning.
func (o *Options) InfillParams() infill.Params {
	return infill.Params{
		LineWidth:              geom.Coord(o.LineWidth),
		SupportingRadius:       geom.Coord(o.SupportingRadius),
		PruneLength:            geom.Coord(o.PruneLength),
		StraighteningMagnitude: geom.Coord(o.StraighteningMagnitude),
	}
}

// NeedsTrees reports whether any requested output depends on tree
// structure rather than just the printable lines. Cached generation
// results carry lines only, so these outputs force regeneration.
func (o *Options) NeedsTrees() bool {
	return o.ShowTrees || slices.Contains(o.Formats, FormatDOT)
}

// PreviewLayer resolves the layer index for svg/dot output against the
// actual layer count. Negative values count from the top.
func (o *Options) PreviewLayer(layerCount int) (int, error) {
	idx := o.Layer
	if idx < 0 {
		idx = layerCount + idx
	}
	if idx < 0 || idx >= layerCount {
		return 0, fmt.Errorf("layer %d out of range (stack has %d layers)", o.Layer, layerCount)
	}
	return idx, nil
}

// LayersKeyOpts returns cache key options for generation.
func (o *Options) LayersKeyOpts() cache.LayersKeyOpts {
	params := o.InfillParams()
	// Defaults resolved first so explicit and implied values share keys.
	_ = params.ValidateAndSetDefaults()
	return cache.LayersKeyOpts{
		LineWidth:              int64(params.LineWidth),
		SupportingRadius:       int64(params.SupportingRadius),
		PruneLength:            int64(params.PruneLength),
		StraighteningMagnitude: int64(params.StraighteningMagnitude),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Layer:  o.Layer,
		Width:  o.Width,
	}
}
