package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lightning/pkg/pipeline"
)

// optionsFromFlags collects the flag-settable generation options before
// they are folded into pipeline.Options. Keeping them separate lets the
// config file fill in anything the user did not pass on the command line.
type optionsFromFlags struct {
	lineWidth        int64
	supportingRadius int64
	pruneLength      int64
	straightening    int64

	layerHeight      float64
	extrusionWidth   float64
	filamentDiameter float64
	printSpeed       float64
	travelSpeed      float64
}

// registerInfillFlags adds the shared infill parameter flags to cmd.
func registerInfillFlags(cmd *cobra.Command, f *optionsFromFlags) {
	cmd.Flags().Int64Var(&f.lineWidth, "line-width", 0, "infill line width in um (default 400)")
	cmd.Flags().Int64Var(&f.supportingRadius, "supporting-radius", 0, "radius each node supports in um (default 5x line width)")
	cmd.Flags().Int64Var(&f.pruneLength, "prune-length", 0, "tail length pruned per layer in um")
	cmd.Flags().Int64Var(&f.straightening, "smooth", 0, "straightening magnitude per layer in um")
}

// generateCommand creates the generate command, the main entry point of the CLI.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		flags      optionsFromFlags
		formatsStr string
		output     string
		configPath string
		noCache    bool
		refresh    bool
		showTrees  bool
		progress   bool
		layer      int
		width      int
	)

	cmd := &cobra.Command{
		Use:   "generate [stack.json]",
		Short: "Generate infill paths for a sliced stack",
		Long: `Generate infill paths for a sliced stack.

The generate command reads a stack file (layer outlines with Z heights),
grows the supporting trees from the top layer down, and writes the
resulting paths in one or more output formats.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			applyConfig(&flags, cfg)

			opts := pipeline.Options{
				Input:                  args[0],
				Formats:                parseFormats(formatsStr),
				Layer:                  layer,
				Width:                  width,
				ShowTrees:              showTrees,
				Refresh:                refresh,
				LineWidth:              flags.lineWidth,
				SupportingRadius:       flags.supportingRadius,
				PruneLength:            flags.pruneLength,
				StraighteningMagnitude: flags.straightening,
				LayerHeight:            flags.layerHeight,
				ExtrusionWidth:         flags.extrusionWidth,
				FilamentDiameter:       flags.filamentDiameter,
				PrintSpeed:             flags.printSpeed,
				TravelSpeed:            flags.travelSpeed,
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), cfg, opts, output, noCache, progress)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVar(&progress, "progress", false, "show per-layer progress UI")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, gcode (comma-separated)")

	// Render flags
	cmd.Flags().IntVar(&layer, "layer", 0, "layer index for svg/dot preview (negative counts from the top)")
	cmd.Flags().IntVar(&width, "width", 0, "preview image width in pixels")
	cmd.Flags().BoolVar(&showTrees, "trees", false, "overlay the tree structure on svg previews")

	registerInfillFlags(cmd, &flags)

	// G-code flags
	cmd.Flags().Float64Var(&flags.layerHeight, "layer-height", 0, "layer height in mm for gcode output")
	cmd.Flags().Float64Var(&flags.extrusionWidth, "extrusion-width", 0, "extrusion width in mm for gcode output")
	cmd.Flags().Float64Var(&flags.filamentDiameter, "filament-diameter", 0, "filament diameter in mm for gcode output")
	cmd.Flags().Float64Var(&flags.printSpeed, "print-speed", 0, "print speed in mm/s for gcode output")
	cmd.Flags().Float64Var(&flags.travelSpeed, "travel-speed", 0, "travel speed in mm/s for gcode output")

	return cmd
}

// runGenerate executes the full pipeline and writes the artifacts.
func (c *CLI) runGenerate(ctx context.Context, cfg *Config, opts pipeline.Options, output string, noCache, progress bool) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	var result *pipeline.Result
	if progress {
		result, err = runWithProgress(ctx, runner, opts)
	} else {
		spinner := newSpinnerWithContext(ctx, "Generating infill...")
		spinner.Start()
		result, err = runner.Execute(ctx, opts)
		if err != nil {
			spinner.StopWithError("Generation failed")
			return fmt.Errorf("generate: %w", err)
		}
		spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	prog.done(fmt.Sprintf("Generated %d layers", result.Stats.LayerCount))

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Input,
		output:    output,
		cacheHit:  result.CacheInfo.GenerateHit && result.CacheInfo.RenderHit,
	}); err != nil {
		return err
	}

	printStats(result.Stats.LayerCount, result.Stats.TreeCount, result.Stats.LineCount,
		result.CacheInfo.GenerateHit)
	return nil
}
