package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/pipeline"
	"github.com/matzehuels/lightning/pkg/render"
)

// previewCommand creates the preview command for inspecting a single layer.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags      optionsFromFlags
		output     string
		configPath string
		noCache    bool
		layer      int
		width      int
		trees      bool
		detailed   bool
	)

	cmd := &cobra.Command{
		Use:   "preview [stack.json]",
		Short: "Render one layer of a stack for inspection",
		Long: `Render one layer of a stack for inspection.

By default the preview shows the layer outlines and infill paths as SVG.
With --trees the tree structure is rendered as a graphviz diagram instead,
which is useful for debugging how nodes reconnect between layers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			applyConfig(&flags, cfg)

			opts := pipeline.Options{
				Input:                  args[0],
				Layer:                  layer,
				Width:                  width,
				ShowTrees:              true,
				LineWidth:              flags.lineWidth,
				SupportingRadius:       flags.supportingRadius,
				PruneLength:            flags.pruneLength,
				StraighteningMagnitude: flags.straightening,
			}
			return c.runPreview(cmd.Context(), cfg, opts, output, noCache, trees, detailed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default derived from input)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&layer, "layer", 0, "layer index (negative counts from the top)")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels")
	cmd.Flags().BoolVar(&trees, "trees", false, "render the tree structure as a graphviz diagram")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include coordinates in the tree diagram")

	registerInfillFlags(cmd, &flags)

	return cmd
}

// runPreview generates the stack and renders the selected layer.
func (c *CLI) runPreview(ctx context.Context, cfg *Config, opts pipeline.Options, output string, noCache, trees, detailed bool) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Loading stack...")
	spinner.Start()

	stack, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("preview: %w", err)
	}
	spinner.UpdateMessage("Generating layers...")
	layers, err := runner.Generate(ctx, stack, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return fmt.Errorf("preview: %w", err)
	}
	spinner.Stop()

	idx, err := opts.PreviewLayer(len(layers))
	if err != nil {
		return err
	}

	var data []byte
	if trees {
		dot := render.ToDOT(layers[idx].Trees, render.DOTOptions{Detailed: detailed})
		data, err = render.RenderDOTSVG(ctx, dot)
		if err != nil {
			return fmt.Errorf("render tree diagram: %w", err)
		}
	} else {
		params := opts.InfillParams()
		if err := params.ValidateAndSetDefaults(); err != nil {
			return err
		}
		var outlines geom.Outlines
		if idx < len(stack) {
			outlines = stack[idx].Outlines
		}
		svgOpts := []render.SVGOption{render.WithLineWidth(params.LineWidth)}
		if opts.Width > 0 {
			svgOpts = append(svgOpts, render.WithWidth(opts.Width))
		}
		data = render.RenderLayerSVG(layers[idx], outlines, svgOpts...)
	}

	path := artifactPath(opts.Input, output, "svg", false)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	printSuccess("Preview of layer %d written", idx)
	printFile(path)
	printNextStep("Generate all formats", fmt.Sprintf("lightning generate %s -f svg,json,gcode", opts.Input))
	return nil
}
