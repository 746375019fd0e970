package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// artifactWriteParams bundles everything writeArtifacts needs to place
// rendered outputs on disk.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
}

// writeArtifacts writes each rendered format to its own file and prints
// the resulting paths. With a single format the output flag names the file
// directly; with multiple formats it acts as a base path and the format is
// appended as the extension.
func writeArtifacts(p artifactWriteParams) error {
	printSuccess("Generation complete")

	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			printWarning("no %s output produced", format)
			continue
		}

		path := artifactPath(p.input, p.output, format, len(p.formats) > 1)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// artifactPath derives the output path for a format.
func artifactPath(input, output, format string, multi bool) string {
	ext := "." + format
	if format == "gcode" {
		ext = ".gcode"
	}

	if output != "" {
		if !multi {
			return output
		}
		return strings.TrimSuffix(output, filepath.Ext(output)) + ext
	}

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return base + ext
}
