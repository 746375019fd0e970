// Package slice defines the layer stack consumed by the infill engine
// and its JSON wire format.
//
// A model arrives pre-sliced: each layer carries a z height and the
// outline polygon set of the region that should receive lightning
// infill on that layer. Slicing itself and the decision which regions
// get this pattern are upstream concerns.
package slice

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/lightning/pkg/geom"
)

var (
	// ErrNoLayers is returned when a decoded stack contains no layers.
	ErrNoLayers = errors.New("stack has no layers")

	// ErrUnorderedLayers is returned when layer z heights do not strictly
	// increase from the first (bottom) layer upward.
	ErrUnorderedLayers = errors.New("layer z heights must strictly increase")
)

// Layer is one horizontal slice of the model: its z height and the
// outline set of the infill region. Outlines may contain holes and
// multiple islands; an empty outline set means the region vanished on
// this layer.
type Layer struct {
	Z        geom.Coord    `json:"z"`
	Outlines geom.Outlines `json:"outlines"`
}

// Stack is the full layer stack, ordered bottom-up: index 0 is printed
// first. Lightning trees are generated walking the stack top-down.
type Stack []Layer

// Validate checks stack integrity: at least one layer and strictly
// increasing z heights.
func (s Stack) Validate() error {
	if len(s) == 0 {
		return ErrNoLayers
	}
	for i := 1; i < len(s); i++ {
		if s[i].Z <= s[i-1].Z {
			return fmt.Errorf("%w: layer %d (z=%d) after layer %d (z=%d)",
				ErrUnorderedLayers, i, s[i].Z, i-1, s[i-1].Z)
		}
	}
	return nil
}

// Marshal converts a stack to JSON bytes.
func Marshal(s Stack) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a stack as JSON to an io.Writer.
func Write(s Stack, w io.Writer) error {
	return writeTo(s, w)
}

// WriteFile writes a stack to a JSON file with 0644 permissions.
func WriteFile(s Stack, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(s, f)
}

// Read decodes a JSON stack from an io.Reader and validates it.
func Read(r io.Reader) (Stack, error) {
	return readFrom(r)
}

// ReadFile reads a JSON file and returns the decoded, validated stack.
func ReadFile(path string) (Stack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

func writeTo(s Stack, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (Stack, error) {
	var s Stack
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
