package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/lightning/pkg/cache"
	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/infill"
	"github.com/matzehuels/lightning/pkg/slice"
)

func testStack() slice.Stack {
	region := geom.Outlines{{
		{X: 0, Y: 0}, {X: 10000, Y: 0}, {X: 10000, Y: 10000}, {X: 0, Y: 10000},
	}}
	return slice.Stack{
		{Z: 200, Outlines: region},
		{Z: 400, Outlines: region},
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"input path", Options{Input: "stack.json"}, false},
		{"inline stack", Options{Stack: testStack()}, false},
		{"formats", Options{Input: "stack.json", Formats: []string{"svg", "gcode"}}, false},

		{"no source", Options{}, true},
		{"bad format", Options{Input: "stack.json", Formats: []string{"png"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Input: "stack.json"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Width != DefaultPreviewWidth {
		t.Errorf("Width = %d, want %d", opts.Width, DefaultPreviewWidth)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestPreviewLayer(t *testing.T) {
	tests := []struct {
		name    string
		layer   int
		count   int
		want    int
		wantErr bool
	}{
		{"first", 0, 5, 0, false},
		{"middle", 2, 5, 2, false},
		{"top via negative", -1, 5, 4, false},
		{"bottom via negative", -5, 5, 0, false},

		{"past the top", 5, 5, 0, true},
		{"past the bottom", -6, 5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Layer: tt.layer}
			got, err := opts.PreviewLayer(tt.count)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PreviewLayer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("PreviewLayer() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNeedsTrees(t *testing.T) {
	plainSVG := Options{Formats: []string{"svg"}}
	if plainSVG.NeedsTrees() {
		t.Error("plain svg should not need trees")
	}
	dot := Options{Formats: []string{"dot"}}
	if !dot.NeedsTrees() {
		t.Error("dot output needs trees")
	}
	showTrees := Options{Formats: []string{"svg"}, ShowTrees: true}
	if !showTrees.NeedsTrees() {
		t.Error("ShowTrees needs trees")
	}
}

func TestLayersKeyOptsResolvesDefaults(t *testing.T) {
	explicit := Options{LineWidth: int64(infill.DefaultLineWidth)}
	implied := Options{}
	if explicit.LayersKeyOpts() != implied.LayersKeyOpts() {
		t.Error("explicit defaults and implied defaults should share cache keys")
	}

	other := Options{LineWidth: 500}
	if other.LayersKeyOpts() == implied.LayersKeyOpts() {
		t.Error("different tuning should produce different key opts")
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Stack:   testStack(),
		Formats: []string{FormatSVG, FormatJSON, FormatGcode},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("missing run id")
	}
	if result.StackHash == "" {
		t.Error("missing stack hash")
	}
	if len(result.Layers) != 2 {
		t.Fatalf("got %d layers, want 2", len(result.Layers))
	}
	for _, format := range []string{FormatSVG, FormatJSON, FormatGcode} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("missing %s artifact", format)
		}
	}
	if result.Stats.LineCount == 0 {
		t.Error("stats should count generated lines")
	}
	if result.CacheInfo.GenerateHit || result.CacheInfo.RenderHit {
		t.Error("null cache should never hit")
	}
}

func TestExecuteDOTFormat(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Stack:   testStack(),
		Formats: []string{FormatDOT},
		Layer:   -1,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	dot := string(result.Artifacts[FormatDOT])
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("unexpected DOT output: %.40s", dot)
	}
}

func TestExecuteCachesGeneration(t *testing.T) {
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fileCache, nil, nil)
	defer runner.Close()

	opts := Options{Stack: testStack(), Formats: []string{FormatJSON}}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.GenerateHit {
		t.Error("first run should miss the cache")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.GenerateHit {
		t.Error("second run should hit the generation cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}

	var a, b []infill.LayerResult
	if err := json.Unmarshal(first.Artifacts[FormatJSON], &a); err != nil {
		t.Fatalf("unmarshal first: %v", err)
	}
	if err := json.Unmarshal(second.Artifacts[FormatJSON], &b); err != nil {
		t.Fatalf("unmarshal second: %v", err)
	}
	if len(a) != len(b) {
		t.Errorf("cached run returned %d layers, want %d", len(b), len(a))
	}
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	fileCache, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fileCache, nil, nil)
	defer runner.Close()

	if _, err := runner.Execute(context.Background(), Options{Stack: testStack()}); err != nil {
		t.Fatalf("warmup Execute: %v", err)
	}

	result, err := runner.Execute(context.Background(), Options{Stack: testStack(), Refresh: true})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if result.CacheInfo.GenerateHit {
		t.Error("Refresh should bypass the generation cache")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	if _, err := runner.Load(context.Background(), Options{Input: "does-not-exist.json"}); err == nil {
		t.Error("expected an error for a missing input file")
	}
}
