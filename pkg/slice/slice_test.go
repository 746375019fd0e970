package slice

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/matzehuels/lightning/pkg/geom"
)

func testStack() Stack {
	region := geom.Outlines{geom.Polygon{
		{X: 0, Y: 0}, {X: 10000, Y: 0}, {X: 10000, Y: 10000}, {X: 0, Y: 10000},
	}}
	return Stack{
		{Z: 200, Outlines: region},
		{Z: 400, Outlines: region},
		{Z: 600, Outlines: region},
	}
}

func TestValidate(t *testing.T) {
	if err := testStack().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if err := (Stack{}).Validate(); !errors.Is(err, ErrNoLayers) {
		t.Errorf("empty stack: err = %v, want ErrNoLayers", err)
	}

	bad := testStack()
	bad[2].Z = bad[1].Z
	if err := bad.Validate(); !errors.Is(err, ErrUnorderedLayers) {
		t.Errorf("equal z: err = %v, want ErrUnorderedLayers", err)
	}
}

func TestRoundTrip(t *testing.T) {
	want := testStack()

	data, err := Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d layers, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Z != want[i].Z {
			t.Errorf("layer %d: z = %d, want %d", i, got[i].Z, want[i].Z)
		}
		if len(got[i].Outlines) != len(want[i].Outlines) {
			t.Errorf("layer %d: outline count differs", i)
		}
	}
}

func TestReadRejectsInvalid(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("[]"))); !errors.Is(err, ErrNoLayers) {
		t.Errorf("err = %v, want ErrNoLayers", err)
	}
	if _, err := Read(bytes.NewReader([]byte("{not json"))); err == nil {
		t.Error("malformed JSON should fail")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stack.json")
	if err := WriteFile(testStack(), path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d layers, want 3", len(got))
	}
}
