package leveldata

import (
	"testing"
	"testing/fstest"
)

func TestCatalogByIndex(t *testing.T) {
	cases := []struct {
		name      string
		index     int
		wantErr   bool
		wantWidth int
	}{
		{"level1", 1, false, 4},
		{"level3", 3, false, 5},
		{"missing", 99, true, 0},
	}

	c := NewCatalog()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lvl, err := c.ByIndex(tc.index)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for index %d", tc.index)
				}
				return
			}
			if err != nil {
				t.Fatalf("ByIndex(%d): %v", tc.index, err)
			}
			if lvl.Width != tc.wantWidth {
				t.Fatalf("expected width %d, got %d", tc.wantWidth, lvl.Width)
			}
			for i, layer := range lvl.Layers {
				if len(layer) != lvl.Width*lvl.Height {
					t.Fatalf("layer %d length %d, want %d", i, len(layer), lvl.Width*lvl.Height)
				}
			}
		})
	}
}

func TestDecodeBlob(t *testing.T) {
	cases := []struct {
		name    string
		blob    string
		wantErr bool
	}{
		{"valid", `{"width":2,"height":2,"layers":[[0,1,1,0]]}`, false},
		{"bad_json", `{"width":`, true},
		{"zero_dims", `{"width":0,"height":3}`, true},
		{"short_layer", `{"width":2,"height":2,"layers":[[1]]}`, true},
	}

	c := NewCatalog()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lvl, err := c.Decode(tc.blob)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected decode error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if lvl.Width != 2 || lvl.Height != 2 {
				t.Fatalf("unexpected dims %dx%d", lvl.Width, lvl.Height)
			}
		})
	}
}

func TestCatalogFS(t *testing.T) {
	fsys := fstest.MapFS{
		"level7.json": {Data: []byte(`{"width":1,"height":1,"layers":[[1]]}`)},
	}
	c := NewCatalogFS(fsys)
	lvl, err := c.ByIndex(7)
	if err != nil {
		t.Fatalf("ByIndex(7): %v", err)
	}
	if lvl.Width != 1 || lvl.Height != 1 {
		t.Fatalf("unexpected dims %dx%d", lvl.Width, lvl.Height)
	}
}

func TestLayerName(t *testing.T) {
	lvl := &Level{
		Width: 1, Height: 1,
		LayerMeta: []LayerMeta{{Name: "ground"}, {}},
	}
	if got := lvl.LayerName(0); got != "ground" {
		t.Fatalf("expected %q, got %q", "ground", got)
	}
	if got := lvl.LayerName(1); got != "layer1" {
		t.Fatalf("expected positional default, got %q", got)
	}
	if got := lvl.LayerName(5); got != "layer5" {
		t.Fatalf("expected positional default for out of range, got %q", got)
	}
}
