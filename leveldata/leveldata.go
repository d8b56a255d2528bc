package leveldata

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
)

//go:embed levels/*.json
var levelsFS embed.FS

// Level is one level record as stored in the catalog. Each layer is a flat
// array of length Width*Height (row-major). Layer 0 is drawn first (bottom),
// then layer 1, etc.
type Level struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// TileW/TileH are the per-tile pixel dimensions; zero means the default
	// tile size.
	TileW  int         `json:"tile_w,omitempty"`
	TileH  int         `json:"tile_h,omitempty"`
	Layers [][]int     `json:"layers,omitempty"`
	// LayerMeta holds per-layer metadata such as the layer name, display
	// color, and parallax factor.
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
	// player spawn in tile coordinates
	SpawnX int `json:"spawn_x,omitempty"`
	SpawnY int `json:"spawn_y,omitempty"`
}

type LayerMeta struct {
	Name     string  `json:"name,omitempty"`
	Color    string  `json:"color,omitempty"`
	Parallax float64 `json:"parallax,omitempty"`
}

// Entity is an object placement within a level.
type Entity struct {
	Type  string         `json:"type"`
	Name  string         `json:"name,omitempty"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Props map[string]any `json:"props,omitempty"`
}

// Catalog maps a level index to level data and decodes pre-encoded blobs.
type Catalog struct {
	fsys fs.FS
}

// NewCatalog returns a catalog backed by the embedded levels directory.
func NewCatalog() *Catalog {
	sub, err := fs.Sub(levelsFS, "levels")
	if err != nil {
		// embed guarantees the directory exists
		panic(err)
	}
	return &Catalog{fsys: sub}
}

// NewCatalogFS returns a catalog backed by an arbitrary filesystem, e.g. a
// directory on disk while iterating on levels.
func NewCatalogFS(fsys fs.FS) *Catalog {
	return &Catalog{fsys: fsys}
}

// ByIndex reads and decodes level<i>.json from the catalog filesystem.
func (c *Catalog) ByIndex(i int) (*Level, error) {
	if c == nil || c.fsys == nil {
		return nil, fmt.Errorf("leveldata: no catalog filesystem")
	}
	name := fmt.Sprintf("level%d.json", i)
	b, err := fs.ReadFile(c.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("leveldata: read %s: %w", name, err)
	}
	return decode(b)
}

// Decode decodes a level from an inline JSON blob.
func (c *Catalog) Decode(blob string) (*Level, error) {
	return Decode(blob)
}

// Decode decodes a level from an inline JSON blob.
func Decode(blob string) (*Level, error) {
	return decode([]byte(blob))
}

func decode(b []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(b, &lvl); err != nil {
		return nil, fmt.Errorf("leveldata: unmarshal: %w", err)
	}
	if lvl.Width <= 0 || lvl.Height <= 0 {
		return nil, fmt.Errorf("leveldata: invalid level dimensions: %dx%d", lvl.Width, lvl.Height)
	}
	for i, layer := range lvl.Layers {
		if len(layer) != lvl.Width*lvl.Height {
			return nil, fmt.Errorf("leveldata: layer %d has %d tiles, want %d", i, len(layer), lvl.Width*lvl.Height)
		}
	}
	return &lvl, nil
}

// LayerName returns the configured name for layer i, or a positional default.
func (l *Level) LayerName(i int) string {
	if l != nil && i >= 0 && i < len(l.LayerMeta) && l.LayerMeta[i].Name != "" {
		return l.LayerMeta[i].Name
	}
	return fmt.Sprintf("layer%d", i)
}
