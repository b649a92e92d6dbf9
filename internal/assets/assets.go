// Package assets loads the sprite atlas: a tile-set description naming
// rectangular regions and the rune-art image those regions address.
package assets

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-tappy/internal/core"
)

// ErrTileNotFound is returned when a sheet has no tile with the requested name.
var ErrTileNotFound = errors.New("assets: tile not found")

//go:embed atlas
var embedded embed.FS

// Tile is a named region of the atlas image.
type Tile struct {
	Region core.Rect
	Color  core.Color
}

// tileSpec is the on-disk form of a tile.
type tileSpec struct {
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Color  string `yaml:"color"`
}

// sheetSpec is the on-disk form of a sheet. JSON atlas files are valid YAML,
// so one decoder reads both.
type sheetSpec struct {
	Image   string              `yaml:"image"`
	Tileset map[string]tileSpec `yaml:"tileset"`
}

// Sheet is a parsed tile-atlas description.
type Sheet struct {
	Image string // Image path, relative to the sheet file
	tiles map[string]Tile
}

// Tile looks up a region by name.
func (s *Sheet) Tile(name string) (Tile, error) {
	t, ok := s.tiles[name]
	if !ok {
		return Tile{}, fmt.Errorf("%w: %q", ErrTileNotFound, name)
	}
	return t, nil
}

// Names returns all tile names in sorted order.
func (s *Sheet) Names() []string {
	names := make([]string, 0, len(s.tiles))
	for name := range s.tiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseSheet decodes a tile-atlas description.
func ParseSheet(data []byte) (*Sheet, error) {
	var spec sheetSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("assets: parse sheet: %w", err)
	}
	if spec.Image == "" {
		return nil, errors.New("assets: sheet has no image")
	}

	sheet := &Sheet{Image: spec.Image, tiles: make(map[string]Tile, len(spec.Tileset))}
	for name, ts := range spec.Tileset {
		c, ok := core.ParseColor(ts.Color)
		if !ok {
			return nil, fmt.Errorf("assets: tile %q: unknown color %q", name, ts.Color)
		}
		region := core.NewRect(ts.X, ts.Y, ts.Width, ts.Height)
		if region.Empty() || region.X < 0 || region.Y < 0 {
			return nil, fmt.Errorf("assets: tile %q: invalid region %+v", name, region)
		}
		sheet.tiles[name] = Tile{Region: region, Color: c}
	}
	return sheet, nil
}

// Provider fetches atlas resources by path.
type Provider interface {
	LoadSheet(ctx context.Context, name string) (*Sheet, error)
	LoadImage(ctx context.Context, name string) (*core.Image, error)
}

// FSProvider reads atlas resources from a file system.
type FSProvider struct {
	fsys fs.FS
}

// NewFSProvider creates a provider over fsys.
func NewFSProvider(fsys fs.FS) *FSProvider {
	return &FSProvider{fsys: fsys}
}

// Embedded returns a provider over the atlas compiled into the binary.
func Embedded() *FSProvider {
	sub, err := fs.Sub(embedded, "atlas")
	if err != nil {
		panic(fmt.Sprintf("assets: embedded atlas: %v", err))
	}
	return NewFSProvider(sub)
}

// LoadSheet reads and parses a sheet file.
func (p *FSProvider) LoadSheet(ctx context.Context, name string) (*Sheet, error) {
	data, err := p.read(ctx, name)
	if err != nil {
		return nil, err
	}
	return ParseSheet(data)
}

// LoadImage reads a rune-art image.
func (p *FSProvider) LoadImage(ctx context.Context, name string) (*core.Image, error) {
	data, err := p.read(ctx, name)
	if err != nil {
		return nil, err
	}
	img := core.ImageFromText(string(data))
	if img.Width() == 0 || img.Height() == 0 {
		return nil, fmt.Errorf("assets: image %s is empty", name)
	}
	return img, nil
}

func (p *FSProvider) read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(p.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", name, err)
	}
	return data, nil
}

// Atlas is a loaded sheet together with its tinted image.
type Atlas struct {
	Sheet *Sheet
	Image *core.Image
}

// Load fetches the sheet at name and the image it references, checks that
// every tile lies inside the image and applies the tile colors.
func Load(ctx context.Context, p Provider, name string) (*Atlas, error) {
	sheet, err := p.LoadSheet(ctx, name)
	if err != nil {
		return nil, err
	}

	img, err := p.LoadImage(ctx, path.Join(path.Dir(name), sheet.Image))
	if err != nil {
		return nil, err
	}

	for _, tileName := range sheet.Names() {
		t := sheet.tiles[tileName]
		if !img.Bounds().Within(t.Region) {
			return nil, fmt.Errorf("assets: tile %q: %w", tileName, core.ErrRegionOutOfBounds)
		}
		img.Tint(t.Region, t.Color)
	}

	return &Atlas{Sheet: sheet, Image: img}, nil
}

// Tile looks up a region by name.
func (a *Atlas) Tile(name string) (Tile, error) {
	return a.Sheet.Tile(name)
}
