package core

import "strings"

// Transparent is the rune that image pixels use for "draw nothing".
const Transparent = ' '

// Cell is a single character cell with its foreground color.
type Cell struct {
	Rune  rune
	Color Color
}

// Image is a rune-art bitmap: one cell per pixel. Sprites are regions of an
// atlas Image and are copied onto a Screen with Screen.DrawImage.
type Image struct {
	width  int
	height int
	cells  [][]Cell
}

// NewImage creates a fully transparent image.
func NewImage(width, height int) *Image {
	img := &Image{width: width, height: height}
	img.cells = make([][]Cell, height)
	for y := range img.cells {
		img.cells[y] = make([]Cell, width)
		for x := range img.cells[y] {
			img.cells[y][x] = Cell{Rune: Transparent}
		}
	}
	return img
}

// ImageFromText builds an image from newline-separated rows. Short rows are
// padded with transparent cells up to the widest row.
func ImageFromText(text string) *Image {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := strings.Split(text, "\n")

	width := 0
	rows := make([][]rune, len(lines))
	for i, line := range lines {
		rows[i] = []rune(line)
		width = max(width, len(rows[i]))
	}

	img := NewImage(width, len(rows))
	for y, row := range rows {
		for x, r := range row {
			img.cells[y][x].Rune = r
		}
	}
	return img
}

// Width returns the image width in cells.
func (img *Image) Width() int {
	return img.width
}

// Height returns the image height in cells.
func (img *Image) Height() int {
	return img.height
}

// Bounds returns the rectangle covering the whole image.
func (img *Image) Bounds() Rect {
	return NewRect(0, 0, img.width, img.height)
}

// At returns the cell at (x, y). Out-of-bounds reads are transparent.
func (img *Image) At(x, y int) Cell {
	if x < 0 || x >= img.width || y < 0 || y >= img.height {
		return Cell{Rune: Transparent}
	}
	return img.cells[y][x]
}

// Tint sets the color of every cell inside region.
func (img *Image) Tint(region Rect, c Color) {
	for y := region.Y; y < region.Bottom(); y++ {
		for x := region.X; x < region.Right(); x++ {
			if x < 0 || x >= img.width || y < 0 || y >= img.height {
				continue
			}
			img.cells[y][x].Color = c
		}
	}
}
