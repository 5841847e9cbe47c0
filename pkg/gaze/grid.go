package gaze

import "time"

// alphabet bound to grid cells in row-major order. Cells past the end
// of the alphabet select nothing.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// FlashDuration is how long a selected cell should stay highlighted by
// the renderer. Display only; it never affects decoding.
const FlashDuration = 500 * time.Millisecond

// Cell identifies one grid region.
type Cell struct {
	Row int
	Col int
}

// Flash records a selection for feedback rendering.
type Flash struct {
	Cell Cell
	At   time.Time
}

// Active reports whether the highlight should still render at now.
func (f Flash) Active(now time.Time) bool {
	return !f.At.IsZero() && now.Sub(f.At) < FlashDuration
}

// Grid partitions a frame into Rows x Cols letter cells.
type Grid struct {
	Rows   int
	Cols   int
	Width  int
	Height int
}

// DefaultRows and DefaultCols give 27 cells for the 26-letter alphabet;
// the last cell is unused.
const (
	DefaultRows = 3
	DefaultCols = 9
)

// NewGrid creates a grid over a frame of the given pixel size.
func NewGrid(rows, cols, width, height int) Grid {
	if rows < 1 {
		rows = DefaultRows
	}
	if cols < 1 {
		cols = DefaultCols
	}
	return Grid{Rows: rows, Cols: cols, Width: width, Height: height}
}

// CellSize returns the pixel size of one cell.
func (g Grid) CellSize() (w, h int) {
	return g.Width / g.Cols, g.Height / g.Rows
}

// CellAt returns the cell containing a frame point. Points outside the
// frame clamp to the border cells.
func (g Grid) CellAt(p Point) Cell {
	cellW, cellH := g.CellSize()
	col := int(p.X) / cellW
	row := int(p.Y) / cellH
	if col < 0 {
		col = 0
	}
	if col >= g.Cols {
		col = g.Cols - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= g.Rows {
		row = g.Rows - 1
	}
	return Cell{Row: row, Col: col}
}

// Letter returns the alphabet letter bound to a cell in row-major
// order, or false when the cell's linear index is past the alphabet.
func (g Grid) Letter(c Cell) (rune, bool) {
	idx := c.Row*g.Cols + c.Col
	if idx < 0 || idx >= len(alphabet) {
		return 0, false
	}
	return rune(alphabet[idx]), true
}
