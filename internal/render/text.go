package render

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Debug text cell size in pixels.
const (
	TextCellWidth  = 8
	TextCellHeight = 16
)

// TextPalette is the 16-colour VGA palette indexed by the nibbles of a text attribute byte
// (low nibble foreground, high nibble background). Background index 0 is transparent.
var TextPalette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xff},
	{0x00, 0x00, 0xaa, 0xff},
	{0x00, 0xaa, 0x00, 0xff},
	{0x00, 0xaa, 0xaa, 0xff},
	{0xaa, 0x00, 0x00, 0xff},
	{0xaa, 0x00, 0xaa, 0xff},
	{0xaa, 0x55, 0x00, 0xff},
	{0xaa, 0xaa, 0xaa, 0xff},
	{0x55, 0x55, 0x55, 0xff},
	{0x55, 0x55, 0xff, 0xff},
	{0x55, 0xff, 0x55, 0xff},
	{0x55, 0xff, 0xff, 0xff},
	{0xff, 0x55, 0x55, 0xff},
	{0xff, 0x55, 0xff, 0xff},
	{0xff, 0xff, 0x55, 0xff},
	{0xff, 0xff, 0xff, 0xff},
}

// TextCell is one character of the text layer.
type TextCell struct {
	Ch   rune
	Attr uint8
}

// Empty reports whether the cell draws nothing.
func (c TextCell) Empty() bool {
	return (c.Ch == 0 || c.Ch == ' ') && c.Attr>>4 == 0
}

// TextBuffer is the character grid backing a renderer's debug text layer.
type TextBuffer struct {
	cols, rows int
	cells      []TextCell
}

// NewTextBuffer creates a grid covering a width×height pixel framebuffer.
func NewTextBuffer(width, height uint32) *TextBuffer {
	b := &TextBuffer{}
	b.Resize(width, height)
	return b
}

// Resize recomputes the grid for a new framebuffer size and clears it.
func (b *TextBuffer) Resize(width, height uint32) {
	b.cols = int(width) / TextCellWidth
	b.rows = int(height) / TextCellHeight
	b.cells = make([]TextCell, b.cols*b.rows)
}

func (b *TextBuffer) Cols() int { return b.cols }
func (b *TextBuffer) Rows() int { return b.rows }

// Clear blanks every cell with the given attribute.
func (b *TextBuffer) Clear(attr uint8) {
	for i := range b.cells {
		b.cells[i] = TextCell{Ch: ' ', Attr: attr}
	}
}

// Print writes s at column x, row y. ANSI escape sequences are removed and anything outside
// the grid is dropped.
func (b *TextBuffer) Print(x, y int, attr uint8, s string) {
	if y < 0 || y >= b.rows {
		return
	}
	col := x
	for _, r := range ansi.Strip(s) {
		if r == '\n' || r == '\r' {
			continue
		}
		if col >= b.cols {
			break
		}
		if col >= 0 {
			b.cells[y*b.cols+col] = TextCell{Ch: r, Attr: attr}
		}
		col++
	}
}

// Cell returns the cell at (x, y); out-of-range coordinates yield an empty cell.
func (b *TextBuffer) Cell(x, y int) TextCell {
	if x < 0 || y < 0 || x >= b.cols || y >= b.rows {
		return TextCell{}
	}
	return b.cells[y*b.cols+x]
}

// Line returns row y as a string with trailing blanks trimmed.
func (b *TextBuffer) Line(y int) string {
	if y < 0 || y >= b.rows {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.cells[y*b.cols : (y+1)*b.cols] {
		if c.Ch == 0 {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteRune(c.Ch)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Dirty reports whether any cell draws something.
func (b *TextBuffer) Dirty() bool {
	for _, c := range b.cells {
		if !c.Empty() {
			return true
		}
	}
	return false
}
