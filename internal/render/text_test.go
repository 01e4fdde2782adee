package render

import "testing"

func TestTextBufferGrid(t *testing.T) {
	b := NewTextBuffer(1280, 720)
	if b.Cols() != 160 || b.Rows() != 45 {
		t.Errorf("grid = %dx%d, want 160x45", b.Cols(), b.Rows())
	}
}

func TestTextBufferPrint(t *testing.T) {
	b := NewTextBuffer(80, 32) // 10x2
	b.Clear(0)
	b.Print(1, 0, 0x0f, "hello")
	if got := b.Line(0); got != " hello" {
		t.Errorf("Line(0) = %q", got)
	}
	if c := b.Cell(1, 0); c.Ch != 'h' || c.Attr != 0x0f {
		t.Errorf("Cell(1,0) = %+v", c)
	}
}

func TestTextBufferClipping(t *testing.T) {
	b := NewTextBuffer(80, 32)
	b.Print(7, 1, 0x0f, "abcdef")
	if got := b.Line(1); got != "       abc" {
		t.Errorf("Line(1) = %q", got)
	}
	b.Print(-2, 0, 0x0f, "xyz")
	if got := b.Line(0); got != "z" {
		t.Errorf("Line(0) = %q", got)
	}
	// rows outside the grid are ignored
	b.Print(0, 5, 0x0f, "nope")
	b.Print(0, -1, 0x0f, "nope")
	if got := b.Cell(0, 5); got != (TextCell{}) {
		t.Errorf("Cell(0,5) = %+v", got)
	}
}

func TestTextBufferStripsEscapes(t *testing.T) {
	b := NewTextBuffer(160, 16)
	b.Print(0, 0, 0x0f, "\x1b[31mred\x1b[0m")
	if got := b.Line(0); got != "red" {
		t.Errorf("Line(0) = %q, want %q", got, "red")
	}
}

func TestTextBufferDirty(t *testing.T) {
	b := NewTextBuffer(80, 16)
	b.Clear(0)
	if b.Dirty() {
		t.Error("cleared buffer is dirty")
	}
	b.Print(0, 0, 0x0f, "x")
	if !b.Dirty() {
		t.Error("printed buffer is not dirty")
	}
	b.Clear(0x30)
	if !b.Dirty() {
		t.Error("buffer with background colour is not dirty")
	}
}
