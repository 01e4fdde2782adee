package render

import "testing"

func TestVertexLayoutOffsets(t *testing.T) {
	l := NewVertexLayout().
		Add(AttribPosition, 3, AttribFloat, false).
		Add(AttribColor0, 4, AttribUint8, true).
		End()

	if l.Stride() != 16 {
		t.Errorf("Stride() = %d, want 16", l.Stride())
	}
	col, ok := l.Attribute(AttribColor0)
	if !ok {
		t.Fatal("color0 missing")
	}
	if col.Offset != 12 || !col.Normalized {
		t.Errorf("color0 = %+v", col)
	}
	if _, ok := l.Attribute(AttribTexCoord0); ok {
		t.Error("unexpected texcoord0")
	}
}

func TestVertexLayoutAddAfterEnd(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Add after End did not panic")
		}
	}()
	NewVertexLayout().End().Add(AttribPosition, 3, AttribFloat, false)
}
