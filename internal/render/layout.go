package render

import "fmt"

// Attrib is a vertex attribute semantic.
type Attrib int

const (
	AttribPosition Attrib = iota
	AttribColor0
	AttribTexCoord0
)

func (a Attrib) String() string {
	switch a {
	case AttribPosition:
		return "position"
	case AttribColor0:
		return "color0"
	case AttribTexCoord0:
		return "texcoord0"
	}
	return fmt.Sprintf("Attrib(%d)", int(a))
}

// AttribType is the component type of a vertex attribute.
type AttribType int

const (
	AttribFloat AttribType = iota
	AttribUint8
)

func (t AttribType) size() uint16 {
	if t == AttribUint8 {
		return 1
	}
	return 4
}

// VertexAttribute is one entry of a VertexLayout.
type VertexAttribute struct {
	Attrib     Attrib
	Num        uint8
	Type       AttribType
	Normalized bool
	Offset     uint16
}

// VertexLayout describes the byte layout of one vertex. Build it with
// NewVertexLayout().Add(...).End(); the result is read-only afterwards.
type VertexLayout struct {
	attrs  []VertexAttribute
	stride uint16
	ended  bool
}

func NewVertexLayout() *VertexLayout {
	return &VertexLayout{}
}

// Add appends an attribute packed after the previous one.
func (l *VertexLayout) Add(a Attrib, num uint8, typ AttribType, normalized bool) *VertexLayout {
	if l.ended {
		panic("render: Add on a finished VertexLayout")
	}
	l.attrs = append(l.attrs, VertexAttribute{
		Attrib:     a,
		Num:        num,
		Type:       typ,
		Normalized: normalized,
		Offset:     l.stride,
	})
	l.stride += uint16(num) * typ.size()
	return l
}

// End finishes the layout.
func (l *VertexLayout) End() *VertexLayout {
	l.ended = true
	return l
}

// Stride is the size of one vertex in bytes.
func (l *VertexLayout) Stride() uint16 { return l.stride }

// Attributes returns the attributes in declaration order.
func (l *VertexLayout) Attributes() []VertexAttribute {
	out := make([]VertexAttribute, len(l.attrs))
	copy(out, l.attrs)
	return out
}

// Attribute looks up an attribute by semantic.
func (l *VertexLayout) Attribute(a Attrib) (VertexAttribute, bool) {
	for _, at := range l.attrs {
		if at.Attrib == a {
			return at, true
		}
	}
	return VertexAttribute{}, false
}
