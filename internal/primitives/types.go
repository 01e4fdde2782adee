package primitives

import (
	"encoding/binary"

	"cubes/internal/render"
)

// PosColorVertex is a position plus a packed 0xAABBGGRR colour. 16 bytes when encoded.
type PosColorVertex struct {
	X, Y, Z float32
	ABGR    uint32
}

// PosColorVertexSize is the encoded size of one PosColorVertex.
const PosColorVertexSize = 16

// CubeVertices are the eight corners of a 2×2×2 cube centred on the origin.
var CubeVertices = [8]PosColorVertex{
	{-1.0, 1.0, 1.0, 0xff000000},
	{1.0, 1.0, 1.0, 0xff0000ff},
	{-1.0, -1.0, 1.0, 0xff00ff00},
	{1.0, -1.0, 1.0, 0xff00ffff},
	{-1.0, 1.0, -1.0, 0xffff0000},
	{1.0, 1.0, -1.0, 0xffff00ff},
	{-1.0, -1.0, -1.0, 0xffffff00},
	{1.0, -1.0, -1.0, 0xffffffff},
}

// CubeIndices is the triangle list for the cube, two triangles per face.
var CubeIndices = [36]uint16{
	0, 1, 2, // 0
	1, 3, 2,
	4, 6, 5, // 2
	5, 6, 7,
	0, 2, 4, // 4
	4, 2, 6,
	1, 5, 3, // 6
	5, 7, 3,
	0, 4, 1, // 8
	4, 5, 1,
	2, 3, 6, // 10
	6, 3, 7,
}

// CubeLayout returns the vertex layout matching PosColorVertex.
func CubeLayout() *render.VertexLayout {
	return render.NewVertexLayout().
		Add(render.AttribPosition, 3, render.AttribFloat, false).
		Add(render.AttribColor0, 4, render.AttribUint8, true).
		End()
}

// VertexBytes encodes vertices little-endian in PosColorVertex layout.
func VertexBytes(vs []PosColorVertex) []byte {
	out := make([]byte, 0, len(vs)*PosColorVertexSize)
	for _, v := range vs {
		out = binary.LittleEndian.AppendUint32(out, float32bits(v.X))
		out = binary.LittleEndian.AppendUint32(out, float32bits(v.Y))
		out = binary.LittleEndian.AppendUint32(out, float32bits(v.Z))
		out = binary.LittleEndian.AppendUint32(out, v.ABGR)
	}
	return out
}

// IndexBytes encodes 16-bit indices little-endian.
func IndexBytes(idx []uint16) []byte {
	out := make([]byte, 0, len(idx)*2)
	for _, i := range idx {
		out = binary.LittleEndian.AppendUint16(out, i)
	}
	return out
}
