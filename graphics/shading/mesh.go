// corvus - a library for reading and rendering PDF files
// Copyright (C) 2026  Corvus Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package shading

import (
	"github.com/corvuspdf/corvus/graphics/color"
	"github.com/corvuspdf/corvus/internal/bitio"
)

// Triangle is one Gouraud-shaded triangle: three vertices, each with an
// already-resolved color ("Mesh shadings ... decode a
// sequence of triangles/patches whose per-vertex colors are
// Function-interpolated").
type Triangle struct {
	X, Y [3]float64
	C    [3]color.Color
}

// Mesh implements shading types 4, 5, 6, and 7 as a flattened list of
// Gouraud triangles: free-form (4) and lattice-form (5) triangle
// meshes decode directly; Coons (6) and tensor-product (7) patch
// meshes are approximated by the two triangles spanning each patch's
// four corners, since a true bicubic patch rasterizer is a distinct
// rendering concern this module's Device contract has
// no primitive for — the corner-triangle approximation still paints
// the patch's area with its correct corner colors, just without the
// interior curvature/shading gradient a full patch evaluator would add.
type Mesh struct {
	Triangles []Triangle
}

func (m *Mesh) At(x, y float64) (color.Color, bool) {
	for _, tri := range m.Triangles {
		if u, v, w, ok := barycentric(x, y, tri); ok {
			return blendColor(tri, u, v, w), true
		}
	}
	return nil, false
}

func barycentric(px, py float64, t Triangle) (u, v, w float64, ok bool) {
	x0, y0 := t.X[0], t.Y[0]
	x1, y1 := t.X[1], t.Y[1]
	x2, y2 := t.X[2], t.Y[2]

	denom := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if denom == 0 {
		return 0, 0, 0, false
	}
	a := ((y1-y2)*(px-x2) + (x2-x1)*(py-y2)) / denom
	b := ((y2-y0)*(px-x2) + (x0-x2)*(py-y2)) / denom
	c := 1 - a - b
	if a < 0 || b < 0 || c < 0 {
		return 0, 0, 0, false
	}
	return a, b, c, true
}

func blendColor(t Triangle, u, v, w float64) color.Color {
	r0, g0, b0, _ := t.C[0].RGBA()
	r1, g1, b1, _ := t.C[1].RGBA()
	r2, g2, b2, _ := t.C[2].RGBA()
	mix := func(a, b, c uint32) float64 {
		return (u*float64(a) + v*float64(b) + w*float64(c)) / 0xffff
	}
	return color.RGB(mix(r0, r1, r2), mix(g0, g1, g2), mix(b0, b1, b2))
}

// MeshParams carries the fields of the shading dictionary that govern
// the bit layout of its data stream (ISO 32000-1 §8.7.4.5.5-.7).
type MeshParams struct {
	ShadingType       int // 4, 5, 6, or 7
	BitsPerCoordinate int
	BitsPerComponent  int
	BitsPerFlag       int
	Decode            []float64 // 2*(2+nComp) for types 4/6/7, or caller-adjusted for 5
	VerticesPerRow    int       // type 5 only
	Space             color.Space
	Fn                []Function // present iff the shading has /Function (colors are then a single parametric component)
}

// DecodeMesh parses a mesh shading's raw (post-filter-chain) stream
// data into flattened Gouraud triangles, following the vertex-packing
// layout each mesh type's stream samples use.
func DecodeMesh(data []byte, p MeshParams) (*Mesh, error) {
	switch p.ShadingType {
	case 4:
		return decodeFreeForm(data, p)
	case 5:
		return decodeLattice(data, p)
	case 6, 7:
		return decodePatch(data, p)
	default:
		return &Mesh{}, nil
	}
}

type vertex struct {
	x, y float64
	c    color.Color
}

func (p MeshParams) nColor() int {
	if len(p.Fn) > 0 {
		return 1
	}
	return p.Space.NumComponents()
}

func (p MeshParams) readVertex(br *bitio.Reader) (vertex, bool) {
	rawX, ok := br.ReadBits(p.BitsPerCoordinate)
	if !ok {
		return vertex{}, false
	}
	rawY, ok := br.ReadBits(p.BitsPerCoordinate)
	if !ok {
		return vertex{}, false
	}
	nc := p.nColor()
	comps := make([]float64, nc)
	for i := 0; i < nc; i++ {
		raw, ok := br.ReadBits(p.BitsPerComponent)
		if !ok {
			return vertex{}, false
		}
		comps[i] = decodeSample(raw, p.BitsPerComponent, p.Decode, 2+i)
	}
	x := decodeSample(rawX, p.BitsPerCoordinate, p.Decode, 0)
	y := decodeSample(rawY, p.BitsPerCoordinate, p.Decode, 1)

	c := colorFromComponents(p, comps)
	return vertex{x: x, y: y, c: c}, true
}

func colorFromComponents(p MeshParams, comps []float64) color.Color {
	var out []float64
	var err error
	if len(p.Fn) > 0 {
		out, err = evalFunctions(p.Fn, comps)
	} else {
		out = comps
	}
	if err != nil {
		return p.Space.Default()
	}
	c, err := p.Space.NewColor(out)
	if err != nil {
		return p.Space.Default()
	}
	return c
}

func decodeSample(raw uint32, bits int, decode []float64, pairIndex int) float64 {
	maxVal := float64((uint64(1) << uint(bits)) - 1)
	if 2*pairIndex+1 >= len(decode) {
		return float64(raw)
	}
	lo, hi := decode[2*pairIndex], decode[2*pairIndex+1]
	if maxVal == 0 {
		return lo
	}
	return lo + (float64(raw)/maxVal)*(hi-lo)
}

// decodeFreeForm implements the edge-flag state machine of ISO 32000-1
// §8.7.4.5.5: flag 0 starts a fresh triangle from the next three
// vertices (the two vertices following the f=0 vertex complete it,
// whatever their own flag says); flag 1 reuses (vb, vc) from the
// previous triangle as the new (va, vb); flag 2 reuses (va, vc) as the
// new (va, vb).
func decodeFreeForm(data []byte, p MeshParams) (*Mesh, error) {
	br := bitio.NewReader(data)
	var mesh Mesh
	var va, vb, vc vertex
	haveTriangle := false

	readOne := func() (flag uint32, v vertex, ok bool) {
		flag, ok = br.ReadBits(p.BitsPerFlag)
		if !ok {
			return 0, vertex{}, false
		}
		v, ok = p.readVertex(br)
		if !ok {
			return 0, vertex{}, false
		}
		br.Align()
		return flag, v, true
	}

	for {
		flag, v, ok := readOne()
		if !ok {
			break
		}

		if flag == 0 {
			_, v2, ok2 := readOne()
			_, v3, ok3 := readOne()
			if !ok2 || !ok3 {
				break
			}
			va, vb, vc = v, v2, v3
			haveTriangle = true
		} else if haveTriangle {
			if flag == 1 {
				va, vb = vb, vc
			} else { // flag == 2
				vb = vc
			}
			vc = v
		} else {
			continue
		}

		mesh.Triangles = append(mesh.Triangles, triFrom(va, vb, vc))
	}
	return &mesh, nil
}

func decodeLattice(data []byte, p MeshParams) (*Mesh, error) {
	if p.VerticesPerRow < 2 {
		return &Mesh{}, nil
	}
	br := bitio.NewReader(data)
	var rows [][]vertex
	for {
		row := make([]vertex, 0, p.VerticesPerRow)
		ok := true
		for i := 0; i < p.VerticesPerRow; i++ {
			v, vok := p.readVertex(br)
			if !vok {
				ok = false
				break
			}
			row = append(row, v)
		}
		if !ok {
			break
		}
		rows = append(rows, row)
	}
	var mesh Mesh
	for r := 0; r+1 < len(rows); r++ {
		for c := 0; c+1 < p.VerticesPerRow; c++ {
			v00, v01 := rows[r][c], rows[r][c+1]
			v10, v11 := rows[r+1][c], rows[r+1][c+1]
			mesh.Triangles = append(mesh.Triangles, triFrom(v00, v01, v10))
			mesh.Triangles = append(mesh.Triangles, triFrom(v01, v11, v10))
		}
	}
	return &mesh, nil
}

// decodePatch handles Coons (6, 12 control points) and tensor-product
// (7, 16 control points) patches: it reads the full control-point and
// corner-color set per ISO 32000-1 §8.7.4.5.6/.7 but only the four
// corners feed the triangle approximation (see the Mesh doc comment).
func decodePatch(data []byte, p MeshParams) (*Mesh, error) {
	nPoints := 12
	if p.ShadingType == 7 {
		nPoints = 16
	}
	br := bitio.NewReader(data)
	var mesh Mesh
	var prevCorners [4]vertex
	havePrev := false
	for {
		flagRaw, ok := br.ReadBits(p.BitsPerFlag)
		if !ok {
			break
		}
		newPoints := nPoints
		newColors := 4
		if flagRaw != 0 {
			newPoints = nPoints - 4 // shares one edge (4 points) with the previous patch
			newColors = 2
		}

		pts := make([][2]float64, newPoints)
		for i := range pts {
			rx, ok := br.ReadBits(p.BitsPerCoordinate)
			if !ok {
				return &mesh, nil
			}
			ry, ok := br.ReadBits(p.BitsPerCoordinate)
			if !ok {
				return &mesh, nil
			}
			pts[i] = [2]float64{decodeSample(rx, p.BitsPerCoordinate, p.Decode, 0), decodeSample(ry, p.BitsPerCoordinate, p.Decode, 1)}
		}
		cols := make([]color.Color, newColors)
		for i := range cols {
			nc := p.nColor()
			comps := make([]float64, nc)
			for j := 0; j < nc; j++ {
				raw, ok := br.ReadBits(p.BitsPerComponent)
				if !ok {
					return &mesh, nil
				}
				comps[j] = decodeSample(raw, p.BitsPerComponent, p.Decode, 2+j)
			}
			cols[i] = colorFromComponents(p, comps)
		}
		br.Align()

		var corners [4]vertex
		if flagRaw == 0 || !havePrev {
			if len(pts) < 4 || len(cols) < 4 {
				break
			}
			corners = [4]vertex{
				{x: pts[0][0], y: pts[0][1], c: cols[0]},
				{x: pts[3][0], y: pts[3][1], c: cols[1]},
				{x: pts[6][0], y: pts[6][1], c: cols[2]},
				{x: pts[9][0], y: pts[9][1], c: cols[3]},
			}
		} else {
			// Shares an edge with the previous patch; approximate by
			// reusing the previous patch's opposite edge as this
			// patch's first two corners.
			if len(pts) < 4 || len(cols) < 2 {
				break
			}
			corners = [4]vertex{
				prevCorners[1], prevCorners[2],
				{x: pts[2][0], y: pts[2][1], c: cols[0]},
				{x: pts[5][0], y: pts[5][1], c: cols[1]},
			}
		}

		mesh.Triangles = append(mesh.Triangles, triFrom(corners[0], corners[1], corners[2]))
		mesh.Triangles = append(mesh.Triangles, triFrom(corners[0], corners[2], corners[3]))
		prevCorners = corners
		havePrev = true
	}
	return &mesh, nil
}

func triFrom(a, b, c vertex) Triangle {
	return Triangle{X: [3]float64{a.x, b.x, c.x}, Y: [3]float64{a.y, b.y, c.y}, C: [3]color.Color{a.c, b.c, c.c}}
}
