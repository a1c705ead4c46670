// Package export writes generated pipe scenes to 3MF. Every mesh-bearing
// object in the scene tree becomes one 3MF mesh object with its world
// transform baked into the vertices, and scene materials become base
// materials referenced by the objects.
package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/hpinc/go3mf"

	"github.com/chazu/pipewright/pkg/scene"
)

// Write3MF encodes the world-space meshes under the given roots into a 3MF
// package. An error is returned when the tree holds no geometry at all;
// encoding an empty model would produce a package no slicer accepts.
func Write3MF(w io.Writer, roots ...*scene.Object) error {
	model := new(go3mf.Model)
	model.Units = go3mf.UnitMillimeter

	group := &go3mf.BaseMaterials{ID: 1}
	matIndex := make(map[*scene.Material]uint32)

	var objects []*scene.Object
	for _, r := range roots {
		collectMeshes(r, &objects)
	}
	if len(objects) == 0 {
		return fmt.Errorf("export: scene has no geometry")
	}

	nextID := uint32(2)
	for _, o := range objects {
		obj := &go3mf.Object{
			ID:   nextID,
			Name: o.Name,
			Mesh: new(go3mf.Mesh),
		}
		if o.Material != nil {
			obj.PID = group.ID
			obj.PIndex = materialIndex(group, matIndex, o.Material)
		}

		m := o.WorldMesh()
		for i := 0; i < m.VertexCount(); i++ {
			v := m.Vertex(i)
			obj.Mesh.Vertices.Vertex = append(obj.Mesh.Vertices.Vertex,
				go3mf.Point3D{float32(v.X), float32(v.Y), float32(v.Z)})
		}
		for i := 0; i+2 < len(m.Indices); i += 3 {
			obj.Mesh.Triangles.Triangle = append(obj.Mesh.Triangles.Triangle,
				go3mf.Triangle{V1: m.Indices[i], V2: m.Indices[i+1], V3: m.Indices[i+2]})
		}

		model.Resources.Objects = append(model.Resources.Objects, obj)
		model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: obj.ID})
		nextID++
	}

	if len(group.Materials) > 0 {
		model.Resources.Assets = append(model.Resources.Assets, group)
	}

	if err := go3mf.NewEncoder(w).Encode(model); err != nil {
		return fmt.Errorf("export: encode 3mf: %w", err)
	}
	return nil
}

// collectMeshes walks the subtree in depth-first order, appending every
// object that carries geometry.
func collectMeshes(o *scene.Object, out *[]*scene.Object) {
	if !o.Mesh.IsEmpty() {
		*out = append(*out, o)
	}
	for _, c := range o.Children() {
		collectMeshes(c, out)
	}
}

// materialIndex returns the base-material index for mat, adding it to the
// group on first use.
func materialIndex(group *go3mf.BaseMaterials, seen map[*scene.Material]uint32, mat *scene.Material) uint32 {
	if idx, ok := seen[mat]; ok {
		return idx
	}
	idx := uint32(len(group.Materials))
	group.Materials = append(group.Materials, go3mf.Base{
		Name:  mat.Name,
		Color: rgba(mat.BaseColor),
	})
	seen[mat] = idx
	return idx
}

// rgba converts a 0..1 RGB triple to an opaque 8-bit color.
func rgba(c [3]float64) color.RGBA {
	return color.RGBA{
		R: channel(c[0]),
		G: channel(c[1]),
		B: channel(c[2]),
		A: 255,
	}
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
