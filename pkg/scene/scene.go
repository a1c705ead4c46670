// Package scene provides the minimal retained scene graph the pipe
// generator grows into: objects with a local transform, an optional mesh,
// a material, and parent/child links. World transforms are always resolved
// as parent-world times local; no object carries hidden accumulated state.
package scene

import (
	"github.com/chazu/pipewright/pkg/geom"
	"github.com/chazu/pipewright/pkg/mesh"
)

// Frame selects the coordinate frame a transform operates in.
type Frame int

const (
	// Local applies the operation in the object's own frame, after its
	// current local transform.
	Local Frame = iota
	// Global applies the operation in the parent frame, before the
	// object's current local transform.
	Global
)

// Material is a simple PBR material shared by all geometry of one pipe.
type Material struct {
	Name      string
	BaseColor [3]float64 // RGB in 0..1
	Metallic  float64
	Roughness float64
}

// Object is a node in the scene graph. The zero Local transform is not
// valid; use New or NewEmpty.
type Object struct {
	Name     string
	Mesh     *mesh.Mesh // object-space geometry, nil for pure anchors
	Material *Material
	Local    geom.Mat4

	parent   *Object
	children []*Object
}

// New creates an object carrying the given mesh, at the origin of its
// (future) parent frame.
func New(name string, m *mesh.Mesh) *Object {
	return &Object{Name: name, Mesh: m, Local: geom.Identity()}
}

// NewEmpty creates a meshless anchor object at the given world position.
// Anchors are used for pipe sources.
func NewEmpty(name string, at geom.Vec3) *Object {
	return &Object{Name: name, Local: geom.Translation(at)}
}

// Parent returns the object's parent, or nil for roots.
func (o *Object) Parent() *Object {
	return o.parent
}

// Children returns the object's children. The returned slice is the
// object's own; callers must not mutate it.
func (o *Object) Children() []*Object {
	return o.children
}

// Attach makes child a child of o, keeping the child's current Local
// transform (which is then interpreted relative to o). Attaching an object
// that already has a parent moves it.
func (o *Object) Attach(child *Object) {
	if child.parent != nil {
		child.parent.detach(child)
	}
	child.parent = o
	o.children = append(o.children, child)
}

// detach removes child from o's child list.
func (o *Object) detach(child *Object) {
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// DeleteSubtree removes o and all its descendants from the scene. Used on
// rejected growth candidates.
func (o *Object) DeleteSubtree() {
	if o.parent != nil {
		o.parent.detach(o)
	}
	// Orphan descendants so stale references cannot resolve a world
	// transform through a deleted ancestor.
	for _, c := range o.children {
		c.parent = nil
		c.DeleteSubtree()
	}
	o.children = nil
}

// World returns the object's local-to-world transform, resolved through
// the parent chain.
func (o *Object) World() geom.Mat4 {
	if o.parent == nil {
		return o.Local
	}
	return o.parent.World().Mul(o.Local)
}

// Translate moves the object. In the Local frame the offset follows the
// object's own (possibly rotated) axes; in the Global frame it follows the
// parent's axes.
func (o *Object) Translate(offset geom.Vec3, frame Frame) {
	t := geom.Translation(offset)
	if frame == Local {
		o.Local = o.Local.Mul(t)
	} else {
		o.Local = t.Mul(o.Local)
	}
}

// Rotate rotates the object by angle radians about a principal axis. In
// the Local frame the pivot is the object's own origin and the axis its
// own; position is unaffected.
func (o *Object) Rotate(axis geom.Axis, angle float64, frame Frame) {
	r := geom.Rotation(axis, angle)
	if frame == Local {
		o.Local = o.Local.Mul(r)
	} else {
		o.Local = r.Mul(o.Local)
	}
}

// Scale scales the object in its own frame. Scale is deliberately not
// inherited through Attach-time compensation; it composes explicitly like
// any other transform.
func (o *Object) Scale(factors geom.Vec3) {
	o.Local = o.Local.Mul(geom.Scaling(factors))
}

// WorldMesh returns the object's mesh transformed into world space, or an
// empty mesh if the object has none. Children are not included; see
// WorldMeshRecursive.
func (o *Object) WorldMesh() *mesh.Mesh {
	if o.Mesh.IsEmpty() {
		return &mesh.Mesh{Name: o.Name}
	}
	m := o.Mesh.Transform(o.World())
	m.Name = o.Name
	return m
}

// WorldMeshRecursive returns the merged world-space mesh of the object and
// all its descendants.
func (o *Object) WorldMeshRecursive() *mesh.Mesh {
	parts := []*mesh.Mesh{o.WorldMesh()}
	for _, c := range o.children {
		parts = append(parts, c.WorldMeshRecursive())
	}
	m := mesh.Merge(parts...)
	m.Name = o.Name
	return m
}

// Assign sets the material on o and returns o for chaining.
func (o *Object) Assign(m *Material) *Object {
	o.Material = m
	return o
}
