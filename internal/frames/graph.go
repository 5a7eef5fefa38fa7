// Package frames holds the two directed graphs that define the
// kinematic semantics of a scope: the frame-attached-to graph and the
// pose-relative-to graph. Vertices live in an arena addressed by stable
// integer ids; entities outside this package refer to vertices by id,
// never by pointer.
package frames

import (
	"fmt"

	"sdformat/internal/pose"
	"sdformat/internal/shared"
)

// Kind tags what a vertex stands for.
type Kind string

const (
	KindScopeRoot Kind = "scope_root"
	KindLink      Kind = "link"
	KindJoint     Kind = "joint"
	KindFrame     Kind = "frame"
	KindModel     Kind = "model"
	KindLight     Kind = "light"
)

// Vertex is one named entity of a scope.
type Vertex struct {
	ID   int
	Name string
	Kind Kind
}

// arena owns the vertices of one scope, shared by both graphs.
type arena struct {
	verts  []Vertex
	byName map[string]int
}

func newArena() *arena {
	return &arena{byName: map[string]int{}}
}

func (a *arena) add(name string, kind Kind) int {
	id := len(a.verts)
	a.verts = append(a.verts, Vertex{ID: id, Name: name, Kind: kind})
	a.byName[name] = id
	return id
}

func (a *arena) lookup(name string) (int, bool) {
	id, ok := a.byName[name]
	return id, ok
}

// ScopeGraphs bundles the two graphs of one scope. The zero value is
// not usable; NewScope creates a scope with its root vertex installed.
type ScopeGraphs struct {
	arena *arena

	// rootID is the scope root vertex: __model__ in a model scope,
	// world in a world scope.
	rootID int

	// scopeName is the reserved name the root vertex answers to.
	scopeName string

	// attachedTo maps vertex id to the id it is attached to. Sinks have
	// no entry.
	attachedTo map[int]int

	// relTo maps vertex id to its pose edge. The root has no entry.
	relTo map[int]poseEdge
}

type poseEdge struct {
	to   int
	pose pose.Pose3
}

// NewScope creates the graphs for a scope. scopeName is "__model__" for
// models and "world" for worlds.
func NewScope(scopeName string) *ScopeGraphs {
	a := newArena()
	g := &ScopeGraphs{
		arena:      a,
		scopeName:  scopeName,
		attachedTo: map[int]int{},
		relTo:      map[int]poseEdge{},
	}
	g.rootID = a.add(scopeName, KindScopeRoot)
	return g
}

// ScopeName returns the reserved name of the scope root.
func (g *ScopeGraphs) ScopeName() string { return g.scopeName }

// RootID returns the id of the scope root vertex.
func (g *ScopeGraphs) RootID() int { return g.rootID }

// AddVertex registers a named entity and returns its id. Duplicate
// names keep the first vertex and report the collision to the caller.
func (g *ScopeGraphs) AddVertex(name string, kind Kind) (int, error) {
	if _, exists := g.arena.lookup(name); exists {
		return 0, fmt.Errorf("name %q already used in this scope", name)
	}
	return g.arena.add(name, kind), nil
}

// VertexByName resolves a name, accepting the scope aliases __model__
// and world for the root.
func (g *ScopeGraphs) VertexByName(name string) (Vertex, bool) {
	if name == "" || name == g.scopeName {
		return g.arena.verts[g.rootID], true
	}
	if name == shared.FrameModel && g.scopeName == shared.FrameModel {
		return g.arena.verts[g.rootID], true
	}
	id, ok := g.arena.lookup(name)
	if !ok {
		return Vertex{}, false
	}
	return g.arena.verts[id], true
}

// Vertices returns the vertex list in insertion order.
func (g *ScopeGraphs) Vertices() []Vertex { return g.arena.verts }

// SetAttachedTo installs the attachment edge from one vertex to
// another.
func (g *ScopeGraphs) SetAttachedTo(from, to int) {
	g.attachedTo[from] = to
}

// AttachedTo returns the attachment target of a vertex, if any.
func (g *ScopeGraphs) AttachedTo(from int) (int, bool) {
	to, ok := g.attachedTo[from]
	return to, ok
}

// SetPoseEdge installs (or replaces) the pose edge of a vertex: from
// expressed in to is p.
func (g *ScopeGraphs) SetPoseEdge(from, to int, p pose.Pose3) {
	g.relTo[from] = poseEdge{to: to, pose: p}
}

// PoseEdge returns the pose edge of a vertex, if any.
func (g *ScopeGraphs) PoseEdge(from int) (to int, p pose.Pose3, ok bool) {
	e, ok := g.relTo[from]
	return e.to, e.pose, ok
}

// name is a convenience for diagnostics.
func (g *ScopeGraphs) name(id int) string {
	return g.arena.verts[id].Name
}
