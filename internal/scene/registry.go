// Package scene maps named nodes to stable integer handles. Handles are
// resolved once at load time; the simulation core stores handles and writes
// rotation angles through them but never owns the nodes.
package scene

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

type Handle int

// NoHandle marks an unbound role. Writes to it are dropped.
const NoHandle Handle = -1

var ErrUnknownNode = errors.New("scene: unknown node")

type node struct {
	name     string
	rotation float64
}

type Registry struct {
	nodes  []node
	byName map[string]Handle
}

func NewRegistry(names ...string) *Registry {
	r := &Registry{byName: make(map[string]Handle)}
	for _, n := range names {
		r.Add(n)
	}
	return r
}

// Add registers name and returns its handle. Adding an existing name returns
// the handle it already has.
func (r *Registry) Add(name string) Handle {
	if h, ok := r.byName[name]; ok {
		return h
	}
	h := Handle(len(r.nodes))
	r.nodes = append(r.nodes, node{name: name})
	r.byName[name] = h
	return h
}

func (r *Registry) Resolve(name string) (Handle, error) {
	h, ok := r.byName[name]
	if !ok {
		return NoHandle, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	return h, nil
}

// ResolveOptional returns NoHandle for an empty or missing name.
func (r *Registry) ResolveOptional(name string) Handle {
	if h, ok := r.byName[name]; ok {
		return h
	}
	return NoHandle
}

func (r *Registry) valid(h Handle) bool {
	return h >= 0 && int(h) < len(r.nodes)
}

func (r *Registry) SetRotation(h Handle, angle float64) {
	if !r.valid(h) || math.IsNaN(angle) {
		return
	}
	r.nodes[h].rotation = angle
}

func (r *Registry) Rotation(h Handle) float64 {
	if !r.valid(h) {
		return 0
	}
	return r.nodes[h].rotation
}

func (r *Registry) Name(h Handle) string {
	if !r.valid(h) {
		return ""
	}
	return r.nodes[h].name
}

func (r *Registry) Len() int { return len(r.nodes) }

// Snapshot returns every node's rotation keyed by name.
func (r *Registry) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(r.nodes))
	for _, n := range r.nodes {
		out[n.name] = n.rotation
	}
	return out
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.nodes))
	for _, n := range r.nodes {
		names = append(names, n.name)
	}
	sort.Strings(names)
	return names
}
