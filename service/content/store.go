// Package content defines the content store the engine annotates once a
// workflow finishes. Resources are addressed by slash separated paths and
// carry a mutable metadata property bag; changes become durable on Commit.
package content

import "context"

// Properties represents mutable resource metadata
type Properties map[string]interface{}

// Resource represents a content item
type Resource struct {
	Path     string     `json:"path"`
	Metadata Properties `json:"metadata,omitempty"`
}

// Properties returns the mutable metadata map
func (r *Resource) Properties() Properties {
	if r.Metadata == nil {
		r.Metadata = Properties{}
	}
	return r.Metadata
}

// Clone returns a copy of the resource
func (r *Resource) Clone() *Resource {
	ret := &Resource{Path: r.Path, Metadata: make(Properties, len(r.Metadata))}
	for k, v := range r.Metadata {
		ret.Metadata[k] = v
	}
	return ret
}

// Store represents a content store session
type Store interface {
	// Get returns the resource at path or nil when absent
	Get(ctx context.Context, path string) (*Resource, error)
	// Commit persists changes made to resources returned by Get
	Commit(ctx context.Context) error
}
