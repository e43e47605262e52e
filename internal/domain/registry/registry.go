// Package registry holds the tag registry: the label space shared by training and inference.
package registry

import (
	"strings"

	"github.com/kailas-cloud/intentd/internal/domain"
)

// Registry maps intent tags to responses and to stable label indices.
// It is immutable after New and safe for concurrent reads.
type Registry struct {
	tags      []string
	index     map[string]int
	responses map[string][]string
}

// New builds a registry from datasets in order. Tag order is first-seen order.
// A repeated tag keeps its index; the later definition's responses win.
// Blank tags are not registered.
func New(datasets ...domain.Dataset) *Registry {
	r := &Registry{
		index:     make(map[string]int),
		responses: make(map[string][]string),
	}
	for _, ds := range datasets {
		for _, in := range ds.Intents {
			if strings.TrimSpace(in.Tag) == "" {
				continue
			}
			if _, ok := r.index[in.Tag]; !ok {
				r.index[in.Tag] = len(r.tags)
				r.tags = append(r.tags, in.Tag)
			}
			r.responses[in.Tag] = append([]string(nil), in.Responses...)
		}
	}
	return r
}

// Tags returns a copy of the ordered tag list.
func (r *Registry) Tags() []string {
	out := make([]string, len(r.tags))
	copy(out, r.tags)
	return out
}

// Len returns the number of registered tags.
func (r *Registry) Len() int { return len(r.tags) }

// Index returns the label index of tag.
func (r *Registry) Index(tag string) (int, bool) {
	i, ok := r.index[tag]
	return i, ok
}

// TagAt returns the tag at label index i.
func (r *Registry) TagAt(i int) (string, bool) {
	if i < 0 || i >= len(r.tags) {
		return "", false
	}
	return r.tags[i], true
}

// ResponsesFor returns a copy of the responses stored for tag.
// Unknown tags return false, never an error.
func (r *Registry) ResponsesFor(tag string) ([]string, bool) {
	resp, ok := r.responses[tag]
	if !ok {
		return nil, false
	}
	out := make([]string, len(resp))
	copy(out, resp)
	return out, true
}

// SameTags reports whether tags equals the registry tag order exactly.
func (r *Registry) SameTags(tags []string) bool {
	if len(tags) != len(r.tags) {
		return false
	}
	for i, t := range tags {
		if r.tags[i] != t {
			return false
		}
	}
	return true
}
