// Package unitofwork holds the pending changes of a storage session until
// they are committed by a backend.
package unitofwork

import (
	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
)

// Op is the kind of pending change.
type Op int

const (
	Upsert Op = iota + 1
	Remove
)

func (o Op) String() string {
	switch o {
	case Upsert:
		return "save"
	case Remove:
		return "delete"
	default:
		return "unknown"
	}
}

// Change is one pending write.
type Change struct {
	Op    Op
	Model domain.Model
}

// WorkingSet tracks registered and removed objects, keyed by "<Kind>.<id>".
// The last change recorded for a key wins; changes are replayed in the
// order their key was first touched. Not safe for concurrent use: a session
// belongs to a single request.
type WorkingSet struct {
	changes map[string]Change
	order   []string
}

func New() *WorkingSet {
	return &WorkingSet{changes: make(map[string]Change)}
}

// Register schedules an insert-or-replace of m.
func (w *WorkingSet) Register(m domain.Model) {
	w.record(Change{Op: Upsert, Model: m.Clone()})
}

// Unregister schedules the removal of m.
func (w *WorkingSet) Unregister(m domain.Model) {
	w.record(Change{Op: Remove, Model: m.Clone()})
}

func (w *WorkingSet) record(c Change) {
	key := domain.Key(c.Model.Kind(), c.Model.Meta().ID)
	if _, seen := w.changes[key]; !seen {
		w.order = append(w.order, key)
	}
	w.changes[key] = c
}

// Lookup returns the pending change for kind/id, if any.
func (w *WorkingSet) Lookup(kind domain.Kind, id string) (Change, bool) {
	c, ok := w.changes[domain.Key(kind, id)]
	if ok {
		c.Model = c.Model.Clone()
	}
	return c, ok
}

// Overlay applies the pending changes for kind on top of committed.
// committed is modified in place and returned.
func (w *WorkingSet) Overlay(kind domain.Kind, committed map[string]domain.Model) map[string]domain.Model {
	if committed == nil {
		committed = make(map[string]domain.Model)
	}
	for _, key := range w.order {
		c := w.changes[key]
		if c.Model.Kind() != kind {
			continue
		}
		id := c.Model.Meta().ID
		switch c.Op {
		case Upsert:
			committed[id] = c.Model.Clone()
		case Remove:
			delete(committed, id)
		}
	}
	return committed
}

// Changes returns the pending changes in replay order.
func (w *WorkingSet) Changes() []Change {
	out := make([]Change, 0, len(w.order))
	for _, key := range w.order {
		out = append(out, w.changes[key])
	}
	return out
}

func (w *WorkingSet) Len() int { return len(w.order) }

// Reset drops every pending change.
func (w *WorkingSet) Reset() {
	w.changes = make(map[string]Change)
	w.order = nil
}
