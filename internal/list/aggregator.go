// Package list maintains the live, day-grouped view of the committed
// note collection plus multi-select state for bulk actions and export.
package list

import (
	"context"
	"sync"
	"time"

	"github.com/rnote-app/rnote/internal/note"
	"github.com/rnote-app/rnote/internal/store"
)

// dayKeyFormat is the calendar-day grouping key, in the viewer's local
// zone. The same YYYY-MM-DD convention is used by the export engine so
// grouping and export dates never diverge within one export.
const dayKeyFormat = "2006-01-02"

// ExportTarget selects which notes an export covers.
type ExportTarget string

const (
	ExportAll      ExportTarget = "all"
	ExportSelected ExportTarget = "selected"
)

// DayGroup is one calendar day's notes, newest first.
type DayGroup struct {
	Day   string
	Notes []note.Note
}

// Aggregator consumes the store's live subscription and derives the
// grouped view, selection state, and export target set.
type Aggregator struct {
	store *store.Store
	sub   *store.Subscription

	mu           sync.Mutex
	notes        []note.Note
	editMode     bool
	selected     map[string]struct{}
	exportTarget ExportTarget

	done chan struct{}
}

// New subscribes to the store and starts consuming snapshots. Close (or
// cancelling ctx) ends the subscription.
func New(ctx context.Context, st *store.Store) (*Aggregator, error) {
	sub, err := st.SubscribeAll(ctx)
	if err != nil {
		return nil, err
	}

	a := &Aggregator{
		store:        st,
		sub:          sub,
		selected:     make(map[string]struct{}),
		exportTarget: ExportAll,
		done:         make(chan struct{}),
	}

	go a.consume()
	return a, nil
}

func (a *Aggregator) consume() {
	defer close(a.done)
	for snapshot := range a.sub.Updates() {
		a.mu.Lock()
		a.notes = snapshot
		// Drop selections for notes that no longer exist
		if len(a.selected) > 0 {
			present := make(map[string]struct{}, len(snapshot))
			for _, n := range snapshot {
				present[n.ID] = struct{}{}
			}
			for id := range a.selected {
				if _, ok := present[id]; !ok {
					delete(a.selected, id)
				}
			}
		}
		a.mu.Unlock()
	}
}

// Close cancels the underlying subscription and waits for the consumer
// goroutine to drain.
func (a *Aggregator) Close() {
	a.sub.Cancel()
	<-a.done
}

// Notes returns the current committed collection, newest-created first.
func (a *Aggregator) Notes() []note.Note {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]note.Note, len(a.notes))
	copy(out, a.notes)
	return out
}

// Grouped returns the collection grouped by calendar day. Day groups are
// ordered newest day first and notes within a group keep the store's
// newest-first order.
func (a *Aggregator) Grouped() []DayGroup {
	a.mu.Lock()
	defer a.mu.Unlock()
	return GroupByDay(a.notes)
}

// GroupByDay groups notes by calendar day, preserving the input order
// both across groups (first-seen day order) and within each group.
func GroupByDay(notes []note.Note) []DayGroup {
	groups := make([]DayGroup, 0)
	index := make(map[string]int)
	for _, n := range notes {
		day := time.Unix(n.CreatedAt, 0).Format(dayKeyFormat)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DayGroup{Day: day})
		}
		groups[i].Notes = append(groups[i].Notes, n)
	}
	return groups
}

// ToggleEditMode flips edit mode and always clears the selection.
func (a *Aggregator) ToggleEditMode() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.editMode = !a.editMode
	a.selected = make(map[string]struct{})
}

// EditMode reports whether multi-select edit mode is active.
func (a *Aggregator) EditMode() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.editMode
}

// ToggleSelection adds or removes one note id from the selection.
func (a *Aggregator) ToggleSelection(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.selected[id]; ok {
		delete(a.selected, id)
	} else {
		a.selected[id] = struct{}{}
	}
}

// SelectAll selects every currently loaded note.
func (a *Aggregator) SelectAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected = make(map[string]struct{}, len(a.notes))
	for _, n := range a.notes {
		a.selected[n.ID] = struct{}{}
	}
}

// DeselectAll clears the selection.
func (a *Aggregator) DeselectAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected = make(map[string]struct{})
}

// SelectedIDs returns the selected ids in current list order.
func (a *Aggregator) SelectedIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selectedIDsLocked()
}

func (a *Aggregator) selectedIDsLocked() []string {
	ids := make([]string, 0, len(a.selected))
	for _, n := range a.notes {
		if _, ok := a.selected[n.ID]; ok {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// DeleteSelected removes the selected notes from the store, then leaves
// edit mode and clears the selection. An empty selection only resets the
// mode.
func (a *Aggregator) DeleteSelected() error {
	a.mu.Lock()
	ids := a.selectedIDsLocked()
	a.mu.Unlock()

	if len(ids) > 0 {
		if err := a.store.DeleteMany(ids); err != nil {
			return err
		}
	}

	a.mu.Lock()
	a.editMode = false
	a.selected = make(map[string]struct{})
	a.mu.Unlock()
	return nil
}

// RequestExport records which target set the next export covers.
func (a *Aggregator) RequestExport(target ExportTarget) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.exportTarget = target
}

// ExportTargetSet reports the currently requested export target.
func (a *Aggregator) ExportTargetSet() ExportTarget {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exportTarget
}

// NotesForExport derives the export set from the requested target: the
// full loaded collection, or only the selected notes.
func (a *Aggregator) NotesForExport() []note.Note {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.exportTarget == ExportSelected {
		out := make([]note.Note, 0, len(a.selected))
		for _, n := range a.notes {
			if _, ok := a.selected[n.ID]; ok {
				out = append(out, n)
			}
		}
		return out
	}

	out := make([]note.Note, len(a.notes))
	copy(out, a.notes)
	return out
}
