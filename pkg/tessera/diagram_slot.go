package tessera

import "sync/atomic"

// atomicDiagram is the process-wide "current diagram" slot: a single
// atomic.Pointer swap gives replace and clear both all-or-nothing
// visibility (spec §6: "a reader either observes the previous diagram
// wholly or the new diagram wholly; no partial observation"). store and
// clear never touch a previously published *Diagram in place — they only
// ever swap the pointer — so a reader holding an old load()'d copy is
// unaffected by a concurrent replace.
type atomicDiagram struct {
	p atomic.Pointer[Diagram]
}

// load returns a copy of the current diagram and true, or a zero value and
// false if the slot is empty. Copying out here is what keeps callers from
// ever holding a reference into the slot's interior (§9 REDESIGN FLAGS:
// "never expose mutable interior references; readers copy out their
// handle").
func (a *atomicDiagram) load() (Diagram, bool) {
	d := a.p.Load()
	if d == nil {
		return Diagram{}, false
	}
	return *d, true
}

// store publishes d as the current diagram, replacing whatever was there.
func (a *atomicDiagram) store(d Diagram) {
	a.p.Store(&d)
}

// clear empties the slot.
func (a *atomicDiagram) clear() {
	a.p.Store(nil)
}
