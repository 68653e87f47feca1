package patchdb

import (
	"container/list"
	"sync"
)

// DB is the thread-safe store of modules and cables for all four slots.
// A single mutex protects it; the walk API hands back owned copies so a
// walk never needs to re-enter the lock it already holds (see moduleWalk
// and cableWalk), which is what lets this use a plain sync.Mutex where the
// original implementation needed a recursive one.
type DB struct {
	mu sync.Mutex

	modules     *list.List // of *Module
	moduleIndex map[ModuleKey]*list.Element

	cables     *list.List // of *Cable
	cableIndex map[CableKey]*list.Element

	moduleWalk *list.Element
	cableWalk  *list.Element

	sideTables [NumSlots]SlotSideTables
}

// New returns an empty patch database.
func New() *DB {
	return &DB{
		modules:     list.New(),
		moduleIndex: make(map[ModuleKey]*list.Element),
		cables:      list.New(),
		cableIndex:  make(map[CableKey]*list.Element),
	}
}

// ReadModule returns a copy of the module at key, and whether it exists.
func (db *DB) ReadModule(key ModuleKey) (Module, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	el, ok := db.moduleIndex[key]
	if !ok {
		return Module{}, false
	}
	return *el.Value.(*Module), true
}

// WriteModule inserts a new module or overwrites an existing one in
// place, preserving its position in the list (and so any active walk's
// notion of what comes next).
func (db *DB) WriteModule(key ModuleKey, m Module) {
	db.mu.Lock()
	defer db.mu.Unlock()
	m.Key = key
	if el, ok := db.moduleIndex[key]; ok {
		*el.Value.(*Module) = m
		return
	}
	el := db.modules.PushBack(&m)
	db.moduleIndex[key] = el
}

// DeleteModule removes the module at key. If the walk cursor is
// positioned on it, the cursor rewinds to the predecessor so the next
// WalkNextModule yields what would have followed the deleted entry.
func (db *DB) DeleteModule(key ModuleKey) {
	db.mu.Lock()
	defer db.mu.Unlock()
	el, ok := db.moduleIndex[key]
	if !ok {
		return
	}
	if db.moduleWalk == el {
		db.moduleWalk = el.Prev()
	}
	db.modules.Remove(el)
	delete(db.moduleIndex, key)
}

// ResetWalkModule begins a module walk, acquiring the DB lock for its
// duration. FinishWalkModule must be called exactly once to release it.
func (db *DB) ResetWalkModule() {
	db.mu.Lock()
	db.moduleWalk = nil
}

// FinishWalkModule ends a module walk started by ResetWalkModule.
func (db *DB) FinishWalkModule() {
	db.mu.Unlock()
}

// WalkNextModule advances the walk cursor and returns a copy of the next
// module, or false once the walk is exhausted.
func (db *DB) WalkNextModule() (Module, bool) {
	if db.moduleWalk == nil {
		db.moduleWalk = db.modules.Front()
	} else {
		db.moduleWalk = db.moduleWalk.Next()
	}
	if db.moduleWalk == nil {
		return Module{}, false
	}
	return *db.moduleWalk.Value.(*Module), true
}

// ClearModules removes every module across all slots.
func (db *DB) ClearModules() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.modules.Init()
	db.moduleIndex = make(map[ModuleKey]*list.Element)
	db.moduleWalk = nil
}

// ReadCable returns a copy of the cable at key, and whether it exists.
func (db *DB) ReadCable(key CableKey) (Cable, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	el, ok := db.cableIndex[key]
	if !ok {
		return Cable{}, false
	}
	return *el.Value.(*Cable), true
}

// WriteCable inserts or overwrites a cable in place.
func (db *DB) WriteCable(key CableKey, c Cable) {
	db.mu.Lock()
	defer db.mu.Unlock()
	c.Key = key
	if el, ok := db.cableIndex[key]; ok {
		*el.Value.(*Cable) = c
		return
	}
	el := db.cables.PushBack(&c)
	db.cableIndex[key] = el
}

// DeleteCable removes the cable at key, rewinding an active walk cursor
// positioned on it the same way DeleteModule does.
func (db *DB) DeleteCable(key CableKey) {
	db.mu.Lock()
	defer db.mu.Unlock()
	el, ok := db.cableIndex[key]
	if !ok {
		return
	}
	if db.cableWalk == el {
		db.cableWalk = el.Prev()
	}
	db.cables.Remove(el)
	delete(db.cableIndex, key)
}

func (db *DB) ResetWalkCable() {
	db.mu.Lock()
	db.cableWalk = nil
}

func (db *DB) FinishWalkCable() {
	db.mu.Unlock()
}

func (db *DB) WalkNextCable() (Cable, bool) {
	if db.cableWalk == nil {
		db.cableWalk = db.cables.Front()
	} else {
		db.cableWalk = db.cableWalk.Next()
	}
	if db.cableWalk == nil {
		return Cable{}, false
	}
	return *db.cableWalk.Value.(*Cable), true
}

// ClearCables removes every cable across all slots.
func (db *DB) ClearCables() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.cables.Init()
	db.cableIndex = make(map[CableKey]*list.Element)
	db.cableWalk = nil
}

// SideTables returns a copy of the per-slot side tables (knobs,
// controllers, notes, patch description, version discipline).
func (db *DB) SideTables(slot uint8) SlotSideTables {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.sideTables[slot]
}

// SetSideTables overwrites the per-slot side tables wholesale, as happens
// on every fetch.
func (db *DB) SetSideTables(slot uint8, t SlotSideTables) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.sideTables[slot] = t
}

// PatchVersion returns the recognized patch-version byte for a slot.
func (db *DB) PatchVersion(slot uint8) uint8 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.sideTables[slot].PatchVersion
}

// SetPatchVersion updates the recognized patch-version byte for a slot.
func (db *DB) SetPatchVersion(slot uint8, version uint8) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.sideTables[slot].PatchVersion = version
}
