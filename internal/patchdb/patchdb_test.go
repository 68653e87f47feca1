package patchdb

import (
	"sync"
	"testing"
)

func key(slot uint8, loc Location, index uint8) ModuleKey {
	return ModuleKey{Slot: slot, Location: loc, Index: index}
}

func walkAllModules(db *DB) []ModuleKey {
	db.ResetWalkModule()
	defer db.FinishWalkModule()
	var keys []ModuleKey
	for {
		m, ok := db.WalkNextModule()
		if !ok {
			break
		}
		keys = append(keys, m.Key)
	}
	return keys
}

func TestWalkVisitsEachLiveModuleOnce(t *testing.T) {
	db := New()
	for i := uint8(0); i < 5; i++ {
		db.WriteModule(key(0, LocationFX, i), Module{Type: uint32(i)})
	}
	db.DeleteModule(key(0, LocationFX, 2))

	seen := map[ModuleKey]int{}
	for _, k := range walkAllModules(db) {
		seen[k]++
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 live modules, got %d", len(seen))
	}
	for k, n := range seen {
		if n != 1 {
			t.Errorf("module %+v visited %d times", k, n)
		}
	}
	if _, ok := seen[key(0, LocationFX, 2)]; ok {
		t.Errorf("deleted module still visited")
	}
}

func TestDeleteDuringWalkRewindsToPredecessor(t *testing.T) {
	db := New()
	for i := uint8(0); i < 4; i++ {
		db.WriteModule(key(0, LocationFX, i), Module{Type: uint32(i)})
	}

	db.ResetWalkModule()
	first, _ := db.WalkNextModule()
	second, _ := db.WalkNextModule()
	if first.Key.Index != 0 || second.Key.Index != 1 {
		t.Fatalf("unexpected walk order: %+v %+v", first, second)
	}
	db.FinishWalkModule()

	db.DeleteModule(second.Key)

	db.mu.Lock()
	next, ok := db.WalkNextModule()
	db.mu.Unlock()
	if !ok || next.Key.Index != 2 {
		t.Fatalf("expected module index 2 after deleting the walk's current entry, got %+v ok=%v", next, ok)
	}
}

func TestCablesReferenceExistingModulesInvariant(t *testing.T) {
	db := New()
	db.WriteModule(key(0, LocationFX, 0), Module{Type: 1})
	db.WriteModule(key(0, LocationFX, 1), Module{Type: 2})
	ck := CableKey{Slot: 0, Location: LocationFX, ModuleFromIndex: 0, ModuleToIndex: 1}
	db.WriteCable(ck, Cable{Colour: 3})

	c, ok := db.ReadCable(ck)
	if !ok {
		t.Fatal("cable not found")
	}
	if _, ok := db.ReadModule(key(c.Key.Slot, c.Key.Location, c.Key.ModuleFromIndex)); !ok {
		t.Error("cable's from-module missing")
	}
	if _, ok := db.ReadModule(key(c.Key.Slot, c.Key.Location, c.Key.ModuleToIndex)); !ok {
		t.Error("cable's to-module missing")
	}
}

func TestConcurrentWriteReadDelete(t *testing.T) {
	db := New()
	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := key(0, LocationFX, uint8(i))
			db.WriteModule(k, Module{Type: uint32(i)})
			db.ReadModule(k)
			if i%2 == 0 {
				db.DeleteModule(k)
			}
		}(i)
	}
	wg.Wait()

	count := 0
	for _, k := range walkAllModules(db) {
		if _, ok := db.ReadModule(k); !ok {
			t.Errorf("walk returned key %+v not present on read", k)
		}
		count++
	}
	if count != n/2 {
		t.Errorf("expected %d surviving modules, got %d", n/2, count)
	}
}
