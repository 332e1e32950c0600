package app

import (
	"testing"

	"github.com/kasitis/tests1/internal/model"
	"github.com/kasitis/tests1/internal/storage"
)

func newTestContainer(t *testing.T) (*Container, *storage.Store) {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	c := NewContainer(store)
	if err := c.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return c, store
}

func TestDispatchPersistsChangedCollections(t *testing.T) {
	c, store := newTestContainer(t)

	c.Dispatch(CreateProfile{Name: "Driving"})

	data, err := store.Get(storage.CollectionProfiles)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data == nil {
		t.Fatal("profile creation should write the profiles collection")
	}

	// A fresh container over the same store sees the profile.
	c2 := NewContainer(store)
	if err := c2.Init(); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	profiles := c2.State().Profiles
	if len(profiles) != 1 || profiles[0].Name != "Driving" {
		t.Fatalf("reloaded profiles = %+v", profiles)
	}
}

func TestRejectedActionWritesNothing(t *testing.T) {
	c, store := newTestContainer(t)

	c.Dispatch(CreateProfile{Name: "   "})

	data, err := store.Get(storage.CollectionProfiles)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Error("a rejected action must not persist anything")
	}
}

func TestClearAllUserDataWipesStore(t *testing.T) {
	c, store := newTestContainer(t)
	c.Dispatch(CreateProfile{Name: "Doomed"})

	c.Dispatch(ClearAllUserData{})

	data, err := store.Get(storage.CollectionProfiles)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Error("clear should delete the profiles collection, not rewrite it")
	}
	if len(c.State().Profiles) != 0 {
		t.Error("in-memory profiles should be gone")
	}
}

func TestActiveProfileReturnsCopy(t *testing.T) {
	c, _ := newTestContainer(t)
	c.Dispatch(CreateProfile{Name: "Driving"})
	id := c.State().Profiles[0].ID
	c.Dispatch(Navigate{View: model.ViewTestProfileHub, ProfileID: &id})

	p := c.ActiveProfile()
	if p == nil || p.ID != id {
		t.Fatalf("ActiveProfile = %+v", p)
	}
	p.Name = "mutated"
	if c.State().Profiles[0].Name != "Driving" {
		t.Error("mutating the returned profile must not touch state")
	}
}
