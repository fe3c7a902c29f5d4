package storage

import (
	"maps"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	store := openTestStore(t)

	fields := map[string]string{"mode": "listening", "sequence": "0312", "cursor": "2"}
	if err := store.SaveSnapshot(SlotLocal, fields); err != nil {
		t.Fatalf("SaveSnapshot() failed: %v", err)
	}

	got, err := store.LoadSnapshot(SlotLocal)
	if err != nil {
		t.Fatalf("LoadSnapshot() failed: %v", err)
	}
	if !maps.Equal(got, fields) {
		t.Errorf("LoadSnapshot() = %v, expected %v", got, fields)
	}
}

func TestSnapshotReplacesSlot(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveSnapshot(SlotLocal, map[string]string{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("SaveSnapshot() failed: %v", err)
	}
	if err := store.SaveSnapshot(SlotLocal, map[string]string{"a": "3"}); err != nil {
		t.Fatalf("SaveSnapshot() failed: %v", err)
	}

	got, err := store.LoadSnapshot(SlotLocal)
	if err != nil {
		t.Fatalf("LoadSnapshot() failed: %v", err)
	}
	if len(got) != 1 || got["a"] != "3" {
		t.Errorf("LoadSnapshot() = %v, expected only a=3", got)
	}
}

func TestSnapshotSlotsAreIndependent(t *testing.T) {
	store := openTestStore(t)

	alice := SSHSlot("alice")
	if err := store.SaveSnapshot(alice, map[string]string{"mode": "idle"}); err != nil {
		t.Fatalf("SaveSnapshot() failed: %v", err)
	}

	got, err := store.LoadSnapshot(SlotLocal)
	if err != nil {
		t.Fatalf("LoadSnapshot() failed: %v", err)
	}
	if got != nil {
		t.Errorf("LoadSnapshot(local) = %v, expected nil", got)
	}

	if err := store.DeleteSnapshot(alice); err != nil {
		t.Fatalf("DeleteSnapshot() failed: %v", err)
	}
	if got, _ := store.LoadSnapshot(alice); got != nil {
		t.Errorf("snapshot survived delete: %v", got)
	}
}
