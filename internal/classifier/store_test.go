// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package classifier

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore_EmptyDirectory(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, ok := store.Current(); ok {
		t.Error("expected no model in an empty directory")
	}

	v, err := store.NextVersion()
	if err != nil {
		t.Fatalf("NextVersion: %v", err)
	}
	if v != 1 {
		t.Errorf("NextVersion() = %d, want 1", v)
	}
}

func TestStore_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := store.Save(leafArtifact(t, 1, 0.3, 2)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	model, ok := store.Current()
	if !ok {
		t.Fatal("expected model after save")
	}
	if model.Version() != 1 {
		t.Errorf("Version() = %d, want 1", model.Version())
	}

	// A fresh store over the same directory loads it back.
	store2, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	model2, ok := store2.Current()
	if !ok || model2.Version() != 1 {
		t.Fatalf("reloaded store: model=%v ok=%v", model2, ok)
	}
}

func TestStore_HighestVersionWins(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := store.Save(leafArtifact(t, 3, 0.3, 1)); err != nil {
		t.Fatalf("Save v3: %v", err)
	}
	if err := store.Save(leafArtifact(t, 2, 0.9, 1)); err != nil {
		t.Fatalf("Save v2: %v", err)
	}

	model, ok := store.Current()
	if !ok || model.Version() != 3 {
		t.Fatalf("Current() version = %v, want 3", model)
	}

	v, err := store.NextVersion()
	if err != nil {
		t.Fatalf("NextVersion: %v", err)
	}
	if v != 4 {
		t.Errorf("NextVersion() = %d, want 4", v)
	}
}

func TestStore_CorruptArtifactSkipped(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "riskmodel_v9.json"), []byte("{broken"), 0o640); err != nil {
		t.Fatalf("write corrupt artifact: %v", err)
	}

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore should tolerate corrupt artifacts: %v", err)
	}
	if _, ok := store.Current(); ok {
		t.Error("corrupt artifact must not be served")
	}
}

func TestStore_ReloadIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Save(leafArtifact(t, 1, 0.5, 1)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o640); err != nil {
		t.Fatalf("write foreign file: %v", err)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	model, ok := store.Current()
	if !ok || model.Version() != 1 {
		t.Fatalf("model disturbed by foreign file: %v %v", model, ok)
	}
}
