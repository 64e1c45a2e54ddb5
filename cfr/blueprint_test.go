package cfr

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

func TestKeyWireStringRoundTrip(t *testing.T) {
	keys := []InfoSetKey{
		{Path: "", CardBucket: 0},
		{Path: string([]byte{0, 1, 2, 3}), CardBucket: 168},
		{Path: string([]byte{4, 0, 1}), CardBucket: 12345},
	}
	for _, want := range keys {
		wire := keyToWireString(want)
		got, err := keyFromWireString(wire)
		if err != nil {
			t.Fatalf("keyFromWireString(%q): %v", wire, err)
		}
		if got != want {
			t.Fatalf("round trip mismatch: want %+v, got %+v (wire %q)", want, got, wire)
		}
	}
}

func TestBlueprintSaveLoadRoundTrip(t *testing.T) {
	cfg := smokeConfig()
	trainer, err := NewTrainer(cfg)
	if err != nil {
		t.Fatalf("NewTrainer: %v", err)
	}
	if err := trainer.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	bp := trainer.Blueprint()
	path := filepath.Join(t.TempDir(), "blueprint.json")
	if err := bp.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadBlueprint(path)
	if err != nil {
		t.Fatalf("LoadBlueprint: %v", err)
	}
	if diff := cmp.Diff(bp.Strategies, loaded.Strategies); diff != "" {
		t.Fatalf("strategies mismatch after round trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(bp.Iterations, loaded.Iterations); diff != "" {
		t.Fatalf("iterations mismatch after round trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(bp.Abstraction, loaded.Abstraction); diff != "" {
		t.Fatalf("abstraction config mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestLoadBlueprintRejectsWrongVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	writeFile(t, path, `{"version":999,"strategies":{}}`)
	if _, err := LoadBlueprint(path); err == nil {
		t.Fatal("expected an error loading a blueprint with an unsupported version")
	}
}
