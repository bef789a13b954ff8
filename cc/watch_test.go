package cc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchConfig_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tunables.json")

	initial := Tunables{AutoCollect: true, AllocThreshold: 700, BufferedThreshold: 1000}
	writeTunables(t, path, initial)

	cw, err := WatchConfig(path)
	if err != nil {
		t.Fatalf("WatchConfig: %v", err)
	}
	defer cw.Close()

	updated := Tunables{AutoCollect: false, AllocThreshold: 42, BufferedThreshold: 7}
	writeTunables(t, path, updated)

	select {
	case got := <-cw.Reloads():
		if got != updated {
			t.Fatalf("got %+v, want %+v", got, updated)
		}
	case err := <-cw.Errors():
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a reload")
	}
}

func writeTunables(t *testing.T, path string, tn Tunables) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tn); err != nil {
		t.Fatalf("encode: %v", err)
	}
}
