package settings

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Jamar-Mitchell/screen-blur-focus/internal/models"
)

func openTestDB(t *testing.T) *DBStore {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDBStoreRoundTrip(t *testing.T) {
	store := openTestDB(t)

	if err := store.SetInt(models.KeyOpacity, 55); err != nil {
		t.Fatalf("SetInt error: %v", err)
	}
	if err := store.SetBool(models.KeyEnabled, false); err != nil {
		t.Fatalf("SetBool error: %v", err)
	}
	if err := store.SetString(models.KeyColor, "Dark Gray"); err != nil {
		t.Fatalf("SetString error: %v", err)
	}
	if err := store.SetFloat(models.KeyAnimationSpeed, 0.5); err != nil {
		t.Fatalf("SetFloat error: %v", err)
	}

	if got := store.GetInt(models.KeyOpacity, 0); got != 55 {
		t.Errorf("GetInt = %d, want 55", got)
	}
	if got := store.GetBool(models.KeyEnabled, true); got {
		t.Error("GetBool = true, want false")
	}
	if got := store.GetString(models.KeyColor, ""); got != "Dark Gray" {
		t.Errorf("GetString = %q, want Dark Gray", got)
	}
	if got := store.GetFloat(models.KeyAnimationSpeed, 0); got != 0.5 {
		t.Errorf("GetFloat = %v, want 0.5", got)
	}
}

func TestDBStoreDefaultsOnMiss(t *testing.T) {
	store := openTestDB(t)

	if got := store.GetInt("absent", 70); got != 70 {
		t.Errorf("GetInt default = %d, want 70", got)
	}
	if got := store.GetString("absent", "Black"); got != "Black" {
		t.Errorf("GetString default = %q, want Black", got)
	}
}

func TestDBStoreOverwrite(t *testing.T) {
	store := openTestDB(t)

	if err := store.SetInt(models.KeyOpacity, 30); err != nil {
		t.Fatalf("SetInt error: %v", err)
	}
	if err := store.SetInt(models.KeyOpacity, 80); err != nil {
		t.Fatalf("SetInt error: %v", err)
	}

	if got := store.GetInt(models.KeyOpacity, 0); got != 80 {
		t.Errorf("GetInt after overwrite = %d, want 80", got)
	}
}

func TestDBStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := store.SetString(models.KeyColor, "Blue"); err != nil {
		t.Fatalf("SetString error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()

	if got := reopened.GetString(models.KeyColor, ""); got != "Blue" {
		t.Errorf("GetString after reopen = %q, want Blue", got)
	}
}

func TestFaultLog(t *testing.T) {
	store := openTestDB(t)
	start := time.Now().Add(-time.Second)

	store.RecordFault("watchdog", "corrected overlay drift")
	store.RecordFault("sampler", "pointer query failed")

	faults, err := store.FaultsSince(start)
	if err != nil {
		t.Fatalf("FaultsSince() error: %v", err)
	}
	if len(faults) != 2 {
		t.Fatalf("FaultsSince() returned %d records, want 2", len(faults))
	}
	if faults[0].Component != "watchdog" {
		t.Errorf("first fault component = %q, want watchdog", faults[0].Component)
	}

	pruned, err := store.PruneFaults(time.Now().Add(time.Second))
	if err != nil {
		t.Fatalf("PruneFaults() error: %v", err)
	}
	if pruned != 2 {
		t.Errorf("PruneFaults() removed %d records, want 2", pruned)
	}

	remaining, err := store.FaultsSince(start)
	if err != nil {
		t.Fatalf("FaultsSince() error: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("faults remain after prune: %d", len(remaining))
	}
}
