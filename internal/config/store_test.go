package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestNewStoreDefaults(t *testing.T) {
	store := NewStore()

	tests := []struct {
		path string
		want interface{}
	}{
		{"wifi.mode", "AP"},
		{"wifi.ap_credentials.ip", "192.168.4.1"},
		{"preferences.refresh", 500},
		{"thermostat.target", 50},
		{"thermostat.p", 1.0},
		{"preferences.laser", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := store.Get(tt.path)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestStoreGetMissingPath(t *testing.T) {
	store := NewStore()

	for _, path := range []string{"", "nope", "wifi.nope", "wifi.mode.deeper"} {
		_, err := store.Get(path)
		if !IsPathNotFound(err) {
			t.Errorf("Get(%q) error = %v, want path not found", path, err)
		}
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	store := NewStore()

	v, err := store.Get("wifi.ap_credentials")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	v.(map[string]interface{})["ssid"] = "mutated"

	ssid, _ := store.Get("wifi.ap_credentials.ssid")
	if ssid != "SmartThermo" {
		t.Errorf("ssid = %v, store was mutated through Get result", ssid)
	}
}

func TestStoreSet(t *testing.T) {
	store := NewStore()

	if err := store.Set("thermostat.target", 53); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, _ := store.Get("thermostat.target")
	if got != 53 {
		t.Errorf("thermostat.target = %v, want 53", got)
	}

	if err := store.Set("thermostat.p", float32(2.5)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, _ = store.Get("thermostat.p")
	if got != 2.5 {
		t.Errorf("thermostat.p = %v (%T), want float64 2.5", got, got)
	}

	if !store.Dirty() {
		t.Error("store should be dirty after Set")
	}
}

func TestStoreSetCreatesSections(t *testing.T) {
	store := NewStore()

	if err := store.Set("display.contrast.level", 7); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := store.Get("display.contrast.level")
	if err != nil || got != 7 {
		t.Errorf("Get() = %v, %v; want 7, nil", got, err)
	}
}

func TestStoreSetValidation(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		value interface{}
	}{
		{"unknown wifi mode", "wifi.mode", "MESH"},
		{"shape change", "thermostat.target", "hot"},
		{"target out of range", "thermostat.target", 151},
		{"negative gain", "thermostat.i", -0.1},
		{"bad ip", "tapo.ip", "192.168.1"},
		{"ip octet overflow", "tapo.ip", "192.168.1.256"},
		{"bool as string", "preferences.laser", "true"},
		{"refresh zero", "preferences.refresh", 0},
		{"selected without known networks", "wifi.selected", 2},
		{"leaf used as section", "wifi.mode.sub", 1},
		{"empty key", "wifi..mode", "AP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			before := store.Snapshot()

			err := store.Set(tt.path, tt.value)
			if !IsValidationError(err) {
				t.Fatalf("Set(%q, %v) error = %v, want validation error", tt.path, tt.value, err)
			}
			if !equalValues(before, store.Snapshot()) {
				t.Error("rejected Set modified the document")
			}
		})
	}
}

func TestStoreSelectedNetwork(t *testing.T) {
	store := NewStore()
	if err := store.Set("wifi.known", []interface{}{
		map[string]interface{}{"ssid": "home", "password": "secret123"},
		map[string]interface{}{"ssid": "lab", "password": "secret456"},
	}); err != nil {
		t.Fatalf("Set(wifi.known) error = %v", err)
	}

	if err := store.Set("wifi.selected", 1); err != nil {
		t.Errorf("Set(wifi.selected, 1) error = %v", err)
	}
	if err := store.Set("wifi.selected", 2); !IsValidationError(err) {
		t.Errorf("Set(wifi.selected, 2) error = %v, want validation error", err)
	}
}

func TestStoreSaveAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	store, err := Open(Options{Path: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("Open() should not create the file")
	}

	if err := store.Set("wifi.mode", "STA"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if store.Dirty() {
		t.Error("store should be clean after Save")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# SmartThermo configuration") {
		t.Error("saved file should start with the header comment")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not survive a successful save")
	}

	reopened, err := Open(Options{Path: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	mode, _ := reopened.Get("wifi.mode")
	if mode != "STA" {
		t.Errorf("wifi.mode after reopen = %v, want STA", mode)
	}
	p, _ := reopened.Get("thermostat.p")
	if f, ok := AsFloat(p); !ok || f != 1.0 {
		t.Errorf("thermostat.p after reopen = %v, want 1", p)
	}
}

func TestOpenParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("wifi: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Open(Options{Path: path})
	if !IsParseError(err) {
		t.Errorf("Open() error = %v, want parse error", err)
	}
}

func TestStoreAutoSaveFailureRollsBack(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub")

	store, err := Open(Options{Path: filepath.Join(dir, "config.yaml"), AutoSave: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	// A regular file where the config directory should be makes MkdirAll fail.
	if err := os.WriteFile(dir, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	err = store.Set("thermostat.target", 60)
	if !IsPersistenceError(err) {
		t.Fatalf("Set() error = %v, want persistence error", err)
	}
	got, _ := store.Get("thermostat.target")
	if got != 50 {
		t.Errorf("thermostat.target = %v, want rollback to 50", got)
	}

	err = store.Set("display.new", 1)
	if !IsPersistenceError(err) {
		t.Fatalf("Set() error = %v, want persistence error", err)
	}
	if store.Has("display.new") {
		t.Error("new path should be removed after failed save")
	}
}

func TestStoreReloadInMemory(t *testing.T) {
	store := NewStore()

	if err := store.Set("preferences.bignum", true); err != nil {
		t.Fatal(err)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	got, _ := store.Get("preferences.bignum")
	if got != false {
		t.Errorf("preferences.bignum after reload = %v, want false", got)
	}

	if err := store.Set("preferences.bignum", true); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(); err != nil {
		t.Fatal(err)
	}
	if err := store.Reload(); err != nil {
		t.Fatal(err)
	}
	got, _ = store.Get("preferences.bignum")
	if got != true {
		t.Errorf("preferences.bignum after save+reload = %v, want true", got)
	}
}

func TestStoreReloadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	store, err := Open(Options{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(); err != nil {
		t.Fatal(err)
	}

	other, err := Open(Options{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Set("tapo.enabled", true); err != nil {
		t.Fatal(err)
	}
	if err := other.Save(); err != nil {
		t.Fatal(err)
	}

	if err := store.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	got, _ := store.Get("tapo.enabled")
	if got != true {
		t.Errorf("tapo.enabled after reload = %v, want true", got)
	}
}

func TestStoreSubscribe(t *testing.T) {
	store := NewStore()

	var changes []Change
	unsubscribe := store.Subscribe(func(c Change) {
		changes = append(changes, c)
	})

	_ = store.Set("wifi.mode", "BOTH")
	_ = store.Set("wifi.mode", "bogus")
	_ = store.Save()
	_ = store.Reload()
	unsubscribe()
	_ = store.Set("wifi.mode", "STA")

	if len(changes) != 3 {
		t.Fatalf("got %d changes, want 3: %+v", len(changes), changes)
	}
	if changes[0].Path != "wifi.mode" || changes[0].Value != "BOTH" {
		t.Errorf("first change = %+v, want wifi.mode=BOTH", changes[0])
	}
	if !changes[1].Saved {
		t.Errorf("second change = %+v, want saved", changes[1])
	}
	if !changes[2].Reloaded {
		t.Errorf("third change = %+v, want reloaded", changes[2])
	}
}

func TestStorePaths(t *testing.T) {
	store := NewStoreFromDocument(map[string]interface{}{
		"b": map[string]interface{}{"y": 1, "x": 2},
		"a": true,
	})

	got := strings.Join(store.Paths(), ",")
	if got != "a,b.x,b.y" {
		t.Errorf("Paths() = %v, want a,b.x,b.y", got)
	}
}

func TestStoreConcurrentWriters(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("thermostat.target", n)
			_, _ = store.Get("thermostat.target")
		}(i)
	}
	wg.Wait()

	got, _ := store.Get("thermostat.target")
	if n, ok := got.(int); !ok || n < 0 || n >= 50 {
		t.Errorf("thermostat.target = %v, want one of the written values", got)
	}
}

func TestStoreReloadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	store, err := Open(Options{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(); err != nil {
		t.Fatal(err)
	}

	changed, err := store.ReloadFromDisk()
	if err != nil || changed {
		t.Fatalf("ReloadFromDisk() after own save = %v, %v; want false, nil", changed, err)
	}

	other, err := Open(Options{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Set("wifi.mode", "STA"); err != nil {
		t.Fatal(err)
	}
	if err := other.Save(); err != nil {
		t.Fatal(err)
	}

	if err := store.Set("thermostat.target", 60); err != nil {
		t.Fatal(err)
	}
	changed, err = store.ReloadFromDisk()
	if !IsConflict(err) || changed {
		t.Fatalf("ReloadFromDisk() with unsaved changes = %v, %v; want conflict", changed, err)
	}
	if got, _ := store.Get("thermostat.target"); got != 60 {
		t.Errorf("thermostat.target = %v, want 60", got)
	}

	if err := store.Set("thermostat.target", 50); err != nil {
		t.Fatal(err)
	}
	if store.Dirty() {
		t.Fatal("store dirty after restoring the saved value")
	}
	changed, err = store.ReloadFromDisk()
	if err != nil || !changed {
		t.Fatalf("ReloadFromDisk() on clean store = %v, %v; want true, nil", changed, err)
	}
	if got, _ := store.Get("wifi.mode"); got != "STA" {
		t.Errorf("wifi.mode = %v, want STA from disk", got)
	}
}

func TestStoreUpdate(t *testing.T) {
	store := NewStore()

	var changes []Change
	store.Subscribe(func(c Change) { changes = append(changes, c) })

	err := store.Update(func(tx *Tx) error {
		if err := tx.Set("wifi.known", []interface{}{
			map[string]interface{}{"ssid": "Workshop", "password": "x"},
		}); err != nil {
			return err
		}
		// Validated against the list set just above.
		return tx.Set("wifi.selected", 0)
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(changes) != 2 || changes[0].Path != "wifi.known" || changes[1].Path != "wifi.selected" {
		t.Errorf("changes = %+v", changes)
	}

	known, _ := store.Get("wifi.known")
	if list := known.([]interface{}); len(list) != 1 {
		t.Errorf("wifi.known = %v", known)
	}
}

func TestStoreUpdateRollsBack(t *testing.T) {
	store := NewStore()

	err := store.Update(func(tx *Tx) error {
		if err := tx.Set("wifi.known", []interface{}{
			map[string]interface{}{"ssid": "Workshop", "password": "x"},
		}); err != nil {
			return err
		}
		return tx.Set("wifi.selected", 5)
	})
	if !IsValidationError(err) {
		t.Fatalf("Update() error = %v, want validation error", err)
	}

	known, _ := store.Get("wifi.known")
	if list := known.([]interface{}); len(list) != 0 {
		t.Errorf("wifi.known = %v, want unchanged empty list", known)
	}
	if store.Dirty() {
		t.Error("failed Update left the store dirty")
	}
}

func TestStoreUpdateSerializesReadModifyWrite(t *testing.T) {
	store := NewStore()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Update(func(tx *Tx) error {
				n, err := tx.Get("preferences.refresh")
				if err != nil {
					return err
				}
				return tx.Set("preferences.refresh", n.(int)+1)
			})
			if err != nil {
				t.Errorf("Update() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got, _ := store.Get("preferences.refresh"); got != 500+writers {
		t.Errorf("preferences.refresh = %v, want %d", got, 500+writers)
	}
}

func TestEqualValuesComparesNumbersByValue(t *testing.T) {
	if !equalValues(1.0, 1) {
		t.Error("equalValues(1.0, 1) = false, want true")
	}
	if equalValues(1.5, 1) {
		t.Error("equalValues(1.5, 1) = true, want false")
	}
	if equalValues("1", 1) {
		t.Error(`equalValues("1", 1) = true, want false`)
	}
}
