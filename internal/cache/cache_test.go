package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

func newCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "cache"), 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	c, err := New(dir, 24, true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !c.Enabled() {
		t.Error("cache should be enabled")
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("New() should create cache directory")
	}
}

func TestSetAndGet(t *testing.T) {
	c := newCache(t)

	if err := c.Set("src/app.js", "h1", []byte("report")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, ok := c.Get("src/app.js", "h1")
	if !ok {
		t.Fatal("Get() should hit after Set()")
	}
	if string(got) != "report" {
		t.Errorf("Get() = %q, want %q", got, "report")
	}

	if _, ok := c.Get("src/app.js", "h2"); ok {
		t.Error("Get() should miss when the hash changed")
	}
	if _, ok := c.Get("src/other.js", "h1"); ok {
		t.Error("Get() should miss for an unknown key")
	}
}

func TestSetOverwrites(t *testing.T) {
	c := newCache(t)
	_ = c.Set("k", "h1", []byte("old"))
	_ = c.Set("k", "h2", []byte("new"))

	got, ok := c.Get("k", "h2")
	if !ok || string(got) != "new" {
		t.Errorf("Get() = %q, %v, want new entry", got, ok)
	}

	entries, _ := os.ReadDir(c.dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "tmp-") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestValueRoundTrip(t *testing.T) {
	type report struct {
		Names []string
		Lines []int
	}
	c := newCache(t)

	in := report{Names: []string{"b"}, Lines: []int{3}}
	if err := SetValue(c, "a.js", "h", in); err != nil {
		t.Fatalf("SetValue() error: %v", err)
	}

	var out report
	if !GetValue(c, "a.js", "h", &out) {
		t.Fatal("GetValue() should hit")
	}
	if len(out.Names) != 1 || out.Names[0] != "b" || out.Lines[0] != 3 {
		t.Errorf("GetValue() = %+v", out)
	}
}

func TestInvalidate(t *testing.T) {
	c := newCache(t)
	_ = c.Set("k", "h", []byte("x"))

	if err := c.Invalidate("k"); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}
	if _, ok := c.Get("k", "h"); ok {
		t.Error("Get() should miss after Invalidate()")
	}
	if err := c.Invalidate("k"); err != nil {
		t.Errorf("Invalidate() of a missing key should succeed, got %v", err)
	}
}

func TestClear(t *testing.T) {
	c := newCache(t)
	_ = c.Set("k", "h", []byte("x"))

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, err := os.Stat(c.dir); !os.IsNotExist(err) {
		t.Error("Clear() should remove the cache directory")
	}
}

func TestDisabledCache(t *testing.T) {
	c, err := New("", 0, false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if c.Enabled() {
		t.Error("cache should be disabled")
	}
	if err := c.Set("k", "h", []byte("x")); err != nil {
		t.Errorf("Set() on disabled cache should be a no-op, got %v", err)
	}
	if _, ok := c.Get("k", "h"); ok {
		t.Error("disabled cache should always miss")
	}
	if err := SetValue(c, "k", "h", 1); err != nil {
		t.Errorf("SetValue() on disabled cache should be a no-op, got %v", err)
	}
	stats, err := c.GetStats()
	if err != nil || stats.Entries != 0 {
		t.Errorf("GetStats() = %+v, %v", stats, err)
	}
}

func TestExpiredAndStaleEntries(t *testing.T) {
	c := newCache(t)

	write := func(key string, entry Entry) {
		raw, err := msgpack.Marshal(&entry)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(c.keyPath(key), raw, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	write("old", Entry{Schema: schemaVersion, Hash: "h", Timestamp: time.Now().Add(-48 * time.Hour)})
	write("stale", Entry{Schema: schemaVersion + 1, Hash: "h", Timestamp: time.Now()})

	for _, key := range []string{"old", "stale"} {
		if _, ok := c.Get(key, "h"); ok {
			t.Errorf("Get(%q) should miss", key)
		}
		if _, err := os.Stat(c.keyPath(key)); !os.IsNotExist(err) {
			t.Errorf("entry %q should be removed", key)
		}
	}
}

func TestCorruptEntry(t *testing.T) {
	c := newCache(t)
	if err := os.WriteFile(c.keyPath("k"), []byte("not msgpack"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("k", "h"); ok {
		t.Error("corrupt entry should miss")
	}
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.js")
	if err := os.WriteFile(path, []byte("let a = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}

	h, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile() error: %v", err)
	}
	if h != HashBytes([]byte("let a = 1;")) {
		t.Error("HashFile() and HashBytes() should agree")
	}
	if len(h) != 64 {
		t.Errorf("hash length = %d, want 64", len(h))
	}

	if _, err := HashFile(filepath.Join(t.TempDir(), "missing.js")); err == nil {
		t.Error("HashFile() should fail for a missing file")
	}
}

func TestGetStats(t *testing.T) {
	c := newCache(t)
	_ = c.Set("a", "h", []byte("1"))
	_ = c.Set("b", "h", []byte("22"))

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats.Entries != 2 {
		t.Errorf("Entries = %d, want 2", stats.Entries)
	}
	if stats.TotalSize == 0 {
		t.Error("TotalSize should be positive")
	}
}

func TestKeyPathHandlesSpecialCharacters(t *testing.T) {
	c := newCache(t)
	key := "../../etc/passwd:with spaces"
	path := c.keyPath(key)

	if filepath.Dir(path) != c.dir {
		t.Errorf("keyPath escaped the cache dir: %s", path)
	}
	if err := c.Set(key, "h", []byte("x")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, ok := c.Get(key, "h"); !ok {
		t.Error("Get() should hit for a key with special characters")
	}
}

func TestKey(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := Key("app.js"), filepath.Join(wd, "app.js"); got != want {
		t.Errorf("Key(app.js) = %q, want %q", got, want)
	}
	abs := filepath.Join(t.TempDir(), "app.js")
	if got := Key(abs); got != abs {
		t.Errorf("Key(%q) = %q", abs, got)
	}
}
