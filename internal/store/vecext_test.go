package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubConn records LoadExtension attempts and succeeds only on the
// configured path/entry pair.
type stubConn struct {
	calls     []string
	allowPath string
	allowEnt  string
}

func (c *stubConn) LoadExtension(lib, entry string) error {
	c.calls = append(c.calls, lib+"|"+entry)
	if lib == c.allowPath && entry == c.allowEnt {
		return nil
	}
	return errors.New("not a valid extension")
}

func touch(t *testing.T, path string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVecExtensionNoCandidates(t *testing.T) {
	ext := &VecExtension{
		Paths:   []string{filepath.Join(t.TempDir(), "missing.so")},
		Entries: []string{""},
	}
	err := ext.Load(&stubConn{})
	if err == nil || !strings.Contains(err.Error(), "no candidate paths found") {
		t.Fatalf("expected no-candidates error, got %v", err)
	}
}

func TestVecExtensionProbesInOrder(t *testing.T) {
	dir := t.TempDir()
	bad := touch(t, filepath.Join(dir, "bad.so"))
	good := touch(t, filepath.Join(dir, "vec0.so"))

	ext := &VecExtension{
		Paths:   []string{filepath.Join(dir, "missing.so"), bad, good},
		Entries: []string{"", "sqlite3_vec_init"},
	}
	conn := &stubConn{allowPath: good, allowEnt: "sqlite3_vec_init"}
	if err := ext.Load(conn); err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []string{
		bad + "|", bad + "|sqlite3_vec_init",
		good + "|", good + "|sqlite3_vec_init",
	}
	if len(conn.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", conn.calls, want)
	}
	for i := range want {
		if conn.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, conn.calls[i], want[i])
		}
	}
}

func TestVecExtensionStopsOnSuccess(t *testing.T) {
	dir := t.TempDir()
	good := touch(t, filepath.Join(dir, "vec0.so"))
	other := touch(t, filepath.Join(dir, "other.so"))

	ext := &VecExtension{Paths: []string{good, other}, Entries: []string{""}}
	conn := &stubConn{allowPath: good, allowEnt: ""}
	if err := ext.Load(conn); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(conn.calls) != 1 {
		t.Errorf("expected probing to stop after success, got calls %v", conn.calls)
	}
}

func TestVecExtensionAggregatesAttempts(t *testing.T) {
	dir := t.TempDir()
	a := touch(t, filepath.Join(dir, "a.so"))
	b := touch(t, filepath.Join(dir, "b.so"))

	ext := &VecExtension{Paths: []string{a, b, a}, Entries: []string{"", "sqlite3_vec_init"}}
	err := ext.Load(&stubConn{})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, frag := range []string{
		a + " -> ",
		fmt.Sprintf("%s (sqlite3_vec_init)", a),
		b + " -> ",
		fmt.Sprintf("%s (sqlite3_vec_init)", b),
	} {
		if !strings.Contains(err.Error(), frag) {
			t.Errorf("error missing attempt %q: %v", frag, err)
		}
	}
	// Duplicate path probed once
	if strings.Count(err.Error(), a+" -> not a valid extension") != 1 {
		t.Errorf("expected duplicate path to be probed once: %v", err)
	}
}

func TestDefaultVecExtensionPrefersConfigured(t *testing.T) {
	ext := DefaultVecExtension("/opt/vec/vec0")
	if len(ext.Paths) < 3 {
		t.Fatalf("paths = %v", ext.Paths)
	}
	if ext.Paths[0] != "/opt/vec/vec0" || ext.Paths[1] != "/opt/vec/vec0.so" || ext.Paths[2] != "/opt/vec/vec0.dylib" {
		t.Errorf("configured path not tried first: %v", ext.Paths[:3])
	}
}
