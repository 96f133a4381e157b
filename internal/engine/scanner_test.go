package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chaz8081/gardnr/internal/tech"
)

func TestScanComponent(t *testing.T) {
	tmp := t.TempDir()

	// rust
	d1 := filepath.Join(tmp, "engine")
	os.Mkdir(d1, 0o755)
	os.WriteFile(filepath.Join(d1, "Cargo.toml"), []byte("[package]"), 0o644)
	r, _ := ScanComponent(d1)
	if r.Ecosystem != tech.Rust {
		t.Fatalf("expected rust, got %s", r.Ecosystem)
	}

	// vite beats the generic package.json marker
	d2 := filepath.Join(tmp, "web")
	os.Mkdir(d2, 0o755)
	os.WriteFile(filepath.Join(d2, "package.json"), []byte("{}"), 0o644)
	os.WriteFile(filepath.Join(d2, "vite.config.ts"), []byte(""), 0o644)
	r2, _ := ScanComponent(d2)
	if r2.Ecosystem != tech.Node || r2.Detail != "vite" {
		t.Fatalf("expected node (vite), got %s", r2)
	}

	// django
	d3 := filepath.Join(tmp, "backend")
	os.Mkdir(d3, 0o755)
	os.WriteFile(filepath.Join(d3, "manage.py"), []byte(""), 0o644)
	r3, _ := ScanComponent(d3)
	if r3.Detail != "django" {
		t.Fatalf("expected django, got %s", r3)
	}

	// empty
	d4 := filepath.Join(tmp, "docs")
	os.Mkdir(d4, 0o755)
	r4, _ := ScanComponent(d4)
	if !r4.Exists || !r4.Empty || r4.String() != "empty" {
		t.Fatalf("expected empty, got %s", r4)
	}

	// unrecognized
	d5 := filepath.Join(tmp, "misc")
	os.Mkdir(d5, 0o755)
	os.WriteFile(filepath.Join(d5, "notes.txt"), []byte("hi"), 0o644)
	r5, _ := ScanComponent(d5)
	if r5.String() != "unrecognized" {
		t.Fatalf("expected unrecognized, got %s", r5)
	}

	// missing
	r6, err := ScanComponent(filepath.Join(tmp, "gone"))
	if err != nil || r6.Exists || r6.String() != "missing" {
		t.Fatalf("expected missing, got %s (%v)", r6, err)
	}
}
