package engine

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chaz8081/gardnr/internal/layout"
	"github.com/chaz8081/gardnr/internal/tech"
)

// markers maps a file a generator leaves behind to what it implies.
var markers = []struct {
	file      string
	ecosystem tech.Ecosystem
	detail    string
}{
	{"Cargo.toml", tech.Rust, "cargo"},
	{"manage.py", tech.Python, "django"},
	{"pyproject.toml", tech.Python, "python"},
	{"requirements.txt", tech.Python, "python"},
	{"main.py", tech.Python, "python"},
	{"app.py", tech.Python, "python"},
	{"next.config.js", tech.Node, "next"},
	{"next.config.mjs", tech.Node, "next"},
	{"nuxt.config.ts", tech.Node, "nuxt"},
	{"vite.config.ts", tech.Node, "vite"},
	{"vite.config.js", tech.Node, "vite"},
	{"package.json", tech.Node, "node"},
}

// ScanResult describes what a component directory looks like on disk.
type ScanResult struct {
	Exists    bool
	Empty     bool
	Ecosystem tech.Ecosystem
	Detail    string
}

func (r ScanResult) String() string {
	switch {
	case !r.Exists:
		return "missing"
	case r.Empty:
		return "empty"
	case r.Ecosystem == "":
		return "unrecognized"
	default:
		return string(r.Ecosystem) + " (" + r.Detail + ")"
	}
}

// ScanComponent inspects a component directory for generator output.
func ScanComponent(dir string) (*ScanResult, error) {
	res := &ScanResult{}
	empty, err := layout.IsEmptyDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return res, nil
	}
	if err != nil {
		return nil, err
	}
	res.Exists = true
	res.Empty = empty
	if empty {
		return res, nil
	}

	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(dir, m.file)); err == nil {
			res.Ecosystem = m.ecosystem
			res.Detail = m.detail
			return res, nil
		}
	}
	return res, nil
}
