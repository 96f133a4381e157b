// Package extras writes the optional project-root files: .gitignore,
// README.md and local database scaffolding.
package extras

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chaz8081/gardnr/internal/tech"
)

var ignoreSections = map[string][]string{
	"common": {".vscode/", ".idea/", ".DS_Store", "*.log", ".env", ".env.*"},
	"python": {"__pycache__/", ".pytest_cache/", ".mypy_cache/", ".venv/", "venv/", "build/", "dist/", "*.egg-info/"},
	"node":   {"node_modules/", ".npm/", ".nvm/", "dist/", "build/", ".cache/", ".next/", ".nuxt/", ".output/"},
	"rust":   {"target/", "Cargo.lock"},
	"java":   {"target/", "*.class", "*.jar", "*.war", "*.ear", ".settings/", ".project", ".classpath"},
	"ruby":   {".bundle/", "log/", "tmp/", "vendor/bundle/"},
	"go":     {"bin/", "pkg/", "vendor/"},
}

// sectionOrder fixes the output order of .gitignore sections.
var sectionOrder = []string{"common", "python", "node", "rust", "java", "ruby", "go"}

// IgnoreSections returns the sections that apply to techs, always
// including "common". Ecosystems come from the classifier; languages
// gardnr cannot scaffold still get their ignore rules by name.
func IgnoreSections(table *tech.Table, techs []string) []string {
	if table == nil {
		table = tech.DefaultTable()
	}
	want := map[string]bool{"common": true}
	for _, t := range techs {
		class := table.Classify(t)
		if class.Kind != tech.Unknown {
			want[string(class.Ecosystem)] = true
			continue
		}
		key := strings.ToLower(strings.TrimSpace(t))
		if key == "golang" {
			key = "go"
		}
		if _, ok := ignoreSections[key]; ok {
			want[key] = true
		}
	}
	var out []string
	for _, s := range sectionOrder {
		if want[s] {
			out = append(out, s)
		}
	}
	return out
}

// RenderGitignore builds the file body. A pattern appears once, under the
// first section that lists it.
func RenderGitignore(sections []string) string {
	var b strings.Builder
	seen := make(map[string]bool)
	for _, s := range sections {
		var lines []string
		for _, l := range ignoreSections[s] {
			if !seen[l] {
				seen[l] = true
				lines = append(lines, l)
			}
		}
		if len(lines) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "# %s\n%s\n", s, strings.Join(lines, "\n"))
	}
	return b.String()
}

// WriteGitignore writes <dir>/.gitignore. When one exists, only patterns
// it does not already contain are appended.
func WriteGitignore(dir string, table *tech.Table, techs []string) ([]string, error) {
	sections := IgnoreSections(table, techs)
	body := RenderGitignore(sections)
	path := filepath.Join(dir, ".gitignore")

	existing, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return sections, os.WriteFile(path, []byte(body), 0o644)
	}
	if err != nil {
		return nil, fmt.Errorf("read .gitignore: %w", err)
	}

	have := make(map[string]bool)
	sc := bufio.NewScanner(bytes.NewReader(existing))
	for sc.Scan() {
		have[strings.TrimSpace(sc.Text())] = true
	}
	var missing []string
	for _, l := range strings.Split(body, "\n") {
		if l != "" && !strings.HasPrefix(l, "#") && !have[l] {
			missing = append(missing, l)
		}
	}
	if len(missing) == 0 {
		return sections, nil
	}
	out := existing
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	out = append(out, []byte("\n# added by gardnr\n"+strings.Join(missing, "\n")+"\n")...)
	return sections, os.WriteFile(path, out, 0o644)
}
