package extras

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chaz8081/gardnr/pkg/schema"
)

// WriteReadme writes a README.md naming the project's technologies. An
// existing README is left alone; the return value reports whether one was
// written.
func WriteReadme(dir string, p schema.Project) (bool, error) {
	path := filepath.Join(dir, "README.md")
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\nTechnologies used: %s\n", p.Name, strings.Join(p.Techs(), ", "))
	if len(p.Components) > 0 {
		b.WriteString("\n## Components\n\n")
		for _, c := range p.Components {
			fmt.Fprintf(&b, "- `%s/`: %s\n", c.Name, c.Tech)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return false, fmt.Errorf("write README.md: %w", err)
	}
	return true, nil
}
