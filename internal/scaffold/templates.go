package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(
	template.New("stubs").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*.tmpl"),
)

// stubData is the input of every stub template.
type stubData struct {
	Project   string
	Component string
	Tech      string
	Packages  []string
}

func newStubData(req Request, packages []string) stubData {
	return stubData{
		Project:   req.ProjectName(),
		Component: req.Component.Name,
		Tech:      req.Component.Tech,
		Packages:  packages,
	}
}

func render(name string, data stubData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}
