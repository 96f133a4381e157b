package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chaz8081/gardnr/internal/tech"
	"github.com/chaz8081/gardnr/internal/toolchain"
	"github.com/spf13/cobra"
)

// helperTools are resolved outside the per-ecosystem probe order.
var helperTools = []string{"npx", "django-admin"}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Show which scaffolding toolchains are installed",
	Long: `Probe every executable the scaffolders may use, in preference order,
and print its version. The first available executable of an ecosystem is
the one gardnr will run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		report := probeTools(cmd.Context(), quietRunner(a.runner), a.table)
		fmt.Fprint(cmd.OutOrStdout(), formatToolReport(report))
		return nil
	},
}

// toolStatus is one probed executable.
type toolStatus struct {
	Group     string
	Name      string
	Found     bool
	Preferred bool
	Version   string
}

// probeTools checks every executable of every ecosystem, then the helpers.
func probeTools(ctx context.Context, r toolchain.Runner, table *tech.Table) []toolStatus {
	if ctx == nil {
		ctx = context.Background()
	}
	var out []toolStatus
	for _, eco := range table.Ecosystems {
		preferred, _ := toolchain.Probe(r, eco.Executables...)
		for _, exe := range eco.Executables {
			st := probeOne(ctx, r, string(eco.Name), exe)
			st.Preferred = st.Found && exe == preferred
			out = append(out, st)
		}
	}
	for _, exe := range helperTools {
		out = append(out, probeOne(ctx, r, "helpers", exe))
	}
	return out
}

func probeOne(ctx context.Context, r toolchain.Runner, group, exe string) toolStatus {
	st := toolStatus{Group: group, Name: exe, Found: toolchain.Available(r, exe)}
	if !st.Found {
		return st
	}
	v, err := toolchain.Version(ctx, r, exe)
	if err != nil {
		debugf("%s --version: %v", exe, err)
		return st
	}
	st.Version = v.String()
	return st
}

func formatToolReport(report []toolStatus) string {
	var b strings.Builder
	group := ""
	for _, st := range report {
		if st.Group != group {
			group = st.Group
			fmt.Fprintf(&b, "%s:\n", group)
		}
		switch {
		case !st.Found:
			fmt.Fprintf(&b, "  %-14s not found\n", st.Name)
		case st.Preferred:
			fmt.Fprintf(&b, "  %-14s %-10s [used]\n", st.Name, versionOrUnknown(st.Version))
		default:
			fmt.Fprintf(&b, "  %-14s %s\n", st.Name, versionOrUnknown(st.Version))
		}
	}
	return b.String()
}

func versionOrUnknown(v string) string {
	if v == "" {
		return "?"
	}
	return v
}

// quietRunner keeps "--version" output off the terminal.
func quietRunner(r toolchain.Runner) toolchain.Runner {
	osr, ok := r.(*toolchain.OSRunner)
	if !ok {
		return r
	}
	quiet := *osr
	quiet.Stdout = io.Discard
	quiet.Stderr = io.Discard
	return &quiet
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
