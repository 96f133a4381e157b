package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chaz8081/gardnr/internal/engine"
	"github.com/chaz8081/gardnr/internal/notify"
	"github.com/chaz8081/gardnr/internal/store"
	"github.com/spf13/cobra"
)

var (
	statusJSON bool
	deleteYes  bool
)

var statusCmd = &cobra.Command{
	Use:   "status [id]",
	Short: "Show a recorded project, or browse all of them",
	Long: `Show what gardnr knows about a project and what is on disk for each of
its components. Without an ID, an interactive terminal opens the project
browser; otherwise every recorded project is listed.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeProjectIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusRun(cmd.OutOrStdout(), idFromArgs(args))
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id> <new-name>",
	Short: "Rename a recorded project",
	Long: `Rename the project directory and its record. Renaming onto an existing
directory fails and leaves both directories as they were.`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeProjectIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateRun(cmd.OutOrStdout(), args[0], args[1])
	},
}

var deleteCmd = &cobra.Command{
	Use:               "delete <id>",
	Short:             "Remove a project directory and forget it",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeProjectIDs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteRun(cmd.OutOrStdout(), args[0], !deleteYes)
	},
}

// confirmDelete asks before a directory tree is removed.
var confirmDelete = func(prompt string) (bool, error) {
	return newAsker().Confirm(prompt, false)
}

func idFromArgs(args []string) string {
	if len(args) == 0 {
		return flagID
	}
	return args[0]
}

func statusRun(out io.Writer, id string) error {
	a, err := loadApp(out)
	if err != nil {
		return err
	}
	mgr := a.manager()

	if strings.TrimSpace(id) == "" {
		if !statusJSON && isInteractiveTTY() {
			return launchUI(mgr)
		}
		if statusJSON {
			fmt.Fprintln(out, formatProjectListJSON(a.store.List()))
			return nil
		}
		fmt.Fprint(out, formatProjectList(a.store.List()))
		return nil
	}

	st, err := mgr.Status(id)
	if err != nil {
		return err
	}
	if statusJSON {
		fmt.Fprintln(out, formatProjectStatusJSON(st))
		return nil
	}
	fmt.Fprint(out, formatProjectStatus(st))
	return nil
}

func updateRun(out io.Writer, id, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return errors.New("update needs a new project name (use --name)")
	}
	a, err := loadApp(out)
	if err != nil {
		return err
	}
	before, err := a.store.Get(id)
	if err != nil {
		return err
	}
	rec, err := a.manager().Update(before.ID, newName)
	if err != nil {
		return err
	}
	if rec.Name == before.Name {
		notify.Infof(out, "%s is already named %s", rec.ID, rec.Name)
		return nil
	}
	notify.Successf(out, "renamed %s to %s", before.Dir(), rec.Dir())
	return nil
}

func deleteRun(out io.Writer, id string, confirm bool) error {
	a, err := loadApp(out)
	if err != nil {
		return err
	}
	rec, err := a.store.Get(id)
	if err != nil {
		return err
	}
	// a prefix is only widened to the full ID once someone has seen the
	// directory it resolves to
	target := id
	if confirm && isInteractiveTTY() {
		ok, err := confirmDelete(fmt.Sprintf("Delete %s and everything in it?", rec.Dir()))
		if err != nil {
			return err
		}
		if !ok {
			notify.Infof(out, "nothing deleted")
			return nil
		}
		target = rec.ID
	}
	if _, err := a.manager().Delete(target); err != nil {
		return err
	}
	notify.Successf(out, "deleted %s (%s)", rec.Dir(), rec.ID)
	return nil
}

// formatProjectList renders the recorded projects, one per line.
func formatProjectList(records []store.Record) string {
	if len(records) == 0 {
		return "No projects recorded yet.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Projects:\n")
	for _, r := range records {
		fmt.Fprintf(&b, "  %s  %s  %s  (%s)\n", r.ID, r.Name, r.Dir(), componentSummary(r))
	}
	fmt.Fprintf(&b, "\n%d projects\n", len(records))
	return b.String()
}

func componentSummary(r store.Record) string {
	if len(r.Components) == 0 {
		return "no components"
	}
	parts := make([]string, 0, len(r.Components))
	for _, c := range r.Components {
		parts = append(parts, c.Name+"="+c.Tech)
	}
	return strings.Join(parts, ", ")
}

// formatProjectStatus renders one project with a line per component.
func formatProjectStatus(st *engine.ProjectStatus) string {
	var b strings.Builder
	r := st.Record
	fmt.Fprintf(&b, "Project:  %s\n", r.Name)
	fmt.Fprintf(&b, "ID:       %s\n", r.ID)
	fmt.Fprintf(&b, "Path:     %s\n", r.Dir())
	fmt.Fprintf(&b, "Created:  %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04"))
	if !st.Exists {
		fmt.Fprintf(&b, "Status:   missing on disk\n")
	}
	if len(st.Components) == 0 {
		fmt.Fprintf(&b, "\nNo components.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "\nComponents:\n")
	for _, c := range st.Components {
		disk := c.Disk.String()
		if !st.Exists {
			disk = "missing"
		}
		fmt.Fprintf(&b, "  %-12s %-10s %-22s %s\n", c.Component.Name, c.Component.Tech, c.Class.String(), disk)
	}
	return b.String()
}

// --- JSON output types ---

type projectJSON struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Dir        string          `json:"dir"`
	CreatedAt  string          `json:"created_at"`
	Exists     *bool           `json:"exists,omitempty"`
	Components []componentJSON `json:"components"`
}

type componentJSON struct {
	Name      string `json:"name"`
	Tech      string `json:"tech"`
	Kind      string `json:"kind,omitempty"`
	Ecosystem string `json:"ecosystem,omitempty"`
	Disk      string `json:"disk,omitempty"`
}

func recordJSON(r store.Record) projectJSON {
	p := projectJSON{
		ID:         r.ID,
		Name:       r.Name,
		Dir:        r.Dir(),
		CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Components: []componentJSON{},
	}
	for _, c := range r.Components {
		p.Components = append(p.Components, componentJSON{Name: c.Name, Tech: c.Tech})
	}
	return p
}

func formatProjectListJSON(records []store.Record) string {
	out := make([]projectJSON, 0, len(records))
	for _, r := range records {
		out = append(out, recordJSON(r))
	}
	return marshalJSON(out)
}

func formatProjectStatusJSON(st *engine.ProjectStatus) string {
	p := recordJSON(st.Record)
	exists := st.Exists
	p.Exists = &exists
	p.Components = p.Components[:0]
	for _, c := range st.Components {
		cj := componentJSON{
			Name:      c.Component.Name,
			Tech:      c.Component.Tech,
			Kind:      c.Class.Kind.String(),
			Ecosystem: string(c.Class.Ecosystem),
			Disk:      c.Disk.String(),
		}
		p.Components = append(p.Components, cj)
	}
	return marshalJSON(p)
}

func marshalJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(data)
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "do not ask for confirmation")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
}
