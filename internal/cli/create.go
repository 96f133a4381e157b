package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chaz8081/gardnr/internal/engine"
	"github.com/chaz8081/gardnr/internal/extras"
	"github.com/chaz8081/gardnr/internal/notify"
	"github.com/chaz8081/gardnr/internal/repo"
	"github.com/chaz8081/gardnr/pkg/schema"
	"github.com/spf13/cobra"
)

// createOptions are the optional extras around the core scaffold.
type createOptions struct {
	Git bool
	DB  extras.Database
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project from flags",
	Long: `Create <path>/<name> and scaffold each component with its technology's
own tools. Components are given as -c name=tech, or as -c name paired by
position with -t tech.

  gardnr create -n shop -c api=fastapi -c web=react --git --db postgres
  gardnr create -n shop -c api -t fastapi -c web -t react
  gardnr create -f project.yaml -p ~/src
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return createFromFlags(cmd.Context(), cmd.OutOrStdout())
	},
}

// flagFile is a YAML project description for create.
var flagFile string

// projectFromFlags turns the create flags into a validated project. A
// --file description is read first; --name and --path override it and
// flag components are appended to its own.
func projectFromFlags() (schema.Project, createOptions, error) {
	var p schema.Project
	if flagFile != "" {
		data, err := os.ReadFile(flagFile)
		if err != nil {
			return schema.Project{}, createOptions{}, fmt.Errorf("reading project file: %w", err)
		}
		fp, err := schema.ParseProjectFile(data)
		if err != nil {
			return schema.Project{}, createOptions{}, err
		}
		p = *fp
		debugf("loaded %d components from %s", len(p.Components), flagFile)
	}
	comps, err := schema.ZipComponents(flagComponents, flagTechs)
	if err != nil {
		return schema.Project{}, createOptions{}, err
	}
	if name := strings.TrimSpace(flagName); name != "" {
		p.Name = name
	}
	if path := strings.TrimSpace(flagPath); path != "" {
		p.Path = path
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Components = append(p.Components, comps...)
	if err := p.Validate(); err != nil {
		return schema.Project{}, createOptions{}, err
	}
	db, err := extras.ParseDatabase(flagDB)
	if err != nil {
		return schema.Project{}, createOptions{}, err
	}
	return p, createOptions{Git: flagGit, DB: db}, nil
}

func createFromFlags(ctx context.Context, out io.Writer) error {
	p, opts, err := projectFromFlags()
	if err != nil {
		return err
	}
	a, err := loadApp(out)
	if err != nil {
		return err
	}
	return createProject(ctx, a, p, opts)
}

// createProject runs the scaffold, the optional extras and records the
// project. Component failures are warnings reported after the project is
// recorded.
func createProject(ctx context.Context, a *app, p schema.Project, opts createOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := engine.NewCreator(a.scaffoldEnv()).Create(ctx, p)
	if err != nil {
		if res != nil {
			// interrupted after the project directory was made
			recordPartial(a, p)
		}
		return err
	}
	if res.Existed {
		if rec, ok := a.store.FindByDir(res.ProjectDir); ok {
			notify.Infof(a.out, "%s is recorded as %s; use --mode status -i %s", rec.Name, rec.ID, rec.ID)
		}
		return nil
	}

	if opts.DB != extras.DBNone {
		files, err := extras.WriteDatabase(res.ProjectDir, p.Name, opts.DB)
		for _, f := range files {
			notify.Generatef(a.out, "%s", f)
		}
		if err != nil {
			notify.Warningf(a.out, "database setup: %v", err)
		}
	}
	if opts.Git {
		initRepository(a, res.ProjectDir, p)
	}

	rec, err := a.store.Add(p)
	if err != nil {
		notify.Warningf(a.out, "project created but not recorded: %v", err)
	}
	printCreateSummary(a.out, res)
	if rec.ID != "" {
		fmt.Fprintf(a.out, "\nProject %s recorded as %s\n", rec.Name, rec.ID)
	}

	if failed := res.Failed(); len(failed) > 0 {
		notify.Warningf(a.out, "%d of %d components failed", len(failed), len(res.Ops))
	}
	return nil
}

// recordPartial keeps an interrupted project reachable by ID.
func recordPartial(a *app, p schema.Project) {
	rec, err := a.store.Add(p)
	if err != nil {
		notify.Warningf(a.out, "project interrupted and not recorded: %v", err)
		return
	}
	notify.Warningf(a.out, "interrupted; partial project %s recorded as %s", rec.Name, rec.ID)
}

// initRepository writes the ignore file and README, then commits. Any
// failure here only warns; the project itself is already in place.
func initRepository(a *app, dir string, p schema.Project) {
	sections, err := extras.WriteGitignore(dir, a.table, p.Techs())
	if err != nil {
		notify.Warningf(a.out, ".gitignore: %v", err)
	} else {
		notify.Generatef(a.out, ".gitignore (%s)", strings.Join(sections, ", "))
	}
	if wrote, err := extras.WriteReadme(dir, p); err != nil {
		notify.Warningf(a.out, "README.md: %v", err)
	} else if wrote {
		notify.Generatef(a.out, "README.md")
	}

	r, err := repo.Init(dir, repo.Author{Name: a.cfg.Git.AuthorName, Email: a.cfg.Git.AuthorEmail})
	switch {
	case err != nil:
		notify.Warningf(a.out, "git: %v", err)
	case r.Empty:
		notify.Infof(a.out, "initialized empty git repository")
	default:
		notify.Successf(a.out, "initialized git repository at %s", r.Commit.String()[:7])
	}
}

func printCreateSummary(w io.Writer, res *engine.CreateResult) {
	if len(res.Ops) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, op := range res.Ops {
		switch op.Status {
		case engine.OpScaffolded:
			notify.Successf(w, "%s: %s via %s", op.Component, op.Tech, op.Tool)
		case engine.OpDegraded:
			notify.Warningf(w, "%s: %s toolchain missing, empty directory only", op.Component, op.Tech)
		case engine.OpPlain:
			notify.Infof(w, "%s: plain directory (%s)", op.Component, op.Tech)
		case engine.OpFailed:
			notify.Errorf(w, "%s: %s", op.Component, op.Error)
		}
		for _, warning := range op.Warnings {
			fmt.Fprintf(w, "    %s\n", warning)
		}
	}
}

// cloneProject clones a repository as the project directory instead of
// scaffolding it, then records it.
func cloneProject(a *app, p schema.Project, opts repo.CloneOptions) error {
	dir := p.Dir()
	notify.Activityf(a.out, "git clone %s %s", opts.URL, dir)
	if err := repo.Clone(dir, opts); err != nil {
		return err
	}
	notify.Successf(a.out, "cloned into %s", dir)
	rec, err := a.store.Add(p)
	if err != nil {
		notify.Warningf(a.out, "project cloned but not recorded: %v", err)
		return nil
	}
	fmt.Fprintf(a.out, "\nProject %s recorded as %s\n", rec.Name, rec.ID)
	return nil
}

func init() {
	addProjectFlags(createCmd)
	createCmd.Flags().StringVarP(&flagFile, "file", "f", "", "read the project from a YAML file")
	rootCmd.AddCommand(createCmd)
}
