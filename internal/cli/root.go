package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/chaz8081/gardnr/internal/cli/ui"
	"github.com/chaz8081/gardnr/internal/config"
	"github.com/chaz8081/gardnr/internal/engine"
	"github.com/chaz8081/gardnr/internal/notify"
	"github.com/chaz8081/gardnr/internal/scaffold"
	"github.com/chaz8081/gardnr/internal/store"
	"github.com/chaz8081/gardnr/internal/tech"
	"github.com/chaz8081/gardnr/internal/toolchain"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	rootCmd = &cobra.Command{
		Use:   "gardnr",
		Short: "gardnr - plant a multi-technology project in one go",
		Long: `gardnr creates a project directory with one subdirectory per component
and runs each technology's own scaffolding tool (vite, django-admin,
cargo, ...) to populate it. Projects are remembered so they can be
inspected, renamed or removed later by ID.

  Examples:
  gardnr -n shop -c api=fastapi -c web=react   # create
  gardnr                                       # interactive questionnaire
  gardnr -i k3x9a1bq                           # status of a project
  gardnr --mode delete -i k3x9a1bq             # remove it again
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := resolveMode(flagMode, flagID, flagName)
			if err != nil {
				return err
			}
			return runMode(cmd, m)
		},
	}

	verbose    bool
	noColor    bool
	configPath string

	flagMode       string
	flagName       string
	flagPath       string
	flagID         string
	flagComponents []string
	flagTechs      []string
	flagGit        bool
	flagDB         string

	launchUI         = ui.Run
	newRunner        = func() toolchain.Runner { return toolchain.NewOSRunner() }
	isInteractiveTTY = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/gardnr/config.yaml)")

	rootCmd.Flags().StringVar(&flagMode, "mode", modeDefault, "default, create, update, delete or status")
	addProjectFlags(rootCmd)
	rootCmd.Flags().StringVarP(&flagID, "id", "i", "", "project ID (or a unique prefix)")
	rootCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "do not ask before deleting")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if noColor {
			notify.DisableColor()
		}
	}
}

// addProjectFlags registers the flags that describe a new project.
func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagName, "name", "n", "", "project name")
	cmd.Flags().StringVarP(&flagPath, "path", "p", "", "directory to create the project in (default current directory)")
	cmd.Flags().StringArrayVarP(&flagComponents, "component", "c", nil, "component name, or name=tech (repeatable)")
	cmd.Flags().StringArrayVarP(&flagTechs, "tech", "t", nil, "technology for the component at the same position (repeatable)")
	cmd.Flags().BoolVar(&flagGit, "git", false, "write .gitignore and README.md and make an initial commit")
	cmd.Flags().StringVar(&flagDB, "db", "", "add a database: sqlite, postgres or mysql")
	_ = cmd.RegisterFlagCompletionFunc("tech", completeTechs)
	_ = cmd.RegisterFlagCompletionFunc("db", completeDatabases)
}

// Execute runs the root cobra command
func Execute() error {
	return rootCmd.Execute()
}

// helper for internal debug prints
func debugf(format string, a ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[gardnr] "+format+"\n", a...)
	}
}

// app is what a command run needs once configuration is resolved.
type app struct {
	cfg    *config.Config
	table  *tech.Table
	store  *store.Store
	runner toolchain.Runner
	out    io.Writer
}

// loadApp reads the config, the technology table and the project store.
func loadApp(out io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		debugf("using config %s", cfg.File)
	}

	table := tech.DefaultTable()
	if cfg.TechTable != "" {
		extra, err := tech.LoadTableFile(cfg.TechTable)
		if err != nil {
			return nil, err
		}
		table = table.Clone()
		if err := table.Merge(extra); err != nil {
			return nil, err
		}
		debugf("merged tech table %s", cfg.TechTable)
	}

	storePath := cfg.StorePath
	if storePath == "" {
		storePath = config.DefaultStorePath()
	}
	s, err := store.Load(storePath)
	if err != nil {
		return nil, err
	}
	debugf("project store %s (%d projects)", s.Path(), len(s.List()))

	return &app{cfg: cfg, table: table, store: s, runner: newRunner(), out: out}, nil
}

// scaffoldEnv builds the scaffolder environment. Install prompts are only
// offered on an interactive terminal.
func (a *app) scaffoldEnv() *scaffold.Env {
	env := &scaffold.Env{
		Runner:        a.runner,
		Table:         a.table,
		Out:           a.out,
		InstallPolicy: a.cfg.AutoInstall,
		Debugf:        debugf,
	}
	if isInteractiveTTY() {
		env.Confirm = confirmInstall
	}
	return env
}

func (a *app) manager() *engine.Manager {
	return engine.NewManager(a.store, a.table)
}
