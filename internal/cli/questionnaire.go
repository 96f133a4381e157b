package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/chaz8081/gardnr/internal/extras"
	"github.com/chaz8081/gardnr/internal/notify"
	"github.com/chaz8081/gardnr/internal/repo"
	"github.com/chaz8081/gardnr/pkg/schema"
)

// asker is the prompt surface of the questionnaire.
type asker interface {
	Input(title, placeholder string) (string, error)
	Confirm(title string, def bool) (bool, error)
	Select(title string, options []string) (string, error)
}

var newAsker = func() asker { return huhAsker{} }

// huhAsker runs one single-field huh form per question.
type huhAsker struct{}

func (huhAsker) Input(title, placeholder string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder(placeholder).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func (huhAsker) Confirm(title string, def bool) (bool, error) {
	value := def
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return value, nil
}

func (huhAsker) Select(title string, options []string) (string, error) {
	var value string
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o, o))
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(opts...).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return value, nil
}

// confirmInstall is the scaffolders' prompt for the "ask" install policy.
func confirmInstall(prompt string) (bool, error) {
	return newAsker().Confirm(prompt, true)
}

const (
	startScaffold = "Scaffold components"
	startClone    = "Clone a git repository"
	dbSkip        = "none"
)

// plan is what the questionnaire collected.
type plan struct {
	Project schema.Project
	Options createOptions
	// Clone is set when the project should be cloned instead of scaffolded.
	Clone *repo.CloneOptions
}

var errEmptyProjectName = errors.New("project name cannot be empty")

// askPlan walks the user through a project. An empty component name ends
// the component loop; an empty technology is asked again.
func askPlan(q asker, out io.Writer) (*plan, error) {
	name, err := q.Input("Project name", "my-project")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errEmptyProjectName
	}
	path, err := q.Input("Project path", "empty for the current directory")
	if err != nil {
		return nil, err
	}
	pl := &plan{Project: schema.Project{Name: name, Path: path}}

	start, err := q.Select("How should the project start?", []string{startScaffold, startClone})
	if err != nil {
		return nil, err
	}
	if start == startClone {
		url, err := q.Input("Repository URL", "https://github.com/owner/repo.git")
		if err != nil {
			return nil, err
		}
		ref, err := q.Input("Branch or tag", "empty for the default branch")
		if err != nil {
			return nil, err
		}
		pl.Clone = &repo.CloneOptions{URL: url, Ref: ref}
		return pl, pl.Project.Validate()
	}

	for {
		comp, err := q.Input("Component name", "leave empty to finish")
		if err != nil {
			return nil, err
		}
		if comp == "" {
			break
		}
		var techName string
		for techName == "" {
			techName, err = q.Input(fmt.Sprintf("Technology for %s", comp), "e.g. react, fastapi, rust")
			if err != nil {
				return nil, err
			}
			if techName == "" {
				notify.Warningf(out, "technology cannot be empty")
			}
		}
		pl.Project.Components = append(pl.Project.Components, schema.Component{Name: comp, Tech: techName})
	}
	if err := pl.Project.Validate(); err != nil {
		return nil, err
	}

	dbOptions := []string{dbSkip}
	for _, db := range extras.Databases {
		dbOptions = append(dbOptions, string(db))
	}
	dbChoice, err := q.Select("Add a database?", dbOptions)
	if err != nil {
		return nil, err
	}
	if dbChoice != dbSkip {
		if pl.Options.DB, err = extras.ParseDatabase(dbChoice); err != nil {
			return nil, err
		}
	}

	if pl.Options.Git, err = q.Confirm("Initialize a git repository at the project root?", true); err != nil {
		return nil, err
	}
	return pl, nil
}

func runQuestionnaire(ctx context.Context, q asker, out io.Writer) error {
	pl, err := askPlan(q, out)
	if err != nil {
		return err
	}
	a, err := loadApp(out)
	if err != nil {
		return err
	}
	if pl.Clone != nil {
		return cloneProject(a, pl.Project, *pl.Clone)
	}
	return createProject(ctx, a, pl.Project, pl.Options)
}
