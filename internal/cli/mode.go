package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Values accepted by --mode.
const (
	modeDefault = "default"
	modeCreate  = "create"
	modeUpdate  = "update"
	modeDelete  = "delete"
	modeStatus  = "status"
)

// action is what a root invocation resolves to.
type action int

const (
	actionCreate action = iota + 1
	actionQuestionnaire
	actionStatus
	actionList
	actionUpdate
	actionDelete
)

func (a action) String() string {
	switch a {
	case actionCreate:
		return "create"
	case actionQuestionnaire:
		return "questionnaire"
	case actionStatus:
		return "status"
	case actionList:
		return "list"
	case actionUpdate:
		return "update"
	case actionDelete:
		return "delete"
	}
	return "unknown"
}

var errMissingID = errors.New("invalid project ID: --id is required")

// resolveMode decides what to do from --mode and which identifying flags
// were given. In default mode an ID means status, a name means create and
// neither starts the questionnaire. Update without an ID creates instead.
func resolveMode(mode, id, name string) (action, error) {
	hasID := strings.TrimSpace(id) != ""
	hasName := strings.TrimSpace(name) != ""

	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", modeDefault:
		switch {
		case hasID:
			return actionStatus, nil
		case hasName:
			return actionCreate, nil
		default:
			return actionQuestionnaire, nil
		}
	case modeCreate:
		return actionCreate, nil
	case modeUpdate:
		if !hasID {
			return actionCreate, nil
		}
		return actionUpdate, nil
	case modeDelete:
		if !hasID {
			return 0, errMissingID
		}
		return actionDelete, nil
	case modeStatus:
		if !hasID {
			return actionList, nil
		}
		return actionStatus, nil
	}
	return 0, fmt.Errorf("invalid mode %q (want %s, %s, %s, %s or %s)",
		mode, modeDefault, modeCreate, modeUpdate, modeDelete, modeStatus)
}

// runMode executes a resolved root action.
func runMode(cmd *cobra.Command, a action) error {
	debugf("mode %s", a)
	out := cmd.OutOrStdout()
	switch a {
	case actionQuestionnaire:
		if !isInteractiveTTY() {
			return errors.New("no project name given and stdin is not a terminal (use --name)")
		}
		return runQuestionnaire(cmd.Context(), newAsker(), out)
	case actionCreate:
		return createFromFlags(cmd.Context(), out)
	case actionStatus:
		return statusRun(out, flagID)
	case actionList:
		return statusRun(out, "")
	case actionUpdate:
		return updateRun(out, flagID, flagName)
	case actionDelete:
		return deleteRun(out, flagID, !deleteYes)
	}
	return fmt.Errorf("unhandled action %s", a)
}
