// Package notify prints styled, symbol-prefixed status lines.
package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	fcolor "github.com/fatih/color"
)

// MessageType selects the symbol and color of a line.
type MessageType int

const (
	ErrorType MessageType = iota
	WarningType
	ActivityType
	GenerateType
	SuccessType
	InfoType
)

var styles = map[MessageType]struct {
	symbol string
	color  *fcolor.Color
}{
	ErrorType:    {"✗", fcolor.New(fcolor.FgRed)},
	WarningType:  {"⚠", fcolor.New(fcolor.FgYellow)},
	ActivityType: {"►", fcolor.New(fcolor.Reset)},
	GenerateType: {"✚", fcolor.New(fcolor.Reset)},
	SuccessType:  {"✔", fcolor.New(fcolor.FgGreen)},
	InfoType:     {"ℹ", fcolor.New(fcolor.FgBlue)},
}

// WriteMessage renders one message. A nil writer means os.Stdout.
func WriteMessage(w io.Writer, t MessageType, format string, args ...any) {
	if w == nil {
		w = os.Stdout
	}
	content := format
	if len(args) > 0 {
		content = fmt.Sprintf(format, args...)
	}
	st, ok := styles[t]
	if !ok {
		st = styles[InfoType]
	}
	// continuation lines are indented under the symbol
	content = strings.ReplaceAll(content, "\n", "\n  ")
	_, _ = st.color.Fprintf(w, "%s %s\n", st.symbol, content)
}

func Errorf(w io.Writer, format string, args ...any) {
	WriteMessage(w, ErrorType, format, args...)
}

func Warningf(w io.Writer, format string, args ...any) {
	WriteMessage(w, WarningType, format, args...)
}

func Activityf(w io.Writer, format string, args ...any) {
	WriteMessage(w, ActivityType, format, args...)
}

func Generatef(w io.Writer, format string, args ...any) {
	WriteMessage(w, GenerateType, format, args...)
}

func Successf(w io.Writer, format string, args ...any) {
	WriteMessage(w, SuccessType, format, args...)
}

func Infof(w io.Writer, format string, args ...any) {
	WriteMessage(w, InfoType, format, args...)
}

// DisableColor turns off ANSI output globally (tests, NO_COLOR, pipes).
func DisableColor() { fcolor.NoColor = true }
