package cliutil

import (
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	okColor     = color.New(color.FgGreen, color.Bold)
	failColor   = color.New(color.FgRed, color.Bold)
	warnColor   = color.New(color.FgYellow)
	methodColor = color.New(color.FgCyan)
	dimColor    = color.New(color.Faint)

	upper = cases.Upper(language.Und)
)

// OK renders a success line prefixed with a check mark.
func OK(format string, args ...any) string {
	return okColor.Sprintf("✓ "+format, args...)
}

// Fail renders a failure line prefixed with a cross.
func Fail(format string, args ...any) string {
	return failColor.Sprintf("✗ "+format, args...)
}

// Warn renders a warning.
func Warn(format string, args ...any) string {
	return warnColor.Sprintf(format, args...)
}

// Dim renders secondary detail such as regular expressions.
func Dim(s string) string {
	return dimColor.Sprint(s)
}

// Method renders an HTTP method in upper case, padded to width 7 so
// columns line up for every method name.
func Method(m string) string {
	return methodColor.Sprintf("%-7s", upper.String(m))
}

// MethodList renders methods in upper case separated by spaces.
func MethodList(methods []string) string {
	out := make([]string, len(methods))
	for i, m := range methods {
		out[i] = methodColor.Sprint(upper.String(m))
	}
	return strings.Join(out, " ")
}

// DisableColor turns colored output off, e.g. for --no-color.
func DisableColor() {
	color.NoColor = true
}
