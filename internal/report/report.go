// Package report prints human-readable generation results and diagnostics.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/Alia5/klutter-gen/internal/codegen/generator"
	"github.com/Alia5/klutter-gen/internal/codegen/scanner"
	"github.com/Alia5/klutter-gen/internal/codegen/validator"
	"github.com/Alia5/klutter-gen/internal/codegen/writer"
)

// UseColor reports whether w is a terminal and NO_COLOR is unset.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Printer writes reports to one stream.
type Printer struct {
	w       io.Writer
	noColor bool
}

func New(w io.Writer, noColor bool) *Printer {
	return &Printer{w: w, noColor: noColor}
}

func (p *Printer) color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

// Error prints err with a headline matching its kind. Validation failures
// list every diagnostic.
func (p *Printer) Error(err error) {
	header := p.color(color.FgRed, color.Bold)
	body := p.color(color.FgRed)

	var failed *generator.ValidationFailedError
	var malformed *scanner.MalformedAnnotationError
	var writeErr *writer.WriteError
	switch {
	case errors.As(err, &failed):
		header.Fprintf(p.w, "❌ VALIDATION FAILED: %s, nothing was generated\n", plural(len(failed.Diagnostics), "problem"))
		p.Diagnostics(failed.Diagnostics)
	case errors.As(err, &malformed):
		header.Fprintf(p.w, "❌ SCAN FAILED: %s:%d:%d\n", malformed.File, malformed.Line, malformed.Column)
		what := "declaration"
		if malformed.Annotation != "" {
			what = malformed.Annotation
		}
		body.Fprintf(p.w, "   malformed %s\n", what)
		body.Fprintf(p.w, "   expected %s\n", malformed.Expected)
		body.Fprintf(p.w, "   found    %s\n", malformed.Found)
	case errors.As(err, &writeErr):
		header.Fprintf(p.w, "❌ WRITE FAILED: %s\n", writeErr.Path)
		body.Fprintf(p.w, "   %v\n", writeErr.Err)
	default:
		header.Fprintf(p.w, "❌ GENERATION FAILED\n")
		body.Fprintf(p.w, "   %v\n", err)
	}
}

// Diagnostics prints one block per validation problem.
func (p *Printer) Diagnostics(diags []validator.Diagnostic) {
	loc := p.color(color.Bold)
	body := p.color(color.FgRed)
	hint := p.color(color.FgCyan)
	for _, d := range diags {
		fmt.Fprintln(p.w)
		loc.Fprintf(p.w, "   %s: %s\n", d.Pos, d.Subject)
		body.Fprintf(p.w, "      %v\n", d.Err)
		if h := suggestion(d.Err); h != "" {
			hint.Fprintf(p.w, "      → %s\n", h)
		}
	}
}

func suggestion(err error) string {
	var unresolved *validator.UnresolvedTypeError
	var nullable *validator.InvalidListNullabilityError
	var dup *validator.DuplicateCommandError
	switch {
	case errors.As(err, &unresolved):
		return fmt.Sprintf("declare %s with @Response or return a primitive", unresolved.Type)
	case errors.As(err, &nullable):
		return "use a non-null element type or make the whole list nullable"
	case errors.As(err, &dup):
		return "give every function on the channel its own command name"
	default:
		return ""
	}
}

// Summary prints the outcome of a successful run.
func (p *Printer) Summary(res *generator.Result, dryRun bool) {
	ok := p.color(color.FgGreen, color.Bold)
	path := p.color(color.FgCyan)

	if dryRun {
		ok.Fprintf(p.w, "✓ Rendered %s (dry run)\n", plural(len(res.Files), "file"))
		for _, f := range res.Files {
			path.Fprintf(p.w, "   → %s\n", f.Path)
		}
		return
	}

	ok.Fprintf(p.w, "✓ Generated %s, %d written, %d removed\n", plural(len(res.Files), "file"), len(res.Written), len(res.Removed))
	for _, w := range res.Written {
		path.Fprintf(p.w, "   → %s\n", w)
	}
	for _, r := range res.Removed {
		path.Fprintf(p.w, "   ✗ %s\n", r)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, strings.TrimSuffix(noun, "s"))
}
