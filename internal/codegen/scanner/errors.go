package scanner

import "fmt"

// MalformedAnnotationError reports a declaration that does not match the
// grammar the generator understands. It aborts the whole scan.
type MalformedAnnotationError struct {
	File       string
	Line       int
	Column     int
	Annotation string // e.g. "@Event", empty for plain syntax errors
	Expected   string
	Found      string
}

func (e *MalformedAnnotationError) Error() string {
	loc := fmt.Sprintf("%s:%d:%d", e.File, e.Line, e.Column)
	if e.Annotation == "" {
		return fmt.Sprintf("%s: expected %s, found %s", loc, e.Expected, e.Found)
	}
	return fmt.Sprintf("%s: malformed %s: expected %s, found %s", loc, e.Annotation, e.Expected, e.Found)
}
