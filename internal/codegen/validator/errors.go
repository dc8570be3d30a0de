package validator

import (
	"fmt"
	"strings"

	"github.com/Alia5/klutter-gen/internal/codegen/meta"
)

// UnresolvedTypeError reports a custom type that is neither a known message
// nor a known enum.
type UnresolvedTypeError struct {
	Type    string
	Subject string
}

func (e *UnresolvedTypeError) Error() string {
	return fmt.Sprintf("unresolved type %q referenced by %s: annotate it with @Response", e.Type, e.Subject)
}

// InvalidListNullabilityError reports a List<T?> type.
type InvalidListNullabilityError struct {
	Type    string
	Subject string
}

func (e *InvalidListNullabilityError) Error() string {
	return fmt.Sprintf("%s in %s is not supported: lists may not contain null values", e.Type, e.Subject)
}

// DuplicateCommandError reports two methods sharing a command on one channel.
// Each of the methods gets its own error.
type DuplicateCommandError struct {
	Command string
	Channel string
	Others  []meta.Pos
}

func (e *DuplicateCommandError) Error() string {
	others := make([]string, 0, len(e.Others))
	for _, p := range e.Others {
		others = append(others, p.String())
	}
	return fmt.Sprintf("command %q is declared more than once on channel %q (also at %s)",
		e.Command, e.Channel, strings.Join(others, ", "))
}

// DuplicateTypeError reports two messages or enums with the same name.
type DuplicateTypeError struct {
	Name   string
	Others []meta.Pos
}

func (e *DuplicateTypeError) Error() string {
	others := make([]string, 0, len(e.Others))
	for _, p := range e.Others {
		others = append(others, p.String())
	}
	return fmt.Sprintf("type %q is declared more than once (also at %s)", e.Name, strings.Join(others, ", "))
}

// NameCollisionError reports two declarations that would generate the same
// name in the adapter code.
type NameCollisionError struct {
	Name string
	With string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("generated name %q collides with %s", e.Name, e.With)
}

// InvalidIdentifierError reports a command or member that is not usable as an
// identifier in Dart, Kotlin and Swift.
type InvalidIdentifierError struct {
	Kind string
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("%s %q is not a valid identifier", e.Kind, e.Name)
}
