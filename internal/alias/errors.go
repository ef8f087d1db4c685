package alias

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a required input is absent.
var ErrInvalidArgument = errors.New("invalid argument")

// Kind classifies a rejected alias registration.
type Kind int

const (
	KindInvalidSyntax Kind = iota + 1
	KindDisallowedCommand
	KindCommandIsAlias
	KindAliasIsCommand
)

// Sentinels for errors.Is matching against a *Error of the same kind.
var (
	ErrInvalidSyntax     = &Error{Kind: KindInvalidSyntax}
	ErrDisallowedCommand = &Error{Kind: KindDisallowedCommand}
	ErrCommandIsAlias    = &Error{Kind: KindCommandIsAlias}
	ErrAliasIsCommand    = &Error{Kind: KindAliasIsCommand}
)

// Message returns the user-facing text for the kind.
func (k Kind) Message() string {
	switch k {
	case KindInvalidSyntax:
		return "Aliases must be alphabetical only"
	case KindDisallowedCommand:
		return "This command cannot be aliased"
	case KindCommandIsAlias:
		return "Provided command is another alias"
	case KindAliasIsCommand:
		return "Provided alias is a command"
	default:
		return "Invalid alias"
	}
}

func (k Kind) String() string {
	switch k {
	case KindInvalidSyntax:
		return "InvalidSyntax"
	case KindDisallowedCommand:
		return "DisallowedCommand"
	case KindCommandIsAlias:
		return "CommandIsAlias"
	case KindAliasIsCommand:
		return "AliasIsCommand"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a registration rule violation. Its message is safe to show to users.
type Error struct {
	Kind    Kind
	Alias   string
	Command string
}

func (e *Error) Error() string {
	return e.Kind.Message()
}

// Is matches any *Error with the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// StoreError wraps a failure reported by a Store.
type StoreError struct {
	Op  string // "read" or "save"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("alias store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
