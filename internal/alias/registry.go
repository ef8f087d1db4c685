// Package alias manages user-defined command aliases.
//
// A Registry maps alphabetic alias tokens to canonical command names,
// rejects registrations that would shadow a command or point at a
// disallowed one, and mirrors every mutation to a Store. Store failures
// are logged and absorbed so aliasing keeps working for the session even
// when the backing store is unavailable.
package alias

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"sync"

	"github.com/zjrosen/addressbook/internal/log"
)

var aliasPattern = regexp.MustCompile(`^[a-zA-Z]+$`)

// ValidSyntax reports whether token is usable as an alias.
func ValidSyntax(token string) bool {
	return aliasPattern.MatchString(token)
}

// Option configures a Registry.
type Option func(*Registry)

// WithStore sets the persistence backend.
func WithStore(s Store) Option {
	return func(r *Registry) {
		if s != nil {
			r.store = s
		}
	}
}

// WithPersistence enables or disables all store interaction. Enabled by default.
func WithPersistence(enabled bool) Option {
	return func(r *Registry) {
		r.persistent = enabled
	}
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// Registry holds the alias→command mapping.
// It is safe for concurrent use; each mutation and the save it triggers
// run under one lock so saves are never reordered.
type Registry struct {
	mu         sync.Mutex
	aliases    map[string]string
	validator  CommandValidator
	disallowed map[string]struct{}
	store      Store
	persistent bool
	logger     *log.Logger
}

// NewRegistry creates a registry. When persistence is enabled, aliases saved
// by a previous run are loaded from the store; a failed load leaves the
// registry empty.
// Returns ErrInvalidArgument if validator or disallowed is nil. A typed nil
// validator, such as a nil *commands.Catalog, is not detected and panics on
// first registration.
func NewRegistry(validator CommandValidator, disallowed map[string]struct{}, opts ...Option) (*Registry, error) {
	if validator == nil {
		return nil, fmt.Errorf("%w: command validator is required", ErrInvalidArgument)
	}
	if disallowed == nil {
		return nil, fmt.Errorf("%w: disallowed command set is required", ErrInvalidArgument)
	}

	r := &Registry{
		aliases:    make(map[string]string),
		validator:  validator,
		disallowed: maps.Clone(disallowed),
		store:      nopStore{},
		persistent: true,
		logger:     log.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.persistent {
		if err := r.load(); err != nil {
			r.logger.WarnErr(log.CatStore, "could not load aliases, starting empty", err)
		}
	}
	return r, nil
}

// load replaces the mapping with the store's contents.
func (r *Registry) load() error {
	r.logger.Info(log.CatStore, "loading aliases from storage")
	loaded, err := r.store.ReadAliases()
	if err != nil {
		return &StoreError{Op: "read", Err: err}
	}
	r.aliases = maps.Clone(loaded)
	if r.aliases == nil {
		r.aliases = make(map[string]string)
	}
	r.logger.Info(log.CatStore, "restored aliases from storage", "count", len(r.aliases))
	return nil
}

// save writes a copy of the mapping to the store. Must be called with mu held.
func (r *Registry) save() error {
	if !r.persistent {
		return nil
	}
	r.logger.Debug(log.CatStore, "saving aliases to storage", "count", len(r.aliases))
	if err := r.store.SaveAliases(maps.Clone(r.aliases)); err != nil {
		return &StoreError{Op: "save", Err: err}
	}
	return nil
}

// persist runs save and absorbs its failure. Must be called with mu held.
func (r *Registry) persist() {
	if err := r.save(); err != nil {
		r.logger.WarnErr(log.CatStore, "skipping saving aliases to storage", err)
	}
}

// IsAlias reports whether token is a registered alias.
// The error is always nil; it is kept so callers can treat lookups uniformly
// with registration.
func (r *Registry) IsAlias(token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.aliases[token]
	return ok, nil
}

// RegisterAlias maps alias to command, overwriting any existing mapping for alias.
// Rules are checked in order and the first violation is returned as an *Error:
// alias syntax, disallowed command, command is an alias, alias is a command.
// An empty alias fails the syntax check. An empty command is rejected with
// ErrInvalidArgument before any rule is checked.
func (r *Registry) RegisterAlias(command, alias string) error {
	if command == "" {
		return fmt.Errorf("%w: command is required", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !ValidSyntax(alias) {
		return &Error{Kind: KindInvalidSyntax, Alias: alias, Command: command}
	}
	if _, ok := r.disallowed[command]; ok {
		return &Error{Kind: KindDisallowedCommand, Alias: alias, Command: command}
	}
	if _, ok := r.aliases[command]; ok {
		return &Error{Kind: KindCommandIsAlias, Alias: alias, Command: command}
	}
	if r.validator.IsValidCommand(alias) {
		return &Error{Kind: KindAliasIsCommand, Alias: alias, Command: command}
	}

	r.aliases[alias] = command
	r.logger.Debug(log.CatAlias, "registered alias", "alias", alias, "command", command)
	r.persist()
	return nil
}

// UnregisterAlias removes alias. Removing an unknown alias is a no-op,
// but the mapping is still saved.
func (r *Registry) UnregisterAlias(alias string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.aliases, alias)
	r.logger.Debug(log.CatAlias, "unregistered alias", "alias", alias)
	r.persist()
}

// ClearAliases removes every alias.
func (r *Registry) ClearAliases() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.aliases)
	r.logger.Debug(log.CatAlias, "cleared aliases")
	r.persist()
}

// GetCommand returns the command alias maps to, and whether it is registered.
// The error is always nil.
func (r *Registry) GetCommand(alias string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	command, ok := r.aliases[alias]
	return command, ok, nil
}

// AliasList returns a copy of the alias→command mapping.
func (r *Registry) AliasList() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.aliases)
}

// Aliases returns the registered aliases in sorted order.
func (r *Registry) Aliases() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Sorted(maps.Keys(r.aliases))
}

// Len returns the number of registered aliases.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.aliases)
}
