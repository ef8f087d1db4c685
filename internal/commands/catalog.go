// Package commands defines the address book's command catalog and the parser
// that expands user aliases before dispatch.
package commands

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Command describes an address book command.
type Command struct {
	// Name is the canonical command word (e.g., "list")
	Name string

	// Usage shows argument syntax (e.g., "find KEYWORD [MORE_KEYWORDS]...")
	Usage string

	// Description is shown in help output
	Description string

	// Meta commands manage the application itself and can never be aliased
	Meta bool
}

// Catalog holds the recognized commands.
// It is safe for concurrent use; commands may be added at runtime.
type Catalog struct {
	mu         sync.RWMutex
	commands   map[string]Command
	disallowed map[string]struct{}
}

// NewCatalog creates a catalog holding the built-in commands.
// extraDisallowed names commands that may not be aliased in addition to
// the meta commands.
func NewCatalog(extraDisallowed ...string) *Catalog {
	c := &Catalog{
		commands:   make(map[string]Command),
		disallowed: make(map[string]struct{}),
	}
	for _, cmd := range builtins() {
		c.Register(cmd)
	}
	for _, name := range extraDisallowed {
		c.disallowed[name] = struct{}{}
	}
	return c
}

// Register adds or replaces a command.
func (c *Catalog) Register(cmd Command) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands[cmd.Name] = cmd
	if cmd.Meta {
		c.disallowed[cmd.Name] = struct{}{}
	}
}

// IsValidCommand reports whether token is a registered command name.
func (c *Catalog) IsValidCommand(token string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.commands[token]
	return ok
}

// Get returns the command named name.
func (c *Catalog) Get(name string) (Command, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cmd, ok := c.commands[name]
	return cmd, ok
}

// All returns every command sorted by name.
func (c *Catalog) All() []Command {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cmds := slices.Collect(maps.Values(c.commands))
	slices.SortFunc(cmds, func(a, b Command) int {
		return strings.Compare(a.Name, b.Name)
	})
	return cmds
}

// Disallowed returns a copy of the set of commands that may not be aliased.
func (c *Catalog) Disallowed() map[string]struct{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.disallowed)
}

// IsDisallowed reports whether name may not be aliased.
func (c *Catalog) IsDisallowed(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.disallowed[name]
	return ok
}

func builtins() []Command {
	return []Command{
		{Name: "add", Usage: "add n/NAME p/PHONE e/EMAIL a/ADDRESS [t/TAG]...", Description: "Add a person to the address book"},
		{Name: "edit", Usage: "edit INDEX [n/NAME] [p/PHONE] [e/EMAIL] [a/ADDRESS] [t/TAG]...", Description: "Edit the person at INDEX"},
		{Name: "delete", Usage: "delete INDEX", Description: "Delete the person at INDEX"},
		{Name: "find", Usage: "find KEYWORD [MORE_KEYWORDS]...", Description: "Find persons whose names contain any keyword"},
		{Name: "list", Usage: "list", Description: "List all persons"},
		{Name: "clear", Usage: "clear", Description: "Clear all entries from the address book"},
		{Name: "select", Usage: "select INDEX", Description: "Select the person at INDEX"},
		{Name: "history", Usage: "history", Description: "List previously entered commands"},
		{Name: "undo", Usage: "undo", Description: "Undo the previous command"},
		{Name: "redo", Usage: "redo", Description: "Redo the previously undone command"},
		{Name: "alias", Usage: "alias COMMAND ALIAS", Description: "Create an alias for a command", Meta: true},
		{Name: "unalias", Usage: "unalias ALIAS", Description: "Remove an alias", Meta: true},
		{Name: "aliases", Usage: "aliases", Description: "List all aliases", Meta: true},
		{Name: "help", Usage: "help", Description: "Show usage instructions", Meta: true},
		{Name: "exit", Usage: "exit", Description: "Exit the application", Meta: true},
	}
}
