package commands

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// AliasResolver looks up the command an alias stands for.
type AliasResolver interface {
	GetCommand(alias string) (string, bool, error)
}

// ParseResult contains the result of parsing user input.
type ParseResult struct {
	// Command is the matched command (zero value if not found)
	Command Command

	// CommandWord is the first word as typed
	CommandWord string

	// Alias is set when CommandWord was expanded from an alias
	Alias string

	// Args is everything after the command word, with surrounding spaces trimmed
	Args string

	// Error if input is empty or the command is unknown
	Error error
}

// Expanded returns the input with any alias replaced by its command.
func (r ParseResult) Expanded() string {
	if r.Args == "" {
		return r.Command.Name
	}
	return r.Command.Name + " " + r.Args
}

// Parser splits user input into a command and its arguments.
type Parser struct {
	catalog *Catalog
	aliases AliasResolver
}

// NewParser creates a parser. aliases may be nil to disable alias expansion.
func NewParser(catalog *Catalog, aliases AliasResolver) *Parser {
	return &Parser{catalog: catalog, aliases: aliases}
}

// Parse resolves the command word of input. An alias is expanded once;
// aliases never point at other aliases so no further expansion is needed.
func (p *Parser) Parse(input string) ParseResult {
	input = strings.TrimSpace(input)

	var result ParseResult
	if input == "" {
		result.Error = errors.New("empty command")
		return result
	}

	word, args := input, ""
	if i := strings.IndexFunc(input, unicode.IsSpace); i >= 0 {
		word, args = input[:i], input[i:]
	}
	result.CommandWord = word
	result.Args = strings.TrimSpace(args)

	name := word
	if p.aliases != nil {
		if command, ok, err := p.aliases.GetCommand(word); err == nil && ok {
			result.Alias = word
			name = command
		}
	}

	cmd, ok := p.catalog.Get(name)
	if !ok {
		result.Error = fmt.Errorf("unknown command: %s", name)
		return result
	}
	result.Command = cmd
	return result
}
