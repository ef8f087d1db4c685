package alias

// CommandValidator reports whether a token names a real application command.
// The answer may change over the application's lifetime.
type CommandValidator interface {
	IsValidCommand(token string) bool
}

// CommandValidatorFunc adapts a function to CommandValidator.
type CommandValidatorFunc func(token string) bool

// IsValidCommand calls f(token).
func (f CommandValidatorFunc) IsValidCommand(token string) bool {
	return f(token)
}

// Store persists the alias mapping as a flat alias→command structure.
// Implementations may use a YAML file, SQLite, or other backends.
type Store interface {
	// ReadAliases returns the previously saved mapping.
	// A store that has never been written returns an empty mapping.
	ReadAliases() (map[string]string, error)

	// SaveAliases replaces the stored mapping with aliases.
	// The caller owns aliases; implementations must not retain it.
	SaveAliases(aliases map[string]string) error
}

// nopStore is used when no Store is configured.
type nopStore struct{}

func (nopStore) ReadAliases() (map[string]string, error) { return map[string]string{}, nil }
func (nopStore) SaveAliases(map[string]string) error     { return nil }

// Ensure nopStore implements Store.
var _ Store = nopStore{}
