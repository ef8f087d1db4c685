package alias

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/addressbook/internal/log"
)

// === Helper Functions ===

// recordingStore is a Store test double that counts calls and keeps the last save.
type recordingStore struct {
	mu        sync.Mutex
	initial   map[string]string
	readErr   error
	saveErr   error
	reads     int
	saves     int
	lastSaved map[string]string
}

func (s *recordingStore) ReadAliases() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.readErr != nil {
		return nil, s.readErr
	}
	out := make(map[string]string, len(s.initial))
	for k, v := range s.initial {
		out[k] = v
	}
	return out, nil
}

func (s *recordingStore) SaveAliases(aliases map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.lastSaved = aliases
	return nil
}

func (s *recordingStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads + s.saves
}

var testCommands = map[string]bool{
	"add": true, "list": true, "delete": true, "find": true,
	"help": true, "exit": true,
}

func testValidator() CommandValidator {
	return CommandValidatorFunc(func(token string) bool { return testCommands[token] })
}

func testDisallowed() map[string]struct{} {
	return map[string]struct{}{"help": {}, "exit": {}}
}

// newTestRegistry creates a registry with persistence disabled.
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(testValidator(), testDisallowed(), WithPersistence(false))
	require.NoError(t, err)
	return r
}

// === Unit Tests: Construction ===

func TestNewRegistry_RejectsNilValidator(t *testing.T) {
	_, err := NewRegistry(nil, testDisallowed())
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewRegistry_RejectsNilDisallowed(t *testing.T) {
	_, err := NewRegistry(testValidator(), nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewRegistry_LoadsFromStore(t *testing.T) {
	store := &recordingStore{initial: map[string]string{"ls": "list"}}

	r, err := NewRegistry(testValidator(), testDisallowed(), WithStore(store))
	require.NoError(t, err)

	command, ok, err := r.GetCommand("ls")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "list", command)
	require.Equal(t, 1, store.reads)
}

func TestNewRegistry_LoadFailureStartsEmpty(t *testing.T) {
	var buf bytes.Buffer
	store := &recordingStore{readErr: errors.New("corrupt file")}

	r, err := NewRegistry(testValidator(), testDisallowed(), WithStore(store), WithLogger(log.New(&buf)))
	require.NoError(t, err, "load failure must not surface")
	require.Equal(t, 0, r.Len())
	require.Contains(t, buf.String(), "[WARN] [store]")
	require.Contains(t, buf.String(), "corrupt file")
}

func TestNewRegistry_DisallowedSetIsCopied(t *testing.T) {
	disallowed := testDisallowed()
	r, err := NewRegistry(testValidator(), disallowed, WithPersistence(false))
	require.NoError(t, err)

	delete(disallowed, "help")

	err = r.RegisterAlias("help", "h")
	require.ErrorIs(t, err, ErrDisallowedCommand)
}

// === Unit Tests: RegisterAlias ===

func TestRegisterAlias_RegistersAndResolves(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.RegisterAlias("list", "ab"))

	isAlias, err := r.IsAlias("ab")
	require.NoError(t, err)
	require.True(t, isAlias)

	command, ok, err := r.GetCommand("ab")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "list", command)
}

func TestRegisterAlias_OverwritesSilently(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.RegisterAlias("list", "x"))
	require.NoError(t, r.RegisterAlias("find", "x"))

	command, ok, err := r.GetCommand("x")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "find", command)
	require.Equal(t, 1, r.Len())
}

func TestRegisterAlias_ManyAliasesOneCommand(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.RegisterAlias("list", "l"))
	require.NoError(t, r.RegisterAlias("list", "ls"))

	require.Equal(t, map[string]string{"l": "list", "ls": "list"}, r.AliasList())
}

func TestRegisterAlias_CaseSensitive(t *testing.T) {
	r := newTestRegistry(t)

	require.NoError(t, r.RegisterAlias("list", "Ab"))

	isAlias, err := r.IsAlias("ab")
	require.NoError(t, err)
	require.False(t, isAlias)
}

func TestRegisterAlias_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   map[string]string
		command string
		alias   string
		want    error
		message string
	}{
		{"empty alias", nil, "list", "", ErrInvalidSyntax, "Aliases must be alphabetical only"},
		{"digit in alias", nil, "list", "l1", ErrInvalidSyntax, "Aliases must be alphabetical only"},
		{"space in alias", nil, "list", "l s", ErrInvalidSyntax, "Aliases must be alphabetical only"},
		{"non-ascii letter", nil, "list", "é", ErrInvalidSyntax, "Aliases must be alphabetical only"},
		{"disallowed command", nil, "exit", "q", ErrDisallowedCommand, "This command cannot be aliased"},
		{"command is alias", map[string]string{"l": "list"}, "l", "ll", ErrCommandIsAlias, "Provided command is another alias"},
		{"alias is command", nil, "list", "find", ErrAliasIsCommand, "Provided alias is a command"},
		// Syntax is checked before the disallowed set.
		{"syntax before disallowed", nil, "exit", "q!", ErrInvalidSyntax, "Aliases must be alphabetical only"},
		// Disallowed is checked before alias-is-command.
		{"disallowed before alias is command", nil, "help", "list", ErrDisallowedCommand, "This command cannot be aliased"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			for a, c := range tt.setup {
				require.NoError(t, r.RegisterAlias(c, a))
			}
			before := r.AliasList()

			err := r.RegisterAlias(tt.command, tt.alias)
			require.ErrorIs(t, err, tt.want)
			require.EqualError(t, err, tt.message)
			require.Equal(t, before, r.AliasList(), "mapping must be unchanged")

			var aliasErr *Error
			require.True(t, errors.As(err, &aliasErr))
			require.Equal(t, tt.alias, aliasErr.Alias)
			require.Equal(t, tt.command, aliasErr.Command)
		})
	}
}

func TestRegisterAlias_EmptyAliasIsInvalidSyntax(t *testing.T) {
	r := newTestRegistry(t)

	err := r.RegisterAlias("list", "")
	require.ErrorIs(t, err, ErrInvalidSyntax)
	require.NotErrorIs(t, err, ErrInvalidArgument)
	require.Zero(t, r.Len())
}

func TestRegisterAlias_EmptyCommand(t *testing.T) {
	r := newTestRegistry(t)

	require.ErrorIs(t, r.RegisterAlias("", "l"), ErrInvalidArgument)
	require.ErrorIs(t, r.RegisterAlias("", "l!"), ErrInvalidArgument, "checked before alias syntax")
	require.Zero(t, r.Len())
}

// Aliases are only checked against the command set when registered. A command
// added later may share a name with an existing alias; this is accepted.
func TestRegisterAlias_NotRevalidatedWhenCommandsChange(t *testing.T) {
	commands := map[string]bool{"list": true}
	validator := CommandValidatorFunc(func(token string) bool { return commands[token] })
	r, err := NewRegistry(validator, map[string]struct{}{}, WithPersistence(false))
	require.NoError(t, err)

	require.NoError(t, r.RegisterAlias("list", "stats"))
	commands["stats"] = true

	isAlias, err := r.IsAlias("stats")
	require.NoError(t, err)
	require.True(t, isAlias, "existing alias survives a new command of the same name")
}

// === Unit Tests: Unregister / Clear ===

func TestUnregisterAlias_RemovesAlias(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.RegisterAlias("list", "l"))

	r.UnregisterAlias("l")

	isAlias, err := r.IsAlias("l")
	require.NoError(t, err)
	require.False(t, isAlias)
}

func TestUnregisterAlias_UnknownIsNoop(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.RegisterAlias("list", "l"))

	r.UnregisterAlias("nope")

	require.Equal(t, 1, r.Len())
}

func TestClearAliases_EmptiesMapping(t *testing.T) {
	r := newTestRegistry(t)
	registered := []string{"a", "b", "c"}
	for _, a := range registered {
		require.NoError(t, r.RegisterAlias("list", a))
	}

	r.ClearAliases()

	for _, a := range registered {
		isAlias, err := r.IsAlias(a)
		require.NoError(t, err)
		require.False(t, isAlias)
	}
	require.Empty(t, r.AliasList())
}

// === Unit Tests: Lookups ===

func TestLookups_EmptyAliasNotFound(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.RegisterAlias("list", "l"))

	isAlias, err := r.IsAlias("")
	require.NoError(t, err)
	require.False(t, isAlias)

	command, ok, err := r.GetCommand("")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, command)
}

func TestGetCommand_Unregistered(t *testing.T) {
	r := newTestRegistry(t)

	command, ok, err := r.GetCommand("zz")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, command)
}

func TestAliasList_ReturnsCopy(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.RegisterAlias("list", "l"))

	snapshot := r.AliasList()
	snapshot["l"] = "delete"
	snapshot["x"] = "add"

	command, _, err := r.GetCommand("l")
	require.NoError(t, err)
	require.Equal(t, "list", command)
	isAlias, err := r.IsAlias("x")
	require.NoError(t, err)
	require.False(t, isAlias)
}

func TestAliases_Sorted(t *testing.T) {
	r := newTestRegistry(t)
	for _, a := range []string{"zz", "Ab", "mm"} {
		require.NoError(t, r.RegisterAlias("list", a))
	}

	require.Equal(t, []string{"Ab", "mm", "zz"}, r.Aliases())
}

// === Unit Tests: Persistence ===

func TestPersistenceDisabled_NoStoreInteraction(t *testing.T) {
	store := &recordingStore{initial: map[string]string{"ls": "list"}}

	r, err := NewRegistry(testValidator(), testDisallowed(), WithStore(store), WithPersistence(false))
	require.NoError(t, err)

	require.NoError(t, r.RegisterAlias("list", "l"))
	r.UnregisterAlias("l")
	r.UnregisterAlias("missing")
	r.ClearAliases()

	require.Zero(t, store.calls())
	require.Equal(t, 0, r.Len(), "nothing is loaded when persistence is disabled")
}

func TestPersistence_SavesAfterEveryMutation(t *testing.T) {
	store := &recordingStore{}
	r, err := NewRegistry(testValidator(), testDisallowed(), WithStore(store))
	require.NoError(t, err)

	require.NoError(t, r.RegisterAlias("list", "l"))
	require.Equal(t, 1, store.saves)
	require.Equal(t, map[string]string{"l": "list"}, store.lastSaved)

	r.UnregisterAlias("missing")
	require.Equal(t, 2, store.saves, "unregister saves even when nothing changed")

	r.ClearAliases()
	require.Equal(t, 3, store.saves)
	require.Empty(t, store.lastSaved)
}

func TestPersistence_RejectedRegistrationDoesNotSave(t *testing.T) {
	store := &recordingStore{}
	r, err := NewRegistry(testValidator(), testDisallowed(), WithStore(store))
	require.NoError(t, err)

	require.Error(t, r.RegisterAlias("exit", "q"))
	require.Zero(t, store.saves)
}

func TestPersistence_SavedMapIsDetached(t *testing.T) {
	store := &recordingStore{}
	r, err := NewRegistry(testValidator(), testDisallowed(), WithStore(store))
	require.NoError(t, err)
	require.NoError(t, r.RegisterAlias("list", "l"))

	store.lastSaved["l"] = "tampered"

	command, _, err := r.GetCommand("l")
	require.NoError(t, err)
	require.Equal(t, "list", command)
}

func TestPersistence_SaveFailureIsAbsorbed(t *testing.T) {
	var buf bytes.Buffer
	store := &recordingStore{saveErr: errors.New("read-only filesystem")}
	r, err := NewRegistry(testValidator(), testDisallowed(), WithStore(store), WithLogger(log.New(&buf)))
	require.NoError(t, err)

	require.NoError(t, r.RegisterAlias("list", "l"), "save failure must not surface")

	command, ok, err := r.GetCommand("l")
	require.NoError(t, err)
	require.True(t, ok, "in-memory mapping stands after a failed save")
	require.Equal(t, "list", command)
	require.Contains(t, buf.String(), "read-only filesystem")

	r.UnregisterAlias("l")
	r.ClearAliases()
	require.Equal(t, 3, store.saves)
}

func TestRegistry_ConcurrentMutations(t *testing.T) {
	store := &recordingStore{}
	r, err := NewRegistry(testValidator(), testDisallowed(), WithStore(store))
	require.NoError(t, err)

	aliases := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	errs := make(chan error, len(aliases))
	var wg sync.WaitGroup
	for _, a := range aliases {
		wg.Add(1)
		go func(a string) {
			defer wg.Done()
			errs <- r.RegisterAlias("list", a)
		}(a)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, len(aliases), r.Len())
	require.Equal(t, len(aliases), store.saves)
	require.Equal(t, r.AliasList(), store.lastSaved, "last save reflects the final mapping")
}

// === Property-Based Tests ===

func TestProperty_NonAlphabeticAliasRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r, err := NewRegistry(testValidator(), testDisallowed(), WithPersistence(false))
		require.NoError(t, err)

		alias := rapid.StringMatching(`[a-zA-Z]{0,4}[^a-zA-Z][a-zA-Z0-9_ -]{0,4}`).Draw(t, "alias")

		err = r.RegisterAlias("list", alias)
		require.ErrorIs(t, err, ErrInvalidSyntax)
		require.Zero(t, r.Len())
	})
}

func TestProperty_DisallowedCommandRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r, err := NewRegistry(testValidator(), testDisallowed(), WithPersistence(false))
		require.NoError(t, err)

		command := rapid.SampledFrom([]string{"help", "exit"}).Draw(t, "command")
		alias := rapid.StringMatching(`[a-zA-Z]{1,8}`).Draw(t, "alias")

		require.ErrorIs(t, r.RegisterAlias(command, alias), ErrDisallowedCommand)
	})
}

func TestProperty_MatchesModel(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		store := &recordingStore{}
		r, err := NewRegistry(testValidator(), testDisallowed(), WithStore(store))
		require.NoError(t, err)

		model := make(map[string]string)
		numOps := rapid.IntRange(1, 50).Draw(t, "numOps")

		for i := 0; i < numOps; i++ {
			alias := rapid.StringMatching(`[a-c]{1,2}`).Draw(t, "alias")
			switch rapid.IntRange(0, 3).Draw(t, "op") {
			case 0, 1:
				command := rapid.SampledFrom([]string{"add", "list", "find"}).Draw(t, "command")
				if err := r.RegisterAlias(command, alias); err == nil {
					model[alias] = command
				}
			case 2:
				r.UnregisterAlias(alias)
				delete(model, alias)
			case 3:
				if rapid.IntRange(0, 9).Draw(t, "clear") == 0 {
					r.ClearAliases()
					clear(model)
				}
			}
			require.Equal(t, model, r.AliasList())
		}

		// Every save mirrors the mapping at the time it ran, so the last one
		// matches the final state.
		if store.saves > 0 {
			require.Equal(t, model, store.lastSaved)
		}
	})
}
