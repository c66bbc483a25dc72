package cmd

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fzft/go-intset/db"
	"github.com/pkg/errors"
)

type CommandFlags uint8

const (
	CmdWrite    CommandFlags = 1 << iota // Mutates a set.
	CmdReadOnly                          // Only reads sets.
	CmdSession                           // Controls the session, not a set.
)

type commandProc func(s *Session, argv []string) Reply

// Command describes one CLI command. Arity counts the command name; a
// negative arity means "at least -arity arguments".
type Command struct {
	Name    string
	Args    string
	Summary string
	Arity   int
	Flags   CommandFlags
	proc    commandProc

	// Runtime populated data
	calls       int64
	failedCalls int64
}

var commandTable = []*Command{
	{Name: "add", Args: "set key [key ...]", Summary: "Add keys to a set, creating it if needed. Replies with the number of keys newly added.", Arity: -3, Flags: CmdWrite, proc: addCommand},
	{Name: "del", Args: "set key [key ...]", Summary: "Remove keys from a set. Replies with the number of keys removed.", Arity: -3, Flags: CmdWrite, proc: delCommand},
	{Name: "exists", Args: "set key", Summary: "Reply 1 if the key is in the set, 0 otherwise.", Arity: 3, Flags: CmdReadOnly, proc: existsCommand},
	{Name: "size", Args: "set", Summary: "Number of keys in the set.", Arity: 2, Flags: CmdReadOnly, proc: sizeCommand},
	{Name: "capacity", Args: "set", Summary: "Number of slots in the backing array of the set.", Arity: 2, Flags: CmdReadOnly, proc: capacityCommand},
	{Name: "keys", Args: "set", Summary: "List the keys of the set in slot order.", Arity: 2, Flags: CmdReadOnly, proc: keysCommand},
	{Name: "stats", Args: "set", Summary: "Show size, capacity, tombstones, rebuild counters and footprint of the set.", Arity: 2, Flags: CmdReadOnly, proc: statsCommand},
	{Name: "clear", Args: "set", Summary: "Remove every key and release the backing array.", Arity: 2, Flags: CmdWrite, proc: clearCommand},
	{Name: "drop", Args: "set", Summary: "Delete the set. Replies 1 if it existed.", Arity: 2, Flags: CmdWrite, proc: dropCommand},
	{Name: "merge", Args: "dst src", Summary: "Insert every key of src into dst. Replies with the size of dst.", Arity: 3, Flags: CmdWrite, proc: mergeCommand},
	{Name: "equal", Args: "set set", Summary: "Reply 1 if both sets hold the same keys.", Arity: 3, Flags: CmdReadOnly, proc: equalCommand},
	{Name: "sets", Summary: "List the names of all sets.", Arity: 1, Flags: CmdReadOnly, proc: setsCommand},
	{Name: "memory", Summary: "Bytes held by the backing arrays of all sets.", Arity: 1, Flags: CmdReadOnly, proc: memoryCommand},
	{Name: "help", Args: "[command]", Summary: "Show help for one or all commands.", Arity: -1, Flags: CmdSession},
}

var commands map[string]*Command

func init() {
	commands = make(map[string]*Command, len(commandTable))
	for _, c := range commandTable {
		commands[c.Name] = c
	}
	// help walks the table, so it is wired after the table exists
	commands["help"].proc = helpCommand
}

func lookupCommand(name string) (*Command, bool) {
	c, ok := commands[strings.ToLower(name)]
	return c, ok
}

func (c *Command) checkArity(argc int) bool {
	if c.Arity >= 0 {
		return argc == c.Arity
	}
	return argc >= -c.Arity
}

func parseKey(arg string) (uint32, error) {
	k, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, errors.Errorf("value is not an integer or out of range: %q", arg)
	}
	return uint32(k), nil
}

func parseKeys(args []string) ([]uint32, error) {
	keys := make([]uint32, 0, len(args))
	for _, arg := range args {
		k, err := parseKey(arg)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func addCommand(s *Session, argv []string) Reply {
	keys, err := parseKeys(argv[2:])
	if err != nil {
		return ErrorReply{err}
	}
	set := s.lookupOrCreate(argv[1])
	before := set.Size()
	if err := set.InsertMany(keys...); err != nil {
		var rejected db.MultiError
		errors.As(err, &rejected)
		return ErrorReply{errors.Errorf("%d added, %d rejected: %v", set.Size()-before, len(rejected), rejected[0])}
	}
	return IntegerReply(set.Size() - before)
}

func delCommand(s *Session, argv []string) Reply {
	keys, err := parseKeys(argv[2:])
	if err != nil {
		return ErrorReply{err}
	}
	set := s.lookup(argv[1])
	if set == nil {
		return SharedCZero
	}
	removed := 0
	for _, k := range keys {
		if set.Erase(k) {
			removed++
		}
	}
	return IntegerReply(removed)
}

func existsCommand(s *Session, argv []string) Reply {
	k, err := parseKey(argv[2])
	if err != nil {
		return ErrorReply{err}
	}
	return boolReply(s.view(argv[1]).Exists(k))
}

func sizeCommand(s *Session, argv []string) Reply {
	return IntegerReply(s.view(argv[1]).Size())
}

func capacityCommand(s *Session, argv []string) Reply {
	return IntegerReply(s.view(argv[1]).Capacity())
}

func keysCommand(s *Session, argv []string) Reply {
	set := s.view(argv[1])
	out := make(ArrayReply, 0, set.Size())
	for k := range set.All() {
		out = append(out, strconv.FormatUint(uint64(k), 10))
	}
	return out
}

func statsCommand(s *Session, argv []string) Reply {
	set := s.view(argv[1])
	st := set.Stats()
	return InfoReply{
		"size:" + strconv.Itoa(st.Size),
		"capacity:" + strconv.Itoa(st.Capacity),
		"tombstones:" + strconv.Itoa(st.Deleted),
		"growths:" + strconv.FormatUint(st.Growths, 10),
		"compactions:" + strconv.FormatUint(st.Compactions, 10),
		"bytes:" + strconv.FormatInt(st.Bytes, 10),
		"tagged:" + strconv.FormatBool(set.Tagged()),
	}
}

func clearCommand(s *Session, argv []string) Reply {
	if set := s.lookup(argv[1]); set != nil {
		set.Clear()
	}
	return SharedOk
}

func dropCommand(s *Session, argv []string) Reply {
	set := s.lookup(argv[1])
	if set == nil {
		return SharedCZero
	}
	set.Clear()
	delete(s.sets, argv[1])
	return SharedCOne
}

func mergeCommand(s *Session, argv []string) Reply {
	dst := s.lookupOrCreate(argv[1])
	if err := dst.InsertSet(s.view(argv[2])); err != nil {
		return ErrorReply{err}
	}
	return IntegerReply(dst.Size())
}

func equalCommand(s *Session, argv []string) Reply {
	return boolReply(s.view(argv[1]).Equal(s.view(argv[2])))
}

func setsCommand(s *Session, argv []string) Reply {
	names := make(ArrayReply, 0, len(s.sets))
	for name := range s.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func memoryCommand(s *Session, argv []string) Reply {
	return IntegerReply(db.UsedMemory())
}

func helpCommand(s *Session, argv []string) Reply {
	if len(argv) > 2 {
		return SharedSyntaxErr
	}
	if len(argv) == 2 {
		c, ok := lookupCommand(argv[1])
		if !ok {
			return ErrorReply{errors.Errorf("unknown command '%s'", argv[1])}
		}
		return InfoReply{c.usage(), "  " + c.Summary}
	}
	out := make(InfoReply, 0, len(commandTable)+1)
	for _, c := range commandTable {
		out = append(out, c.usage())
	}
	out = append(out, "quit")
	return out
}

func (c *Command) usage() string {
	if c.Args == "" {
		return strings.ToUpper(c.Name)
	}
	return strings.ToUpper(c.Name) + " " + c.Args
}
