package cmd

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fzft/go-intset/db"
	"github.com/fzft/go-intset/log"
	"github.com/fzft/go-intset/metrics"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Session owns the named sets of one CLI run. Sets are not safe for
// concurrent use, so every command and every stats snapshot holds mu for
// its whole duration.
type Session struct {
	mu     sync.Mutex
	sets   map[string]*db.IntSet[uint32]
	tagged bool
	dirty  uint64 // write commands executed
}

// NewSession returns an empty session. Sets created by a tagged session
// accept every uint32 key, including 0 and 4294967295.
func NewSession(tagged bool) *Session {
	return &Session{
		sets:   make(map[string]*db.IntSet[uint32]),
		tagged: tagged,
	}
}

func (s *Session) newSet() *db.IntSet[uint32] {
	if s.tagged {
		return db.NewTaggedIntSet[uint32]()
	}
	return db.NewIntSet[uint32]()
}

func (s *Session) lookup(name string) *db.IntSet[uint32] {
	return s.sets[name]
}

// view returns the named set, or an empty one that is not recorded when no
// such set exists.
func (s *Session) view(name string) *db.IntSet[uint32] {
	if set := s.lookup(name); set != nil {
		return set
	}
	return s.newSet()
}

func (s *Session) lookupOrCreate(name string) *db.IntSet[uint32] {
	set := s.lookup(name)
	if set == nil {
		set = s.newSet()
		s.sets[name] = set
	}
	return set
}

// Exec runs one command. argv[0] is the command name.
func (s *Session) Exec(argv []string) Reply {
	if len(argv) == 0 {
		return SharedSyntaxErr
	}

	c, ok := lookupCommand(argv[0])
	if !ok {
		return ErrorReply{errors.Errorf("unknown command '%s'", argv[0])}
	}
	if !c.checkArity(len(argv)) {
		return ErrorReply{errors.Errorf("wrong number of arguments for '%s' command", strings.ToLower(argv[0]))}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	atomic.AddInt64(&c.calls, 1)
	reply := c.proc(s, argv)
	if r, failed := reply.(ErrorReply); failed {
		atomic.AddInt64(&c.failedCalls, 1)
		log.Logger.Debug("command failed", zap.String("command", c.Name), zap.Error(r.Err))
	} else if c.Flags&CmdWrite != 0 {
		s.dirty++
	}
	return reply
}

// SetStats snapshots the statistics of every set.
func (s *Session) SetStats() map[string]db.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]db.Stats, len(s.sets))
	for name, set := range s.sets {
		out[name] = set.Stats()
	}
	return out
}

// CommandStats snapshots the call counters of every command. The counters
// live on the command table and are shared by all sessions of the process.
func (s *Session) CommandStats() map[string]metrics.CommandStats {
	out := make(map[string]metrics.CommandStats, len(commandTable))
	for _, c := range commandTable {
		out[c.Name] = metrics.CommandStats{
			Calls:    atomic.LoadInt64(&c.calls),
			Failures: atomic.LoadInt64(&c.failedCalls),
		}
	}
	return out
}

// Dirty returns the number of successful write commands.
func (s *Session) Dirty() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}
