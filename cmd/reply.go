package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Reply is the result of one command, printed either the way redis-cli
// formats replies for a terminal or raw for pipes.
type Reply interface {
	Format(raw bool) string
}

type StatusReply string

func (r StatusReply) Format(raw bool) string {
	return string(r)
}

type IntegerReply int64

func (r IntegerReply) Format(raw bool) string {
	if raw {
		return strconv.FormatInt(int64(r), 10)
	}
	return fmt.Sprintf("(integer) %d", int64(r))
}

type ErrorReply struct {
	Err error
}

func (r ErrorReply) Format(raw bool) string {
	msg := r.Err.Error()
	if !strings.HasPrefix(msg, "ERR ") {
		msg = "ERR " + msg
	}
	if raw {
		return msg
	}
	return "(error) " + msg
}

// ArrayReply lists elements one per line, numbered unless raw.
type ArrayReply []string

func (r ArrayReply) Format(raw bool) string {
	if raw {
		return strings.Join(r, "\n")
	}
	if len(r) == 0 {
		return "(empty array)"
	}
	var b strings.Builder
	width := len(strconv.Itoa(len(r)))
	for i, elem := range r {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%*d) %s", width, i+1, elem)
	}
	return b.String()
}

// InfoReply is a block of "field:value" lines, printed verbatim.
type InfoReply []string

func (r InfoReply) Format(raw bool) string {
	return strings.Join(r, "\n")
}

var (
	SharedOk    = StatusReply("OK")
	SharedCZero = IntegerReply(0)
	SharedCOne  = IntegerReply(1)

	SharedSyntaxErr = ErrorReply{errors.New("syntax error")}
)

func boolReply(b bool) Reply {
	if b {
		return SharedCOne
	}
	return SharedCZero
}
