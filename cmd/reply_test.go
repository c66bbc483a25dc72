package cmd

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestReplyFormat(t *testing.T) {
	assert.Equal(t, "OK", SharedOk.Format(false))
	assert.Equal(t, "(integer) 42", IntegerReply(42).Format(false))
	assert.Equal(t, "42", IntegerReply(42).Format(true))

	e := ErrorReply{errors.New("boom")}
	assert.Equal(t, "(error) ERR boom", e.Format(false))
	assert.Equal(t, "ERR boom", e.Format(true))
	assert.Equal(t, "(error) ERR syntax error", SharedSyntaxErr.Format(false))

	assert.Equal(t, "(empty array)", ArrayReply{}.Format(false))
	assert.Equal(t, "", ArrayReply{}.Format(true))
	assert.Equal(t, "1) a\n2) b", ArrayReply{"a", "b"}.Format(false))
	assert.Equal(t, "a\nb", ArrayReply{"a", "b"}.Format(true))

	long := ArrayReply{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	formatted := long.Format(false)
	assert.Contains(t, formatted, " 1) a\n")
	assert.Contains(t, formatted, "10) j")

	assert.Equal(t, "size:1\ncapacity:3", InfoReply{"size:1", "capacity:3"}.Format(false))
}
