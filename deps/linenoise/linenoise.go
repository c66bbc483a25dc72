package linenoise

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"
)

// ErrAborted is returned by Prompt when the user pressed Ctrl-C.
var ErrAborted = liner.ErrPromptAborted

type LineNoise struct {
	*liner.State
}

// New puts the terminal into line editing mode. Close restores it.
func New() *LineNoise {
	ln := &LineNoise{liner.NewLiner()}
	ln.SetCtrlCAborts(true)
	return ln
}

// Prompt reads one line, recording non-empty lines in the history.
func (ln *LineNoise) Prompt(prompt string) (string, error) {
	line, err := ln.State.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if line != "" {
		ln.AppendHistory(line)
	}
	return line, nil
}

// HistoryLoad loads the history file at filepath. A missing file is not an
// error.
func (ln *LineNoise) HistoryLoad(filepath string) error {
	content, err := os.ReadFile(filepath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = ln.ReadHistory(bytes.NewReader(content))
	return err
}

func (ln *LineNoise) HistorySave(filepath string) error {
	var buf bytes.Buffer
	_, err := ln.WriteHistory(&buf)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, buf.Bytes(), 0644)
}

// ClearScreen moves the cursor home and erases the terminal.
func ClearScreen(w io.Writer) error {
	clearSeq := "\x1b[H\x1b[2J"
	_, err := fmt.Fprint(w, clearSeq)
	return err
}

// IsEOF reports whether err marks the end of input.
func IsEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
