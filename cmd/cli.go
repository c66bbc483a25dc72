package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fzft/go-intset/deps/linenoise"
	"github.com/fzft/go-intset/log"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const cliPrompt = "intset> "

// ErrCommandFailed is returned when a command given on the command line
// replied with an error.
var ErrCommandFailed = errors.New("command failed")

// lineReader is the part of linenoise the REPL needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

type Cli struct {
	config  *Config
	session *Session
	out     io.Writer
	raw     bool
}

func (cli *Cli) print(reply Reply) {
	fmt.Fprintln(cli.out, reply.Format(cli.raw))
}

// runOnce executes the command given on the command line. A command
// that replies with an error makes the run fail.
func (cli *Cli) runOnce(argv []string) error {
	reply := cli.session.Exec(argv)
	cli.print(reply)
	if r, ok := reply.(ErrorReply); ok {
		return errors.Wrap(ErrCommandFailed, r.Err.Error())
	}
	return nil
}

func (cli *Cli) repl() error {
	line := linenoise.New()
	defer line.Close()

	historyFile := cli.config.historyPath()
	if historyFile != "" {
		if err := line.HistoryLoad(historyFile); err != nil {
			log.Logger.Warn("cannot load history", zap.String("file", historyFile), zap.Error(err))
		}
		defer func() {
			if err := line.HistorySave(historyFile); err != nil {
				log.Logger.Warn("cannot save history", zap.String("file", historyFile), zap.Error(err))
			}
		}()
	}

	return cli.loop(line)
}

// loop reads commands until EOF, Ctrl-C or QUIT.
func (cli *Cli) loop(r lineReader) error {
	for {
		line, err := r.Prompt(cliPrompt)
		if err != nil {
			if linenoise.IsEOF(err) || errors.Is(err, linenoise.ErrAborted) {
				return nil
			}
			return err
		}

		argv, ok := splitArgs(line)
		if !ok {
			fmt.Fprintln(cli.out, "Invalid argument(s)")
			continue
		} else if len(argv) == 0 {
			continue
		}

		// "N command ..." repeats the command N times
		repeat := 1
		if n, err := strconv.Atoi(argv[0]); err == nil && len(argv) > 1 {
			if n <= 0 {
				fmt.Fprintln(cli.out, "Invalid intset-cli repeat command option value.")
				continue
			}
			repeat = n
			argv = argv[1:]
		}

		if strings.EqualFold(argv[0], "quit") || strings.EqualFold(argv[0], "exit") {
			return nil
		}
		// bare CLEAR wipes the screen, CLEAR set is a command
		if len(argv) == 1 && strings.EqualFold(argv[0], "clear") {
			linenoise.ClearScreen(cli.out)
			continue
		}

		for i := 0; i < repeat; i++ {
			cli.print(cli.session.Exec(argv))
		}
	}
}

// splitArgs splits a line into arguments. Arguments may be wrapped in
// double quotes, which understand backslash escapes, or single quotes,
// which are literal. It reports false on an unbalanced quote.
func splitArgs(line string) ([]string, bool) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   byte
		escaped bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case escaped:
			switch ch {
			case 'n':
				cur.WriteByte('\n')
			case 't':
				cur.WriteByte('\t')
			default:
				cur.WriteByte(ch)
			}
			escaped = false
		case quote == '"' && ch == '\\':
			escaped = true
		case quote != 0 && ch == quote:
			quote = 0
			// a closing quote must end the argument
			if i+1 < len(line) && line[i+1] != ' ' && line[i+1] != '\t' {
				return nil, false
			}
		case quote != 0:
			cur.WriteByte(ch)
		case ch == '"' || ch == '\'':
			quote = ch
			inArg = true
		case ch == ' ' || ch == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteByte(ch)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, false
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, true
}
