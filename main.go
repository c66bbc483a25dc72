package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fzft/go-intset/cmd"
)

func main() {
	if err := cmd.NewRootCmd(versionString()).Execute(); err != nil {
		// a failed command already printed its error reply
		if !errors.Is(err, cmd.ErrCommandFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
