// Command hush filters static-analysis violations through configurable
// suppression rules.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wharflab/hush/cmd/hush/cmd"
)

func main() {
	err := cmd.Execute()
	if err == nil {
		return
	}
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cmd.ExitCode(err))
}
