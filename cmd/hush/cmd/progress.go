package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/gkampitakis/ciinfo"
	"github.com/mattn/go-isatty"

	"github.com/wharflab/hush/internal/rules"
)

// progressThreshold is the file count below which no spinner is shown.
const progressThreshold = 50

func countFiles(violations []rules.Violation) int {
	seen := make(map[string]struct{})
	for _, v := range violations {
		seen[v.File()] = struct{}{}
	}
	return len(seen)
}

// startProgress draws a spinner on stderr while files are decided and
// returns the function that clears it. Nothing is drawn on CI runners or
// when stderr is not a terminal.
func startProgress(files int) func() {
	if files < progressThreshold || ciinfo.IsCI || !isatty.IsTerminal(os.Stderr.Fd()) {
		return func() {}
	}
	return spin(progressMessage(files))
}

func spin(msg string) func() {
	sp := spinner.Line
	frames := sp.Frames
	interval := sp.FPS
	if len(frames) == 0 {
		frames = []string{"-"}
	}
	if interval <= 0 {
		interval = 120 * time.Millisecond
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-stop:
				_, _ = fmt.Fprint(os.Stderr, "\r\033[2K")
				close(done)
				return
			case <-ticker.C:
				_, _ = fmt.Fprintf(os.Stderr, "\r%s %s", frames[frame%len(frames)], msg)
				frame++
			}
		}
	}()

	return func() {
		close(stop)
		<-done
	}
}

func progressMessage(files int) string {
	return fmt.Sprintf("Checking suppressions in %d %s", files, pluralize(files, "file", "files"))
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
