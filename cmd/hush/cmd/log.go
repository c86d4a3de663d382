package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

// newLogger builds the stderr logger for one command run. An invalid
// --log-level falls back to warn and says so.
func newLogger(cmd *cli.Command) *logrus.Logger {
	return newLoggerTo(os.Stderr, cmd.String("log-level"))
}

func newLoggerTo(w io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.SetLevel(logrus.WarnLevel)
		log.Warnf("invalid log level %q, using warn", level)
		return log
	}
	log.SetLevel(lvl)
	return log
}
