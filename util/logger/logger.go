package logger

import (
	"os"

	logger "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

var L = &logger.Logger{
	Out:   os.Stderr,
	Level: logger.InfoLevel,
	Formatter: &prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp: true,
		ForceFormatting: true,
	},
}

// SetLevel parses lvl ("debug", "info", ...) and applies it to L.
func SetLevel(lvl string) error {
	level, err := logger.ParseLevel(lvl)
	if err != nil {
		return err
	}
	L.SetLevel(level)
	return nil
}

// Component returns an entry tagged with the given prefix, rendered by the
// prefixed formatter in front of the message.
func Component(name string) *logger.Entry {
	return L.WithField("prefix", name)
}
