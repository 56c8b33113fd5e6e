package record

import (
	"github.com/juju/errors"
	"strings"
)

// Level ranks records by verbosity. Lower values are more severe.
type Level uint8

const (
	ERROR Level = iota + 1
	WARN
	INFO
	DEBUG
	TRACE
)

var levelNames = [...]string{
	ERROR: "ERROR",
	WARN:  "WARN",
	INFO:  "INFO",
	DEBUG: "DEBUG",
	TRACE: "TRACE",
}

func (l Level) String() string {
	if l < ERROR || l > TRACE {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// Enabled reports whether l is at least as severe as threshold.
func (l Level) Enabled(threshold Level) bool {
	return l <= threshold
}

// ParseLevel accepts the level names in any case, or the digits 1 (error)
// through 5 (trace).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "1":
		return ERROR, nil
	case "warn", "2":
		return WARN, nil
	case "info", "3":
		return INFO, nil
	case "debug", "4":
		return DEBUG, nil
	case "trace", "5":
		return TRACE, nil
	}
	return 0, errors.NotValidf("level %q", s)
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(l.String())), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
