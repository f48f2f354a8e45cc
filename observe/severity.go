package observe

import (
	"fmt"
	"strings"
)

// Severity is the closed set of levels an event or log line can carry.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
	SeverityCritical
)

var severityNames = map[string]Severity{
	"debug":    SeverityDebug,
	"info":     SeverityInfo,
	"warn":     SeverityWarn,
	"warning":  SeverityWarn,
	"error":    SeverityError,
	"critical": SeverityCritical,
}

// ParseSeverity maps a level name to a Severity. Matching is
// case-insensitive; unrecognized names are rejected with ErrInvalidLogLevel
// rather than falling back to a default.
func ParseSeverity(s string) (Severity, error) {
	sev, ok := severityNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
	return sev, nil
}

// Valid reports whether s is one of the declared severities.
func (s Severity) Valid() bool {
	return s >= SeverityDebug && s <= SeverityCritical
}

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}
