package logginghelpers

import (
	"fmt"
	"log/slog"
	"strings"
)

const (
	// Level Debug -4
	// reading rows out of a source
	LevelReportIO slog.Level = -2
	// Level Info 0
	// Level Warn 4
	// Level Error 8
	// a render cycle could not produce anything
	LevelBrokenProcess slog.Level = 12
)

func LevelName(level slog.Level) string {
	switch level {
	case LevelReportIO:
		return "IO"
	case LevelBrokenProcess:
		return "BROKEN"
	}
	return level.String()
}

// ParseLevel understands the slog names plus the custom ones above
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "io":
		return LevelReportIO, nil
	case "broken":
		return LevelBrokenProcess, nil
	case "":
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
