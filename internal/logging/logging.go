// Package logging wires slog, the OTel log bridge and zerolog for the race
// host and its storage managers.
package logging

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// LogFilePath names a log file after the race and the session start, e.g.
// logs/monza_gp.20260212_213836.log.
func LogFilePath(logsDir, raceName string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", slug(raceName), sessionStart.UTC().Format("20060102_150405")),
	)
}

func slug(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(name))
	if s == "" {
		return "race"
	}
	return s
}
