// ABOUTME: Shared parsing and formatting helpers for CLI commands
// ABOUTME: Handles positional IDs, date flags and enumeration checks
package cli

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/careo/models"
)

// parseID reads the first positional argument as a numeric ID.
func parseID(fs *flag.FlagSet, what string) (int64, error) {
	if fs.NArg() < 1 {
		return 0, fmt.Errorf("%s ID is required", what)
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID: %s", what, fs.Arg(0))
	}
	return id, nil
}

// setFlags returns the names of flags given explicitly on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// parseDay parses a YYYY-MM-DD flag value. Empty means today.
func parseDay(value string) (time.Time, error) {
	if value == "" {
		return models.Today(), nil
	}
	day, err := time.ParseInLocation(models.DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return day, nil
}

// parseWhen accepts an RFC 3339 timestamp or a plain date. Empty means now.
func parseWhen(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	if t, err := models.ParseTimestamp(value); err == nil {
		return t, nil
	}
	return parseDay(value)
}

// parseBirthday returns nil for an empty value.
func parseBirthday(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	bd, err := models.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("invalid birthday %q (want YYYY-MM-DD)", value)
	}
	return &bd, nil
}

func checkStatus(status models.Status) error {
	if status.Known() {
		return nil
	}
	names := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		names[i] = string(s)
	}
	return fmt.Errorf("unknown status %q (choose from %s)", status, strings.Join(names, ", "))
}

func checkInteractionType(t models.InteractionType) error {
	if t.Known() {
		return nil
	}
	names := make([]string, len(models.InteractionTypes))
	for i, it := range models.InteractionTypes {
		names[i] = string(it)
	}
	return fmt.Errorf("unknown interaction type %q (choose from %s)", t, strings.Join(names, ", "))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
