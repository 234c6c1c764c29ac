// Package tracker parses CSV session exports from the desktop wrist-tracking
// tool. Exports use semicolon separators and European decimal commas, with
// one header line per session and blank lines between sessions.
package tracker

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/swingsense/internal/ingest"
	"github.com/meltforce/swingsense/internal/models"
)

var (
	// sessionHeaderRe matches: "Morning Snatch";"snatch_left";"2026-02-19 16:54";"15,0 fps"
	sessionHeaderRe = regexp.MustCompile(`^"(.+)";"([a-z_]+)";"(\d{4}-\d{2}-\d{2}\s+\d+:\d+)";"(.+?)\s*fps"$`)

	// sampleRe matches: 0,066;0,512;0,731;0,95
	sampleRe = regexp.MustCompile(`^([\d,.]+);(-?[\d,.]+);(-?[\d,.]+);([\d,.]+)$`)

	// columnHeaderRe matches: T;X;Y;CONF
	columnHeaderRe = regexp.MustCompile(`^T;X;Y;CONF$`)
)

// Parse reads a tracker CSV export and returns the sessions it contains.
func Parse(r io.Reader) ([]ingest.Session, error) {
	scanner := bufio.NewScanner(r)
	var sessions []ingest.Session
	var current *ingest.Session

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Blank line = session boundary
		if line == "" {
			if current != nil {
				sessions = append(sessions, *current)
				current = nil
			}
			continue
		}

		// Skip column headers
		if columnHeaderRe.MatchString(line) {
			continue
		}

		// Try session header
		if m := sessionHeaderRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				sessions = append(sessions, *current)
			}
			movement, err := models.ParseMovementType(m[2])
			if err != nil {
				return nil, fmt.Errorf("session %q: %w", m[1], err)
			}
			date, err := parseSessionDate(m[3])
			if err != nil {
				return nil, fmt.Errorf("parsing session date %q: %w", m[3], err)
			}
			current = &ingest.Session{
				Name:         m[1],
				MovementType: movement,
				Date:         date,
				FPS:          parseEuropeanFloat(m[4]),
			}
			continue
		}

		// Try sample row
		if m := sampleRe.FindStringSubmatch(line); m != nil {
			if current == nil {
				return nil, fmt.Errorf("sample row without session header: %q", line)
			}
			current.Samples = append(current.Samples, models.PositionSample{
				T:          parseEuropeanFloat(m[1]),
				X:          parseEuropeanFloat(m[2]),
				Y:          parseEuropeanFloat(m[3]),
				Confidence: parseEuropeanFloat(m[4]),
			})
			continue
		}

		// Unknown line — skip silently (could be notes or other metadata)
	}

	// Flush remaining
	if current != nil {
		sessions = append(sessions, *current)
	}

	return sessions, scanner.Err()
}

// parseSessionDate parses "2026-02-19 16:54" into a time.Time.
func parseSessionDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 3:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// parseEuropeanFloat converts a European decimal string to float64.
// "0,5" -> 0.5, "15,0" -> 15.0
func parseEuropeanFloat(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", ".")
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
