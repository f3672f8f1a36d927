package match

import (
	"time"

	"github.com/smith3v/tg-match-reminder/pkg/lang"
)

// ClockLayout is the wire format for match times: naive local clock
// time, no zone. Existing data files depend on it.
const ClockLayout = "2006-01-02T15:04:05"

// Reminders tracks which lead-time reminders have gone out. Flags only
// ever move from false to true.
type Reminders struct {
	TenMinute   bool `json:"10min"`
	ThreeMinute bool `json:"3min"`
}

// Match is the persisted record for one scheduled match. The JSON
// field names are a compatibility surface and must not change.
//
// ID is a creation-time counter (list length + 1), not a stable unique
// key: deleting a match lets a later creation reuse its id. Selection
// for ending a match therefore uses 1-based list position, never ID.
type Match struct {
	ID        int       `json:"id"`
	Team1     string    `json:"team1"`
	Team2     string    `json:"team2"`
	Time      string    `json:"time"`
	Language  lang.Code `json:"language"`
	Creator   int64     `json:"creator"`
	Guild     string    `json:"guild,omitempty"`
	Reminders Reminders `json:"reminders_sent"`
}

// FormatClock renders t in the persisted wire format.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// When parses the stored match time as local clock time. Kept as a
// string in the record so one malformed timestamp poisons only its own
// match during a scan, not the whole file.
func (m Match) When() (time.Time, error) {
	return time.ParseInLocation(ClockLayout, m.Time, time.Local)
}

// MentionText is the combined team text mention tokens are extracted
// from.
func (m Match) MentionText() string {
	return m.Team1 + " " + m.Team2
}
