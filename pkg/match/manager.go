package match

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/smith3v/tg-match-reminder/pkg/lang"
	"github.com/smith3v/tg-match-reminder/pkg/logger"
	"github.com/smith3v/tg-match-reminder/pkg/store"
)

// Reminder window bounds, in minutes before match time. The windows
// are tolerance bands wide enough that a once-per-minute scan always
// lands at least one tick inside them.
const (
	tenMinuteLow    = 9.5
	tenMinuteHigh   = 10.5
	threeMinuteLow  = 2.5
	threeMinuteHigh = 3.5

	// Matches this long past their scheduled time are dropped.
	expiryMinutes = -60
)

var ErrNotFound = errors.New("match not found")

// ReminderSender delivers a due reminder. Implementations swallow
// per-recipient failures; the scan only needs to mark the flag.
type ReminderSender interface {
	SendReminder(ctx context.Context, m Match, lead lang.Lead)
}

// Manager owns the match list lifecycle: creation, listing, explicit
// ending, and the periodic reminder/expiry scan.
type Manager struct {
	file   *store.File[[]Match]
	sender ReminderSender
	now    func() time.Time

	scanMu sync.Mutex
}

// NewManager wires the manager to its persisted file and reminder
// sink. A nil now defaults to time.Now.
func NewManager(file *store.File[[]Match], sender ReminderSender, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{file: file, sender: sender, now: now}
}

// Create appends a new match and returns its id. The id is the list
// length at creation plus one; callers validate the time before
// calling.
func (mgr *Manager) Create(team1, team2 string, at time.Time, language lang.Code, creator int64, guild string) int {
	var id int
	mgr.file.Update(func(matches []Match) ([]Match, bool) {
		id = len(matches) + 1
		matches = append(matches, Match{
			ID:       id,
			Team1:    team1,
			Team2:    team2,
			Time:     FormatClock(at),
			Language: language,
			Creator:  creator,
			Guild:    guild,
		})
		return matches, true
	})
	logger.Info("match created", "id", id, "time", FormatClock(at), "language", language)
	return id
}

// List returns the persisted matches in insertion order.
func (mgr *Manager) List() []Match {
	return mgr.file.Load()
}

// End removes the match at the given 1-based display position and
// returns it. Positions shift after every removal; they are a display
// convenience, not identity.
func (mgr *Manager) End(position int) (Match, error) {
	var removed Match
	found := false
	mgr.file.Update(func(matches []Match) ([]Match, bool) {
		if position < 1 || position > len(matches) {
			return matches, false
		}
		removed = matches[position-1]
		found = true
		return append(matches[:position-1], matches[position:]...), true
	})
	if !found {
		return Match{}, ErrNotFound
	}
	logger.Info("match ended", "id", removed.ID, "position", position)
	return removed, nil
}

type dueReminder struct {
	m    Match
	lead lang.Lead
}

// ScanAndFire runs one reminder/expiry pass over all matches. At most
// one reminder fires per match per pass, a malformed match is skipped
// without stopping the pass, and the file is rewritten once at the end
// only when something changed. Overlapping invocations are coalesced:
// a tick arriving while a scan is still running is skipped.
//
// Due reminders are collected under the file lock and delivered after
// it is released, so a paced fan-out never stalls the command path.
func (mgr *Manager) ScanAndFire(ctx context.Context) {
	if !mgr.scanMu.TryLock() {
		logger.Info("reminder scan still running, skipping tick")
		return
	}
	defer mgr.scanMu.Unlock()

	var due []dueReminder

	now := mgr.now()
	mgr.file.Update(func(matches []Match) ([]Match, bool) {
		updated := false
		kept := make([]Match, 0, len(matches))

		for _, m := range matches {
			when, err := m.When()
			if err != nil {
				logger.Error("skipping match with malformed time", "id", m.ID, "time", m.Time, "error", err)
				kept = append(kept, m)
				continue
			}
			minutes := when.Sub(now).Minutes()

			switch {
			case minutes >= tenMinuteLow && minutes <= tenMinuteHigh && !m.Reminders.TenMinute:
				logger.Info("sending 10-minute reminder", "id", m.ID, "minutes_remaining", minutes)
				m.Reminders.TenMinute = true
				due = append(due, dueReminder{m: m, lead: lang.LeadTenMinutes})
				updated = true
			case minutes >= threeMinuteLow && minutes <= threeMinuteHigh && !m.Reminders.ThreeMinute:
				logger.Info("sending 3-minute reminder", "id", m.ID, "minutes_remaining", minutes)
				m.Reminders.ThreeMinute = true
				due = append(due, dueReminder{m: m, lead: lang.LeadThreeMinutes})
				updated = true
			case minutes < expiryMinutes:
				logger.Info("removing expired match", "id", m.ID)
				updated = true
				continue
			}
			kept = append(kept, m)
		}

		return kept, updated
	})

	for _, r := range due {
		mgr.send(ctx, r.m, r.lead)
	}
}

func (mgr *Manager) send(ctx context.Context, m Match, lead lang.Lead) {
	if mgr.sender == nil {
		return
	}
	mgr.sender.SendReminder(ctx, m, lead)
}
