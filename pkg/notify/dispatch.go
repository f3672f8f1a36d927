// Package notify resolves mention tokens to recipients and delivers
// direct messages one at a time, isolating per-recipient failures.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/smith3v/tg-match-reminder/pkg/lang"
	"github.com/smith3v/tg-match-reminder/pkg/logger"
	"github.com/smith3v/tg-match-reminder/pkg/match"
)

// ErrForbidden marks a recipient who does not accept direct messages.
// It is a normal, countable delivery outcome, not a fault.
var ErrForbidden = errors.New("recipient does not accept direct messages")

type Member struct {
	ID   string
	Name string
	Bot  bool
}

type Role struct {
	ID   string
	Name string
}

// Directory resolves mention ids inside one guild context. Injected so
// dispatch is testable without a live platform connection.
type Directory interface {
	GuildID() string
	GuildName() string
	ResolveMember(id string) (Member, bool)
	ResolveRole(id string) (Role, bool)
	MembersOfRole(id string) []Member
}

// Message is one outbound DM. Alternates carries the body in every
// supported language so the transport can offer translation buttons.
type Message struct {
	Body       string
	Alternates map[lang.Code]string
}

// Messenger is the outbound delivery boundary.
type Messenger interface {
	SendDirectMessage(ctx context.Context, userID string, msg Message) error
}

// Result aggregates one delivery run. Partial failure is reported
// here, never as an error.
type Result struct {
	Sent   int
	Failed int
}

// Dispatcher fans notifications out to mentioned users and role
// members across the configured guild contexts.
type Dispatcher struct {
	messenger Messenger
	guilds    []Directory
	pace      time.Duration
	sleep     func(time.Duration)
}

// NewDispatcher builds a dispatcher. pace is the fixed delay between
// consecutive sends; zero disables pacing (tests).
func NewDispatcher(messenger Messenger, guilds []Directory, pace time.Duration) *Dispatcher {
	return &Dispatcher{messenger: messenger, guilds: guilds, pace: pace, sleep: time.Sleep}
}

// Send delivers msg to each recipient sequentially. Recipients are
// deduplicated by id and automated accounts are skipped before
// counting. One failed send never aborts the rest. The pacing delay
// applies between sends only, never after the last one.
func (d *Dispatcher) Send(ctx context.Context, recipients []Member, msg Message) Result {
	var result Result
	seen := make(map[string]bool, len(recipients))

	for _, recipient := range recipients {
		if recipient.Bot || seen[recipient.ID] {
			continue
		}
		seen[recipient.ID] = true

		if d.pace > 0 && result.Sent+result.Failed > 0 {
			d.sleep(d.pace)
		}

		if err := d.messenger.SendDirectMessage(ctx, recipient.ID, msg); err != nil {
			result.Failed++
			logger.Error("failed to send direct message", "user_id", recipient.ID, "error", err)
		} else {
			result.Sent++
			logger.Debug("direct message sent", "user_id", recipient.ID)
		}
	}
	return result
}

// MatchCreated announces a new match to everyone mentioned in its team
// strings.
func (d *Dispatcher) MatchCreated(ctx context.Context, m match.Match) Result {
	return d.deliver(ctx, m, func(c lang.Code, team1, team2, when string) string {
		return lang.CreatedMessage(c, team1, team2, when)
	})
}

// SendReminder delivers a due reminder for m. Satisfies the lifecycle
// manager's sender interface; totals are logged, not returned.
func (d *Dispatcher) SendReminder(ctx context.Context, m match.Match, lead lang.Lead) {
	result := d.deliver(ctx, m, func(c lang.Code, team1, team2, when string) string {
		return lang.ReminderMessage(c, team1, team2, when, lead)
	})
	logger.Info("reminders delivered", "match_id", m.ID, "lead", lead, "sent", result.Sent, "failed", result.Failed)
}

func (d *Dispatcher) deliver(ctx context.Context, m match.Match, body func(c lang.Code, team1, team2, when string) string) Result {
	dir := d.DirectoryFor(m)
	if dir == nil {
		logger.Error("no guild context available, skipping notifications", "match_id", m.ID)
		return Result{}
	}

	when := m.Time
	if parsed, err := m.When(); err == nil {
		when = parsed.Format("2006-01-02 15:04")
	}

	team1 := RenderMentions(m.Team1, dir)
	team2 := RenderMentions(m.Team2, dir)

	language := m.Language
	if !lang.Valid(language) {
		language = lang.English
	}
	alternates := make(map[lang.Code]string, len(lang.All()))
	for _, c := range lang.All() {
		alternates[c] = body(c, team1, team2, when)
	}
	msg := Message{Body: alternates[language], Alternates: alternates}

	return d.Send(ctx, d.recipients(m, dir), msg)
}

// recipients expands team mentions into members: directly mentioned
// users plus every member of each mentioned role. Send deduplicates.
func (d *Dispatcher) recipients(m match.Match, dir Directory) []Member {
	userIDs, roleIDs := ExtractMentions(m.MentionText())

	var members []Member
	for _, id := range userIDs {
		member, ok := dir.ResolveMember(id)
		if !ok {
			logger.Error("mentioned user not in guild", "user_id", id, "guild", dir.GuildID())
			continue
		}
		members = append(members, member)
	}
	for _, id := range roleIDs {
		if _, ok := dir.ResolveRole(id); !ok {
			logger.Error("mentioned role not in guild", "role_id", id, "guild", dir.GuildID())
			continue
		}
		members = append(members, dir.MembersOfRole(id)...)
	}
	return members
}

// DirectoryFor picks the guild context for a match: the guild recorded
// at creation when present, else the first guild containing any
// mentioned user or role, else the first configured guild. Returns nil
// when no guild exists at all.
func (d *Dispatcher) DirectoryFor(m match.Match) Directory {
	if len(d.guilds) == 0 {
		return nil
	}

	if m.Guild != "" {
		for _, dir := range d.guilds {
			if dir.GuildID() == m.Guild {
				return dir
			}
		}
		logger.Error("recorded guild not configured, falling back", "match_id", m.ID, "guild", m.Guild)
	}

	userIDs, roleIDs := ExtractMentions(m.MentionText())
	for _, dir := range d.guilds {
		for _, id := range userIDs {
			if _, ok := dir.ResolveMember(id); ok {
				return dir
			}
		}
	}
	for _, dir := range d.guilds {
		for _, id := range roleIDs {
			if _, ok := dir.ResolveRole(id); ok {
				return dir
			}
		}
	}
	return d.guilds[0]
}
