package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smith3v/tg-match-reminder/pkg/lang"
	"github.com/smith3v/tg-match-reminder/pkg/logger"
	"github.com/smith3v/tg-match-reminder/pkg/match"
)

type fakeMessenger struct {
	sent    []string
	failFor map[string]error
}

func (f *fakeMessenger) SendDirectMessage(ctx context.Context, userID string, msg Message) error {
	if err, ok := f.failFor[userID]; ok {
		return err
	}
	f.sent = append(f.sent, userID)
	return nil
}

type fakeGuild struct {
	id      string
	members map[string]Member
	roles   map[string][]Member
}

func (g *fakeGuild) GuildID() string   { return g.id }
func (g *fakeGuild) GuildName() string { return g.id }

func (g *fakeGuild) ResolveMember(id string) (Member, bool) {
	m, ok := g.members[id]
	return m, ok
}

func (g *fakeGuild) ResolveRole(id string) (Role, bool) {
	if _, ok := g.roles[id]; !ok {
		return Role{}, false
	}
	return Role{ID: id, Name: "Role " + id}, true
}

func (g *fakeGuild) MembersOfRole(id string) []Member {
	return g.roles[id]
}

func quietLogs(t *testing.T) {
	t.Helper()
	logger.SetLogLevel(logger.ERROR)
	t.Cleanup(func() { logger.SetLogLevel(logger.INFO) })
}

func TestExtractMentions(t *testing.T) {
	users, roles := ExtractMentions("<@123> and <@&456>")
	if len(users) != 1 || users[0] != "123" {
		t.Fatalf("unexpected user ids: %v", users)
	}
	if len(roles) != 1 || roles[0] != "456" {
		t.Fatalf("unexpected role ids: %v", roles)
	}

	users, roles = ExtractMentions("<@!77> plain text <@77> <@&9>")
	if len(users) != 2 {
		t.Fatalf("expected duplicates preserved, got %v", users)
	}
	if len(roles) != 1 || roles[0] != "9" {
		t.Fatalf("unexpected role ids: %v", roles)
	}
}

func TestRenderMentions(t *testing.T) {
	guild := &fakeGuild{
		id:      "g1",
		members: map[string]Member{"123": {ID: "123", Name: "Alice"}},
		roles:   map[string][]Member{"456": nil},
	}

	got := RenderMentions("<@123> vs <@&456> and <@999>", guild)
	want := "@Alice vs @Role 456 and @User999"
	if got != want {
		t.Fatalf("RenderMentions = %q, want %q", got, want)
	}

	if got := RenderMentions("<@1> <@&2>", nil); got != "@User1 @Role2" {
		t.Fatalf("nil directory rendering = %q", got)
	}
}

func TestSendCountsPartialFailure(t *testing.T) {
	quietLogs(t)
	messenger := &fakeMessenger{failFor: map[string]error{"2": ErrForbidden}}
	d := NewDispatcher(messenger, nil, 0)

	recipients := []Member{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	result := d.Send(context.Background(), recipients, Message{Body: "hi"})

	if result.Sent != 2 || result.Failed != 1 {
		t.Fatalf("expected {2 1}, got %+v", result)
	}
	if len(messenger.sent) != 2 {
		t.Fatalf("expected remaining sends to continue, got %v", messenger.sent)
	}
}

func TestSendDeduplicatesAndSkipsBots(t *testing.T) {
	quietLogs(t)
	messenger := &fakeMessenger{}
	d := NewDispatcher(messenger, nil, 0)

	recipients := []Member{
		{ID: "1"},
		{ID: "1"},
		{ID: "2", Bot: true},
		{ID: "3"},
	}
	result := d.Send(context.Background(), recipients, Message{Body: "hi"})

	if result.Sent != 2 || result.Failed != 0 {
		t.Fatalf("expected {2 0}, got %+v", result)
	}
	if len(messenger.sent) != 2 || messenger.sent[0] != "1" || messenger.sent[1] != "3" {
		t.Fatalf("unexpected delivery order: %v", messenger.sent)
	}
}

func TestSendPacesBetweenSendsOnly(t *testing.T) {
	quietLogs(t)
	messenger := &fakeMessenger{}
	d := NewDispatcher(messenger, nil, time.Second)
	var slept int
	d.sleep = func(time.Duration) { slept++ }

	recipients := []Member{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	d.Send(context.Background(), recipients, Message{Body: "hi"})
	if slept != 2 {
		t.Fatalf("expected 2 pacing delays for 3 recipients, got %d", slept)
	}

	slept = 0
	d.Send(context.Background(), []Member{{ID: "1"}}, Message{Body: "hi"})
	if slept != 0 {
		t.Fatalf("a single recipient needs no pacing delay, got %d", slept)
	}
}

func TestSendReminderExpandsRoleMembers(t *testing.T) {
	quietLogs(t)
	guild := &fakeGuild{
		id: "g1",
		members: map[string]Member{
			"10": {ID: "10", Name: "Alice"},
		},
		roles: map[string][]Member{
			"20": {
				{ID: "10", Name: "Alice"},
				{ID: "11", Name: "Bob"},
				{ID: "12", Name: "Bot", Bot: true},
			},
		},
	}
	messenger := &fakeMessenger{}
	d := NewDispatcher(messenger, []Directory{guild}, 0)

	m := match.Match{
		ID:       1,
		Team1:    "<@10> Lions",
		Team2:    "<@&20> Tigers",
		Time:     "2025-06-01T18:00:00",
		Language: lang.English,
		Guild:    "g1",
	}
	d.SendReminder(context.Background(), m, lang.LeadTenMinutes)

	// Alice is mentioned directly and via the role: one message.
	if len(messenger.sent) != 2 {
		t.Fatalf("expected 2 recipients (deduplicated, bot skipped), got %v", messenger.sent)
	}
}

func TestMatchCreatedBuildsAlternates(t *testing.T) {
	quietLogs(t)
	guild := &fakeGuild{
		id:      "g1",
		members: map[string]Member{"10": {ID: "10", Name: "Alice"}},
	}
	captured := &capturingMessenger{}
	d := NewDispatcher(captured, []Directory{guild}, 0)

	m := match.Match{
		ID:       1,
		Team1:    "<@10>",
		Team2:    "B",
		Time:     "2025-06-01T18:00:00",
		Language: lang.Spanish,
		Guild:    "g1",
	}
	result := d.MatchCreated(context.Background(), m)
	if result.Sent != 1 {
		t.Fatalf("expected one send, got %+v", result)
	}
	msg := captured.last
	if msg.Body != msg.Alternates[lang.Spanish] {
		t.Fatal("body must match the detected-language alternate")
	}
	if len(msg.Alternates) != len(lang.All()) {
		t.Fatalf("expected an alternate per language, got %d", len(msg.Alternates))
	}
}

type capturingMessenger struct {
	last Message
}

func (c *capturingMessenger) SendDirectMessage(ctx context.Context, userID string, msg Message) error {
	c.last = msg
	return nil
}

func TestDirectoryForPrefersRecordedGuild(t *testing.T) {
	quietLogs(t)
	first := &fakeGuild{id: "first", members: map[string]Member{"1": {ID: "1"}}}
	second := &fakeGuild{id: "second", members: map[string]Member{"2": {ID: "2"}}}
	d := NewDispatcher(&fakeMessenger{}, []Directory{first, second}, 0)

	m := match.Match{Team1: "<@2>", Guild: "second"}
	if dir := d.DirectoryFor(m); dir.GuildID() != "second" {
		t.Fatalf("expected recorded guild, got %q", dir.GuildID())
	}
}

func TestDirectoryForFallsBackToMentionSearch(t *testing.T) {
	quietLogs(t)
	first := &fakeGuild{id: "first"}
	second := &fakeGuild{id: "second", members: map[string]Member{"2": {ID: "2"}}}
	d := NewDispatcher(&fakeMessenger{}, []Directory{first, second}, 0)

	m := match.Match{Team1: "<@2> vs Tigers"}
	if dir := d.DirectoryFor(m); dir.GuildID() != "second" {
		t.Fatalf("expected mention-containing guild, got %q", dir.GuildID())
	}

	// No guild contains the mention: first configured guild wins.
	m = match.Match{Team1: "<@404>"}
	if dir := d.DirectoryFor(m); dir.GuildID() != "first" {
		t.Fatalf("expected first guild fallback, got %q", dir.GuildID())
	}
}

func TestDirectoryForNoGuilds(t *testing.T) {
	quietLogs(t)
	d := NewDispatcher(&fakeMessenger{}, nil, 0)
	if dir := d.DirectoryFor(match.Match{}); dir != nil {
		t.Fatal("expected nil directory when no guilds are configured")
	}

	result := d.MatchCreated(context.Background(), match.Match{ID: 1, Team1: "<@1>"})
	if result.Sent != 0 || result.Failed != 0 {
		t.Fatalf("expected empty result when no context exists, got %+v", result)
	}
}

func TestSendReminderErrorsDoNotPropagate(t *testing.T) {
	quietLogs(t)
	guild := &fakeGuild{
		id:      "g1",
		members: map[string]Member{"1": {ID: "1"}, "2": {ID: "2"}},
	}
	messenger := &fakeMessenger{failFor: map[string]error{"1": errors.New("network down")}}
	d := NewDispatcher(messenger, []Directory{guild}, 0)

	m := match.Match{ID: 1, Team1: "<@1>", Team2: "<@2>", Time: "2025-06-01T18:00:00", Guild: "g1"}
	d.SendReminder(context.Background(), m, lang.LeadThreeMinutes)

	if len(messenger.sent) != 1 || messenger.sent[0] != "2" {
		t.Fatalf("expected second recipient reached despite failure, got %v", messenger.sent)
	}
}
