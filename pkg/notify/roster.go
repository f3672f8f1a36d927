package notify

import (
	"github.com/smith3v/tg-match-reminder/pkg/logger"
	"github.com/smith3v/tg-match-reminder/pkg/store"
)

// Roster file schema. Members and role rosters are maintained by hand
// (or by tooling) in one JSON file per deployment.
type rosterMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bot  bool   `json:"bot,omitempty"`
}

type rosterRole struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type rosterGuild struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Members []rosterMember `json:"members"`
	Roles   []rosterRole   `json:"roles"`
}

// RosterGuild is a Directory backed by the roster file.
type RosterGuild struct {
	id      string
	name    string
	members map[string]Member
	roles   map[string]rosterRole
}

func (g *RosterGuild) GuildID() string   { return g.id }
func (g *RosterGuild) GuildName() string { return g.name }

func (g *RosterGuild) ResolveMember(id string) (Member, bool) {
	member, ok := g.members[id]
	return member, ok
}

func (g *RosterGuild) ResolveRole(id string) (Role, bool) {
	role, ok := g.roles[id]
	if !ok {
		return Role{}, false
	}
	return Role{ID: role.ID, Name: role.Name}, true
}

func (g *RosterGuild) MembersOfRole(id string) []Member {
	role, ok := g.roles[id]
	if !ok {
		return nil
	}
	members := make([]Member, 0, len(role.Members))
	for _, memberID := range role.Members {
		if member, ok := g.members[memberID]; ok {
			members = append(members, member)
		}
	}
	return members
}

// LoadRoster reads the roster file and returns one Directory per
// guild, in file order. A missing file yields an empty roster and
// seeds a template.
func LoadRoster(path string) []Directory {
	guilds := store.Load(path, []rosterGuild{})
	if len(guilds) == 0 {
		logger.Info("roster file has no guilds", "path", path)
	}

	dirs := make([]Directory, 0, len(guilds))
	for _, g := range guilds {
		guild := &RosterGuild{
			id:      g.ID,
			name:    g.Name,
			members: make(map[string]Member, len(g.Members)),
			roles:   make(map[string]rosterRole, len(g.Roles)),
		}
		for _, m := range g.Members {
			guild.members[m.ID] = Member{ID: m.ID, Name: m.Name, Bot: m.Bot}
		}
		for _, r := range g.Roles {
			guild.roles[r.ID] = r
		}
		dirs = append(dirs, guild)
	}
	return dirs
}
