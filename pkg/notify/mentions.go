package notify

import "regexp"

var (
	userMentionRe = regexp.MustCompile(`<@!?(\d+)>`)
	roleMentionRe = regexp.MustCompile(`<@&(\d+)>`)
)

// ExtractMentions pulls user and role ids out of free text, in order
// of appearance. Duplicates are kept; recipient expansion deduplicates
// later.
func ExtractMentions(text string) (userIDs, roleIDs []string) {
	for _, m := range userMentionRe.FindAllStringSubmatch(text, -1) {
		userIDs = append(userIDs, m[1])
	}
	for _, m := range roleMentionRe.FindAllStringSubmatch(text, -1) {
		roleIDs = append(roleIDs, m[1])
	}
	return userIDs, roleIDs
}

// StripMentionTokens removes all mention tokens from text.
func StripMentionTokens(text string) string {
	text = userMentionRe.ReplaceAllString(text, "")
	return roleMentionRe.ReplaceAllString(text, "")
}

// RenderMentions rewrites mention tokens to a readable @Name form
// using the directory. Unknown ids get a synthetic placeholder so
// rendering never fails. A nil directory renders placeholders only.
func RenderMentions(text string, dir Directory) string {
	text = userMentionRe.ReplaceAllStringFunc(text, func(token string) string {
		id := userMentionRe.FindStringSubmatch(token)[1]
		if dir != nil {
			if member, ok := dir.ResolveMember(id); ok {
				return "@" + member.Name
			}
		}
		return "@User" + id
	})
	return roleMentionRe.ReplaceAllStringFunc(text, func(token string) string {
		id := roleMentionRe.FindStringSubmatch(token)[1]
		if dir != nil {
			if role, ok := dir.ResolveRole(id); ok {
				return "@" + role.Name
			}
		}
		return "@Role" + id
	})
}
