package helpers

import (
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var mentionRegex = regexp.MustCompile(`<@!?(\d+)>`)

// ParseMentions extracts user ids from <@id> and <@!id> tokens, deduplicated, in order
func ParseMentions(text string) []string {
	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, match := range mentionRegex.FindAllStringSubmatch(text, -1) {
		if seen[match[1]] {
			continue
		}
		seen[match[1]] = true
		ids = append(ids, match[1])
	}
	return ids
}

// Mention returns the mention token for a user id
func Mention(userID string) string {
	return "<@" + userID + ">"
}

// Mentions joins mention tokens for all $userIDs with spaces
func Mentions(userIDs []string) string {
	tokens := make([]string, 0, len(userIDs))
	for _, userID := range userIDs {
		tokens = append(tokens, Mention(userID))
	}
	return strings.Join(tokens, " ")
}

// MemberRoleNames resolves the names of the member's roles from the state cache.
// Roles missing from the cache are skipped.
func MemberRoleNames(state *discordgo.State, guildID string, member *discordgo.Member) []string {
	if state == nil || member == nil {
		return nil
	}
	names := make([]string, 0, len(member.Roles))
	for _, roleID := range member.Roles {
		role, err := state.Role(guildID, roleID)
		if err != nil {
			continue
		}
		names = append(names, role.Name)
	}
	return names
}

// HasAnyRoleName reports whether one of $have matches one of $want, case insensitive
func HasAnyRoleName(have []string, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(w)) {
				return true
			}
		}
	}
	return false
}
