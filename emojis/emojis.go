package emojis

import "github.com/agora-bot/agora/models"

const (
	Confirm = `✅`
	Decline = `❌`
)

var list = map[models.RSVPAction]string{
	models.RSVPConfirm: Confirm,
	models.RSVPDecline: Decline,
}

// revlist is the reverse version of list
var revlist map[string]models.RSVPAction

func init() {
	revlist = make(map[string]models.RSVPAction, len(list))
	for k, v := range list {
		revlist[v] = k
	}
}

// From returns the unicode emoji for the action
func From(action models.RSVPAction) string {
	return list[action]
}

// ToAction returns the action that corresponds to the emoji
func ToAction(emoji string) (action models.RSVPAction, ok bool) {
	action, ok = revlist[emoji]
	return action, ok
}

// RSVP lists the reactions attached to a meeting announcement, confirm first
func RSVP() []string {
	return []string{Confirm, Decline}
}
