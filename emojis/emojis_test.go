package emojis

import (
	"testing"

	"github.com/agora-bot/agora/models"
)

func TestToAction(t *testing.T) {
	action, ok := ToAction("✅")
	if !ok || action != models.RSVPConfirm {
		t.Fatalf("emojis.ToAction(✅) = %v, %v", action, ok)
	}

	action, ok = ToAction("❌")
	if !ok || action != models.RSVPDecline {
		t.Fatalf("emojis.ToAction(❌) = %v, %v", action, ok)
	}

	if _, ok = ToAction("👍"); ok {
		t.Fatal("emojis.ToAction() accepted an unmapped emoji")
	}
}

func TestFromRoundTrip(t *testing.T) {
	for _, emoji := range RSVP() {
		action, ok := ToAction(emoji)
		if !ok {
			t.Fatalf("emojis.RSVP() contains unmapped emoji %s", emoji)
		}
		if From(action) != emoji {
			t.Fatalf("emojis.From(%s) = %s, want %s", action, From(action), emoji)
		}
	}
}
