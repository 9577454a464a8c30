package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agora-bot/agora/models"
)

var errMissing = errors.New("missing")

type fakeSource struct {
	meetings []models.Meeting
}

func (f *fakeSource) Upcoming(ctx context.Context) ([]models.Meeting, error) {
	return f.meetings, nil
}

func (f *fakeSource) Get(ctx context.Context, id int) (models.Meeting, error) {
	for _, meeting := range f.meetings {
		if meeting.ID == id {
			return meeting, nil
		}
	}
	return models.Meeting{}, errMissing
}

func newTestServer() *httptest.Server {
	source := &fakeSource{meetings: []models.Meeting{
		{ID: 1, Title: "Standup", ScheduledAt: time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC), InvitedParticipants: []string{"10"}},
		{ID: 2, Title: "Retro", ScheduledAt: time.Date(2030, 1, 3, 10, 0, 0, 0, time.UTC)},
	}}
	return httptest.NewServer(NewContainer(source, func(err error) bool { return err == errMissing }))
}

func TestGetUpcomingMeetings(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	resp, err := http.Get(server.URL + "/meetings")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var meetings []models.Rest_Meeting
	if err := json.NewDecoder(resp.Body).Decode(&meetings); err != nil {
		t.Fatal(err)
	}
	if len(meetings) != 2 || meetings[0].Title != "Standup" || meetings[1].ID != 2 {
		t.Fatalf("unexpected meetings %+v", meetings)
	}
	if meetings[1].RSVP.Invited == nil {
		t.Error("expected empty invited list instead of null")
	}
}

func TestFindMeeting(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	for _, tc := range []struct {
		path   string
		status int
	}{
		{"/meetings/1", http.StatusOK},
		{"/meetings/3", http.StatusNotFound},
		{"/meetings/abc", http.StatusBadRequest},
	} {
		resp, err := http.Get(server.URL + tc.path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != tc.status {
			t.Errorf("%s: expected %d, got %d", tc.path, tc.status, resp.StatusCode)
		}
	}
}
