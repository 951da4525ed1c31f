package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "giveaway-bot-backend/internal/common/errors"
	"giveaway-bot-backend/internal/features/giveaway/models"
)

type capturedMessage struct {
	chatID string
	text   string
}

func newStubAPI(t *testing.T, fail bool) (*Announcer, *[]capturedMessage) {
	t.Helper()
	var messages []capturedMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if fail {
			w.Write([]byte(`{"ok":false,"description":"Forbidden: bot was kicked"}`))
			return
		}
		messages = append(messages, capturedMessage{
			chatID: r.Form.Get("chat_id"),
			text:   r.Form.Get("text"),
		})
		w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	t.Cleanup(srv.Close)

	return NewAnnouncer(NewClientWithURL("test-token", srv.URL)), &messages
}

func TestAnnounceWinnersLabels(t *testing.T) {
	announcer, messages := newStubAPI(t, false)

	g := &models.Giveaway{
		ID:             1,
		Name:           "Nitro",
		WinnersCount:   2,
		AnnouncementAt: time.Now(),
		ChannelID:      -100,
		Winners:        []int64{1, 2},
	}
	usernames := map[int64]string{1: "alice"}

	require.NoError(t, announcer.AnnounceWinners(context.Background(), g, usernames))
	require.Len(t, *messages, 1)

	msg := (*messages)[0]
	require.Equal(t, "-100", msg.chatID)
	require.Contains(t, msg.text, "Nitro")
	require.Contains(t, msg.text, "@alice")
	require.Contains(t, msg.text, "ID:2")
}

func TestAnnounceWinnersWithoutParticipants(t *testing.T) {
	announcer, messages := newStubAPI(t, false)

	g := &models.Giveaway{ID: 1, Name: "Nitro", ChannelID: -100, Winners: []int64{}}

	require.NoError(t, announcer.AnnounceWinners(context.Background(), g, nil))
	require.Len(t, *messages, 1)
	require.Contains(t, (*messages)[0].text, "не было участников")
}

func TestAnnounceWinnersDeliveryError(t *testing.T) {
	announcer, _ := newStubAPI(t, true)

	g := &models.Giveaway{ID: 1, Name: "Nitro", ChannelID: -100, Winners: []int64{1}}

	err := announcer.AnnounceWinners(context.Background(), g, nil)
	require.True(t, apperrors.IsDelivery(err))
}

func TestSendReferralJoined(t *testing.T) {
	announcer, messages := newStubAPI(t, false)

	require.NoError(t, announcer.SendReferralJoined(context.Background(), 42, "bob", 3))
	require.Len(t, *messages, 1)

	msg := (*messages)[0]
	require.Equal(t, "42", msg.chatID)
	require.Contains(t, msg.text, "@bob")
	require.Contains(t, msg.text, "3 приглашенных")
}

func TestAnnounceCreated(t *testing.T) {
	announcer, messages := newStubAPI(t, false)

	at, err := models.ParseAnnouncementTime("31.12.2026 18:00")
	require.NoError(t, err)
	g := &models.Giveaway{ID: 1, Name: "Nitro", WinnersCount: 3, AnnouncementAt: at, ChannelID: -100}

	require.NoError(t, announcer.AnnounceCreated(context.Background(), g))
	require.Len(t, *messages, 1)
	require.Contains(t, (*messages)[0].text, "31.12.2026 18:00")
}
