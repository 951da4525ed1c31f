package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "giveaway-bot-backend/internal/common/errors"
	channelsqlite "giveaway-bot-backend/internal/features/channel/repository/sqlite"
	"giveaway-bot-backend/internal/platform/db"
	"giveaway-bot-backend/internal/platform/reporting"
)

type fakeWelcomeDelivery struct {
	welcomed []int64
}

func (f *fakeWelcomeDelivery) SendChannelConnected(ctx context.Context, channelID int64) error {
	f.welcomed = append(f.welcomed, channelID)
	return nil
}

func newTestService(t *testing.T) (*ChannelService, *fakeWelcomeDelivery) {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(context.Background(), sqlDB))
	t.Cleanup(func() { sqlDB.Close() })

	delivery := &fakeWelcomeDelivery{}
	svc := NewChannelService(channelsqlite.NewChannelRepository(sqlDB), delivery, reporting.NewLogNotifier())
	return svc, delivery
}

func TestConnectAndGet(t *testing.T) {
	svc, delivery := newTestService(t)
	ctx := context.Background()

	_, err := svc.Connect(ctx, -100, "News")
	require.NoError(t, err)
	require.Equal(t, []int64{-100}, delivery.welcomed)

	channel, err := svc.Get(ctx, -100)
	require.NoError(t, err)
	require.Equal(t, "News", channel.Title)
}

func TestReconnectRefreshesTitle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Connect(ctx, -100, "Old title")
	require.NoError(t, err)
	_, err = svc.Connect(ctx, -100, "New title")
	require.NoError(t, err)

	channel, err := svc.Get(ctx, -100)
	require.NoError(t, err)
	require.Equal(t, "New title", channel.Title)

	channels, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, channels, 1)
}

func TestGetUnknownChannel(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), -42)
	require.True(t, apperrors.IsNotFound(err))
}
