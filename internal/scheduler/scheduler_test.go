package scheduler

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"giveaway-bot-backend/internal/features/giveaway/models"
	giveawaysqlite "giveaway-bot-backend/internal/features/giveaway/repository/sqlite"
	"giveaway-bot-backend/internal/platform/db"
)

type recordingFinalizer struct {
	mu    sync.Mutex
	calls []int64
	fired chan int64
}

func newRecordingFinalizer() *recordingFinalizer {
	return &recordingFinalizer{fired: make(chan int64, 16)}
}

func (f *recordingFinalizer) Finalize(ctx context.Context, giveawayID int64) error {
	f.mu.Lock()
	f.calls = append(f.calls, giveawayID)
	f.mu.Unlock()
	f.fired <- giveawayID
	return nil
}

func (f *recordingFinalizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func openTestRepo(t *testing.T) *giveawaysqlite.GiveawayRepository {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.Migrate(context.Background(), sqlDB))
	t.Cleanup(func() { sqlDB.Close() })
	return giveawaysqlite.NewGiveawayRepository(sqlDB)
}

func waitForFire(t *testing.T, f *recordingFinalizer) int64 {
	t.Helper()
	select {
	case id := <-f.fired:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
		return 0
	}
}

func TestJobID(t *testing.T) {
	require.Equal(t, "giveaway_42", JobID(42))
}

func TestArmFiresFinalizer(t *testing.T) {
	s := New(openTestRepo(t), false)
	defer s.Stop()
	f := newRecordingFinalizer()
	s.SetFinalizer(f)

	s.Arm(7, time.Now().Add(20*time.Millisecond))
	require.True(t, s.Armed(7))

	require.Equal(t, int64(7), waitForFire(t, f))
	require.False(t, s.Armed(7))
}

func TestArmReplacesExistingTimer(t *testing.T) {
	s := New(openTestRepo(t), false)
	defer s.Stop()
	f := newRecordingFinalizer()
	s.SetFinalizer(f)

	s.Arm(7, time.Now().Add(time.Hour))
	s.Arm(7, time.Now().Add(20*time.Millisecond))

	require.Equal(t, int64(7), waitForFire(t, f))

	// The first timer was replaced, so only one fire ever happens.
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 1, f.callCount())
}

func TestDisarmCancelsTimer(t *testing.T) {
	s := New(openTestRepo(t), false)
	defer s.Stop()
	f := newRecordingFinalizer()
	s.SetFinalizer(f)

	s.Arm(7, time.Now().Add(30*time.Millisecond))
	s.Disarm(7)
	require.False(t, s.Armed(7))

	time.Sleep(80 * time.Millisecond)
	require.Equal(t, 0, f.callCount())
}

func TestDisarmUnknownIsNoop(t *testing.T) {
	s := New(openTestRepo(t), false)
	defer s.Stop()

	s.Disarm(12345)
}

func TestRestoreArmsOnlyActiveGiveaways(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	future := &models.Giveaway{Name: "future", WinnersCount: 1, AnnouncementAt: time.Now().Add(time.Hour), ChannelID: -100}
	_, err := repo.Create(ctx, future)
	require.NoError(t, err)
	past := &models.Giveaway{Name: "past", WinnersCount: 1, AnnouncementAt: time.Now().Add(-time.Hour), ChannelID: -100}
	_, err = repo.Create(ctx, past)
	require.NoError(t, err)

	s := New(repo, false)
	defer s.Stop()
	f := newRecordingFinalizer()
	s.SetFinalizer(f)

	require.NoError(t, s.Restore(ctx))

	require.True(t, s.Armed(future.ID))
	require.False(t, s.Armed(past.ID))

	// Missed giveaways are reported, never finalized behind the operator's back.
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 0, f.callCount())
}

func TestRestoreCatchesUpMissedWhenEnabled(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	past := &models.Giveaway{Name: "past", WinnersCount: 1, AnnouncementAt: time.Now().Add(-time.Hour), ChannelID: -100}
	_, err := repo.Create(ctx, past)
	require.NoError(t, err)

	s := New(repo, true)
	defer s.Stop()
	f := newRecordingFinalizer()
	s.SetFinalizer(f)

	require.NoError(t, s.Restore(ctx))
	require.Equal(t, past.ID, waitForFire(t, f))
}

func TestStopPreventsFurtherFires(t *testing.T) {
	s := New(openTestRepo(t), false)
	f := newRecordingFinalizer()
	s.SetFinalizer(f)

	s.Arm(7, time.Now().Add(30*time.Millisecond))
	s.Stop()

	time.Sleep(80 * time.Millisecond)
	require.Equal(t, 0, f.callCount())
	require.False(t, s.Armed(7))
}
