package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tap-goose-backend/internal/events"
	"tap-goose-backend/internal/models"
	"tap-goose-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.TapEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, ev events.TapEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) all() []events.TapEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.TapEvent(nil), p.events...)
}

func newTestTapService(db *gorm.DB) (*TapService, *recordingPublisher) {
	pub := &recordingPublisher{}
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewTapService(db, NewScoringService(), pub, 5*time.Second, log), pub
}

func storedTap(t *testing.T, db *gorm.DB, round *models.Round, user *models.User) (models.Tap, bool) {
	t.Helper()
	var tap models.Tap
	err := db.Where("user_id = ? AND round_id = ?", user.ID, round.ID).Take(&tap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tap, false
	}
	require.NoError(t, err)
	return tap, true
}

func TestRecordTap_SequentialTapsApplyBonus(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc, pub := newTestTapService(db)
	round := testutils.CreateActiveRound(t, db)
	user := testutils.CreateTestUser(t, db)

	ctx := context.Background()
	prev := 0
	for i := 1; i <= 11; i++ {
		res, err := svc.RecordTap(ctx, round.ID.String(), user.ID.String())
		require.NoError(t, err)

		want := prev + 1
		if i == 11 {
			want = prev + 11
		}
		assert.Equal(t, want, res.Points, "tap %d", i)
		prev = res.Points
	}
	assert.Equal(t, 21, prev)

	tap, ok := storedTap(t, db, round, user)
	require.True(t, ok)
	assert.Equal(t, 21, tap.Points)
	assert.Equal(t, 11, tap.TapCount)

	evs := pub.all()
	require.Len(t, evs, 11)
	assert.Equal(t, 21, evs[10].Points)
	assert.Equal(t, user.Username, evs[10].Username)
	assert.Equal(t, round.ID.String(), evs[10].RoundID)
}

func TestRecordTap_NikitaScoresZero(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc, pub := newTestTapService(db)
	round := testutils.CreateActiveRound(t, db)
	nikita := testutils.CreateTestUser(t, db, testutils.WithRole(models.RoleNikita))

	for i := 0; i < 12; i++ {
		res, err := svc.RecordTap(context.Background(), round.ID.String(), nikita.ID.String())
		require.NoError(t, err)
		assert.Equal(t, 0, res.Points)
	}

	_, ok := storedTap(t, db, round, nikita)
	assert.False(t, ok, "nikita must not leave a tap row")
	assert.Empty(t, pub.all())
}

func TestRecordTap_OutsideWindow(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc, _ := newTestTapService(db)
	user := testutils.CreateTestUser(t, db)
	now := time.Now()

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"cooldown", now.Add(time.Minute), now.Add(2 * time.Minute)},
		{"finished", now.Add(-2 * time.Minute), now.Add(-time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			round := testutils.CreateTestRound(t, db, tt.start, tt.end)

			res, err := svc.RecordTap(context.Background(), round.ID.String(), user.ID.String())
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrRoundNotActive)

			_, ok := storedTap(t, db, round, user)
			assert.False(t, ok)
		})
	}
}

func TestRecordTap_NotFound(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc, _ := newTestTapService(db)
	round := testutils.CreateActiveRound(t, db)
	user := testutils.CreateTestUser(t, db)

	_, err := svc.RecordTap(context.Background(), uuid.NewString(), user.ID.String())
	assert.ErrorIs(t, err, ErrRoundNotFound)

	_, err = svc.RecordTap(context.Background(), "not-a-uuid", user.ID.String())
	assert.ErrorIs(t, err, ErrRoundNotFound)

	_, err = svc.RecordTap(context.Background(), round.ID.String(), uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRecordTap_ConcurrentTapsDoNotLoseUpdates(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc, _ := newTestTapService(db)
	round := testutils.CreateActiveRound(t, db)
	user := testutils.CreateTestUser(t, db)
	other := testutils.CreateTestUser(t, db)

	const attempts = 24
	var succeeded, otherSucceeded int64

	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		tapper, counter := user, &succeeded
		if i%3 == 0 {
			tapper, counter = other, &otherSucceeded
		}
		g.Go(func() error {
			_, err := svc.RecordTap(context.Background(), round.ID.String(), tapper.ID.String())
			if errors.Is(err, ErrTransient) {
				return nil
			}
			if err == nil {
				atomic.AddInt64(counter, 1)
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	scoring := NewScoringService()
	expected := func(n int64) int {
		count, points := 0, 0
		for i := int64(0); i < n; i++ {
			count, points = scoring.Next(count, points)
		}
		return points
	}

	for _, tc := range []struct {
		user *models.User
		n    int64
	}{{user, succeeded}, {other, otherSucceeded}} {
		require.Greater(t, tc.n, int64(0), "at least one tap per user must commit")
		tap, ok := storedTap(t, db, round, tc.user)
		require.True(t, ok)
		assert.Equal(t, int(tc.n), tap.TapCount)
		assert.Equal(t, expected(tc.n), tap.Points)
	}
}

func TestRecordTap_SlowFeedSubscriberDoesNotDelayTap(t *testing.T) {
	db := testutils.SetupTestDB(t)
	round := testutils.CreateActiveRound(t, db)
	user := testutils.CreateTestUser(t, db)

	bus := events.NewLocalBus()
	ctx, cancel := context.WithCancel(context.Background())
	subscribed := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		close(subscribed)
		_ = bus.Subscribe(ctx, func(ev events.TapEvent) {
			time.Sleep(time.Second)
		})
	}()
	<-subscribed
	t.Cleanup(func() {
		cancel()
		<-done
	})

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	svc := NewTapService(db, NewScoringService(), bus, 5*time.Second, log)

	// Let Subscribe register before the first publish.
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := svc.RecordTap(context.Background(), round.ID.String(), user.ID.String())
		require.NoError(t, err)
	}
	assert.Less(t, time.Since(start), 1500*time.Millisecond, "taps waited on the feed subscriber")

	tap, ok := storedTap(t, db, round, user)
	require.True(t, ok)
	assert.Equal(t, 3, tap.Points)
}
