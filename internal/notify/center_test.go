package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ashvale/go-craft-market/internal/logger"
	"github.com/ashvale/go-craft-market/internal/mock"
	"github.com/ashvale/go-craft-market/internal/store"
	"github.com/ashvale/go-craft-market/models"
)

func newTestCenter(t *testing.T) (*Center, *mock.MockServerAdapter, *mock.MockNotificationRepository, *[]models.Notification) {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockAdapter := mock.NewMockServerAdapter(ctrl)
	mockRepo := mock.NewMockNotificationRepository(ctrl)

	var delivered []models.Notification
	sink := func(n models.Notification) { delivered = append(delivered, n) }

	return NewCenter(mockAdapter, mockRepo, sink, logger.Nop()), mockAdapter, mockRepo, &delivered
}

func notificationEvent(t *testing.T, notif models.Notification) models.Event {
	t.Helper()
	payload, err := json.Marshal(notif)
	require.NoError(t, err)
	return models.Event{Type: "notification", Payload: payload}
}

// ── HandleEvent ──────────────────────────────────────────────────────────────

func TestHandleEvent_FreshNotificationReachesSink(t *testing.T) {
	center, _, mockRepo, delivered := newTestCenter(t)
	ctx := context.Background()

	notif := models.Notification{ID: 1, Type: models.NotifyNewBid, Content: "New bid on your job"}
	mockRepo.EXPECT().Insert(ctx, notif).Return(true, nil)

	center.HandleEvent(ctx, notificationEvent(t, notif))

	require.Len(t, *delivered, 1)
	assert.Equal(t, notif.ID, (*delivered)[0].ID)
}

func TestHandleEvent_DuplicateIsAbsorbed(t *testing.T) {
	center, _, mockRepo, delivered := newTestCenter(t)
	ctx := context.Background()

	notif := models.Notification{ID: 1, Type: models.NotifyNewBid}
	mockRepo.EXPECT().Insert(ctx, notif).Return(false, nil)

	center.HandleEvent(ctx, notificationEvent(t, notif))

	assert.Empty(t, *delivered)
}

func TestHandleEvent_MalformedPayloadIsDropped(t *testing.T) {
	center, _, _, delivered := newTestCenter(t)

	center.HandleEvent(context.Background(), models.Event{
		Type:    "notification",
		Payload: json.RawMessage(`"not an object"`),
	})

	assert.Empty(t, *delivered)
}

func TestHandleEvent_MissingIDIsDropped(t *testing.T) {
	center, _, _, delivered := newTestCenter(t)

	center.HandleEvent(context.Background(), notificationEvent(t, models.Notification{Content: "no id"}))

	assert.Empty(t, *delivered)
}

// ── Pull ─────────────────────────────────────────────────────────────────────

// The same notification observed on both the push and pull paths must reach
// the sink exactly once.
func TestPull_WalksPagesAndDedupes(t *testing.T) {
	center, mockAdapter, mockRepo, delivered := newTestCenter(t)
	ctx := context.Background()

	seen := models.Notification{ID: 1, Type: models.NotifyNewBid}
	freshA := models.Notification{ID: 2, Type: models.NotifyJobStatus}
	freshB := models.Notification{ID: 3, Type: models.NotifyJobUpdate}

	gomock.InOrder(
		mockAdapter.EXPECT().
			Notifications(ctx, 1).
			Return(models.Page[models.Notification]{
				Count:   3,
				Next:    "http://backend/api/notifications/?page=2",
				Results: []models.Notification{seen, freshA},
			}, nil),
		mockAdapter.EXPECT().
			Notifications(ctx, 2).
			Return(models.Page[models.Notification]{
				Count:   3,
				Results: []models.Notification{freshB},
			}, nil),
	)
	mockRepo.EXPECT().Insert(ctx, seen).Return(false, nil)
	mockRepo.EXPECT().Insert(ctx, freshA).Return(true, nil)
	mockRepo.EXPECT().Insert(ctx, freshB).Return(true, nil)

	fresh, err := center.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh)
	assert.Len(t, *delivered, 2)
}

// ── Read state ───────────────────────────────────────────────────────────────

func TestUnread_Passthrough(t *testing.T) {
	center, _, mockRepo, _ := newTestCenter(t)
	ctx := context.Background()

	unread := []models.Notification{
		{ID: 2, Timestamp: time.Now()},
		{ID: 1, Timestamp: time.Now().Add(-time.Hour)},
	}
	mockRepo.EXPECT().Unread(ctx).Return(unread, nil)

	got, err := center.Unread(ctx)
	require.NoError(t, err)
	assert.Equal(t, unread, got)
}

func TestMarkRead_UnknownID(t *testing.T) {
	center, _, mockRepo, _ := newTestCenter(t)
	ctx := context.Background()

	mockRepo.EXPECT().MarkRead(ctx, int64(404)).Return(store.ErrNotificationNotFound)

	err := center.MarkRead(ctx, 404)
	require.ErrorIs(t, err, store.ErrNotificationNotFound)
}
