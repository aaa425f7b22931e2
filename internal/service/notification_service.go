package service

import (
	"context"
	"log/slog"
	"time"

	"inkspace/internal/middleware"
	"inkspace/internal/models"
	"inkspace/internal/notifications"
	"inkspace/internal/observability"
	"inkspace/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// NotificationListLimit caps how many notifications List returns.
	NotificationListLimit = 20
	// DefaultRetention is the window used when none is configured.
	DefaultRetention = 72 * time.Hour

	eventNotification = "notification"
)

// Publisher pushes serialized events to a user's realtime channel.
type Publisher interface {
	PublishUser(ctx context.Context, userID uint, payload string) error
}

// NotificationService creates, lists and expires notifications.
// Creation is best-effort: failures are logged and counted, never
// returned to the action that triggered them.
type NotificationService struct {
	store     repository.Store
	publisher Publisher
	retention time.Duration
	now       func() time.Time
}

// NewNotificationService builds the service. A nil publisher disables
// realtime delivery; retention <= 0 falls back to DefaultRetention.
func NewNotificationService(store repository.Store, publisher Publisher, retention time.Duration) *NotificationService {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &NotificationService{
		store:     store,
		publisher: publisher,
		retention: retention,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Retention returns the configured visibility window.
func (s *NotificationService) Retention() time.Duration { return s.retention }

// NotifyComment tells the post author that actor commented. Guests and
// authors commenting on their own posts produce nothing.
func (s *NotificationService) NotifyComment(ctx context.Context, actorID uint, post *models.Post, comment *models.Comment) {
	if actorID == 0 || post == nil || comment == nil || post.AuthorID == actorID {
		return
	}
	postID, commentID := post.ID, comment.ID
	s.create(ctx, &models.Notification{
		UserID:    post.AuthorID,
		ActorID:   actorID,
		Type:      models.NotificationComment,
		PostID:    &postID,
		CommentID: &commentID,
	})
}

// NotifyFollow tells targetID that actorID started following them.
func (s *NotificationService) NotifyFollow(ctx context.Context, actorID, targetID uint) {
	if actorID == 0 || targetID == 0 || actorID == targetID {
		return
	}
	s.create(ctx, &models.Notification{
		UserID:  targetID,
		ActorID: actorID,
		Type:    models.NotificationFollow,
	})
}

func (s *NotificationService) create(ctx context.Context, n *models.Notification) {
	if err := s.store.Notifications().Create(ctx, n); err != nil {
		observability.NotificationFailures.WithLabelValues("persist").Inc()
		middleware.Logger.WarnContext(ctx, "failed to create notification",
			slog.String("type", string(n.Type)),
			slog.Uint64("recipient_id", uint64(n.UserID)),
			slog.String("error", err.Error()),
		)
		return
	}
	observability.NotificationsCreated.WithLabelValues(string(n.Type)).Inc()
	s.publish(ctx, n)
}

func (s *NotificationService) publish(ctx context.Context, n *models.Notification) {
	if s.publisher == nil {
		return
	}
	if n.Actor == nil {
		if actor, err := s.store.Users().GetByID(ctx, n.ActorID); err == nil {
			n.Actor = actor
		}
	}
	payload, err := notifications.EncodeEvent(eventNotification, toNotificationView(n))
	if err == nil {
		err = s.publisher.PublishUser(ctx, n.UserID, payload)
	}
	if err != nil {
		observability.NotificationFailures.WithLabelValues("publish").Inc()
		middleware.Logger.WarnContext(ctx, "failed to publish notification",
			slog.Uint64("recipient_id", uint64(n.UserID)),
			slog.String("error", err.Error()),
		)
	}
}

// List returns the caller's most recent notifications inside the
// retention window and the unread count over the same window. Anonymous
// callers get an empty list.
func (s *NotificationService) List(ctx context.Context, caller *models.User) (*NotificationList, error) {
	out := &NotificationList{Items: []NotificationView{}}
	if caller == nil {
		return out, nil
	}

	ctx, span := observability.StartServiceSpan(ctx, "notifications", "List",
		attribute.Int64("user.id", int64(caller.ID)))
	var err error
	defer func() { span.End(err) }()

	// Items and UnreadCount are both bounded by cutoff.
	cutoff := s.now().Add(-s.retention)
	items, err := s.store.Notifications().ListRecent(ctx, caller.ID, cutoff, NotificationListLimit)
	if err != nil {
		return nil, err
	}
	unread, err := s.store.Notifications().CountUnread(ctx, caller.ID, cutoff)
	if err != nil {
		return nil, err
	}

	for _, n := range items {
		out.Items = append(out.Items, toNotificationView(n))
	}
	out.UnreadCount = unread
	return out, nil
}

// MarkAllRead marks every notification of the caller as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, caller *models.User) (int64, error) {
	if caller == nil {
		return 0, models.NewUnauthorizedError("Authentication required")
	}
	return s.store.Notifications().MarkAllRead(ctx, caller.ID)
}

// ClearAll deletes every notification of the caller.
func (s *NotificationService) ClearAll(ctx context.Context, caller *models.User) (int64, error) {
	if caller == nil {
		return 0, models.NewUnauthorizedError("Authentication required")
	}
	return s.store.Notifications().DeleteAll(ctx, caller.ID)
}

// Prune deletes notifications older than the retention window relative to
// now. Running it repeatedly with the same now removes nothing further.
func (s *NotificationService) Prune(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.store.Notifications().DeleteOlderThan(ctx, now.UTC().Add(-s.retention))
	if err != nil {
		return 0, err
	}
	observability.PrunedRows.WithLabelValues("notifications").Add(float64(n))
	return n, nil
}
