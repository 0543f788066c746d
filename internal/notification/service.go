package notification

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Bruce1508/Streaming-Platform-sub005/internal/shared"
)

// Service owns user notifications. Channel and expiry defaults are applied
// at creation only; updates never re-trigger them.
type Service struct {
	db               *mongo.Database
	notificationsCol *mongo.Collection
}

// NewService creates a notification Service
func NewService(db *mongo.Database) *Service {
	return &Service{
		db:               db,
		notificationsCol: db.Collection(shared.ColNotifications),
	}
}

// CreateInput carries the fields for a new notification
type CreateInput struct {
	RecipientID  string                       `json:"recipient_id"`
	SenderID     string                       `json:"sender_id,omitempty"`
	Type         shared.NotificationType      `json:"type"`
	Title        string                       `json:"title"`
	Message      string                       `json:"message"`
	Related      *shared.RelatedRef           `json:"related,omitempty"`
	Metadata     *shared.NotificationMetadata `json:"metadata,omitempty"`
	Priority     shared.NotificationPriority  `json:"priority,omitempty"`
	Channels     []shared.NotificationChannel `json:"channels,omitempty"`
	ScheduledFor *time.Time                   `json:"scheduled_for,omitempty"`
	ExpiresAt    *time.Time                   `json:"expires_at,omitempty"`
}

// Create validates and inserts a notification, applying the creation-only
// defaults (channels by priority, expiry by type).
func (s *Service) Create(ctx context.Context, in CreateInput) (*shared.Notification, error) {
	now := time.Now()

	n := &shared.Notification{
		ID:           shared.GenerateID("NTF"),
		RecipientID:  in.RecipientID,
		SenderID:     in.SenderID,
		Type:         in.Type,
		Title:        in.Title,
		Message:      in.Message,
		Related:      in.Related,
		Metadata:     in.Metadata,
		Priority:     in.Priority,
		Channels:     in.Channels,
		ScheduledFor: in.ScheduledFor,
		ExpiresAt:    in.ExpiresAt,
		CreatedAt:    now,
	}
	if n.Priority == "" {
		n.Priority = shared.NotifPriorityMedium
	}

	if err := shared.ValidateNotification(n, now); err != nil {
		return nil, err
	}
	shared.ApplyNotificationDefaults(n, now)

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.notificationsCol.InsertOne(queryCtx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkRead marks one of the user's notifications as read. read_at is set on
// the first read and kept on repeats.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.notificationsCol.UpdateOne(queryCtx,
		bson.M{"_id": notificationID, "recipient_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": time.Now(), "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Already read or missing; check which to keep reads idempotent
		count, err := s.notificationsCol.CountDocuments(queryCtx, bson.M{"_id": notificationID, "recipient_id": userID})
		if err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
	}
	return nil
}

// MarkAllRead marks all of the user's unread notifications as read and
// returns how many were updated.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := s.notificationsCol.UpdateMany(queryCtx,
		bson.M{"recipient_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": time.Now(), "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// SetArchived archives or unarchives one of the user's notifications
func (s *Service) SetArchived(ctx context.Context, userID, notificationID string, archived bool) error {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.notificationsCol.UpdateOne(queryCtx,
		bson.M{"_id": notificationID, "recipient_id": userID},
		bson.M{"$set": bson.M{"is_archived": archived, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListOptions filters a user's notification listing
type ListOptions struct {
	Type            shared.NotificationType
	UnreadOnly      bool
	IncludeArchived bool
	Page            int64
	Limit           int64
}

// ListByUser returns the user's notifications, newest first
func (s *Service) ListByUser(ctx context.Context, userID string, opts ListOptions) ([]shared.Notification, error) {
	filter := bson.M{"recipient_id": userID}
	if opts.Type != "" {
		filter["type"] = opts.Type
	}
	if opts.UnreadOnly {
		filter["is_read"] = false
	}
	if !opts.IncludeArchived {
		filter["is_archived"] = false
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := s.notificationsCol.Find(queryCtx, filter, shared.BuildFindOptions(opts.Page, opts.Limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(queryCtx)

	notifications := []shared.Notification{}
	if err := cursor.All(queryCtx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnread returns how many unread, unarchived notifications the user has
func (s *Service) CountUnread(ctx context.Context, userID string) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.notificationsCol.CountDocuments(queryCtx, bson.M{
		"recipient_id": userID,
		"is_read":      false,
		"is_archived":  false,
	})
}

// CleanupExpired hard-deletes every notification whose expiry has passed and
// returns the number removed. Run from the admin surface or a cron-style
// caller.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	res, err := s.notificationsCol.DeleteMany(queryCtx, bson.M{
		"expires_at": bson.M{"$lt": time.Now()},
	})
	if err != nil {
		return 0, err
	}

	if res.DeletedCount > 0 {
		log.Printf("INFO: cleaned up %d expired notifications", res.DeletedCount)
	}
	return res.DeletedCount, nil
}
