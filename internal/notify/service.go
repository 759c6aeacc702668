// Package notify implements notification fan-out: persisting
// recipient-addressed records for social actions and pushing them to
// live sessions through the Hub.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/anonto42/pulsefeed/backend/internal/models"
	"github.com/anonto42/pulsefeed/backend/internal/repositories"
	"github.com/anonto42/pulsefeed/backend/internal/social"
)

// ListLimit caps a single notification listing.
const ListLimit = 50

// Service records social events as notifications and manages their
// read state. The durable row is written synchronously; push delivery
// is fire-and-forget so a slow subscriber never blocks the mutation
// that triggered the event.
type Service struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
	hub                    *Hub
}

// NewService creates a new Service
func NewService(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository, hub *Hub) *Service {
	return &Service{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
		hub:                    hub,
	}
}

// Record persists one Unread notification for a social action and
// publishes it to the recipient's live sessions. Self-addressed events
// (liking your own post, commenting under yourself) are suppressed and
// return id 0 with no error. postID is empty for follow events.
func (s *Service) Record(ctx context.Context, eventType string, senderID, recipientID uint, postID string) (uint, error) {
	if senderID == recipientID {
		return 0, nil
	}

	sender, err := s.userRepository.GetUserByID(senderID)
	if err != nil {
		return 0, fmt.Errorf("resolve sender %d: %w", senderID, err)
	}
	if _, err := s.userRepository.GetUserByID(recipientID); err != nil {
		return 0, fmt.Errorf("resolve recipient %d: %w", recipientID, err)
	}

	message, err := buildMessage(eventType, sender.Username)
	if err != nil {
		return 0, err
	}

	notification := &models.Notification{
		Type:        eventType,
		SenderID:    senderID,
		RecipientID: recipientID,
		PostID:      postID,
		Message:     message,
	}
	if err := s.notificationRepository.CreateNotification(notification); err != nil {
		return 0, fmt.Errorf("persist notification: %w: %v", social.ErrUnavailable, err)
	}

	s.hub.Publish(Event{
		Notification: *notification,
		Sender:       sender.ToCompact(),
	})

	return notification.ID, nil
}

func buildMessage(eventType, senderUsername string) (string, error) {
	switch eventType {
	case models.NotificationFollow:
		return senderUsername + " started following you", nil
	case models.NotificationLike:
		return senderUsername + " liked your post", nil
	case models.NotificationComment:
		return senderUsername + " commented on your post", nil
	default:
		return "", fmt.Errorf("unknown notification type %q", eventType)
	}
}

// List returns the recipient's notifications, newest first, capped at
// ListLimit. Listing is read-only: fetching never flips read state.
func (s *Service) List(ctx context.Context, recipientID uint) ([]models.Notification, error) {
	notifications, err := s.notificationRepository.GetByRecipientID(recipientID, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w: %v", social.ErrUnavailable, err)
	}
	return notifications, nil
}

// UnreadCount returns the recipient's unread notification count.
func (s *Service) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.notificationRepository.GetUnreadCount(recipientID)
}

// MarkRead transitions one notification to Read. Idempotent on
// already-read rows. Fails with ErrForbidden when the notification is
// addressed to someone else.
func (s *Service) MarkRead(ctx context.Context, notificationID, recipientID uint) error {
	notification, err := s.notificationRepository.GetNotificationByID(notificationID)
	if err != nil {
		return err
	}
	if notification.RecipientID != recipientID {
		return fmt.Errorf("notification %d belongs to another recipient: %w", notificationID, social.ErrForbidden)
	}
	if notification.IsRead {
		return nil
	}
	return s.notificationRepository.MarkAsRead(notificationID)
}

// MarkAllRead transitions all of the recipient's notifications to Read.
func (s *Service) MarkAllRead(ctx context.Context, recipientID uint) error {
	return s.notificationRepository.MarkAllAsRead(recipientID)
}

// Subscribe registers a live push session for the recipient.
func (s *Service) Subscribe(recipientID uint) (SessionID, <-chan Event) {
	id, ch := s.hub.Subscribe(recipientID)
	log.Printf("notify: session %s subscribed for recipient %d", id, recipientID)
	return id, ch
}

// Unsubscribe ends a live push session.
func (s *Service) Unsubscribe(id SessionID) {
	s.hub.Unsubscribe(id)
}
