package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chachabrian/sewo-backend/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConversationService gates the per-booking message thread to the booking's customer and vehicle owner.
type ConversationService struct {
	db     *gorm.DB
	events *EventBus
	now    func() time.Time
}

func NewConversationService(db *gorm.DB, events *EventBus) *ConversationService {
	return &ConversationService{db: db, events: events, now: time.Now}
}

// loadConversation re-derives the participants from the booking on every call.
func (s *ConversationService) loadConversation(db *gorm.DB, conversationID, requesterID uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := db.Preload("Booking.Vehicle").First(&conv, conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load conversation %d: %w", conversationID, err)
	}
	if conv.Booking == nil || !conv.Booking.IsParticipant(requesterID) {
		return nil, ErrForbidden
	}
	return &conv, nil
}

// StartOrGet returns the conversation of a booking, creating it on first use.
// created is false when the conversation already existed.
func (s *ConversationService) StartOrGet(ctx context.Context, bookingID, requesterID uint) (*models.Conversation, bool, error) {
	db := s.db.WithContext(ctx)

	booking, err := loadBooking(db, bookingID)
	if err != nil {
		return nil, false, err
	}
	if !booking.IsParticipant(requesterID) {
		return nil, false, ErrForbidden
	}

	conv := models.Conversation{BookingID: bookingID}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "booking_id"}},
		DoNothing: true,
	}).Create(&conv)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to create conversation: %w", res.Error)
	}

	created := res.RowsAffected > 0
	if !created {
		conv = models.Conversation{}
		if err := db.Where("booking_id = ?", bookingID).First(&conv).Error; err != nil {
			return nil, false, fmt.Errorf("failed to load conversation for booking %d: %w", bookingID, err)
		}
	}
	conv.Booking = booking

	if created {
		log.WithFields(log.Fields{"conversation_id": conv.ID, "booking_id": bookingID}).Info("conversation started")
	}
	return &conv, created, nil
}

// ListConversations returns the caller's conversations, most recently active first.
func (s *ConversationService) ListConversations(ctx context.Context, requesterID uint) ([]models.Conversation, error) {
	db := s.db.WithContext(ctx)

	var convs []models.Conversation
	err := db.Preload("Booking.Vehicle").
		Where("booking_id IN (?)", participantBookingIDs(db, requesterID)).
		Order("updated_at DESC").Order("id DESC").
		Find(&convs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

func (s *ConversationService) GetConversation(ctx context.Context, conversationID, requesterID uint) (*models.Conversation, error) {
	return s.loadConversation(s.db.WithContext(ctx), conversationID, requesterID)
}

// ListMessages returns every message of the conversation in send order.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID, requesterID uint) ([]models.Message, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.loadConversation(db, conversationID, requesterID); err != nil {
		return nil, err
	}

	var messages []models.Message
	if err := db.Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").Order("id ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// PostMessage appends an unread message from requesterID and bumps the conversation.
func (s *ConversationService) PostMessage(ctx context.Context, conversationID, requesterID uint, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}

	var msg models.Message
	var participants []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conv, err := s.loadConversation(tx, conversationID, requesterID)
		if err != nil {
			return err
		}

		msg = models.Message{
			ConversationID: conv.ID,
			SenderID:       requesterID,
			Content:        content,
		}
		if err := tx.Create(&msg).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", conv.ID).
			Update("updated_at", s.now()).Error; err != nil {
			return fmt.Errorf("failed to touch conversation: %w", err)
		}

		participants = conv.Booking.Participants()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, ChannelMessages, participants, EventNewMessage, msg)
	return &msg, nil
}

// GetMessage returns one message if the caller takes part in its conversation.
func (s *ConversationService) GetMessage(ctx context.Context, messageID, requesterID uint) (*models.Message, error) {
	db := s.db.WithContext(ctx)

	var msg models.Message
	if err := db.First(&msg, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load message %d: %w", messageID, err)
	}
	if _, err := s.loadConversation(db, msg.ConversationID, requesterID); err != nil {
		return nil, err
	}
	return &msg, nil
}

// MarkRead flags the other participant's unread messages as read and returns how many changed.
// The caller's own messages are never touched.
func (s *ConversationService) MarkRead(ctx context.Context, conversationID, requesterID uint) (int64, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.loadConversation(db, conversationID, requesterID); err != nil {
		return 0, err
	}

	res := db.Model(&models.Message{}).
		Where("conversation_id = ? AND is_read = ? AND sender_id <> ?", conversationID, false, requesterID).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
