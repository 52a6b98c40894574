package services

import (
	"context"
	"strings"
	"time"

	"market/dto"
	apperrors "market/errors"
	"market/models"
	"market/services/logger"
	"market/services/notification"

	"gorm.io/gorm"
)

const maxMessagePage = 100

// ChatService lưu tin nhắn giữa hai user và đẩy tin mới qua websocket
type ChatService struct {
	db     *gorm.DB
	push   notification.Service
	logger logger.Logger
	now    func() time.Time
}

func NewChatService(db *gorm.DB, push notification.Service, log logger.Logger, now func() time.Time) *ChatService {
	return &ChatService{db: db, push: push, logger: log, now: clockOrDefault(now)}
}

func (s *ChatService) Send(ctx context.Context, senderID uint, req dto.SendMessageRequest) (*models.Message, error) {
	if req.ReceiverID == senderID {
		return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidOperation, "You cannot message yourself", nil)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.NewValidationError(map[string]string{"content": "is required"})
	}

	db := s.db.WithContext(ctx)
	if err := db.First(&models.User{}, req.ReceiverID).Error; err != nil {
		return nil, dbError(err, apperrors.ErrUserNotFound)
	}

	msg := &models.Message{SenderID: senderID, ReceiverID: req.ReceiverID, Content: content}
	if err := db.Create(msg).Error; err != nil {
		return nil, dbError(err, apperrors.ErrNotFound)
	}

	if s.push != nil {
		payload, err := notification.NewMessageBuilder(EventMessageNew).WithData(msg).Build()
		if err == nil {
			err = s.push.SendToUser(req.ReceiverID, payload)
		}
		if err != nil {
			s.logger.Warn("⚠️ push message %d to user %d: %v", msg.ID, req.ReceiverID, err)
		}
	}
	return msg, nil
}

// ListMessages returns the conversation with partnerID in id order. With
// AfterID set only newer messages come back, which is how clients poll.
func (s *ChatService) ListMessages(ctx context.Context, userID, partnerID uint, query dto.MessageQuery) ([]models.Message, error) {
	limit := query.Limit
	if limit <= 0 || limit > maxMessagePage {
		limit = maxMessagePage
	}
	q := s.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", userID, partnerID, partnerID, userID)

	var messages []models.Message
	if query.AfterID > 0 {
		err := q.Where("id > ?", query.AfterID).Order("id ASC").Limit(limit).Find(&messages).Error
		return messages, dbError(err, apperrors.ErrNotFound)
	}

	// Lần đầu mở: lấy các tin mới nhất rồi đảo lại
	if err := q.Order("id DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, dbError(err, apperrors.ErrNotFound)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// Conversations lists one entry per partner, most recent first.
func (s *ChatService) Conversations(ctx context.Context, userID uint) ([]dto.Conversation, error) {
	db := s.db.WithContext(ctx)
	var messages []models.Message
	err := db.Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, dbError(err, apperrors.ErrNotFound)
	}

	index := map[uint]int{}
	var convs []dto.Conversation
	var partnerIDs []uint
	for i := range messages {
		m := messages[i]
		partner := m.SenderID
		if partner == userID {
			partner = m.ReceiverID
		}
		pos, ok := index[partner]
		if !ok {
			index[partner] = len(convs)
			pos = len(convs)
			partnerIDs = append(partnerIDs, partner)
			convs = append(convs, dto.Conversation{LastMessage: &m, UpdatedAt: m.CreatedAt})
		}
		if m.ReceiverID == userID && m.ReadAt == nil {
			convs[pos].Unread++
		}
	}
	if len(convs) == 0 {
		return []dto.Conversation{}, nil
	}

	var partners []models.User
	if err := db.Where("id IN ?", partnerIDs).Find(&partners).Error; err != nil {
		return nil, dbError(err, apperrors.ErrNotFound)
	}
	for i := range partners {
		if pos, ok := index[partners[i].ID]; ok {
			convs[pos].Partner = &partners[i]
		}
	}
	return convs, nil
}

// MarkRead đánh dấu đã đọc các tin partnerID gửi cho userID
func (s *ChatService) MarkRead(ctx context.Context, userID, partnerID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read_at IS NULL", partnerID, userID).
		UpdateColumn("read_at", s.now())
	return res.RowsAffected, dbError(res.Error, apperrors.ErrNotFound)
}
