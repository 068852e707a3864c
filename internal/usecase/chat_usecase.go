package usecase

import (
	"context"
	"strings"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/repository"
	"roostermarket/internal/infrastructure/ratelimit"
	"roostermarket/pkg/errors"
	"roostermarket/pkg/logger"
)

const (
	MaxMessageLength    = 2000
	DefaultMessageLimit = 100
)

type ChatUseCase struct {
	chatRepo  repository.ChatRepository
	userRepo  repository.UserRepository
	publisher ChatEventPublisher
	limiter   RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	publisher ChatEventPublisher,
	limiter RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:  chatRepo,
		userRepo:  userRepo,
		publisher: publisher,
		limiter:   limiter,
	}
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, sess *entity.Session, receiverID, text string) (*entity.Message, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Message cannot be empty", nil)
	}
	if len(text) > MaxMessageLength {
		return nil, errors.BadRequest("Message is too long", nil)
	}
	if receiverID == sess.UserID {
		return nil, errors.BadRequest("You cannot message yourself", nil)
	}
	if _, err := uc.userRepo.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}
	if ok, _ := uc.limiter.Allow(sess.UserID, ratelimit.ActionSendMessage); !ok {
		return nil, errors.TooManyRequests("You are sending messages too quickly")
	}

	conversationID := entity.ConversationID(sess.UserID, receiverID)
	message := &entity.Message{
		SenderID:   sess.UserID,
		ReceiverID: receiverID,
		Text:       text,
		Timestamp:  now().UnixMilli(),
	}
	if err := uc.chatRepo.PushMessage(ctx, conversationID, message); err != nil {
		return nil, err
	}

	conversation := &entity.Conversation{
		ID:              conversationID,
		Members:         []string{sess.UserID, receiverID},
		LastMessage:     message.Text,
		LastMessageTime: message.Timestamp,
	}
	if err := uc.chatRepo.UpdateConversation(ctx, conversationID, conversation); err != nil {
		logger.Warn("Failed to update conversation %s: %v", conversationID, err)
	}

	uc.publish(ctx, entity.ChatEventAdded, conversationID, message)
	return message, nil
}

// GetMessages returns the conversation with otherUserID ordered by time and marks
// the messages addressed to the caller as seen.
func (uc *ChatUseCase) GetMessages(ctx context.Context, sess *entity.Session, otherUserID string, limit int) ([]*entity.Message, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	if limit <= 0 || limit > DefaultMessageLimit {
		limit = DefaultMessageLimit
	}

	conversationID := entity.ConversationID(sess.UserID, otherUserID)
	messages, err := uc.chatRepo.ListMessages(ctx, conversationID, limit)
	if err != nil {
		return nil, err
	}

	for _, m := range messages {
		if m.ReceiverID != sess.UserID || m.Seen {
			continue
		}
		if err := uc.chatRepo.MarkSeen(ctx, conversationID, m.ID); err != nil {
			logger.Warn("Failed to mark message %s seen: %v", m.ID, err)
			continue
		}
		m.Seen = true
		uc.publish(ctx, entity.ChatEventChanged, conversationID, m)
	}
	return messages, nil
}

func (uc *ChatUseCase) ListConversations(ctx context.Context, sess *entity.Session) ([]*entity.Conversation, error) {
	if !sess.IsAuthenticated() {
		return nil, errors.Unauthorized("Authentication required", nil)
	}
	return uc.chatRepo.ListConversations(ctx, sess.UserID)
}

// DeleteMessage removes one of the caller's own messages.
func (uc *ChatUseCase) DeleteMessage(ctx context.Context, sess *entity.Session, conversationID, messageID string) error {
	if !sess.IsAuthenticated() {
		return errors.Unauthorized("Authentication required", nil)
	}
	if !entity.IsConversationMember(conversationID, sess.UserID) {
		return errors.Forbidden("You are not part of this conversation", nil)
	}

	message, err := uc.chatRepo.GetMessage(ctx, conversationID, messageID)
	if err != nil {
		return err
	}
	if message.SenderID != sess.UserID {
		return errors.Forbidden("You can only delete your own messages", nil)
	}

	if err := uc.chatRepo.DeleteMessage(ctx, conversationID, messageID); err != nil {
		return err
	}
	uc.publish(ctx, entity.ChatEventRemoved, conversationID, message)
	return nil
}

func (uc *ChatUseCase) publish(ctx context.Context, eventType, conversationID string, message *entity.Message) {
	event := &entity.ChatEvent{Type: eventType, ConversationID: conversationID, Message: message}
	if err := uc.publisher.Publish(ctx, []string{message.SenderID, message.ReceiverID}, event); err != nil {
		logger.Warn("Failed to publish %s for %s: %v", eventType, conversationID, err)
	}
}
