package repository

import (
	"context"

	"roostermarket/internal/domain/entity"
)

type ChatRepository interface {
	PushMessage(ctx context.Context, conversationID string, message *entity.Message) error
	UpdateConversation(ctx context.Context, conversationID string, conversation *entity.Conversation) error
	GetConversation(ctx context.Context, conversationID string) (*entity.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error)
	GetMessage(ctx context.Context, conversationID, messageID string) (*entity.Message, error)
	MarkSeen(ctx context.Context, conversationID, messageID string) error
	DeleteMessage(ctx context.Context, conversationID, messageID string) error
}
