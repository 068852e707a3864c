package repository

import (
	"context"
	"sort"

	"firebase.google.com/go/v4/db"

	"roostermarket/internal/domain/entity"
	"roostermarket/internal/domain/repository"
	"roostermarket/pkg/errors"
)

const (
	messagesPath          = "messages"
	conversationsPath     = "conversations"
	userConversationsPath = "userConversations"
)

// realtimeChatRepository keeps chat in the Realtime Database:
//
//	messages/{conversationId}/{messageId}
//	conversations/{conversationId}
//	userConversations/{userId}/{conversationId} = true
type realtimeChatRepository struct {
	client *db.Client
}

func NewRealtimeChatRepository(client *db.Client) repository.ChatRepository {
	return &realtimeChatRepository{
		client: client,
	}
}

func (r *realtimeChatRepository) messageRef(conversationID, messageID string) *db.Ref {
	return r.client.NewRef(messagesPath).Child(conversationID).Child(messageID)
}

func (r *realtimeChatRepository) PushMessage(ctx context.Context, conversationID string, message *entity.Message) error {
	ref, err := r.client.NewRef(messagesPath).Child(conversationID).Push(ctx, nil)
	if err != nil {
		return errors.Internal("Failed to allocate message id", err)
	}

	message.ID = ref.Key
	if err := ref.Set(ctx, message); err != nil {
		return errors.Internal("Failed to store message", err)
	}
	return nil
}

// UpdateConversation writes the metadata and both members' index entries in one
// multi-path update.
func (r *realtimeChatRepository) UpdateConversation(ctx context.Context, conversationID string, conversation *entity.Conversation) error {
	conversation.ID = conversationID
	updates := map[string]interface{}{
		conversationsPath + "/" + conversationID: conversation,
	}
	for _, member := range conversation.Members {
		updates[userConversationsPath+"/"+member+"/"+conversationID] = true
	}

	if err := r.client.NewRef("/").Update(ctx, updates); err != nil {
		return errors.Internal("Failed to update conversation", err)
	}
	return nil
}

func (r *realtimeChatRepository) GetConversation(ctx context.Context, conversationID string) (*entity.Conversation, error) {
	var conversation entity.Conversation
	if err := r.client.NewRef(conversationsPath).Child(conversationID).Get(ctx, &conversation); err != nil {
		return nil, errors.Internal("Failed to get conversation", err)
	}
	if len(conversation.Members) == 0 {
		return nil, errors.NotFound("Conversation", nil)
	}
	conversation.ID = conversationID
	return &conversation, nil
}

// ListConversations returns the user's conversations, most recent first.
func (r *realtimeChatRepository) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	var index map[string]bool
	if err := r.client.NewRef(userConversationsPath).Child(userID).Get(ctx, &index); err != nil {
		return nil, errors.Internal("Failed to list conversations", err)
	}

	conversations := make([]*entity.Conversation, 0, len(index))
	for id := range index {
		c, err := r.GetConversation(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		conversations = append(conversations, c)
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessageTime > conversations[j].LastMessageTime
	})
	return conversations, nil
}

// ListMessages returns the newest limit messages in chronological order.
func (r *realtimeChatRepository) ListMessages(ctx context.Context, conversationID string, limit int) ([]*entity.Message, error) {
	nodes, err := r.client.NewRef(messagesPath).Child(conversationID).
		OrderByChild("timestamp").
		LimitToLast(limit).
		GetOrdered(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to list messages", err)
	}

	messages := make([]*entity.Message, 0, len(nodes))
	for _, node := range nodes {
		var m entity.Message
		if err := node.Unmarshal(&m); err != nil {
			return nil, errors.Internal("Failed to parse message", err)
		}
		if m.ID == "" {
			m.ID = node.Key()
		}
		messages = append(messages, &m)
	}
	return messages, nil
}

func (r *realtimeChatRepository) GetMessage(ctx context.Context, conversationID, messageID string) (*entity.Message, error) {
	var m entity.Message
	if err := r.messageRef(conversationID, messageID).Get(ctx, &m); err != nil {
		return nil, errors.Internal("Failed to get message", err)
	}
	if m.SenderID == "" {
		return nil, errors.NotFound("Message", nil)
	}
	if m.ID == "" {
		m.ID = messageID
	}
	return &m, nil
}

func (r *realtimeChatRepository) MarkSeen(ctx context.Context, conversationID, messageID string) error {
	if err := r.messageRef(conversationID, messageID).Update(ctx, map[string]interface{}{"seen": true}); err != nil {
		return errors.Internal("Failed to mark message seen", err)
	}
	return nil
}

func (r *realtimeChatRepository) DeleteMessage(ctx context.Context, conversationID, messageID string) error {
	if err := r.messageRef(conversationID, messageID).Delete(ctx); err != nil {
		return errors.Internal("Failed to delete message", err)
	}
	return nil
}
