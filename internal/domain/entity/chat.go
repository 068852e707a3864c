package entity

const (
	ChatEventAdded   = "child_added"
	ChatEventChanged = "child_changed"
	ChatEventRemoved = "child_removed"
)

// Message lives in the realtime database under messages/{conversationId}/{id}.
type Message struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"`
	Seen       bool   `json:"seen"`
}

// Conversation is the metadata node under conversations/{conversationId}.
type Conversation struct {
	ID              string   `json:"id,omitempty"`
	Members         []string `json:"members"`
	LastMessage     string   `json:"lastMessage"`
	LastMessageTime int64    `json:"lastMessageTime"`
}

// OtherMember returns the participant that is not userID.
func (c *Conversation) OtherMember(userID string) string {
	for _, m := range c.Members {
		if m != userID {
			return m
		}
	}
	return ""
}

// ChatEvent is pushed to connected participants whenever a conversation changes.
type ChatEvent struct {
	Type           string   `json:"type"`
	ConversationID string   `json:"conversation_id"`
	Message        *Message `json:"message"`
}

// ConversationID is the same for both participants regardless of who asks.
func ConversationID(userA, userB string) string {
	if userA < userB {
		return userA + "_" + userB
	}
	return userB + "_" + userA
}

// IsConversationMember reports whether userID is one of the two ids encoded in
// conversationID.
func IsConversationMember(conversationID, userID string) bool {
	n := len(userID)
	if n == 0 || len(conversationID) <= n {
		return false
	}
	return (conversationID[:n] == userID && conversationID[n] == '_') ||
		(conversationID[len(conversationID)-n:] == userID && conversationID[len(conversationID)-n-1] == '_')
}
