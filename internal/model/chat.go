package model

import (
	"fmt"
	"time"
)

// Role identifies the sender of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// ChatMessage is a single message of a chat history.
type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChatMessage returns a validated message. The role is required.
func NewChatMessage(id string, role Role, content string, at time.Time) (ChatMessage, error) {
	m := ChatMessage{ID: id, Role: role, Content: content, Timestamp: at}
	if err := m.Validate(); err != nil {
		return ChatMessage{}, err
	}
	return m, nil
}

// EntityID returns the message identifier.
func (m ChatMessage) EntityID() string { return m.ID }

// Kind returns KindChatMessage.
func (m ChatMessage) Kind() Kind { return KindChatMessage }

// Validate checks the id and that the role is user, assistant or system.
func (m ChatMessage) Validate() error {
	if err := requireID(KindChatMessage, m.ID); err != nil {
		return err
	}
	if m.Role == "" {
		return &ValidationError{Kind: KindChatMessage, Field: "role", Reason: "is required"}
	}
	if !m.Role.Valid() {
		return &ValidationError{Kind: KindChatMessage, Field: "role", Reason: fmt.Sprintf("unknown role %q", m.Role)}
	}
	return nil
}

// Equal reports whether both values mirror the same entity.
func (m ChatMessage) Equal(other ChatMessage) bool { return m.ID == other.ID }

// ChatHistory is an ordered conversation. Messages is a one-level copy of
// the owned messages and is ignored when the history is written back.
type ChatHistory struct {
	ID            string        `json:"id"`
	IsMainHistory bool          `json:"is_main_history"`
	Messages      []ChatMessage `json:"messages,omitempty"`
}

// EntityID returns the history identifier.
func (h ChatHistory) EntityID() string { return h.ID }

// Kind returns KindChatHistory.
func (h ChatHistory) Kind() Kind { return KindChatHistory }

// Validate checks the id.
func (h ChatHistory) Validate() error { return requireID(KindChatHistory, h.ID) }

// Equal reports whether both values mirror the same entity.
func (h ChatHistory) Equal(other ChatHistory) bool { return h.ID == other.ID }

// GroupOrder is the singleton ranking of item groups.
type GroupOrder struct {
	ID       string   `json:"id"`
	GroupIDs []string `json:"group_ids,omitempty"`
}

// EntityID returns the ranking identifier.
func (o GroupOrder) EntityID() string { return o.ID }

// Kind returns KindGroupOrder.
func (o GroupOrder) Kind() Kind { return KindGroupOrder }

// Validate checks the id.
func (o GroupOrder) Validate() error { return requireID(KindGroupOrder, o.ID) }

// Equal reports whether both values mirror the same entity.
func (o GroupOrder) Equal(other GroupOrder) bool { return o.ID == other.ID }
