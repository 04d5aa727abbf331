package chat

import (
	"time"

	"github.com/zhouzirui/navigator/backend/internal/model/component"
)

// Role identifies who authored a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. It is never modified after being appended.
type Message struct {
	ID          string                 `json:"id"`
	SessionID   string                 `json:"sessionId"`
	Role        Role                   `json:"role"`
	Text        string                 `json:"text"`
	Descriptors []component.Descriptor `json:"descriptors"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// Reply is what a responder hands back for one user turn.
type Reply struct {
	Text        string                 `json:"text"`
	Descriptors []component.Descriptor `json:"descriptors"`
}
