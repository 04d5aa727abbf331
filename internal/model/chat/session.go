package chat

import (
	"time"

	"github.com/zhouzirui/navigator/backend/internal/model/component"
)

// Session captures a transient anonymous conversation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Canvas is the side panel state forwarded to the shell.
type Canvas struct {
	Open        bool                   `json:"open"`
	Descriptors []component.Descriptor `json:"descriptors"`
}

// State is a point-in-time copy of a conversation.
type State struct {
	Session          Session   `json:"session"`
	Transcript       []Message `json:"transcript"`
	PendingInput     string    `json:"pendingInput"`
	AwaitingResponse bool      `json:"awaitingResponse"`
	Canvas           Canvas    `json:"canvas"`
}
