package models

import "strings"

// MessageType is the closed set of message kinds a conversation log
// accepts. Anything outside this set is rejected at append time.
type MessageType string

const (
	TypeText     MessageType = "text"
	TypeSystem   MessageType = "system"
	TypeAction   MessageType = "action"
	TypeReaction MessageType = "reaction"
	TypeThread   MessageType = "thread"
	TypeMedia    MessageType = "media"
)

var messageTypes = map[MessageType]struct{}{
	TypeText:     {},
	TypeSystem:   {},
	TypeAction:   {},
	TypeReaction: {},
	TypeThread:   {},
	TypeMedia:    {},
}

// Valid reports whether t is one of the recognized message types.
func (t MessageType) Valid() bool {
	_, ok := messageTypes[t]
	return ok
}

// ParseMessageType normalizes s (case-insensitive) into a MessageType.
// The second return is false when s names no recognized type.
func ParseMessageType(s string) (MessageType, bool) {
	t := MessageType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

// Message is a single entry in a conversation log. Messages are
// immutable once appended; corrections are modeled as new messages.
type Message struct {
	// Index is the message's position in the log, assigned
	// sequentially from 0 by the log's append.
	Index   int         `json:"index"`
	Sender  string      `json:"sender"`
	Content string      `json:"content"`
	Type    MessageType `json:"type"`
	// TS is the creation timestamp (ns)
	TS int64 `json:"ts"`
	// ThreadID references the index of the root message this one
	// replies to; nil for root-level messages. Always strictly less
	// than Index.
	ThreadID *int `json:"thread_id,omitempty"`
}
