package convo

import "errors"

// Validation failures surfaced by the log. All are local to the
// offending call and never retried internally.
var (
	// ErrInvalidMessageType rejects appends whose type is outside the
	// closed models.MessageType set.
	ErrInvalidMessageType = errors.New("invalid message type")
	// ErrInvalidThreadReference rejects thread ids that do not name an
	// existing, strictly earlier message.
	ErrInvalidThreadReference = errors.New("invalid thread reference")
	// ErrMessageNotFound reports a lookup or reaction against an index
	// the log does not hold.
	ErrMessageNotFound = errors.New("message not found")
)
