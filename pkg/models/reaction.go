package models

// Reaction is a lightweight annotation attached to an existing
// message. Reactions are repeatable: the same user may react to the
// same message more than once and every occurrence is kept.
type Reaction struct {
	MessageIndex int    `json:"message_index"`
	User         string `json:"user"`
	Reaction     string `json:"reaction"`
	// TS is the time the reaction was recorded (ns)
	TS int64 `json:"ts"`
}
