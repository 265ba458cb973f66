package models

// TopicWindow is a contiguous slice of the message sequence with the
// keywords extracted from it. StartIndex and EndIndex are the indices
// of the window's first and last message, inclusive.
type TopicWindow struct {
	StartIndex   int      `json:"startIndex"`
	EndIndex     int      `json:"endIndex"`
	Keywords     []string `json:"keywords"`
	AvgSentiment float64  `json:"avgSentiment"`
}

// Snapshot is the point-in-time aggregation of all derived discussion
// statistics. It is recomputed fresh from the log on every request and
// carries no lifecycle of its own. The JSON field names are the export
// contract consumed by dashboards and export tooling.
type Snapshot struct {
	TotalMessages int `json:"totalMessages"`
	ActiveUsers   int `json:"activeUsers"`
	// MessagesPerUser maps a sender to the number of messages it
	// appended; values sum to TotalMessages.
	MessagesPerUser map[string]int `json:"messagesPerUser"`
	// ReactionsPerMessage is indexed by message position.
	ReactionsPerMessage []int `json:"reactionsPerMessage"`
	// SentimentSeries holds one score per message, in log order.
	SentimentSeries []float64     `json:"sentimentSeries"`
	TopicWindows    []TopicWindow `json:"topicWindows"`
	// InteractionMatrix counts directed reply/reaction events between
	// distinct participants; self-interactions are never counted.
	InteractionMatrix map[string]map[string]int `json:"interactionMatrix"`
}
