package model

import "time"

// Message is one processed turn: the user's transcribed input and the
// counselor's generated reply. Append-only per conversation.
type Message struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	MessageID      string    `json:"messageId" bson:"messageId"`
	ConversationID string    `json:"conversationId" bson:"conversationId"`
	UserID         string    `json:"userId" bson:"userId"`
	InputText      string    `json:"inputText" bson:"inputText"`
	ResponseText   string    `json:"responseText" bson:"responseText"`
	AudioURL       string    `json:"audioUrl" bson:"audioUrl"`
	Timestamp      time.Time `json:"timestamp" bson:"timestamp"`
}

// MessageMetrics is a single turn's domain-score contribution, keyed by
// the message it was derived from.
type MessageMetrics struct {
	ID        string       `json:"id" bson:"_id,omitempty"`
	MessageID string       `json:"messageId" bson:"messageId"`
	Scores    DomainScores `json:"scores" bson:"scores"`
}

// ConversationMetrics is the running aggregate of domain coverage across
// a whole conversation. One document per conversation id, upserted on
// every turn.
type ConversationMetrics struct {
	ID             string       `json:"id" bson:"_id,omitempty"`
	ConversationID string       `json:"conversationId" bson:"conversationId"`
	Scores         DomainScores `json:"scores" bson:"scores"`
	UpdatedAt      time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// ChatTurn is one side of one exchange, used to render conversation
// history into prompts.
type ChatTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}
