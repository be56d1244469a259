package core

import "time"

const (
	AppName       = "AskGary"
	AppVersion    = "1.0.0"
	AppUserAgent  = "AskGary-Backend/1.0"
	RepositoryURL = "https://github.com/garyyong/askgary"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chunk is the unit of retrieval: a slice of source text with a precomputed
// embedding, produced by the offline indexer. All chunks in one index share
// the same embedding dimensionality.
type Chunk struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Embedding  []float32 `json:"embedding"`
	Source     string    `json:"source"`
	ChunkIndex int       `json:"chunk_index"`
}

// Session is the in-memory state for one visitor.
type Session struct {
	ID           string
	History      []Message
	Profile      Profile
	MessageCount int
	LastActive   time.Time
}

// SessionRecord is the durable on-disk schema for a session.
type SessionRecord struct {
	History      []Message `json:"history"`
	UserProfile  Profile   `json:"user_profile"`
	MessageCount int       `json:"message_count"`
}

// StoredSession couples a durable record with its storage metadata.
type StoredSession struct {
	Key      string
	Record   SessionRecord
	StoredAt time.Time
}
