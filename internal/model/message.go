package model

import "time"

type MessageType string

const (
	MessageIncoming MessageType = "incoming"
	MessageOutgoing MessageType = "outgoing"
)

type Message struct {
	ID          string        `json:"id"`
	UserID      string        `json:"-"`
	ClientID    string        `json:"client_id"`
	Content     string        `json:"content"`
	MessageType MessageType   `json:"message_type"`
	Source      MessageSource `json:"source"`
	Timestamp   time.Time     `json:"timestamp"`
	IsRead      bool          `json:"is_read"`
}

type MessageCreate struct {
	ClientID    string        `json:"client_id"`
	Content     string        `json:"content"`
	MessageType MessageType   `json:"message_type"`
	Source      MessageSource `json:"source"`
}

type MessageResponse struct {
	ClientID string `json:"client_id"`
	Content  string `json:"content"`
}

// MessageActivity is one row of the windowed message scan used by the
// attention engine: the message direction joined to the owning client's
// listing reference. ListingID is empty when the client has no listing.
type MessageActivity struct {
	MessageType  MessageType
	ListingID    string
	ListingTitle string
}
