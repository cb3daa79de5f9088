package model

import "time"

type ClientStatus string

const (
	ClientStatusNew        ClientStatus = "new"
	ClientStatusInProgress ClientStatus = "in_progress"
	ClientStatusClosed     ClientStatus = "closed"
)

type MessageSource string

const (
	SourceTelegram MessageSource = "telegram"
	SourceWhatsapp MessageSource = "whatsapp"
	SourceOLX      MessageSource = "olx"
	SourceSystem   MessageSource = "system"
)

type Client struct {
	ID            string        `json:"id"`
	UserID        string        `json:"-"`
	Name          string        `json:"name"`
	Phone         string        `json:"phone,omitempty"`
	Source        MessageSource `json:"source"`
	Status        ClientStatus  `json:"status"`
	ListingID     string        `json:"listing_id,omitempty"`
	ListingTitle  string        `json:"listing_title,omitempty"`
	MessagesCount int           `json:"messages_count"`
	LastMessageAt *time.Time    `json:"last_message_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type ClientCreate struct {
	Name         string        `json:"name"`
	Phone        string        `json:"phone"`
	Source       MessageSource `json:"source"`
	ListingID    string        `json:"listing_id"`
	ListingTitle string        `json:"listing_title"`
}

type ClientUpdate struct {
	Name         *string       `json:"name"`
	Phone        *string       `json:"phone"`
	Status       *ClientStatus `json:"status"`
	ListingID    *string       `json:"listing_id"`
	ListingTitle *string       `json:"listing_title"`
}

type DashboardStats struct {
	NewLeads         int `json:"new_leads"`
	PendingAttention int `json:"pending_attention"`
	ActiveChats      int `json:"active_chats"`
	CompletedSales   int `json:"completed_sales"`
}
