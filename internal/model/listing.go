package model

import "time"

type ListingStatus string

const (
	ListingStatusActive          ListingStatus = "active"
	ListingStatusInactive        ListingStatus = "inactive"
	ListingStatusAttentionNeeded ListingStatus = "attention_needed"
)

type Listing struct {
	ID          string        `json:"id"`
	UserID      string        `json:"-"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Price       *float64      `json:"price,omitempty"`
	Status      ListingStatus `json:"status"`
	Source      MessageSource `json:"source"`
	ExternalID  string        `json:"external_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Rolling metrics. The attention engine recomputes its own view from raw
	// messages and does not read these; they are kept for future background
	// maintenance jobs.
	Messages48h    int        `json:"messages_48h"`
	ResponsesCount int        `json:"responses_count"`
	LastResponseAt *time.Time `json:"last_response_at,omitempty"`
}

type ListingCreate struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Price       *float64      `json:"price"`
	Source      MessageSource `json:"source"`
	ExternalID  string        `json:"external_id"`
}

type ListingUpdate struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Price       *float64       `json:"price"`
	Status      *ListingStatus `json:"status"`
}
