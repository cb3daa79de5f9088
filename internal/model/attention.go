package model

type AttentionReason string

const (
	ReasonHighVolume       AttentionReason = "high_volume"
	ReasonLowResponse      AttentionReason = "low_response"
	ReasonNoRecentActivity AttentionReason = "no_recent_activity"
)

// AttentionListing is an ephemeral flag that a listing needs seller action.
// It is derived fresh on every query and never persisted. The count fields are
// pointers so that reasons which do not carry them omit them entirely while a
// genuine zero (low_response with no replies) still serializes.
type AttentionListing struct {
	ListingID     string          `json:"listing_id"`
	ListingTitle  string          `json:"listing_title"`
	Reason        AttentionReason `json:"reason"`
	Details       string          `json:"details"`
	IncomingCount *int            `json:"incoming_count,omitempty"`
	OutgoingCount *int            `json:"outgoing_count,omitempty"`
	ClientName    string          `json:"client_name,omitempty"`
}

type AttentionSummary struct {
	TotalListings int                     `json:"total_listings"`
	Reasons       map[AttentionReason]int `json:"reasons"`
	TopListing    *AttentionListing       `json:"top_listing"`
}
