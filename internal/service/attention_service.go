package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"leadgram-backend/internal/model"
)

// AttentionStore is the read surface the attention engine needs from the
// database: one windowed message scan joined to client listing references,
// and one stale-client scan. Implementations must scope both reads to the
// given owner.
type AttentionStore interface {
	MessageActivitySince(ctx context.Context, userID string, since time.Time) ([]model.MessageActivity, error)
	StaleClients(ctx context.Context, userID string, cutoff time.Time) ([]*model.Client, error)
}

const (
	messageWindow  = 48 * time.Hour
	activityCutoff = 24 * time.Hour

	// A listing draws attention with more than 5 incoming messages in the
	// window, or more than 3 incoming with no reply at all.
	highVolumeThreshold  = 5
	lowResponseThreshold = 3

	maxAttentionListings = 10
)

// AttentionService derives the "requires attention" view of a seller's
// listings. It is a pure read: three rule evaluators scan recent data, their
// candidates are concatenated in fixed rule order, deduplicated by listing
// (first rule wins) and truncated to maxAttentionListings.
type AttentionService struct {
	Store AttentionStore

	now func() time.Time
}

func NewAttentionService(store AttentionStore) *AttentionService {
	return &AttentionService{
		Store: store,
		now:   time.Now,
	}
}

func (s *AttentionService) GetListingsRequiringAttention(ctx context.Context, userID string) ([]model.AttentionListing, error) {
	now := s.now().UTC()

	// Both message rules reduce the same windowed scan, so fetch it once.
	// Rules never interleave: each evaluator runs to completion before the
	// next one's candidates are appended.
	activity, err := s.Store.MessageActivitySince(ctx, userID, now.Add(-messageWindow))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("attention: message scan failed")
		return nil, err
	}

	staleClients, err := s.Store.StaleClients(ctx, userID, now.Add(-activityCutoff))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("attention: client scan failed")
		return nil, err
	}

	var candidates []model.AttentionListing
	candidates = append(candidates, highVolumeCandidates(activity)...)
	candidates = append(candidates, lowResponseCandidates(activity)...)
	candidates = append(candidates, noRecentActivityCandidates(staleClients)...)

	seen := make(map[string]bool, len(candidates))
	unique := []model.AttentionListing{}
	for _, candidate := range candidates {
		if seen[candidate.ListingID] {
			continue
		}
		seen[candidate.ListingID] = true
		unique = append(unique, candidate)
		if len(unique) == maxAttentionListings {
			break
		}
	}

	return unique, nil
}

func (s *AttentionService) GetAttentionSummary(ctx context.Context, userID string) (*model.AttentionSummary, error) {
	listings, err := s.GetListingsRequiringAttention(ctx, userID)
	if err != nil {
		return nil, err
	}

	reasons := map[model.AttentionReason]int{}
	for _, listing := range listings {
		reasons[listing.Reason]++
	}

	summary := &model.AttentionSummary{
		TotalListings: len(listings),
		Reasons:       reasons,
	}
	if len(listings) > 0 {
		top := listings[0]
		summary.TopListing = &top
	}

	return summary, nil
}

// listingCounts accumulates per-listing message counts during grouping.
type listingCounts struct {
	listingID    string
	listingTitle string
	incoming     int
	outgoing     int
}

// groupByListing reduces the message scan to one counter per listing.
// Messages whose client has no listing are dropped here (soft data
// inconsistency, excluded silently). The result is ordered by descending
// incoming count, then ascending listing id, so candidate order does not
// depend on map iteration.
func groupByListing(activity []model.MessageActivity) []*listingCounts {
	grouped := make(map[string]*listingCounts)
	for _, a := range activity {
		if a.ListingID == "" {
			continue
		}
		counts, ok := grouped[a.ListingID]
		if !ok {
			counts = &listingCounts{listingID: a.ListingID, listingTitle: a.ListingTitle}
			grouped[a.ListingID] = counts
		}
		switch a.MessageType {
		case model.MessageIncoming:
			counts.incoming++
		case model.MessageOutgoing:
			counts.outgoing++
		}
	}

	ordered := make([]*listingCounts, 0, len(grouped))
	for _, counts := range grouped {
		ordered = append(ordered, counts)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].incoming != ordered[j].incoming {
			return ordered[i].incoming > ordered[j].incoming
		}
		return ordered[i].listingID < ordered[j].listingID
	})

	return ordered
}

// highVolumeCandidates flags listings with more than highVolumeThreshold
// incoming messages inside the window.
func highVolumeCandidates(activity []model.MessageActivity) []model.AttentionListing {
	var candidates []model.AttentionListing
	for _, counts := range groupByListing(activity) {
		if counts.incoming <= highVolumeThreshold {
			continue
		}
		candidates = append(candidates, model.AttentionListing{
			ListingID:     counts.listingID,
			ListingTitle:  listingTitleOrDefault(counts.listingTitle),
			Reason:        model.ReasonHighVolume,
			Details:       fmt.Sprintf("High message volume: %d incoming in 48h", counts.incoming),
			IncomingCount: intPtr(counts.incoming),
		})
	}
	return candidates
}

// lowResponseCandidates flags listings drawing inbound interest with no
// seller replies: more than lowResponseThreshold incoming and zero outgoing.
func lowResponseCandidates(activity []model.MessageActivity) []model.AttentionListing {
	var candidates []model.AttentionListing
	for _, counts := range groupByListing(activity) {
		if counts.incoming <= lowResponseThreshold || counts.outgoing >= 1 {
			continue
		}
		candidates = append(candidates, model.AttentionListing{
			ListingID:     counts.listingID,
			ListingTitle:  listingTitleOrDefault(counts.listingTitle),
			Reason:        model.ReasonLowResponse,
			Details:       fmt.Sprintf("Low response rate: %d replies to %d messages", counts.outgoing, counts.incoming),
			IncomingCount: intPtr(counts.incoming),
			OutgoingCount: intPtr(counts.outgoing),
		})
	}
	return candidates
}

// noRecentActivityCandidates flags stalled conversations: one candidate per
// stale client that points at a listing. Candidate order follows the store's
// ordering (oldest activity first).
func noRecentActivityCandidates(clients []*model.Client) []model.AttentionListing {
	var candidates []model.AttentionListing
	for _, client := range clients {
		if client.ListingID == "" {
			continue
		}
		name := client.Name
		if name == "" {
			name = "Unknown"
		}
		candidates = append(candidates, model.AttentionListing{
			ListingID:    client.ListingID,
			ListingTitle: listingTitleOrDefault(client.ListingTitle),
			Reason:       model.ReasonNoRecentActivity,
			Details:      "No activity for more than 24h",
			ClientName:   name,
		})
	}
	return candidates
}

func listingTitleOrDefault(title string) string {
	if title == "" {
		return "Untitled listing"
	}
	return title
}

func intPtr(v int) *int {
	return &v
}
