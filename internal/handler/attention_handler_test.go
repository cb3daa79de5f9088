package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgram-backend/internal/config"
	"leadgram-backend/internal/middleware"
	"leadgram-backend/internal/model"
	"leadgram-backend/internal/service"
)

type stubAttentionStore struct {
	activity []model.MessageActivity
	stale    []*model.Client
}

func (s *stubAttentionStore) MessageActivitySince(context.Context, string, time.Time) ([]model.MessageActivity, error) {
	return s.activity, nil
}

func (s *stubAttentionStore) StaleClients(context.Context, string, time.Time) ([]*model.Client, error) {
	return s.stale, nil
}

// newAttentionRouter wires the handler behind the auth middleware in
// development mode, where requests without credentials resolve to the mock
// user.
func newAttentionRouter(store service.AttentionStore) http.Handler {
	h := NewAttentionHandler(service.NewAttentionService(store))

	mw := middleware.NewMiddleware(&config.Config{Environment: "development"})

	r := mux.NewRouter()
	r.HandleFunc("/api/attention/listings", h.GetListings).Methods(http.MethodGet)
	r.HandleFunc("/api/attention/summary", h.GetSummary).Methods(http.MethodGet)
	return mw.AuthMiddleware(r)
}

func TestAttentionListingsEndpoint(t *testing.T) {
	store := &stubAttentionStore{
		stale: []*model.Client{
			{ID: "c1", Name: "Anna", ListingID: "l1", ListingTitle: "Bike"},
		},
	}
	router := newAttentionRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/attention/listings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var listings []model.AttentionListing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listings))
	require.Len(t, listings, 1)
	assert.Equal(t, model.ReasonNoRecentActivity, listings[0].Reason)
	assert.Equal(t, "Anna", listings[0].ClientName)
}

func TestAttentionListingsEmptyIsArray(t *testing.T) {
	router := newAttentionRouter(&stubAttentionStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/attention/listings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestAttentionSummaryEmpty(t *testing.T) {
	router := newAttentionRouter(&stubAttentionStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/attention/summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_listings":0,"reasons":{},"top_listing":null}`, rec.Body.String())
}
