package entity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullpen/internal/apperrors"
	"bullpen/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
}

func TestGetDecodesRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/Event/ev-1", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(models.Event{ID: "ev-1", Title: "Options 101", Status: "approved"})
	})

	var event models.Event
	err := client.Get(context.Background(), "Event", "ev-1", &event)
	require.NoError(t, err)
	assert.Equal(t, "Options 101", event.Title)
}

func TestGetMissingRecordIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	var event models.Event
	err := client.Get(context.Background(), "Event", "missing", &event)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFilterSendsQueryPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/EventTicket/query", r.URL.Path)

		var q Query
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		assert.Equal(t, "ev-1", q.Filter["event_id"])
		assert.Equal(t, "purchased_at", q.Sort)

		json.NewEncoder(w).Encode([]models.EventTicket{{ID: "tk-1", EventID: "ev-1"}})
	})

	var tickets []models.EventTicket
	err := client.Filter(context.Background(), "EventTicket", map[string]any{"event_id": "ev-1"}, "purchased_at", 0, &tickets)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "tk-1", tickets[0].ID)
}

func TestUpdateSendsPatch(t *testing.T) {
	var patched map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/Event/ev-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
		w.WriteHeader(http.StatusOK)
	})

	err := client.Update(context.Background(), "Event", "ev-1", map[string]any{"status": "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", patched["status"])
}

func TestServerErrorSurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.Update(context.Background(), "Event", "ev-1", map[string]any{"status": "cancelled"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBulkCreatePostsBatch(t *testing.T) {
	var received []models.RefundRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/RefundRequest/bulk", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	})

	batch := []models.RefundRequest{
		{RelatedEntityID: "tk-1", UserID: "u-1"},
		{RelatedEntityID: "tk-2", UserID: "u-2"},
	}
	err := client.BulkCreate(context.Background(), "RefundRequest", batch)
	require.NoError(t, err)
	assert.Len(t, received, 2)
}
