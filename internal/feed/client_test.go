package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emergency-alert-service/internal/logging"
)

func TestFetchNewAlerts_ReversesToOldestFirst(t *testing.T) {
	// The feed returns most-recent-first; the client must hand the pipeline
	// chronological order.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"IpawsArchivedAlerts": [
			{"id": "C", "messageText": "third", "severity": "Severe"},
			{"id": "B", "messageText": "second", "severity": "Minor"},
			{"id": "A", "messageText": "first", "severity": "Extreme"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10, logging.NewNop())
	alerts := c.FetchNewAlerts(context.Background())

	require.Len(t, alerts, 3)
	assert.Equal(t, "A", alerts[0].ID)
	assert.Equal(t, "B", alerts[1].ID)
	assert.Equal(t, "C", alerts[2].ID)
	assert.Equal(t, "first", alerts[0].Message)
}

func TestFetchNewAlerts_RequestsBoundedFilteredWindow(t *testing.T) {
	var gotTop, gotFilter string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTop = r.URL.Query().Get("$top")
		gotFilter = r.URL.Query().Get("$filter")
		w.Write([]byte(`{"IpawsArchivedAlerts": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 25, logging.NewNop())
	c.FetchNewAlerts(context.Background())

	assert.Equal(t, "25", gotTop)
	assert.Equal(t, "messageText ne null", gotFilter)
}

func TestFetchNewAlerts_DropsIncompleteRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"IpawsArchivedAlerts": [
			{"id": "ok", "messageText": "valid"},
			{"id": "", "messageText": "no id"},
			{"id": "no-message", "messageText": ""},
			{"messageText": "missing id field"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10, logging.NewNop())
	alerts := c.FetchNewAlerts(context.Background())

	require.Len(t, alerts, 1)
	assert.Equal(t, "ok", alerts[0].ID)
}

func TestFetchNewAlerts_DefaultsMissingSeverity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"IpawsArchivedAlerts": [{"id": "A", "messageText": "msg"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10, logging.NewNop())
	alerts := c.FetchNewAlerts(context.Background())

	require.Len(t, alerts, 1)
	assert.Equal(t, "Unknown", alerts[0].Severity)
}

func TestFetchNewAlerts_ServerErrorYieldsEmptyBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10, logging.NewNop())
	assert.Empty(t, c.FetchNewAlerts(context.Background()))
}

func TestFetchNewAlerts_MalformedBodyYieldsEmptyBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"IpawsArchivedAlerts": "not a list"`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 10, logging.NewNop())
	assert.Empty(t, c.FetchNewAlerts(context.Background()))
}

func TestFetchNewAlerts_UnreachableFeedYieldsEmptyBatch(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 10, logging.NewNop())
	assert.Empty(t, c.FetchNewAlerts(context.Background()))
}
