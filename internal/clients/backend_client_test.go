package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ptd/internal/structures"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *BackendClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	conf := &structures.Config{}
	conf.Backend.BaseURL = server.URL
	conf.Backend.APIKey = "secret-key"
	conf.Backend.Timeout = 2 * time.Second
	return NewBackendClient(conf).(*BackendClient)
}

func TestFetchActiveTimers_DecodesRecords(t *testing.T) {
	var gotPath, gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"t1","sale_id":"s1","service_id":"svc","status":"active","time_left_seconds":300},
			{"id":"t2","sale_id":"s2","service_id":"svc","status":"active","time_left_seconds":"600"}
		]`))
	})

	records, err := client.FetchActiveTimers(context.Background(), "branch-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "/branches/branch-1/timers", gotPath)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "t1", records[0].ID)

	// numeric and string time_left both survive the wire
	timer := records[1].ToTimer(time.Now())
	assert.Equal(t, 600, timer.TimeLeftSeconds)
}

func TestFetchActiveTimers_EmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	records, err := client.FetchActiveTimers(context.Background(), "branch-1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPollTimerUpdates_Path(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.PollTimerUpdates(context.Background(), "branch-1")
	require.NoError(t, err)
	assert.Equal(t, "/branches/branch-1/timers/updates", gotPath)
}

func TestPollAlertTriggers_DecodesTriggers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/branches/branch-1/alerts/pending", r.URL.Path)
		_, _ = w.Write([]byte(`[{"timer_id":"t1","threshold_minutes":5,"sound":{"enabled":true,"loop":false}}]`))
	})

	triggers, err := client.PollAlertTriggers(context.Background(), "branch-1")
	require.NoError(t, err)
	require.Len(t, triggers, 1)
	assert.Equal(t, "t1", triggers[0].TimerID)
	assert.Equal(t, 5, triggers[0].ThresholdMinutes)
	assert.True(t, triggers[0].Sound.Enabled)
}

func TestSubmitExtension_SendsMinutes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/sales/s1/timers/t1/extend", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, 15, payload["minutes"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"t1","sale_id":"s1","status":"extended","time_left_seconds":1200}`))
	})

	rec, err := client.SubmitExtension(context.Background(), "s1", "t1", 15)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "extended", rec.Status)
}

func TestSubmitExtension_EmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec, err := client.SubmitExtension(context.Background(), "s1", "t1", 15)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestAcknowledgeAlert_Path(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.AcknowledgeAlert(context.Background(), "t1", 5))
	assert.Equal(t, "/timers/t1/alerts/5/ack", gotPath)
}

func TestMakeRequest_Non2xxIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusInternalServerError)
	})

	_, err := client.FetchActiveTimers(context.Background(), "branch-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "backend exploded")
}

func TestMakeRequest_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchActiveTimers(ctx, "branch-1")
	require.Error(t, err)
}

func TestNewBackendClient_DefaultTimeout(t *testing.T) {
	conf := &structures.Config{}
	conf.Backend.BaseURL = "http://localhost:1"
	client := NewBackendClient(conf).(*BackendClient)
	assert.Equal(t, defaultTimeout, client.client.Timeout)
}
