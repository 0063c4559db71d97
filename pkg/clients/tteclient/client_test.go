package tteclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoginStoresSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/session", r.URL.Path)
		assert.Equal(t, "key-1", r.URL.Query().Get("api_key_id"))
		assert.Equal(t, "organizer", r.URL.Query().Get("username"))
		fmt.Fprint(w, `{"result":{"id":"sess-abc"}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, zap.NewNop())
	err := client.Login(context.Background(), "key-1", "organizer", "hunter2")

	require.NoError(t, err)
	assert.Equal(t, "sess-abc", client.SessionID())
}

func TestLoginSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":{"code":441,"message":"Password is incorrect."}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, zap.NewNop())
	err := client.Login(context.Background(), "key-1", "organizer", "wrong")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Password is incorrect.")
	assert.Empty(t, client.SessionID())
}

func TestDrainCollectsEveryPage(t *testing.T) {
	pages := map[string]string{
		"1": `{"result":{"items":[{"id":"r1","name":"Hall A"},{"id":"r2","name":"Hall B"}],"paging":{"total_pages":3,"page_number":1,"next_page_number":2}}}`,
		"2": `{"result":{"items":[{"id":"r3","name":"Hall C"}],"paging":{"total_pages":3,"page_number":2,"next_page_number":3}}}`,
		"3": `{"result":{"items":[{"id":"r4","name":"Hall D"}],"paging":{"total_pages":3,"page_number":3,"next_page_number":0}}}`,
	}
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("_page_number")
		requested = append(requested, page)
		fmt.Fprint(w, pages[page])
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, zap.NewNop())
	rooms, err := client.Rooms(context.Background(), "con-1")

	require.NoError(t, err)
	require.Len(t, rooms, 4)
	assert.Equal(t, []string{"1", "2", "3"}, requested)
	assert.Equal(t, "Hall A", rooms[0].Name)
	assert.Equal(t, "Hall D", rooms[3].Name)
}

func TestDrainFailsOnPartialFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("_page_number") == "1" {
			fmt.Fprint(w, `{"result":{"items":[{"id":"r1","name":"Hall A"}],"paging":{"total_pages":2,"page_number":1,"next_page_number":2}}}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, zap.NewNop())
	rooms, err := client.Rooms(context.Background(), "con-1")

	require.Error(t, err)
	assert.Nil(t, rooms)
	assert.Contains(t, err.Error(), "page 2")
}

func TestCallRetriesOnceOnServerError(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"result":{"id":"slot-1","event_id":"evt-1","is_assigned":1}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, zap.NewNop())
	err := client.ReserveSlot(context.Background(), "slot-1", "evt-1")

	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestCallGivesUpAfterSecondFailure(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, zap.NewNop())
	err := client.ReserveSlot(context.Background(), "slot-1", "evt-1")

	require.Error(t, err)
	assert.Equal(t, 2, hits)
}

func TestFindUserPrefersExactEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sam@example.com", r.URL.Query().Get("query"))
		fmt.Fprint(w, `{"result":{"items":[`+
			`{"id":"u1","real_name":"Sam Other","email_address":"sam.other@example.com"},`+
			`{"id":"u2","real_name":"Sam","email_address":"sam@example.com"}`+
			`],"paging":{"total_pages":1,"page_number":1,"next_page_number":0}}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, zap.NewNop())
	user, err := client.FindUser(context.Background(), "sam@example.com")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u2", user.ID)
}

func TestFindUserMissReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":{"items":[],"paging":{"total_pages":1,"page_number":1,"next_page_number":0}}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, zap.NewNop())
	user, err := client.FindUser(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestCallsCarrySessionID(t *testing.T) {
	var sessionParam string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/session" {
			fmt.Fprint(w, `{"result":{"id":"sess-xyz"}}`)
			return
		}
		sessionParam = r.URL.Query().Get("session_id")
		fmt.Fprint(w, `{"result":{"items":[],"paging":{"total_pages":1,"page_number":1,"next_page_number":0}}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, zap.NewNop())
	require.NoError(t, client.Login(context.Background(), "k", "u", "p"))

	_, err := client.Rooms(context.Background(), "con-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-xyz", sessionParam)
}
