package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClient(ts *httptest.Server, encoder FieldEncoder) *Client {
	return NewClient("test-key", "loc1", ts.URL, encoder)
}

func TestLookupContactPluralShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts/lookup", r.URL.Path)
		assert.Equal(t, "a@x.com", r.URL.Query().Get("email"))
		assert.Equal(t, "loc1", r.URL.Query().Get("locationId"))

		json.NewEncoder(w).Encode(map[string]any{
			"contacts": []map[string]any{{"id": "c1", "email": "a@x.com"}},
		})
	}))
	defer ts.Close()

	contact, err := newTestClient(ts, FlatMapEncoder{}).LookupContactByEmail(context.Background(), "a@x.com")
	assert.NoError(t, err)
	assert.Equal(t, "c1", contact.ID)
}

func TestLookupContactSingularShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"contact": map[string]any{"id": "c2", "email": "a@x.com"},
		})
	}))
	defer ts.Close()

	contact, err := newTestClient(ts, FlatMapEncoder{}).LookupContactByEmail(context.Background(), "a@x.com")
	assert.NoError(t, err)
	assert.Equal(t, "c2", contact.ID)
}

func TestLookupContactNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	contact, err := newTestClient(ts, FlatMapEncoder{}).LookupContactByEmail(context.Background(), "nobody@x.com")
	assert.NoError(t, err)
	assert.Nil(t, contact)
}

func TestUpsertContactCreatesWithoutID(t *testing.T) {
	var payload map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contacts", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(map[string]any{
			"contact": map[string]any{"id": "new1", "email": "a@x.com"},
		})
	}))
	defer ts.Close()

	contact, err := newTestClient(ts, FlatMapEncoder{}).UpsertContact(context.Background(), ContactPayload{
		Email:          "a@x.com",
		AssignedUserID: "crm-OP5",
		CustomFields:   map[string]string{"legacy_code_id": "X25-OP1005"},
		Tags:           []string{"screening_complete"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "new1", contact.ID)

	assert.Equal(t, "a@x.com", payload["email"])
	assert.Equal(t, "loc1", payload["locationId"])
	assert.Equal(t, "crm-OP5", payload["assignedUserId"])
	assert.Equal(t, []any{"screening_complete"}, payload["tags"])
	assert.Equal(t, map[string]any{"legacy_code_id": "X25-OP1005"}, payload["customField"])
}

func TestUpsertContactUpdatesWithID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/contacts/c1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"id": "c1", "email": "a@x.com"})
	}))
	defer ts.Close()

	contact, err := newTestClient(ts, FlatMapEncoder{}).UpsertContact(context.Background(), ContactPayload{
		ContactID: "c1",
		Email:     "a@x.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, "c1", contact.ID)
}

func TestUpsertContactUsesConfiguredEncoding(t *testing.T) {
	var payload map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(map[string]any{"id": "c1"})
	}))
	defer ts.Close()

	_, err := newTestClient(ts, KeyValueListEncoder{}).UpsertContact(context.Background(), ContactPayload{
		Email:        "a@x.com",
		CustomFields: map[string]string{"q1": "a", "q2": "b"},
	})
	assert.NoError(t, err)

	assert.Equal(t, []any{
		map[string]any{"id": "q1", "value": "a"},
		map[string]any{"id": "q2", "value": "b"},
	}, payload["customField"])
}

func TestUpsertContactFailureIsSyncError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"msg":"invalid api key"}`))
	}))
	defer ts.Close()

	_, err := newTestClient(ts, FlatMapEncoder{}).UpsertContact(context.Background(), ContactPayload{Email: "a@x.com"})
	assert.Error(t, err)

	var syncErr *SyncError
	assert.ErrorAs(t, err, &syncErr)
	assert.Equal(t, http.StatusUnauthorized, syncErr.StatusCode)
	assert.Contains(t, syncErr.Detail, "invalid api key")
}

func TestSetTags(t *testing.T) {
	var payload map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/contacts/c1", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	err := newTestClient(ts, FlatMapEncoder{}).SetTags(context.Background(), "c1", []string{"a", "b"})
	assert.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, payload["tags"])
}
