package cmssdk

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New("", "")
	assert.ErrorIs(t, err, ErrNoServerURL)

	sdk, err := New("http://localhost:8080", "tok")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", sdk.BaseURL())
	assert.NotNil(t, sdk.Content)
}

func newTestSDK(t *testing.T, handler http.Handler) *SDK {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sdk, err := New(srv.URL, "test-token")
	require.NoError(t, err)
	return sdk
}

func TestContentListAll(t *testing.T) {
	var gotAuth, gotUA string
	sdk := newTestSDK(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		require.Equal(t, "/api/v1/content/page", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ListResponse{Items: []*Item{
			{ID: "itm_1", Type: "page", Slug: "about", Body: "# About\n"},
			{ID: "itm_2", Type: "page", Slug: "contact", Body: "# Contact\n"},
		}})
	}))

	items, err := sdk.Content.ListAll(t.Context(), "page")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "itm_1", items[0].ID)
	assert.Equal(t, "about", items[0].Slug)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Contains(t, gotUA, "SyncPress/")
}

func TestContentFetchNotFound(t *testing.T) {
	sdk := newTestSDK(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(APIError{Code: CodeContentNotFound, Message: "no such item"})
	}))

	_, err := sdk.Content.Fetch(t.Context(), "page", "itm_missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestContentCreate(t *testing.T) {
	sdk := newTestSDK(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/content/post", r.URL.Path)

		var payload ItemPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Empty(t, payload.ID)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Item{
			ID:   "itm_99",
			Type: payload.Type,
			Slug: payload.Slug,
			Body: payload.Body,
		})
	}))

	item, err := sdk.Content.Create(t.Context(), &ItemPayload{Type: "post", Slug: "hello", Body: "hi\n"})
	require.NoError(t, err)
	assert.Equal(t, "itm_99", item.ID)
	assert.Equal(t, "hello", item.Slug)
}

func TestContentUpdate(t *testing.T) {
	sdk := newTestSDK(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/v1/content/page/itm_1", r.URL.Path)

		var payload ItemPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Item{ID: "itm_1", Type: payload.Type, Slug: payload.Slug, Body: payload.Body})
	}))

	item, err := sdk.Content.Update(t.Context(), "itm_1", &ItemPayload{ID: "itm_1", Type: "page", Slug: "about", Body: "v2\n"})
	require.NoError(t, err)
	assert.Equal(t, "v2\n", item.Body)
}

func TestContentServerError(t *testing.T) {
	sdk := newTestSDK(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(APIError{Code: CodeAccessDenied, Message: "bad token"})
	}))

	_, err := sdk.Content.ListAll(t.Context(), "page")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CodeAccessDenied, apiErr.Code)
	assert.Contains(t, apiErr.Message, "bad token")
}
