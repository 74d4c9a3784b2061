package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchSendsClientIDHeader(t *testing.T) {
	var gotHeader, gotQuery, gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-MAL-Client-ID")
		gotQuery = r.URL.Query().Get("q")
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"data":[{"node":{"id":13,"title":"One Piece"}},{"node":{"id":11,"title":"Naruto"}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-client-id")
	summaries, err := client.Search(context.Background(), "naruto", 15)

	require.NoError(t, err)
	assert.Equal(t, "test-client-id", gotHeader)
	assert.Equal(t, "naruto", gotQuery)
	assert.Equal(t, "15", gotLimit)

	require.Len(t, summaries, 2)
	assert.Equal(t, Summary{ExternalID: "13", Title: "One Piece"}, summaries[0])
	for _, s := range summaries {
		assert.NotEmpty(t, s.Title)
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	client := NewClient("http://unused", "id")
	_, err := client.Search(context.Background(), "   ", 10)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearchDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "id")
	_, err := client.Search(context.Background(), "naruto", 10)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "id")
	_, err := client.Search(context.Background(), "naruto", 10)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestFetchDetailNormalizes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/13", r.URL.Path)
		assert.NotEmpty(t, r.URL.Query().Get("fields"))
		w.Write([]byte(`{
			"id": 13,
			"title": "One Piece",
			"main_picture": {"medium": "https://img.example/m.jpg", "large": "https://img.example/l.jpg"},
			"genres": [{"id": 1, "name": "Action"}, {"id": 2, "name": "Adventure"}],
			"authors": [{"node": {"id": 7, "first_name": "Eiichiro", "last_name": "Oda"}, "role": "Story & Art"}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "id")
	detail, err := client.FetchDetail(context.Background(), "13")

	require.NoError(t, err)
	assert.Equal(t, "13", detail.ExternalID)
	assert.Equal(t, "One Piece", detail.Title)
	assert.Equal(t, []string{"Eiichiro Oda"}, detail.Authors)
	assert.Equal(t, []string{"Action", "Adventure"}, detail.Genres)
	assert.Equal(t, "https://img.example/l.jpg", detail.CoverImageURL)
}

func TestFetchDetailNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "id")
	_, err := client.FetchDetail(context.Background(), "99999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchDetailNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL, "id")
	_, err := client.FetchDetail(context.Background(), "13")
	assert.ErrorIs(t, err, ErrNetwork)
}
