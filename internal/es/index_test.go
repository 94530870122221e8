package es

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method string
	Path   string
	Body   string
}

func newFakeCluster(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*ProductIndex, *[]recorded) {
	t.Helper()

	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewProductIndex(client, "products"), &reqs
}

func TestProductIndex_IndexAndDelete(t *testing.T) {
	t.Parallel()

	idx, reqs := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	p := &models.Product{ID: uuid.New(), Title: "Runner", Price: decimal.NewFromInt(99)}
	require.NoError(t, idx.IndexProduct(context.Background(), p))
	require.NoError(t, idx.DeleteProduct(context.Background(), p.ID.String()))

	require.Len(t, *reqs, 2)
	assert.Equal(t, "/products/_doc/"+p.ID.String(), (*reqs)[0].Path)
	assert.Contains(t, (*reqs)[0].Body, `"title":"Runner"`)
	assert.Equal(t, http.MethodDelete, (*reqs)[1].Method)
}

func TestProductIndex_Search(t *testing.T) {
	t.Parallel()

	hit := models.Product{ID: uuid.New(), Title: "Trail shoe", Brand: "nike"}
	idx, reqs := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"hits": map[string]any{
				"total": map[string]any{"value": 1},
				"hits":  []any{map[string]any{"_source": hit}},
			},
		})
	})

	got, err := idx.Search(context.Background(), "trail", 0, 8)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, hit.ID, got[0].ID)
	assert.Equal(t, "Trail shoe", got[0].Title)

	require.Len(t, *reqs, 1)
	assert.Equal(t, "/products/_search", (*reqs)[0].Path)
	assert.Contains(t, (*reqs)[0].Body, `"title^2"`)
	assert.Contains(t, (*reqs)[0].Body, `"multi_match"`)
}

func TestProductIndex_SearchClusterError(t *testing.T) {
	t.Parallel()

	idx, _ := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})

	_, err := idx.Search(context.Background(), "x", 0, 8)
	assert.Error(t, err)
}
