package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/job-insight/internal/common/filter"
	"github.com/project-tktt/job-insight/internal/domain"
)

func TestElasticsearchCompile(t *testing.T) {
	s := NewElasticsearchStore[*domain.Listing](nil, ListingSchema("lagou"))

	got, err := json.Marshal(s.compile(filter.And(
		filter.Eq("workYear", "3-5年"),
		filter.Or(filter.Like("city", "成*都"), filter.Eq("nope", "x")),
	)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"bool":{"filter":[
		{"term":{"workYear":"3-5年"}},
		{"bool":{"minimum_should_match":1,"should":[
			{"wildcard":{"city":{"value":"*成\\*都*"}}},
			{"match_none":{}}
		]}}
	]}}`, string(got))

	got, err = json.Marshal(s.compile(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"match_all":{}}`, string(got))
}

func TestElasticsearchMapping(t *testing.T) {
	s := NewElasticsearchStore[*domain.Listing](nil, ListingSchema("lagou"))
	m := s.mapping()

	assert.Equal(t, map[string]any{"type": "long"}, m["id"])
	assert.Equal(t, map[string]any{"type": "text"}, m["positionDetail"])
	assert.Equal(t, map[string]any{"type": "keyword"}, m["city"])
}

func newFakeES(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return client
}

func TestElasticsearchQuery(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		_, _ = io.WriteString(w, `{"hits":{"hits":[
			{"_source":{"id":7,"city":"成都","salary":"10k-20k"}},
			{"_source":{"id":8,"city":"成都市"}}
		]}}`)
	})

	s := NewElasticsearchStore(client, ListingSchema("lagou"))
	got, err := s.Query(context.Background(), filter.Like("city", "成都"), Page{Limit: 5000, OrderBy: "createTime", Desc: true})
	require.NoError(t, err)

	assert.Equal(t, "/lagou/_search", gotPath)
	assert.Equal(t, float64(5000), gotBody["size"])
	assert.Equal(t, []any{map[string]any{"createTime": map[string]any{"order": "desc"}}}, gotBody["sort"])
	require.Len(t, got, 2)
	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, "10k-20k", got[0].Salary)
	assert.Equal(t, "成都市", got[1].City)
}

func TestElasticsearchQueryError(t *testing.T) {
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})

	s := NewElasticsearchStore(client, ListingSchema("lagou"))
	_, err := s.Query(context.Background(), nil, Page{})
	assert.ErrorContains(t, err, "search error")
}

func TestElasticsearchCount(t *testing.T) {
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"count":42}`)
	})

	s := NewElasticsearchStore(client, PostingSchema("job"))
	n, err := s.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestElasticsearchBulkIndex(t *testing.T) {
	var lines int
	client := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		for _, b := range data {
			if b == '\n' {
				lines++
			}
		}
		_, _ = io.WriteString(w, `{"errors":false,"items":[]}`)
	})

	s := NewElasticsearchStore(client, PostingSchema("job"))
	err := s.BulkIndex(context.Background(), []*domain.Posting{{ID: 1}, {ID: 2}})
	require.NoError(t, err)
	assert.Equal(t, 4, lines)
}
