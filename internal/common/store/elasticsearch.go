package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/project-tktt/job-insight/internal/common/filter"
)

// Long free-text fields are analysed; everything else is a keyword so that
// wildcard and term queries see the raw value.
var textFields = map[string]bool{"positionDetail": true, "positionAdvantage": true}

// ElasticsearchStore keeps one record type in one index.
type ElasticsearchStore[T Record] struct {
	client *elasticsearch.Client
	schema Schema[T]
}

// NewElasticsearchClient creates a client and checks the cluster is reachable.
func NewElasticsearchClient(addresses []string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: addresses})
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("es error: %s", res.Status())
	}
	return client, nil
}

func NewElasticsearchStore[T Record](client *elasticsearch.Client, schema Schema[T]) *ElasticsearchStore[T] {
	return &ElasticsearchStore[T]{client: client, schema: schema}
}

// EnsureIndex creates the index with an explicit mapping if it is missing.
func (s *ElasticsearchStore[T]) EnsureIndex(ctx context.Context) error {
	res, err := s.client.Indices.Exists([]string{s.schema.Name}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	body, err := json.Marshal(map[string]any{"mappings": map[string]any{"properties": s.mapping()}})
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}

	res, err = s.client.Indices.Create(
		s.schema.Name,
		s.client.Indices.Create.WithBody(bytes.NewReader(body)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index error: %s", res.Status())
	}
	return nil
}

func (s *ElasticsearchStore[T]) mapping() map[string]any {
	props := make(map[string]any, len(s.schema.Fields))
	for _, f := range s.schema.Fields {
		switch {
		case s.schema.Numeric[f]:
			props[f] = map[string]any{"type": "long"}
		case textFields[f]:
			props[f] = map[string]any{"type": "text"}
		default:
			props[f] = map[string]any{"type": "keyword"}
		}
	}
	return props
}

func (s *ElasticsearchStore[T]) Query(ctx context.Context, p *filter.Predicate, page Page) ([]T, error) {
	body := map[string]any{"query": s.compile(p)}
	if page.Limit > 0 {
		body["size"] = page.Limit
	}
	if page.Offset > 0 {
		body["from"] = page.Offset
	}
	if s.schema.has(page.OrderBy) {
		order := "asc"
		if page.Desc {
			order = "desc"
		}
		body["sort"] = []any{map[string]any{page.OrderBy: map[string]any{"order": order}}}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.schema.Name),
		s.client.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search error: %s", errorReason(res))
	}

	var searchRes struct {
		Hits struct {
			Hits []struct {
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&searchRes); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	records := make([]T, 0, len(searchRes.Hits.Hits))
	for _, hit := range searchRes.Hits.Hits {
		r := s.schema.New()
		if err := json.Unmarshal(hit.Source, r); err != nil {
			slog.Warn("decode hit failed", slog.String("index", s.schema.Name), slog.Any("error", err))
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *ElasticsearchStore[T]) Count(ctx context.Context, p *filter.Predicate) (int64, error) {
	data, err := json.Marshal(map[string]any{"query": s.compile(p)})
	if err != nil {
		return 0, fmt.Errorf("marshal query: %w", err)
	}

	res, err := s.client.Count(
		s.client.Count.WithContext(ctx),
		s.client.Count.WithIndex(s.schema.Name),
		s.client.Count.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return 0, fmt.Errorf("count request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return 0, nil
	}
	if res.IsError() {
		return 0, fmt.Errorf("count error: %s", errorReason(res))
	}

	var countRes struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&countRes); err != nil {
		return 0, fmt.Errorf("parse count response: %w", err)
	}
	return countRes.Count, nil
}

// BulkIndex sends every record in a single _bulk request. Per-item failures
// are logged, not returned.
func (s *ElasticsearchStore[T]) BulkIndex(ctx context.Context, records []T) error {
	if len(records) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, r := range records {
		doc, err := json.Marshal(r)
		if err != nil {
			slog.Warn("marshal record failed", slog.String("id", key(r)), slog.Any("error", err))
			continue
		}
		meta, _ := json.Marshal(map[string]any{
			"index": map[string]any{"_index": s.schema.Name, "_id": key(r)},
		})
		buf.Write(meta)
		buf.WriteByte('\n')
		buf.Write(doc)
		buf.WriteByte('\n')
	}

	res, err := s.client.Bulk(bytes.NewReader(buf.Bytes()), s.client.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk error: %s", res.Status())
	}

	var bulkRes struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  struct {
					Type   string `json:"type"`
					Reason string `json:"reason"`
				} `json:"error"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkRes); err != nil {
		return fmt.Errorf("parse bulk response: %w", err)
	}

	if bulkRes.Errors {
		for _, item := range bulkRes.Items {
			if item.Index.Status >= 400 {
				slog.Warn("bulk index error",
					slog.String("id", item.Index.ID),
					slog.String("type", item.Index.Error.Type),
					slog.String("reason", item.Index.Error.Reason))
			}
		}
	}
	return nil
}

func (s *ElasticsearchStore[T]) compile(p *filter.Predicate) map[string]any {
	if p == nil {
		return map[string]any{"match_all": map[string]any{}}
	}
	switch p.Op {
	case filter.OpLike, filter.OpEq:
		if !s.schema.has(p.Field) {
			return map[string]any{"match_none": map[string]any{}}
		}
		if p.Op == filter.OpEq {
			return map[string]any{"term": map[string]any{p.Field: p.Value}}
		}
		return map[string]any{"wildcard": map[string]any{
			p.Field: map[string]any{"value": "*" + escapeWildcard(p.Value) + "*"},
		}}
	case filter.OpAnd:
		return map[string]any{"bool": map[string]any{"filter": s.compileAll(p.Terms)}}
	case filter.OpOr:
		return map[string]any{"bool": map[string]any{
			"should":               s.compileAll(p.Terms),
			"minimum_should_match": 1,
		}}
	}
	return map[string]any{"match_none": map[string]any{}}
}

func (s *ElasticsearchStore[T]) compileAll(terms []*filter.Predicate) []any {
	res := make([]any, len(terms))
	for i, t := range terms {
		res[i] = s.compile(t)
	}
	return res
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}

func errorReason(res *esapi.Response) string {
	data, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	if len(data) == 0 {
		return res.Status()
	}
	return res.Status() + ": " + string(data)
}
