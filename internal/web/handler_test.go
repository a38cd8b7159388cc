package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/job-insight/internal/analysis"
	"github.com/project-tktt/job-insight/internal/common/filter"
	"github.com/project-tktt/job-insight/internal/common/geo"
	"github.com/project-tktt/job-insight/internal/common/store"
	"github.com/project-tktt/job-insight/internal/domain"
)

type testResult[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) testResult[T] {
	t.Helper()
	var res testResult[T]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	return res
}

type failingSource struct{}

func (failingSource) Query(context.Context, *filter.Predicate, store.Page) ([]*domain.Listing, error) {
	return nil, errors.New("connection refused")
}

type echoChat struct{}

func (echoChat) Converse(_ context.Context, message string) string {
	return "echo: " + message
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, source analysis.ListingSource) (*gin.Engine, *store.MemoryStore[*domain.Listing], *store.MemoryStore[*domain.Posting]) {
	t.Helper()
	resolver, err := geo.NewResolver()
	require.NoError(t, err)

	listings := store.NewMemoryStore(store.ListingSchema("lagou_data"))
	postings := store.NewMemoryStore(store.PostingSchema("job_data"))
	if source == nil {
		source = listings
	}
	engine := analysis.NewEngine(source, filter.NewBuilder(resolver), resolver)

	server := NewServer(ServerConfig{
		AllowOrigins: []string{"http://localhost"},
		Registry:     prometheus.NewRegistry(),
	},
		NewAnalysisHandler(engine),
		NewMarketHandler(engine),
		NewIntelligenceHandler(engine, echoChat{}),
		NewRecordHandler(listings, postings),
	)
	return server, listings, postings
}

func serve(server *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder
}

func TestAnalysisMatrix(t *testing.T) {
	server, listings, _ := newTestServer(t, nil)
	require.NoError(t, listings.BulkIndex(context.Background(), []*domain.Listing{
		{ID: 1, City: "北京", IndustryField: "移动互联网", WorkYear: "3-5年", Salary: "20k-30k"},
		{ID: 2, City: "北京", IndustryField: "移动互联网", WorkYear: "3-5年", Salary: "10k-20k"},
		{ID: 3, City: "上海", IndustryField: "金融", WorkYear: "1-3年", Salary: "10k-12k"},
	}))

	recorder := serve(server, http.MethodGet, "/api/v1/analysis/matrix?city="+url.QueryEscape("北京"), "")
	require.Equal(t, http.StatusOK, recorder.Code)

	res := decode[[]domain.MatrixCell](t, recorder)
	assert.Equal(t, 200, res.Code)
	assert.Equal(t, "success", res.Msg)
	assert.Equal(t, []domain.MatrixCell{
		{Industry: "移动互联网", WorkYear: "3-5年", AvgSalary: 20, Count: 2},
	}, res.Data)
}

func TestChartFailure(t *testing.T) {
	server, _, _ := newTestServer(t, failingSource{})

	testCases := []struct {
		path    string
		wantMsg string
	}{
		{path: "/api/v1/analysis/network", wantMsg: "Error generating analysis data"},
		{path: "/api/v1/intelligence/salary-dist", wantMsg: "Failed to load salary data"},
		{path: "/api/v1/market/heat", wantMsg: "Failed to load heat map data"},
		{path: "/api/v1/market/radar", wantMsg: "Failed to load radar data"},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			recorder := serve(server, http.MethodGet, tc.path, "")
			require.Equal(t, http.StatusOK, recorder.Code)
			res := decode[any](t, recorder)
			assert.Equal(t, 500, res.Code)
			assert.Equal(t, tc.wantMsg, res.Msg)
			assert.Nil(t, res.Data)
		})
	}
}

func TestEmptySampleCharts(t *testing.T) {
	server, _, _ := newTestServer(t, nil)

	for _, path := range []string{
		"/api/v1/analysis/wordcloud",
		"/api/v1/analysis/scatter",
		"/api/v1/market/tech",
		"/api/v1/market/finance",
		"/api/v1/market/salary-trend",
		"/api/v1/intelligence/market-hierarchy",
	} {
		recorder := serve(server, http.MethodGet, path, "")
		res := decode[[]any](t, recorder)
		assert.Equal(t, 200, res.Code, path)
		assert.Empty(t, res.Data, path)
	}
}

func TestChat(t *testing.T) {
	server, _, _ := newTestServer(t, nil)

	recorder := serve(server, http.MethodPost, "/api/v1/intelligence/chat", `{"message":"Go 前景如何"}`)
	res := decode[string](t, recorder)
	assert.Equal(t, 200, res.Code)
	assert.Equal(t, "echo: Go 前景如何", res.Data)

	recorder = serve(server, http.MethodPost, "/api/v1/intelligence/chat", `{"message":`)
	res = decode[string](t, recorder)
	assert.Equal(t, 500, res.Code)
	assert.Equal(t, "AI Service Unavailable", res.Msg)
}

func TestRecordPaging(t *testing.T) {
	server, listings, postings := newTestServer(t, nil)
	ctx := context.Background()

	var batch []*domain.Posting
	for i := 1; i <= 15; i++ {
		batch = append(batch, &domain.Posting{ID: int64(i), PositionName: "岗位" + strconv.Itoa(i)})
	}
	require.NoError(t, postings.BulkIndex(ctx, batch))
	require.NoError(t, listings.BulkIndex(ctx, []*domain.Listing{
		{ID: 1, City: "北京", PositionName: "Go 开发", CreateTime: "2020-07-01 10:00:00"},
		{ID: 2, City: "上海", PositionName: "Java 开发", CreateTime: "2020-07-03 10:00:00"},
		{ID: 3, City: "北京", PositionName: "Java 架构师", CreateTime: "2020-07-02 10:00:00"},
	}))

	t.Run("second page", func(t *testing.T) {
		recorder := serve(server, http.MethodGet, "/api/v1/job-data?page=2&size=10", "")
		res := decode[Page[domain.Posting]](t, recorder)
		require.Equal(t, 200, res.Code)
		assert.Equal(t, 2, res.Data.CurrentPage)
		assert.Equal(t, 2, res.Data.TotalPages)
		assert.Equal(t, int64(15), res.Data.TotalElements)
		require.Len(t, res.Data.Content, 5)
		assert.Equal(t, int64(5), res.Data.Content[0].ID)
	})

	t.Run("newest first", func(t *testing.T) {
		recorder := serve(server, http.MethodGet, "/api/v1/lagou-data", "")
		res := decode[Page[domain.Listing]](t, recorder)
		require.Len(t, res.Data.Content, 3)
		assert.Equal(t, []int64{2, 3, 1}, []int64{
			res.Data.Content[0].ID, res.Data.Content[1].ID, res.Data.Content[2].ID,
		})
		assert.Equal(t, 10, res.Data.PageSize)
	})

	t.Run("filter and key", func(t *testing.T) {
		recorder := serve(server, http.MethodGet, "/api/v1/lagou-data?filter="+url.QueryEscape("city:北京,unknown:x")+"&key=Java", "")
		res := decode[Page[domain.Listing]](t, recorder)
		require.Len(t, res.Data.Content, 1)
		assert.Equal(t, int64(3), res.Data.Content[0].ID)
		assert.Equal(t, int64(1), res.Data.TotalElements)
	})

	t.Run("huge page number", func(t *testing.T) {
		recorder := serve(server, http.MethodGet, "/api/v1/job-data?page=9223372036854775807&size=100", "")
		res := decode[Page[domain.Posting]](t, recorder)
		assert.Equal(t, 200, res.Code)
		assert.Equal(t, maxPage, res.Data.CurrentPage)
		assert.Empty(t, res.Data.Content)
	})

	t.Run("page past the end", func(t *testing.T) {
		recorder := serve(server, http.MethodGet, "/api/v1/job-data?page=9", "")
		res := decode[Page[domain.Posting]](t, recorder)
		assert.Equal(t, 200, res.Code)
		assert.Empty(t, res.Data.Content)
		assert.NotNil(t, res.Data.Content)
	})
}

func TestBindSearch(t *testing.T) {
	testCases := []struct {
		name  string
		query string
		want  domain.SearchRequest
	}{
		{
			name:  "repeated salary range",
			query: "city=" + url.QueryEscape("成都") + "&salaryRange=10&salaryRange=30",
			want:  domain.SearchRequest{City: "成都", SalaryRange: []int{10, 30}},
		},
		{
			name:  "comma separated salary range",
			query: "workYear=" + url.QueryEscape("3-5年") + "&salaryRange=10,30",
			want:  domain.SearchRequest{WorkYear: "3-5年", SalaryRange: []int{10, 30}},
		},
		{
			name:  "bracket form and junk",
			query: "salaryRange%5B%5D=5&salaryRange%5B%5D=abc&key=+Go+",
			want:  domain.SearchRequest{Key: "Go", SalaryRange: []int{5}},
		},
		{
			name:  "nothing",
			query: "",
			want:  domain.SearchRequest{},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
			ctx.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
			assert.Equal(t, tc.want, bindSearch(ctx))
		})
	}
}

func TestServerAmbientRoutes(t *testing.T) {
	server, _, _ := newTestServer(t, nil)

	recorder := serve(server, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ok", recorder.Body.String())

	recorder = serve(server, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `http_requests_total{method="GET",path="/healthz",status_code="200"} 1`)
}

func TestCORS(t *testing.T) {
	server, _, _ := newTestServer(t, nil)

	testCases := []struct {
		origin string
		want   string
	}{
		{origin: "http://localhost:5173", want: "http://localhost:5173"},
		{origin: "http://localhost", want: "http://localhost"},
		{origin: "https://evil.example.com", want: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set("Origin", tc.origin)
			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)
			assert.Equal(t, tc.want, recorder.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestNewPage(t *testing.T) {
	p := newPage[int](nil, 1, 10, 21)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, []int{}, p.Content)
}
