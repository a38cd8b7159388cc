package web

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/project-tktt/job-insight/internal/common/filter"
	"github.com/project-tktt/job-insight/internal/common/store"
	"github.com/project-tktt/job-insight/internal/domain"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// keeps (page-1)*size far from overflow
	maxPage = 1_000_000
)

// RecordHandler pages through the raw listing and posting tables.
type RecordHandler struct {
	listings store.Store[*domain.Listing]
	postings store.Store[*domain.Posting]
}

func NewRecordHandler(listings store.Store[*domain.Listing], postings store.Store[*domain.Posting]) *RecordHandler {
	return &RecordHandler{listings: listings, postings: postings}
}

func (h *RecordHandler) PublicRoutes(server *gin.Engine) {
	server.GET("/api/v1/lagou-data", browse(h.listings, &domain.Listing{}, "createTime"))
	server.GET("/api/v1/job-data", browse(h.postings, &domain.Posting{}, "id"))
}

// browse serves ?page=&size=&filter=field:value,...&key= over s, newest
// first by orderBy.
func browse[T store.Record](s store.Store[T], target filter.Target, orderBy string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		page := min(queryInt(ctx, "page", 1), maxPage)
		size := min(queryInt(ctx, "size", defaultPageSize), maxPageSize)
		p := filter.Generic(target, ctx.Query("filter"), ctx.Query("key"))

		rc := ctx.Request.Context()
		total, err := s.Count(rc, p)
		if err != nil {
			slog.Error("count records failed", slog.String("filter", p.String()), slog.Any("error", err))
			ctx.JSON(http.StatusOK, failure("Failed to load data"))
			return
		}
		records, err := s.Query(rc, p, store.Page{
			Limit:   size,
			Offset:  (page - 1) * size,
			OrderBy: orderBy,
			Desc:    true,
		})
		if err != nil {
			slog.Error("query records failed", slog.String("filter", p.String()), slog.Any("error", err))
			ctx.JSON(http.StatusOK, failure("Failed to load data"))
			return
		}
		ctx.JSON(http.StatusOK, success(newPage(records, page, size, total)))
	}
}
