package web

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/project-tktt/job-insight/internal/domain"
)

// bindSearch reads the shared chart filters from the query string.
// salaryRange may be repeated (salaryRange=10&salaryRange=30) or given once
// as "10,30". Values that are not integers are dropped.
func bindSearch(ctx *gin.Context) domain.SearchRequest {
	req := domain.SearchRequest{
		City:         strings.TrimSpace(ctx.Query("city")),
		Industry:     strings.TrimSpace(ctx.Query("industry")),
		FinanceStage: strings.TrimSpace(ctx.Query("financeStage")),
		WorkYear:     strings.TrimSpace(ctx.Query("workYear")),
		Key:          strings.TrimSpace(ctx.Query("key")),
	}

	values := ctx.QueryArray("salaryRange")
	if len(values) == 0 {
		values = ctx.QueryArray("salaryRange[]")
	}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				continue
			}
			req.SalaryRange = append(req.SalaryRange, n)
		}
	}
	return req
}

// queryInt returns a positive integer query parameter or def.
func queryInt(ctx *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(ctx.Query(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}
