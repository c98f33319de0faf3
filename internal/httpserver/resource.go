package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"marinaops/internal/assemble"
	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/page"
)

// resource binds one entity's service methods and DTO conversions to the
// five CRUD routes.
type resource[T, P, R any] struct {
	name   string
	list   func(context.Context, auth.Scope, page.Request) (page.Page[T], error)
	get    func(context.Context, auth.Scope, int64) (*T, error)
	create func(context.Context, auth.Scope, P) (*T, error)
	update func(context.Context, auth.Scope, int64, P) (*T, error)
	remove func(context.Context, auth.Scope, int64) error
	one    func(*assemble.Assembler, context.Context, T) (R, error)
	many   func(*assemble.Assembler, context.Context, []T) ([]R, error)
}

type pageQuery struct {
	PageNumber int    `form:"pageNumber" binding:"omitempty,min=0"`
	PageSize   int    `form:"pageSize" binding:"omitempty,min=1"`
	SortBy     string `form:"sortBy"`
	SortDir    string `form:"sortDir" binding:"omitempty,oneof=asc desc ASC DESC"`
	SearchText string `form:"searchText"`
}

func pageRequest(c *gin.Context) (page.Request, error) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return page.Request{}, domain.Invalidf("invalid paging parameters: %v", err)
	}
	return page.Request{
		PageNumber: q.PageNumber,
		PageSize:   q.PageSize,
		SortBy:     q.SortBy,
		SortDir:    q.SortDir,
		SearchText: q.SearchText,
	}.Normalize(), nil
}

func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalidf("id must be a positive integer")
	}
	return id, nil
}

func bindPatch[P any](c *gin.Context) (P, error) {
	var p P
	if err := c.ShouldBindJSON(&p); err != nil {
		return p, domain.Invalidf("malformed request body: %v", err)
	}
	return p, nil
}

func mount[T, P, R any](g *gin.RouterGroup, path string, src assemble.Source, logger zerolog.Logger, r resource[T, P, R]) {
	g.GET(path, func(c *gin.Context) {
		req, err := pageRequest(c)
		if err != nil {
			fail(c, logger, err)
			return
		}
		ctx := c.Request.Context()
		res, err := r.list(ctx, scopeOf(c), req)
		if err != nil {
			fail(c, logger, err)
			return
		}
		out, err := r.many(assemble.New(src), ctx, res.Items)
		if err != nil {
			fail(c, logger, err)
			return
		}
		respondPage(c, r.name+" fetched", out, res.Total, len(out))
	})

	g.GET(path+"/:id", func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			fail(c, logger, err)
			return
		}
		rec, err := r.get(c.Request.Context(), scopeOf(c), id)
		writeOne(c, logger, src, r, http.StatusOK, r.name+" fetched", rec, err)
	})

	g.POST(path, func(c *gin.Context) {
		p, err := bindPatch[P](c)
		if err != nil {
			fail(c, logger, err)
			return
		}
		rec, err := r.create(c.Request.Context(), scopeOf(c), p)
		writeOne(c, logger, src, r, http.StatusCreated, r.name+" saved", rec, err)
	})

	g.PUT(path+"/:id", func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			fail(c, logger, err)
			return
		}
		p, err := bindPatch[P](c)
		if err != nil {
			fail(c, logger, err)
			return
		}
		rec, err := r.update(c.Request.Context(), scopeOf(c), id, p)
		writeOne(c, logger, src, r, http.StatusOK, r.name+" updated", rec, err)
	})

	g.DELETE(path+"/:id", func(c *gin.Context) {
		id, err := idParam(c)
		if err != nil {
			fail(c, logger, err)
			return
		}
		if err := r.remove(c.Request.Context(), scopeOf(c), id); err != nil {
			fail(c, logger, err)
			return
		}
		respond(c, http.StatusOK, r.name+" deleted", nil)
	})
}

func writeOne[T, P, R any](c *gin.Context, logger zerolog.Logger, src assemble.Source, r resource[T, P, R], status int, msg string, rec *T, err error) {
	if err != nil {
		fail(c, logger, err)
		return
	}
	out, err := r.one(assemble.New(src), c.Request.Context(), *rec)
	if err != nil {
		fail(c, logger, err)
		return
	}
	respond(c, status, msg, out)
}
