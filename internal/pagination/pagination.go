package pagination

import (
	"context"
	"database/sql"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/emporium-backend/config"
	apperrors "github.com/ikkim/emporium-backend/internal/errors"
	"gorm.io/gorm"
)

const (
	PageParam     = "page"
	PageSizeParam = "page_size"
)

// ErrInvalidPage is returned for a page number that is malformed or past the end.
var ErrInvalidPage = &apperrors.Error{
	Kind:    apperrors.ErrNotFound,
	Code:    apperrors.ResourceNotFound,
	Message: "Invalid page.",
}

// Params is a requested page number (1-based) and page size
type Params struct {
	Page     int
	PageSize int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParseParams reads page and page_size from the query string. A bad page
// is an error; a bad page_size falls back to the default, and an oversized
// one is clamped to the maximum.
func ParseParams(c *gin.Context, cfg config.PaginationConfig) (Params, error) {
	p := Params{Page: 1, PageSize: cfg.DefaultPageSize}

	if raw, ok := c.GetQuery(PageParam); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Params{}, ErrInvalidPage
		}
		p.Page = n
	}

	if raw, ok := c.GetQuery(PageSizeParam); ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.PageSize = n
		}
	}
	if cfg.MaxPageSize > 0 && p.PageSize > cfg.MaxPageSize {
		p.PageSize = cfg.MaxPageSize
	}
	return p, nil
}

// Query describes an ordered listing. Filter narrows both the count and the
// page; Order must be total so pages are stable.
type Query struct {
	Filter  func(*gorm.DB) *gorm.DB
	Order   string
	Preload []string
}

// Fetch reads the total count and the requested slice in one transaction,
// so a page is always consistent with the count reported beside it.
func Fetch[T any](ctx context.Context, db *gorm.DB, q Query, p Params) ([]T, int64, error) {
	var (
		items []T
		count int64
	)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := tx.Model(new(T))
		if q.Filter != nil {
			base = q.Filter(base)
		}
		base = base.Session(&gorm.Session{})

		if err := base.Count(&count).Error; err != nil {
			return err
		}
		if p.Page > lastPage(count, p.PageSize) {
			return ErrInvalidPage
		}

		find := base
		for _, rel := range q.Preload {
			find = find.Preload(rel)
		}
		if q.Order != "" {
			find = find.Order(q.Order)
		}
		return find.Offset(p.Offset()).Limit(p.PageSize).Find(&items).Error
	}, snapshotOptions(db))
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []T{}
	}
	return items, count, nil
}

// snapshotOptions asks Postgres for one snapshot across the count and the
// slice. SQLite transactions are already serializable.
func snapshotOptions(db *gorm.DB) *sql.TxOptions {
	if db.Dialector.Name() == "postgres" {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

// lastPage is the highest valid page number; an empty listing still has page 1.
func lastPage(count int64, size int) int {
	if count == 0 {
		return 1
	}
	return int((count + int64(size) - 1) / int64(size))
}

// Page is the list envelope returned by paginated endpoints
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// NewPage builds the envelope; links are absolute URLs derived from the request
func NewPage[T any](c *gin.Context, results []T, count int64, p Params) Page[T] {
	page := Page[T]{Count: count, Results: results}
	if results == nil {
		page.Results = []T{}
	}

	base := requestURL(c)
	if int64(p.Page*p.PageSize) < count {
		page.Next = pageLink(base, p.Page+1)
	}
	if p.Page > 1 {
		page.Previous = pageLink(base, p.Page-1)
	}
	return page
}

func requestURL(c *gin.Context) url.URL {
	u := *c.Request.URL
	u.Scheme = "http"
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		u.Scheme = proto
	}
	u.Host = c.Request.Host
	return u
}

// pageLink points at page n; the first page drops the page parameter entirely.
func pageLink(base url.URL, n int) *string {
	q := base.Query()
	if n <= 1 {
		q.Del(PageParam)
	} else {
		q.Set(PageParam, strconv.Itoa(n))
	}
	base.RawQuery = q.Encode()
	link := base.String()
	return &link
}
