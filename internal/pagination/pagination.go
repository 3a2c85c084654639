package pagination

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const DefaultSize = 10

// Page is the envelope every list endpoint returns. Page is 0-based on the
// wire; callers presenting it to people add 1.
type Page[T any] struct {
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	Data          []T   `json:"data"`
}

func New[T any](data []T, total int64, page, size int) Page[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		TotalPages:    totalPages,
		TotalElements: total,
		Page:          page,
		Size:          size,
		Data:          data,
	}
}

// WrapAll wraps an already fully loaded slice as a single page, for
// endpoints that do not paginate.
func WrapAll[T any](data []T) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		TotalPages:    1,
		TotalElements: int64(len(data)),
		Page:          0,
		Size:          len(data),
		Data:          data,
	}
}

// Request is a client-side page request. Page is 1-based here; the query
// string carries it 0-based.
type Request struct {
	Page   int
	Size   int
	Search string
}

// QueryString renders the request, omitting every unset parameter.
func (r Request) QueryString() string {
	var params []string
	if r.Page > 0 {
		params = append(params, fmt.Sprintf("page=%d", r.Page-1))
	}
	if r.Size > 0 {
		params = append(params, fmt.Sprintf("size=%d", r.Size))
	}
	if r.Search != "" {
		params = append(params, "search="+url.QueryEscape(r.Search))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + strings.Join(params, "&")
}

// Parse reads page/size/search from a list request. Page arrives 0-based.
func Parse(r *http.Request) (page, size int, search string) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	if page < 0 {
		page = 0
	}
	size, _ = strconv.Atoi(q.Get("size"))
	if size <= 0 {
		size = DefaultSize
	}
	return page, size, q.Get("search")
}

// Scope applies offset/limit for a parsed page request.
func Scope(page, size int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page * size).Limit(size)
	}
}
