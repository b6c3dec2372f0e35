// Package pagination implements the cursor-following fetch loop shared by the
// providers whose backing API returns results in pages.
//
// The loop itself has no notion of time: a server that keeps answering
// hasNextPage=true would be followed forever. Callers bound it with a context
// deadline and with WithMaxPages.
package pagination

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// CursorVariable is the variable that receives the end cursor of the previous page.
const CursorVariable = "cursor"

// ErrPageLimitExceeded is returned when a listing needs more pages than allowed.
var ErrPageLimitExceeded = errors.New("page limit exceeded")

// Variables are passed to every page fetch.
type Variables map[string]any

// Cursor returns the cursor of the page being fetched, or "" for the first page.
func (v Variables) Cursor() string {
	cursor, _ := v[CursorVariable].(string)
	return cursor
}

// PageInfo tells whether and where the listing continues.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// Page is one page of raw nodes.
type Page[N any] struct {
	Nodes    []N      `json:"nodes"`
	PageInfo PageInfo `json:"pageInfo"`
}

// FetchFunc performs one remote call.
type FetchFunc[R any] func(ctx context.Context, variables Variables) (R, error)

// ExtractFunc pulls the page out of a raw response. It returns nil when the
// response does not have the expected shape (e.g. the parent resource is missing).
type ExtractFunc[R, N any] func(response R) *Page[N]

// TransformFunc maps the raw nodes of a page to items.
type TransformFunc[N, T any] func(ctx context.Context, nodes []N) ([]T, error)

type options struct {
	maxPages int
}

// Option customizes a Paginate call.
type Option func(*options)

// WithMaxPages caps the number of pages fetched; zero or less means unbounded.
func WithMaxPages(maxPages int) Option {
	return func(o *options) {
		o.maxPages = maxPages
	}
}

// Identity is a TransformFunc returning the nodes unchanged.
func Identity[N any](_ context.Context, nodes []N) ([]N, error) {
	return nodes, nil
}

// Paginate follows the cursor of every page until hasNextPage is false and
// returns the transformed items of all pages in page order. A page that cannot
// be extracted ends the listing with what was accumulated so far, which is an
// empty result when it is the first page.
func Paginate[R, N, T any](
	ctx context.Context,
	fetch FetchFunc[R],
	extract ExtractFunc[R, N],
	transform TransformFunc[N, T],
	initial Variables,
	opts ...Option,
) ([]T, error) {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	variables := Variables{}
	maps.Copy(variables, initial)

	result := []T{}
	for pageNumber := 1; ; pageNumber++ {
		if cfg.maxPages > 0 && pageNumber > cfg.maxPages {
			return nil, fmt.Errorf("%w: stopped after %d pages", ErrPageLimitExceeded, cfg.maxPages)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		response, err := fetch(ctx, variables)
		if err != nil {
			return nil, err
		}

		page := extract(response)
		if page == nil {
			return result, nil
		}

		items, err := transform(ctx, page.Nodes)
		if err != nil {
			return nil, err
		}
		result = append(result, items...)

		if !page.PageInfo.HasNextPage {
			return result, nil
		}
		variables[CursorVariable] = page.PageInfo.EndCursor
	}
}
