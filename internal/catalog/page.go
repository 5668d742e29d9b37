package catalog

import (
	"errors"
	"fmt"
	"strconv"

	"lapak/internal/models"
)

// DefaultLimit is the page size used when a request does not name one.
const DefaultLimit = 10

// ErrInvalidLimit is returned for a page size below 1. A zero limit is not a
// valid "no page" signal; it would report a spurious next cursor.
var ErrInvalidLimit = errors.New("limit must be at least 1")

// Page describes one pagination window. Cursor is the identifier of the last
// product of the previous page, or zero for the first page. A stale cursor
// (product since deleted) is harmless: the window constraint is an
// inequality, not a lookup.
type Page struct {
	Limit  int
	Cursor uint
}

// Validate checks the page size.
func (p Page) Validate() error {
	if p.Limit < 1 {
		return ErrInvalidLimit
	}
	return nil
}

// FetchLimit is the number of records a repository should fetch for the
// page: one more than the page size, so the presence of a next page can be
// detected without a second query.
func (p Page) FetchLimit() int {
	return p.Limit + 1
}

// ParseCursor converts an opaque cursor token back into a product
// identifier. An empty token means the first page.
func ParseCursor(token string) (uint, error) {
	if token == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed cursor %q", token)
	}
	return uint(id), nil
}

// Result is one page of catalog results plus the data needed to continue.
// Total counts every record matching the filter regardless of the cursor
// position, so it is stable across pages.
type Result struct {
	Products   []models.Product `json:"products"`
	Total      int64            `json:"total"`
	NextCursor *string          `json:"nextCursor"`
}

// ResolvePage trims a fetched window of FetchLimit records down to the page
// itself. When the window overflows the page size the extra record is
// dropped and the identifier of its predecessor (the last record actually
// returned) becomes the next cursor; otherwise there is no next page.
func ResolvePage(window []models.Product, limit int) ([]models.Product, *string) {
	if len(window) <= limit {
		return window, nil
	}
	page := window[:limit]
	cursor := strconv.FormatUint(uint64(page[limit-1].ID), 10)
	return page, &cursor
}
