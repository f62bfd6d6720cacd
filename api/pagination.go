package api

import (
	"net/http"
	"strconv"

	"autocatalog/core"
)

// pageMeta echoes the applied pagination back to the client.
type pageMeta struct {
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
}

// pageLinks are relative navigation links for the listing.
type pageLinks struct {
	Self  string `json:"self"`
	First string `json:"first"`
	Last  string `json:"last"`
	Next  string `json:"next,omitempty"`
	Prev  string `json:"prev,omitempty"`
}

// pageResponse is the generic paginated response wrapper
type pageResponse struct {
	Items interface{} `json:"items"`
	Page  pageMeta    `json:"page"`
	Links pageLinks   `json:"_links"`
}

// parsePageRequest extracts pagination and sorting query parameters.
// Pages are 0-based; size is capped; unparseable values fall back to
// the defaults rather than erroring. The sort field itself is
// whitelisted later, at the storage boundary.
func parsePageRequest(r *http.Request, defaultSort string) core.PageRequest {
	req := core.NewPageRequest(defaultSort)

	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed >= 0 {
			req.Page = parsed
		}
	}
	if s := r.URL.Query().Get("size"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed > 0 {
			if parsed > core.MaxSize {
				parsed = core.MaxSize
			}
			req.Size = parsed
		}
	}
	if sortBy := r.URL.Query().Get("sortBy"); sortBy != "" {
		req.SortBy = sortBy
	}
	if dir := r.URL.Query().Get("direction"); dir == core.SortDesc {
		req.Direction = core.SortDesc
	}

	return req
}

// pageLink rebuilds the request URL pointing at another page number.
func pageLink(r *http.Request, page int) string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// newPageResponse wraps one result page in the listing envelope.
func newPageResponse[T any](r *http.Request, page *core.Page[T]) pageResponse {
	last := page.TotalPages - 1
	links := pageLinks{
		Self:  pageLink(r, page.Number),
		First: pageLink(r, 0),
		Last:  pageLink(r, last),
	}
	if page.Number < last {
		links.Next = pageLink(r, page.Number+1)
	}
	if page.Number > 0 {
		links.Prev = pageLink(r, page.Number-1)
	}

	return pageResponse{
		Items: page.Items,
		Page: pageMeta{
			Number:        page.Number,
			Size:          page.Size,
			TotalElements: page.TotalElements,
			TotalPages:    page.TotalPages,
		},
		Links: links,
	}
}
