package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/talkboard-dev/talkboard/internal/domain"
)

// parseIntParam parses an integer parameter from a string and returns a meaningful error
func parseIntParam(param string, paramName string) (int64, error) {
	val, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}
	return val, nil
}

// parsePaging reads the page/limit/pagination query parameters.
// pagination=false returns all matching records unpaginated.
func parsePaging(r *http.Request) domain.Paging {
	paging := domain.Paging{Page: 1, Paginate: true}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			paging.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			paging.Limit = limit
		}
	}
	if paginateStr := r.URL.Query().Get("pagination"); paginateStr != "" {
		if paginate, err := strconv.ParseBool(paginateStr); err == nil {
			paging.Paginate = paginate
		}
	}
	return paging
}
