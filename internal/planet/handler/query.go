package handler

import (
	"net/url"
	"strconv"
	"strings"

	"planets/internal/planet/models"
	dErrors "planets/pkg/domain-errors"
)

// searchQuery is the parsed query string of GET /planets/search.
type searchQuery struct {
	Climate string
	Terrain string
	Page    models.PageRequest
}

// parseSearchQuery reads climate, terrain, page, size and sort=field,dir.
// Missing paging values take the defaults; size above the maximum is clamped.
func parseSearchQuery(q url.Values) (searchQuery, error) {
	out := searchQuery{
		Climate: q.Get("climate"),
		Terrain: q.Get("terrain"),
		Page:    models.DefaultPageRequest(),
	}
	fields := map[string][]string{}

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fields["page"] = append(fields["page"], "page must be a non-negative integer")
		} else {
			out.Page.Page = n
		}
	}
	if raw := strings.TrimSpace(q.Get("size")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields["size"] = append(fields["size"], "size must be a positive integer")
		} else {
			out.Page.Size = min(n, models.MaxPageSize)
		}
	}
	if raw := q.Get("sort"); raw != "" {
		sort, err := models.ParseSort(raw)
		if err != nil {
			fields["sort"] = append(fields["sort"], err.Error())
		} else {
			out.Page.Sort = sort
		}
	}

	if len(fields) > 0 {
		return searchQuery{}, dErrors.NewFieldErrors("invalid search parameters", fields)
	}
	return out, nil
}
