package httpapi

import (
	"net/url"
	"strconv"
	"time"

	"ravesync/shared/go/models"
)

// parsePage reads page and pageSize query parameters. Out-of-range or
// garbage values fall back to zero and get normalized by the service.
func parsePage(query url.Values) models.PageRequest {
	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("pageSize"))
	return models.PageRequest{Page: page, PageSize: pageSize}
}

// parseDate accepts RFC 3339 timestamps or bare dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
