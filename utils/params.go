package utils

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
)

// ParsePagination reads page/limit query params and returns the
// mongo skip/limit pair. limit is clamped to maxLimit.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int64) (skip, limit int64) {
	q := r.URL.Query()

	page := int64(1)
	if p, err := strconv.ParseInt(q.Get("page"), 10, 64); err == nil && p > 0 {
		page = p
	}

	limit = defaultLimit
	if l, err := strconv.ParseInt(q.Get("limit"), 10, 64); err == nil && l > 0 {
		limit = l
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return (page - 1) * limit, limit
}

// Page returns the 1-based page number implied by skip/limit.
func Page(skip, limit int64) int64 {
	if limit <= 0 {
		return 1
	}
	return skip/limit + 1
}

// TotalPages computes the page count for a result set.
func TotalPages(total, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

// ParseSort maps a sortBy/sortOrder pair onto a bson sort document.
// Only fields in allowed may be sorted on; anything else falls back
// to the default.
func ParseSort(sortBy, sortOrder string, allowed []string, fallback bson.D) bson.D {
	if sortBy == "" || !ContainsString(allowed, sortBy) {
		return fallback
	}
	dir := -1
	if sortOrder == "asc" {
		dir = 1
	}
	return bson.D{{Key: sortBy, Value: dir}}
}
