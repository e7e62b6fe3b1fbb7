package utils

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		url            string
		wantSkip, want int64
	}{
		{"/x", 0, 10},
		{"/x?page=3&limit=20", 40, 20},
		{"/x?page=0&limit=-5", 0, 10},
		{"/x?limit=500", 0, 50},
		{"/x?page=abc&limit=abc", 0, 10},
	}

	for _, c := range cases {
		r := httptest.NewRequest("GET", c.url, nil)
		skip, limit := ParsePagination(r, 10, 50)
		if skip != c.wantSkip || limit != c.want {
			t.Errorf("%s: got skip=%d limit=%d, want skip=%d limit=%d",
				c.url, skip, limit, c.wantSkip, c.want)
		}
	}
}

func TestPageAndTotalPages(t *testing.T) {
	if got := Page(40, 20); got != 3 {
		t.Errorf("Page(40, 20) = %d, want 3", got)
	}
	if got := Page(0, 0); got != 1 {
		t.Errorf("Page(0, 0) = %d, want 1", got)
	}
	if got := TotalPages(41, 20); got != 3 {
		t.Errorf("TotalPages(41, 20) = %d, want 3", got)
	}
	if got := TotalPages(40, 20); got != 2 {
		t.Errorf("TotalPages(40, 20) = %d, want 2", got)
	}
	if got := TotalPages(0, 20); got != 0 {
		t.Errorf("TotalPages(0, 20) = %d, want 0", got)
	}
}

func TestParseSort(t *testing.T) {
	allowed := []string{"price", "createdAt"}
	fallback := bson.D{{Key: "createdAt", Value: -1}}

	got := ParseSort("price", "asc", allowed, fallback)
	if got[0].Key != "price" || got[0].Value != 1 {
		t.Errorf("unexpected sort: %v", got)
	}

	got = ParseSort("price", "desc", allowed, fallback)
	if got[0].Key != "price" || got[0].Value != -1 {
		t.Errorf("unexpected sort: %v", got)
	}

	got = ParseSort("password", "asc", allowed, fallback)
	if got[0].Key != "createdAt" || got[0].Value != -1 {
		t.Errorf("disallowed field should fall back: %v", got)
	}

	got = ParseSort("", "", allowed, fallback)
	if got[0].Key != "createdAt" {
		t.Errorf("empty field should fall back: %v", got)
	}
}
