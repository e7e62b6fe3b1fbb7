package products

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestSearchFilterDefaults(t *testing.T) {
	filter := SearchFilter(map[string]string{})
	if filter["isAvailable"] != true {
		t.Error("search should only surface available products")
	}
	if len(filter) != 1 {
		t.Errorf("empty query should add no extra clauses: %v", filter)
	}
}

func TestSearchFilterText(t *testing.T) {
	filter := SearchFilter(map[string]string{"search": "tomato"})
	or, ok := filter["$or"].([]bson.M)
	if !ok || len(or) != 2 {
		t.Fatalf("text search should match name and description: %v", filter)
	}
	if _, ok := or[0]["name"]; !ok {
		t.Errorf("first clause should target name: %v", or)
	}
	if _, ok := or[1]["description"]; !ok {
		t.Errorf("second clause should target description: %v", or)
	}
}

func TestSearchFilterPriceRange(t *testing.T) {
	filter := SearchFilter(map[string]string{"minPrice": "5", "maxPrice": "20"})
	price, ok := filter["price"].(bson.M)
	if !ok {
		t.Fatalf("expected a price clause: %v", filter)
	}
	if price["$gte"] != 5.0 || price["$lte"] != 20.0 {
		t.Errorf("unexpected price bounds: %v", price)
	}

	filter = SearchFilter(map[string]string{"minPrice": "abc"})
	if _, ok := filter["price"]; ok {
		t.Error("unparseable bound should be ignored")
	}

	filter = SearchFilter(map[string]string{"minPrice": "5"})
	price = filter["price"].(bson.M)
	if _, ok := price["$lte"]; ok {
		t.Error("upper bound should be absent when only minPrice is set")
	}
}

func TestSearchFilterEnums(t *testing.T) {
	filter := SearchFilter(map[string]string{
		"category": "vegetables",
		"quality":  "premium",
		"farmer":   "u123",
	})
	if filter["category"] != "vegetables" || filter["quality"] != "premium" || filter["farmer"] != "u123" {
		t.Errorf("unexpected filter: %v", filter)
	}
}
