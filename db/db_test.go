package db

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestUniqueIndexModel(t *testing.T) {
	for _, field := range []string{"email", "order"} {
		ix := uniqueIndex(field)

		keys, ok := ix.Keys.(bson.D)
		if !ok || len(keys) != 1 {
			t.Fatalf("keys for %s = %v", field, ix.Keys)
		}
		if keys[0].Key != field || keys[0].Value != 1 {
			t.Fatalf("key spec for %s = %v", field, keys[0])
		}
		if ix.Options == nil || ix.Options.Unique == nil || !*ix.Options.Unique {
			t.Fatalf("index on %s is not unique", field)
		}
	}
}
