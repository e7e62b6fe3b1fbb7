package orders

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestReserveStockFilterRejectsOversell(t *testing.T) {
	filter, _ := reserveStock("p12345678901234", 3, time.Now())

	if filter["productid"] != "p12345678901234" {
		t.Fatalf("filter productid = %v", filter["productid"])
	}
	guard, ok := filter["quantity"].(bson.M)
	if !ok || guard["$gte"] != 3 {
		t.Fatalf("filter quantity guard = %v", filter["quantity"])
	}
}

func TestReserveStockFlipsAvailabilityInSameWrite(t *testing.T) {
	_, update := reserveStock("p12345678901234", 3, time.Now())

	if len(update) != 1 {
		t.Fatalf("expected one pipeline stage, got %d", len(update))
	}
	stage := update[0]
	if stage[0].Key != "$set" {
		t.Fatalf("stage operator = %s", stage[0].Key)
	}
	set, ok := stage[0].Value.(bson.M)
	if !ok {
		t.Fatalf("stage value is %T", stage[0].Value)
	}

	remaining, ok := set["quantity"].(bson.M)
	if !ok || remaining["$subtract"] == nil {
		t.Fatalf("quantity expression = %v", set["quantity"])
	}

	avail, ok := set["isAvailable"].(bson.M)
	if !ok {
		t.Fatalf("isAvailable expression is %T", set["isAvailable"])
	}
	and, ok := avail["$and"].(bson.A)
	if !ok || len(and) != 2 {
		t.Fatalf("isAvailable expression = %v", avail)
	}
	if and[0] != "$isAvailable" {
		t.Fatalf("availability must and with the stored flag, got %v", and[0])
	}
	gt, ok := and[1].(bson.M)
	if !ok {
		t.Fatalf("second operand is %T", and[1])
	}
	cmp, ok := gt["$gt"].(bson.A)
	if !ok || len(cmp) != 2 || cmp[1] != 0 {
		t.Fatalf("comparison = %v", gt)
	}
	if !reflect.DeepEqual(cmp[0], set["quantity"]) {
		t.Fatalf("availability compares %v, want the remaining quantity", cmp[0])
	}
}

func TestRollbackUpdateRestoresPriorAvailability(t *testing.T) {
	update := rollbackUpdate(5, false)

	inc := update["$inc"].(bson.M)
	if inc["quantity"] != 5 {
		t.Fatalf("quantity increment = %v", inc["quantity"])
	}
	set := update["$set"].(bson.M)
	if set["isAvailable"] != false {
		t.Fatal("a disabled listing must stay disabled after rollback")
	}

	set = rollbackUpdate(5, true)["$set"].(bson.M)
	if set["isAvailable"] != true {
		t.Fatal("an enabled listing must come back after rollback")
	}
}
