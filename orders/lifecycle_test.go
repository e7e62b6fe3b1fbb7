package orders

import (
	"testing"
	"time"

	"agriconnect/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.OrderPending, models.OrderConfirmed, true},
		{models.OrderConfirmed, models.OrderPreparing, true},
		{models.OrderPreparing, models.OrderShipped, true},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderShipped, models.OrderCancelled, true},

		{models.OrderPending, models.OrderShipped, false},
		{models.OrderPending, models.OrderDelivered, false},
		{models.OrderConfirmed, models.OrderPending, false},
		{models.OrderShipped, models.OrderPreparing, false},
		{models.OrderDelivered, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderPending, false},
		{models.OrderCancelled, models.OrderConfirmed, false},
		{models.OrderDelivered, models.OrderDelivered, false},
		{"bogus", models.OrderConfirmed, false},
		{models.OrderPending, "bogus", false},
	}

	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []models.OrderStatus{models.OrderDelivered, models.OrderCancelled} {
		if !IsTerminal(s) {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []models.OrderStatus{models.OrderPending, models.OrderConfirmed, models.OrderPreparing, models.OrderShipped} {
		if IsTerminal(s) {
			t.Errorf("expected %s not to be terminal", s)
		}
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus(models.OrderPreparing) {
		t.Error("preparing should be a valid status")
	}
	if ValidStatus("unknown") {
		t.Error("unknown should not be a valid status")
	}
}

func TestTimelineDescription(t *testing.T) {
	if got := TimelineDescription(models.OrderPending); got != "Order placed and waiting for confirmation" {
		t.Errorf("unexpected description for pending: %q", got)
	}
	if got := TimelineDescription("weird"); got != "Order status changed to weird" {
		t.Errorf("unexpected fallback description: %q", got)
	}
}

func TestNewTimelineEntry(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := NewTimelineEntry(models.OrderShipped, at)
	if entry.Status != models.OrderShipped {
		t.Errorf("status = %s", entry.Status)
	}
	if entry.Description == "" {
		t.Error("entry description should not be empty")
	}
	if !entry.Timestamp.Equal(at) {
		t.Errorf("timestamp = %v, want %v", entry.Timestamp, at)
	}
}
