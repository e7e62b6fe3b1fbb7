package utils

import "testing"

func TestNewID(t *testing.T) {
	id := NewID("o")
	if len(id) != 15 {
		t.Fatalf("id length = %d, want 15", len(id))
	}
	if id[0] != 'o' {
		t.Fatalf("id prefix = %c, want o", id[0])
	}

	if NewID("o") == NewID("o") {
		t.Error("consecutive ids should differ")
	}
}

func TestConversationID(t *testing.T) {
	if got := ConversationID("u2", "u1"); got != "u1_u2" {
		t.Errorf("ConversationID(u2, u1) = %q, want u1_u2", got)
	}
	if ConversationID("ua", "ub") != ConversationID("ub", "ua") {
		t.Error("conversation id must be order independent")
	}
}

func TestContainsString(t *testing.T) {
	list := []string{"cash", "stripe", "paypal"}
	if !ContainsString(list, "stripe") {
		t.Error("expected stripe in list")
	}
	if ContainsString(list, "Stripe") {
		t.Error("match should be case sensitive")
	}
	if ContainsString(nil, "cash") {
		t.Error("nil list contains nothing")
	}
}
