package orders

import (
	"strings"
	"testing"
	"time"
)

func TestReceiptPayloadRoundTrip(t *testing.T) {
	payload := ReceiptPayload("o12345", time.Now().Unix())

	if !strings.HasPrefix(payload, "o12345|") {
		t.Fatalf("payload should start with the order id: %q", payload)
	}
	if !VerifyReceiptPayload(payload) {
		t.Fatal("freshly signed payload should verify")
	}
}

func TestVerifyReceiptPayloadTampered(t *testing.T) {
	payload := ReceiptPayload("o12345", 1700000000)

	tampered := strings.Replace(payload, "o12345", "o99999", 1)
	if VerifyReceiptPayload(tampered) {
		t.Error("tampered order id should fail verification")
	}

	if VerifyReceiptPayload("no-signature-here") {
		t.Error("payload without signature should fail verification")
	}
	if VerifyReceiptPayload("") {
		t.Error("empty payload should fail verification")
	}
}
