package chat

import (
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "u1_u2",
	}

	hub.register <- client

	data := []byte(`{"action":"receive_message","message":{"content":"hello test"}}`)
	hub.broadcast <- broadcastMsg{Room: "u1_u2", Data: data}

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client
}

func TestHubJoinMovesRooms(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send: make(chan []byte, 10),
		Room: "u1_u2",
	}
	hub.register <- client
	hub.join <- joinMsg{Client: client, Room: "u1_u3"}

	hub.broadcast <- broadcastMsg{Room: "u1_u3", Data: []byte("new room")}

	select {
	case got := <-client.Send:
		if string(got) != "new room" {
			t.Fatalf("got %s", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message after join")
	}

	// Nothing should arrive from the old room anymore.
	hub.broadcast <- broadcastMsg{Room: "u1_u2", Data: []byte("old room")}
	select {
	case got := <-client.Send:
		t.Fatalf("unexpected message from old room: %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestIsParticipant(t *testing.T) {
	if !isParticipant("u1_u2", "u1") {
		t.Error("u1 should be a participant of u1_u2")
	}
	if !isParticipant("u1_u2", "u2") {
		t.Error("u2 should be a participant of u1_u2")
	}
	if isParticipant("u1_u2", "u3") {
		t.Error("u3 should not be a participant of u1_u2")
	}
	if isParticipant("u1_u2", "u1_u2") {
		t.Error("full id is not a participant")
	}
}
