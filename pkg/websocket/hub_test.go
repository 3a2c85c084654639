package websocket

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestInvalidateCoalescesBurstIntoOneBroadcast(t *testing.T) {
	hub := NewHub()

	hub.Invalidate("attendances")
	hub.Invalidate("users")
	hub.Invalidate("attendances")

	select {
	case data := <-hub.broadcast:
		var msg InvalidateMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if msg.Type != "invalidate" {
			t.Errorf("unexpected message type %q", msg.Type)
		}
		if !reflect.DeepEqual(msg.Resources, []string{"attendances", "users"}) {
			t.Errorf("unexpected resources: %v", msg.Resources)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast after the debounce window")
	}

	// The burst is spent; nothing else may fire.
	select {
	case <-hub.broadcast:
		t.Fatal("expected a single coalesced broadcast")
	case <-time.After(2 * debounceWindow):
	}
}

func TestInvalidateAfterFlushStartsNewWindow(t *testing.T) {
	hub := NewHub()

	hub.Invalidate("quizzes")
	select {
	case <-hub.broadcast:
	case <-time.After(time.Second):
		t.Fatal("expected first broadcast")
	}

	hub.Invalidate("controls")
	select {
	case data := <-hub.broadcast:
		var msg InvalidateMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if !reflect.DeepEqual(msg.Resources, []string{"controls"}) {
			t.Errorf("unexpected resources: %v", msg.Resources)
		}
	case <-time.After(time.Second):
		t.Fatal("expected second broadcast")
	}
}
