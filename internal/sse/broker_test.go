package sse

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "project.created", Data: map[string]string{"path": "working/birthday-party"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: project.created") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"path":"working/birthday-party"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishRecordEvent_SummaryThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// First event triggers projects.changed; the second, inside the
	// throttle window, must not.
	b.PublishRecordEvent("created", "working/a")
	b.PublishRecordEvent("moved", "archive/2024/a")

	time.Sleep(50 * time.Millisecond)
	summaryCount := 0
	recordCount := 0
loop:
	for {
		select {
		case msg := <-ch:
			if strings.Contains(string(msg), "projects.changed") {
				summaryCount++
			} else {
				recordCount++
			}
		default:
			break loop
		}
	}

	if recordCount != 2 {
		t.Errorf("record events = %d, want 2", recordCount)
	}
	if summaryCount != 1 {
		t.Errorf("summary events = %d, want 1", summaryCount)
	}
}

func TestPublishAfterClose(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	b.Close()

	// None of these may panic or block.
	b.Publish(Event{Type: "project.updated", Data: nil})
	b.PublishRecordEvent("updated", "working/a")
	ch := b.Subscribe()
	if _, ok := <-ch; ok {
		t.Error("subscribe after close should return a closed channel")
	}
	if n := b.ClientCount(); n != 0 {
		t.Errorf("ClientCount after close = %d, want 0", n)
	}
}

func TestServeHTTPStreams(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	req := httptest.NewRequest("GET", "/api/events", nil)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.ServeHTTP(rec, req)
	}()

	// Give the handler time to subscribe, then publish and shut down.
	time.Sleep(50 * time.Millisecond)
	b.Publish(Event{Type: "project.deleted", Data: map[string]string{"path": "working/x"}})
	time.Sleep(50 * time.Millisecond)
	b.Close()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event: project.deleted") {
		t.Errorf("response body missing event, got %q", body)
	}
}
