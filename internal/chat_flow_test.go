package internal

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/studyplatform/studyctl/testutil"
)

func TestChatFlowSend(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	h := loginHarness(t, backend)
	flow := NewChatFlow(h.client)

	entry, err := flow.Send(context.Background(), "explain recursion")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if entry.Sender != SenderAI {
		t.Errorf("Send() returned %v entry, want the ai turn", entry.Sender)
	}
	if entry.Text != backend.ChatResponse {
		t.Errorf("ai text = %q, want %q", entry.Text, backend.ChatResponse)
	}
	if entry.ServiceUsed != backend.ChatService {
		t.Errorf("ServiceUsed = %q, want %q", entry.ServiceUsed, backend.ChatService)
	}

	transcript := flow.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript has %d entries, want 2", len(transcript))
	}
	if transcript[0].Sender != SenderUser || transcript[0].Text != "explain recursion" {
		t.Errorf("transcript[0] = %+v, want the user turn", transcript[0])
	}
	if transcript[1].Sender != SenderAI {
		t.Errorf("transcript[1] = %+v, want the ai turn", transcript[1])
	}
}

func TestChatFlowSendEmptyMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{name: "empty", message: ""},
		{name: "whitespace only", message: "   \t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := testutil.NewFakeBackend(t)
			h := loginHarness(t, backend)
			flow := NewChatFlow(h.client)

			entry, err := flow.Send(context.Background(), tt.message)
			if err != nil {
				t.Fatalf("Send() error = %v, want silent no-op", err)
			}
			if entry.Sender != "" || entry.Text != "" {
				t.Errorf("Send() = %+v, want zero entry", entry)
			}
			if len(flow.Transcript()) != 0 {
				t.Errorf("transcript has %d entries, want 0", len(flow.Transcript()))
			}
			if n := backend.TotalRequests(); n != 0 {
				t.Errorf("backend received %d requests, want 0", n)
			}
		})
	}
}

func TestChatFlowSendTrimsMessage(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	h := loginHarness(t, backend)
	flow := NewChatFlow(h.client)

	if _, err := flow.Send(context.Background(), "  hello  "); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got := flow.Transcript()[0].Text; got != "hello" {
		t.Errorf("user entry text = %q, want trimmed %q", got, "hello")
	}
}

func TestChatFlowServerFailureFallback(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.ChatStatus = http.StatusInternalServerError
	backend.ChatError = "all AI services unavailable"

	h := loginHarness(t, backend)
	flow := NewChatFlow(h.client)

	entry, err := flow.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("Send() hid the server failure")
	}
	if entry.Sender != SenderAI || entry.Text != ChatErrorFallback {
		t.Errorf("fallback entry = %+v, want ai turn with %q", entry, ChatErrorFallback)
	}

	// The user turn is never dropped.
	transcript := flow.Transcript()
	if len(transcript) != 2 {
		t.Fatalf("transcript has %d entries, want 2", len(transcript))
	}
	if transcript[0].Sender != SenderUser || transcript[0].Text != "hello" {
		t.Errorf("transcript[0] = %+v, want the user turn", transcript[0])
	}
}

func TestChatFlowConnectionFailureFallback(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	h := loginHarness(t, backend)
	flow := NewChatFlow(h.client)
	backend.Close()

	entry, err := flow.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("Send() hid the transport failure")
	}
	if entry.Text != ChatConnectionFallback {
		t.Errorf("fallback text = %q, want %q", entry.Text, ChatConnectionFallback)
	}
}

func TestChatFlowTypingIndicator(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	h := loginHarness(t, backend)
	flow := NewChatFlow(h.client)

	var toggles []bool
	flow.SetTypingIndicator(func(active bool) {
		toggles = append(toggles, active)
	})

	if _, err := flow.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(toggles) != 2 || !toggles[0] || toggles[1] {
		t.Errorf("typing toggles = %v, want [true false]", toggles)
	}
}

func TestChatFlowTimestampsOrdered(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	h := loginHarness(t, backend)
	flow := NewChatFlow(h.client)

	clock := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	flow.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	if _, err := flow.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	transcript := flow.Transcript()
	if !transcript[0].Timestamp.Before(transcript[1].Timestamp) {
		t.Errorf("transcript timestamps out of order: %v then %v",
			transcript[0].Timestamp, transcript[1].Timestamp)
	}
}
