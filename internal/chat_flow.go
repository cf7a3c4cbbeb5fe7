package internal

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Fixed assistant-side fallback texts. The transcript never silently
// drops a user turn: a failed exchange still gets an ai entry.
const (
	ChatErrorFallback      = "Sorry, something went wrong while processing your message."
	ChatConnectionFallback = "Connection error. Please try again."
)

// ChatFlow implements the sequential message exchange with the
// assistant endpoint. One request at a time; the transcript is
// append-only and kept in memory only.
type ChatFlow struct {
	client     *Client
	transcript []TranscriptEntry
	pending    bool

	// typing toggles the typing placeholder for the duration of the
	// request. Nil when the host UI shows no placeholder.
	typing func(active bool)

	now func() time.Time
}

// NewChatFlow creates a chat flow against client.
func NewChatFlow(client *Client) *ChatFlow {
	return &ChatFlow{client: client, now: time.Now}
}

// SetTypingIndicator registers the placeholder toggle shown while a
// request is in flight.
func (f *ChatFlow) SetTypingIndicator(fn func(active bool)) {
	f.typing = fn
}

// Transcript returns the transcript entries in order.
func (f *ChatFlow) Transcript() []TranscriptEntry {
	return f.transcript
}

func (f *ChatFlow) append(entry TranscriptEntry) TranscriptEntry {
	entry.Timestamp = f.now()
	f.transcript = append(f.transcript, entry)
	return entry
}

// Send submits one message. Whitespace-only input is a no-op. The
// user entry is appended optimistically before the request; on any
// failure the ai turn is a fixed fallback text instead, and the
// underlying error is returned for logging.
func (f *ChatFlow) Send(ctx context.Context, message string) (TranscriptEntry, error) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return TranscriptEntry{}, nil
	}
	if f.pending {
		return TranscriptEntry{}, ErrPending
	}
	f.pending = true
	defer func() { f.pending = false }()

	f.append(TranscriptEntry{Sender: SenderUser, Text: msg})

	if f.typing != nil {
		f.typing(true)
	}
	reply, err := f.client.Chat(ctx, msg)
	if f.typing != nil {
		f.typing(false)
	}

	if err != nil {
		fallback := ChatErrorFallback
		var connErr *ConnectionError
		if errors.As(err, &connErr) {
			fallback = ChatConnectionFallback
		}
		entry := f.append(TranscriptEntry{Sender: SenderAI, Text: fallback})
		LogWarn("chat request failed: %v", err)
		return entry, err
	}

	return f.append(TranscriptEntry{
		Sender:      SenderAI,
		Text:        reply.Response,
		ServiceUsed: reply.ServiceUsed,
	}), nil
}
