package concierge

import (
	"sync"

	"github.com/google/uuid"
)

// MessageRole identifies who authored a transcript message.
type MessageRole string

const (
	MessageUser      MessageRole = "user"
	MessageAssistant MessageRole = "assistant"
)

// Message is one ordered record in the locally held transcript. Audio is
// the raw speech payload as received from the synthesis backend, attached
// once synthesis completes; it is decoded into a fresh playable resource
// per playback request.
type Message struct {
	ID    string
	Role  MessageRole
	Text  string
	Audio []byte
}

// HasAudio reports whether a speech payload is attached.
func (m Message) HasAudio() bool {
	return len(m.Audio) > 0
}

// Transcript is the append-only, arrival-ordered message record for one
// session. Messages are never deleted; the only mutation after append is
// attaching an audio payload.
type Transcript struct {
	mu       sync.Mutex
	messages []Message
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append records a message and returns its copy (including the assigned
// id).
func (t *Transcript) Append(role MessageRole, text string) Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	msg := Message{ID: uuid.NewString(), Role: role, Text: text}
	t.messages = append(t.messages, msg)
	return msg
}

// AttachAudio attaches a speech payload to the message with the given id.
// Returns false when no such message exists.
func (t *Transcript) AttachAudio(id string, payload []byte) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.messages {
		if t.messages[i].ID == id {
			t.messages[i].Audio = payload
			return true
		}
	}
	return false
}

// Get returns a copy of the message with the given id.
func (t *Transcript) Get(id string) (Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.messages {
		if t.messages[i].ID == id {
			return t.messages[i], true
		}
	}
	return Message{}, false
}

// Messages returns a copy of the transcript in arrival order.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of recorded messages.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}
