package concierge

import "testing"

func TestTranscript_AppendOrderAndIDs(t *testing.T) {
	tr := NewTranscript()
	a := tr.Append(MessageUser, "first")
	b := tr.Append(MessageAssistant, "second")

	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Fatalf("ids must be unique and non-empty: %q %q", a.ID, b.ID)
	}

	msgs := tr.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	if msgs[0].Text != "first" || msgs[1].Text != "second" {
		t.Fatal("messages must keep arrival order")
	}
}

func TestTranscript_AttachAudio(t *testing.T) {
	tr := NewTranscript()
	msg := tr.Append(MessageAssistant, "spoken")

	if tr.AttachAudio("missing", []byte{1}) {
		t.Error("attaching to unknown id must return false")
	}
	if !tr.AttachAudio(msg.ID, []byte{1, 2}) {
		t.Fatal("attach failed")
	}

	got, ok := tr.Get(msg.ID)
	if !ok || !got.HasAudio() {
		t.Fatalf("get after attach: ok=%v msg=%+v", ok, got)
	}
}

func TestTranscript_MessagesReturnsCopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(MessageUser, "original")

	msgs := tr.Messages()
	msgs[0].Text = "mutated"

	if tr.Messages()[0].Text != "original" {
		t.Fatal("Messages must return a copy")
	}
}
