package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/tqbf/doctree/pkg/render"
)

type MessageType string

const (
	TypeLine  MessageType = "line"
	TypeDone  MessageType = "done"
	TypeError MessageType = "error"
)

// Message is one frame of a streamed listing: a line per rendered row,
// then either done or a single error.
type Message struct {
	Type MessageType `json:"type"`

	Line *render.Line `json:"line,omitempty"`

	Path      string `json:"path,omitempty"`
	Recursive bool   `json:"recursive,omitempty"`
	Count     int    `json:"count,omitempty"`

	Status  int    `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}
	switch msg.Type {
	case "":
		return nil, fmt.Errorf("missing type field")
	case TypeLine:
		if msg.Line == nil {
			return nil, fmt.Errorf("line message without line")
		}
	}
	return &msg, nil
}

// Frames flattens a listing into the messages that carry it.
func Frames(l *render.Listing) []Message {
	out := make([]Message, 0, len(l.Lines)+1)
	for i := range l.Lines {
		out = append(out, Message{Type: TypeLine, Line: &l.Lines[i]})
	}
	return append(out, Message{
		Type:      TypeDone,
		Path:      l.Path,
		Recursive: l.Recursive,
		Count:     len(l.Lines),
	})
}

type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %d: %s", e.Status, e.Message)
}
