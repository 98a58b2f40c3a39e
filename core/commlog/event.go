// Package commlog reads and synthesizes the simulated inter-vehicle
// communication log shown next to the allocation dashboard. The log is flat
// data: nothing here negotiates or decides task ownership.
package commlog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kilianp07/fleetalloc/core/normalize"
)

// Event and message types.
const (
	TypeMeshMessage   = "mesh_message"
	TypeVehicleStatus = "vehicle_status"

	MsgForwardAnnouncement = "FORWARD_ANNOUNCEMENT"
	MsgWinnerDecision      = "WINNER_DECISION"

	DirectionAnnouncementForward = "TASK_ANNOUNCEMENT_FORWARD"
)

// Best is the best known bid carried by a mesh message.
type Best struct {
	Bid    *float64 `json:"bid"`
	Holder *string  `json:"holder"`
}

// Message is the payload of a mesh_message event.
type Message struct {
	MessageType string       `json:"message_type"`
	TaskID      normalize.ID `json:"task_id,omitempty"`
	Pickup      string       `json:"pickup,omitempty"`
	Delivery    string       `json:"delivery,omitempty"`
	Weight      *float64     `json:"weight,omitempty"`
	Path        []string     `json:"path,omitempty"`
	Best        *Best        `json:"best,omitempty"`
	Winner      string       `json:"winner,omitempty"`
}

// Event is one timestamped log record.
type Event struct {
	Type      string   `json:"type"`
	SimTime   float64  `json:"sim_time"`
	From      string   `json:"from,omitempty"`
	To        string   `json:"to,omitempty"`
	Direction string   `json:"direction,omitempty"`
	Message   *Message `json:"message,omitempty"`

	Agent         string         `json:"agent,omitempty"`
	Battery       *float64       `json:"battery,omitempty"`
	CurrentEdge   string         `json:"current_edge,omitempty"`
	NextEdge      string         `json:"next_edge,omitempty"`
	CurrentTask   *normalize.ID  `json:"current_task,omitempty"`
	AssignedTasks []normalize.ID `json:"assigned_tasks,omitempty"`

	// raw holds the decoded bytes of a loaded event. Marshalling writes them
	// back verbatim so fields and message types not modelled above survive.
	raw json.RawMessage
}

type plainEvent Event

// UnmarshalJSON decodes the typed view and keeps a copy of the source bytes.
func (e *Event) UnmarshalJSON(data []byte) error {
	var p plainEvent
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Event(p)
	e.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON re-emits a loaded event unchanged. Events built in code are
// encoded from their typed fields.
func (e Event) MarshalJSON() ([]byte, error) {
	if len(e.raw) > 0 {
		return e.raw, nil
	}
	return json.Marshal(plainEvent(e))
}

// Log is the on-disk document. Top-level keys other than events are kept
// and written back.
type Log struct {
	Events []Event `json:"events"`

	extra map[string]json.RawMessage
}

// UnmarshalJSON decodes the events list and retains the remaining keys.
func (l *Log) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	var events []Event
	if rawEvents, ok := doc["events"]; ok {
		if err := json.Unmarshal(rawEvents, &events); err != nil {
			return err
		}
		delete(doc, "events")
	}
	l.Events = events
	l.extra = nil
	if len(doc) > 0 {
		l.extra = doc
	}
	return nil
}

// MarshalJSON writes the events list alongside any retained keys.
func (l Log) MarshalJSON() ([]byte, error) {
	if len(l.extra) == 0 {
		type plainLog struct {
			Events []Event `json:"events"`
		}
		return json.Marshal(plainLog{Events: l.Events})
	}
	doc := make(map[string]any, len(l.extra)+1)
	for k, v := range l.extra {
		doc[k] = v
	}
	doc["events"] = l.Events
	return json.Marshal(doc)
}

// WithEvents returns a copy of l holding events and the same retained keys.
func (l Log) WithEvents(events []Event) Log {
	l.Events = events
	return l
}

// Load decodes a log document.
func Load(r io.Reader) (Log, error) {
	var l Log
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return Log{}, fmt.Errorf("decode communication log: %w", err)
	}
	return l, nil
}

// Write encodes the log with two space indentation.
func Write(w io.Writer, l Log) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}
