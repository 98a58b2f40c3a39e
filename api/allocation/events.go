package allocation

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	coreallocation "github.com/kilianp07/fleetalloc/core/allocation"
	"github.com/kilianp07/fleetalloc/core/events"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 20 * time.Second
	writeWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

// EventMessage is the websocket frame sent for every allocation run.
type EventMessage struct {
	RunID        string                 `json:"run_id"`
	Time         time.Time              `json:"time"`
	DurationMS   float64                `json:"duration_ms"`
	HighSeverity bool                   `json:"high_severity"`
	Summary      coreallocation.Summary `json:"summary"`
	Rows         []coreallocation.Row   `json:"rows"`
	Alerts       []coreallocation.Alert `json:"alerts"`
	Unallocated  []string               `json:"unallocated"`
}

// NewEventMessage flattens an allocation event for streaming.
func NewEventMessage(ev events.AllocationEvent) EventMessage {
	un := make([]string, 0, len(ev.Report.Unallocated))
	for _, t := range ev.Report.Unallocated {
		un = append(un, t.ID)
	}
	return EventMessage{
		RunID:        ev.RunID,
		Time:         ev.Time,
		DurationMS:   float64(ev.Duration) / float64(time.Millisecond),
		HighSeverity: ev.HasHighSeverity(),
		Summary:      ev.Report.Summary,
		Rows:         ev.Report.Rows,
		Alerts:       ev.Report.Alerts,
		Unallocated:  un,
	}
}

func mentions(ev events.AllocationEvent, vehicleID string) bool {
	if vehicleID == "" {
		return true
	}
	_, ok := ev.Report.Result.Assignments[vehicleID]
	return ok
}

// events streams allocation runs to a websocket client until either side
// goes away. ?vehicle_id restricts the stream to runs involving that vehicle.
func (h *handler) events(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("websocket upgrade: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	vehicleID := r.URL.Query().Get("vehicle_id")
	bus := h.svc.Bus()
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongWait)) })

	// Inbound frames are ignored; reading drives pong handling and close
	// detection.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-gone:
			return
		case ev, ok := <-sub:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			if !mentions(ev, vehicleID) {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(NewEventMessage(ev)); err != nil {
				h.log.Debugf("websocket write: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
