package commlog

import (
	"sort"
	"strings"

	"github.com/kilianp07/fleetalloc/core/normalize"
)

// Announcement is a forwarded task announcement row.
type Announcement struct {
	Time         float64  `json:"time"`
	From         string   `json:"from"`
	To           string   `json:"to"`
	TaskID       string   `json:"task_id"`
	PickupEdge   string   `json:"pickup.edge"`
	DeliveryEdge string   `json:"delivery.edge"`
	Weight       *float64 `json:"weight"`
}

// Winner is a winner decision row.
type Winner struct {
	Time       float64  `json:"time"`
	From       string   `json:"from"`
	To         string   `json:"to"`
	TaskID     string   `json:"task_id"`
	Winner     string   `json:"winner"`
	BestBid    *float64 `json:"best_bid"`
	BestHolder string   `json:"best_holder"`
}

// Status is a vehicle status row.
type Status struct {
	Time          float64  `json:"time"`
	Vehicle       string   `json:"vehicle"`
	Battery       *float64 `json:"battery"`
	CurrentEdge   string   `json:"current_edge"`
	NextEdge      string   `json:"next_edge"`
	CurrentTask   string   `json:"current_task"`
	AssignedTasks string   `json:"assigned_tasks"`
}

// Parsed splits a log into its three tables.
type Parsed struct {
	Announcements []Announcement `json:"announcements"`
	Winners       []Winner       `json:"winners"`
	Statuses      []Status       `json:"vehicle_status"`
}

// AllVehicles disables vehicle filtering.
const AllVehicles = "All"

// Parse extracts announcements, winner decisions and status rows. Unknown
// event and message types are ignored.
func Parse(events []Event) Parsed {
	p := Parsed{Announcements: []Announcement{}, Winners: []Winner{}, Statuses: []Status{}}
	for _, ev := range events {
		switch ev.Type {
		case TypeMeshMessage:
			msg := Message{}
			if ev.Message != nil {
				msg = *ev.Message
			}
			switch msg.MessageType {
			case MsgForwardAnnouncement:
				p.Announcements = append(p.Announcements, Announcement{
					Time:         ev.SimTime,
					From:         ev.From,
					To:           ev.To,
					TaskID:       string(msg.TaskID),
					PickupEdge:   msg.Pickup,
					DeliveryEdge: msg.Delivery,
					Weight:       msg.Weight,
				})
			case MsgWinnerDecision:
				w := Winner{Time: ev.SimTime, From: ev.From, To: ev.To, TaskID: string(msg.TaskID), Winner: msg.Winner}
				if msg.Best != nil {
					w.BestBid = msg.Best.Bid
					if msg.Best.Holder != nil {
						w.BestHolder = *msg.Best.Holder
					}
				}
				p.Winners = append(p.Winners, w)
			}
		case TypeVehicleStatus:
			st := Status{
				Time:          ev.SimTime,
				Vehicle:       ev.Agent,
				Battery:       ev.Battery,
				CurrentEdge:   ev.CurrentEdge,
				NextEdge:      ev.NextEdge,
				AssignedTasks: joinIDs(ev.AssignedTasks),
			}
			if ev.CurrentTask != nil {
				st.CurrentTask = string(*ev.CurrentTask)
			}
			p.Statuses = append(p.Statuses, st)
		}
	}
	return p
}

// Vehicles returns every vehicle name referenced by the parsed rows, sorted.
func (p Parsed) Vehicles() []string {
	set := map[string]struct{}{}
	add := func(names ...string) {
		for _, n := range names {
			if n != "" {
				set[n] = struct{}{}
			}
		}
	}
	for _, a := range p.Announcements {
		add(a.From, a.To)
	}
	for _, w := range p.Winners {
		add(w.From, w.To)
	}
	for _, s := range p.Statuses {
		add(s.Vehicle)
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Filter keeps the rows mentioning vehicle. An empty name or AllVehicles
// returns p unchanged.
func (p Parsed) Filter(vehicle string) Parsed {
	if vehicle == "" || vehicle == AllVehicles {
		return p
	}
	out := Parsed{Announcements: []Announcement{}, Winners: []Winner{}, Statuses: []Status{}}
	for _, a := range p.Announcements {
		if a.From == vehicle || a.To == vehicle {
			out.Announcements = append(out.Announcements, a)
		}
	}
	for _, w := range p.Winners {
		if w.From == vehicle || w.To == vehicle || w.Winner == vehicle || w.BestHolder == vehicle {
			out.Winners = append(out.Winners, w)
		}
	}
	for _, s := range p.Statuses {
		if s.Vehicle == vehicle {
			out.Statuses = append(out.Statuses, s)
		}
	}
	return out
}

func joinIDs(ids []normalize.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
