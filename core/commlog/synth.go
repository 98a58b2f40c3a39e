package commlog

import (
	"slices"
	"sort"

	"github.com/kilianp07/fleetalloc/core/normalize"
)

// forwardStep spaces synthesized forwards after the original announcement.
const forwardStep = 0.1

// Template is the first announcement seen for a task.
type Template struct {
	TaskID       string   `json:"task_id"`
	Pickup       string   `json:"pickup"`
	Delivery     string   `json:"delivery"`
	Weight       *float64 `json:"weight"`
	AnnounceTime float64  `json:"announce_time"`
}

// Templates collects one template per task id in first-seen order.
func Templates(events []Event) []Template {
	seen := map[string]bool{}
	var out []Template
	for _, ev := range events {
		if ev.Type != TypeMeshMessage || ev.Message == nil {
			continue
		}
		msg := ev.Message
		id := string(msg.TaskID)
		if msg.MessageType != MsgForwardAnnouncement || id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, Template{
			TaskID:       id,
			Pickup:       msg.Pickup,
			Delivery:     msg.Delivery,
			Weight:       msg.Weight,
			AnnounceTime: ev.SimTime,
		})
	}
	return out
}

// Pairs returns every ordered pair of distinct vehicles, source major.
func Pairs(vehicleIDs []string) [][2]string {
	var out [][2]string
	for i, src := range vehicleIDs {
		for j, dst := range vehicleIDs {
			if i != j {
				out = append(out, [2]string{src, dst})
			}
		}
	}
	return out
}

// Synthesize adds, for every announced task, one forwarded announcement per
// ordered vehicle pair. The k-th forward of a task is stamped at its
// announce time plus 0.1*(k+1). The merged log is stably sorted by sim time.
func Synthesize(vehicleIDs []string, base []Event) []Event {
	pairs := Pairs(vehicleIDs)
	all := slices.Clone(base)
	for _, tmpl := range Templates(base) {
		for k, p := range pairs {
			all = append(all, Event{
				Type:      TypeMeshMessage,
				SimTime:   tmpl.AnnounceTime + forwardStep*float64(k+1),
				From:      p[0],
				To:        p[1],
				Direction: DirectionAnnouncementForward,
				Message: &Message{
					MessageType: MsgForwardAnnouncement,
					TaskID:      normalize.ID(tmpl.TaskID),
					Pickup:      tmpl.Pickup,
					Delivery:    tmpl.Delivery,
					Weight:      tmpl.Weight,
					Path:        []string{p[0], p[1]},
					Best:        &Best{},
				},
			})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].SimTime < all[j].SimTime })
	return all
}
