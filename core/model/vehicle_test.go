package model

import (
	"encoding/json"
	"testing"
)

func TestPointDistance(t *testing.T) {
	d := Point{0, 0}.Distance(Point{3, 4})
	if d != 5 {
		t.Fatalf("expected 5 got %v", d)
	}
}

func TestPointJSON(t *testing.T) {
	var p Point
	if err := json.Unmarshal([]byte(`[1.5, -2]`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.X != 1.5 || p.Y != -2 {
		t.Fatalf("unexpected point %+v", p)
	}
	if err := json.Unmarshal([]byte(`[1]`), &p); err == nil {
		t.Fatal("expected error for short array")
	}
	b, err := json.Marshal(Point{1, 2})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "[1,2]" {
		t.Fatalf("unexpected encoding %s", b)
	}
}

func TestCapabilitiesHas(t *testing.T) {
	c := Capabilities{TypeDelivery, TypeReconnaissance}
	if !c.Has(TypeDelivery) || c.Has(TypeStrike) {
		t.Fatalf("unexpected capability lookup for %v", c)
	}
}

func TestCloneVehiclesIsDeep(t *testing.T) {
	vs := []Vehicle{{ID: "v1", Capabilities: Capabilities{TypeDelivery}}}
	cp := CloneVehicles(vs)
	cp[0].Capabilities[0] = TypeStrike
	if vs[0].Capabilities[0] != TypeDelivery {
		t.Fatal("clone shares capabilities backing array")
	}
}

func TestTimeWindowContains(t *testing.T) {
	w := TimeWindow{Start: 0, End: 10}
	if !w.Contains(0) || !w.Contains(10) || w.Contains(10.01) {
		t.Fatal("window bounds must be inclusive")
	}
}

func TestAssignmentHelpers(t *testing.T) {
	a := Assignment{"v1": {"1", "2"}, "v2": {"3"}, "v3": nil}
	if a.Count() != 3 {
		t.Fatalf("expected 3 got %d", a.Count())
	}
	if _, ok := a.Allocated()["3"]; !ok {
		t.Fatal("task 3 missing from allocated set")
	}
	if vid, ok := a.VehicleOf("2"); !ok || vid != "v1" {
		t.Fatalf("unexpected owner %s", vid)
	}
	cp := a.Clone()
	cp["v1"][0] = "x"
	if a["v1"][0] != "1" {
		t.Fatal("clone is shallow")
	}
}
