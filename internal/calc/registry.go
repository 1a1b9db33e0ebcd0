package calc

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Entity describes one persisted calculator: its entity key as used in
// URLs, the backing table and the compute adapter for the generic
// compute endpoint.
type Entity struct {
	Key     string
	Table   string
	Title   string
	Compute func(inputs json.RawMessage) (json.RawMessage, error)
}

func adapt[I, R any](fn func(I) R) func(json.RawMessage) (json.RawMessage, error) {
	return func(raw json.RawMessage) (json.RawMessage, error) {
		var in I
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &in); err != nil {
				return nil, fmt.Errorf("decode inputs: %w", err)
			}
		}
		out, err := json.Marshal(fn(in))
		if err != nil {
			return nil, fmt.Errorf("encode computed: %w", err)
		}
		return out, nil
	}
}

var registry = map[string]Entity{
	"dc001":           {Key: "dc001", Table: "dc001_calcs", Title: "DC001 — Seat insert & spring calculation", Compute: adapt(ComputeDC001)},
	"dc001a":          {Key: "dc001a", Table: "dc001a_calcs", Title: "DC001A — Self relieving seat check", Compute: adapt(ComputeDC001A)},
	"dc002":           {Key: "dc002", Table: "dc002_calcs", Title: "DC002 — Body-closure bolts (operating)", Compute: adapt(ComputeDC002)},
	"dc002a":          {Key: "dc002a", Table: "dc002a_calcs", Title: "DC002A — Body-closure bolts (hydro test)", Compute: adapt(ComputeDC002A)},
	"dc003":           {Key: "dc003", Table: "dc003_calcs", Title: "DC003 — Bearing stress calculation", Compute: adapt(ComputeDC003)},
	"dc004":           {Key: "dc004", Table: "dc004_calcs", Title: "DC004 — Seat thickness calculation", Compute: adapt(ComputeDC004)},
	"dc005":           {Key: "dc005", Table: "dc005_calcs", Title: "DC005 — Gland bolts (operating)", Compute: adapt(ComputeDC005)},
	"dc005a":          {Key: "dc005a", Table: "dc005a_calcs", Title: "DC005A — Gland bolts (hydro test)", Compute: adapt(ComputeDC005A)},
	"dc006":           {Key: "dc006", Table: "dc006_calcs", Title: "DC006 — Flange stress (operating)", Compute: adapt(ComputeDC006)},
	"dc006a":          {Key: "dc006a", Table: "dc006a_calcs", Title: "DC006A — Flange stress (hydro test)", Compute: adapt(ComputeDC006A)},
	"dc007-body":      {Key: "dc007-body", Table: "dc007_body_calcs", Title: "DC007-1 — Body wall thickness", Compute: adapt(ComputeDC007Body)},
	"dc007-body-holes": {Key: "dc007-body-holes", Table: "dc007_body_holes_calcs", Title: "DC007-2 — Body holes requirements", Compute: adapt(ComputeDC007Holes)},
	"dc008":           {Key: "dc008", Table: "dc008_calcs", Title: "DC008 — Ball sizing calculation", Compute: adapt(ComputeDC008)},
	"dc010":           {Key: "dc010", Table: "dc010_calcs", Title: "DC010 — Valve torque calculation", Compute: adapt(ComputeDC010)},
	"dc011":           {Key: "dc011", Table: "dc011_calcs", Title: "DC011 — Flow coefficient Cv", Compute: adapt(ComputeDC011)},
	"dc012":           {Key: "dc012", Table: "dc012_calcs", Title: "DC012 — Lifting lugs calculation", Compute: adapt(ComputeDC012)},
}

// Lookup returns the entity for a key.
func Lookup(key string) (Entity, bool) {
	e, ok := registry[key]
	return e, ok
}

// EntityKeys returns all registered entity keys, sorted.
func EntityKeys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
