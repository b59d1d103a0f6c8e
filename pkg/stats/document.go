package stats

import (
	"encoding/json"
	"sort"
)

// State tracks where a stat value document stands relative to the service.
type State int

const (
	// StateNotLoaded means the initial fetch has not completed.
	StateNotLoaded State = iota
	// StateLoaded means the document reflects the service copy.
	StateLoaded
	// StateOfflineNotLoaded means the initial fetch failed while the user
	// appears signed in; writes are staged for offline handling.
	StateOfflineNotLoaded
	// StateOfflineLoaded means a loaded document later failed to write.
	StateOfflineLoaded
)

// Document is one user's set of named statistic values with dirty
// tracking. Writes are staged in a pending list and folded into the
// applied map by ApplyPending, so a flush never observes half of a
// burst of related writes. Document is not safe for concurrent use;
// the manager serializes access.
type Document struct {
	values  map[string]Value
	pending []Value
	dirty   bool
	state   State
}

func NewDocument() *Document {
	return &Document{values: make(map[string]Value)}
}

// effective returns the stat as a flush would currently see it,
// preferring the latest staged write.
func (d *Document) effective(name string) (Value, bool) {
	for i := len(d.pending) - 1; i >= 0; i-- {
		if d.pending[i].name == name {
			return d.pending[i], true
		}
	}
	v, ok := d.values[name]
	return v, ok
}

func (d *Document) stage(v Value) error {
	if cur, ok := d.effective(v.name); ok && cur.dataType != v.dataType {
		return ErrStatTypeMismatch
	}
	d.pending = append(d.pending, v)
	d.dirty = true
	return nil
}

// SetNumber stages a numeric stat write.
func (d *Document) SetNumber(name string, value float64) error {
	return d.stage(NumberValue(name, value))
}

// SetInteger stages an integer stat write. Stored numerically.
func (d *Document) SetInteger(name string, value int64) error {
	return d.stage(NumberValue(name, float64(value)))
}

// SetString stages a string stat write.
func (d *Document) SetString(name, value string) error {
	return d.stage(StringValue(name, value))
}

// Get returns the stat as currently staged or applied.
func (d *Document) Get(name string) (Value, error) {
	v, ok := d.effective(name)
	if !ok {
		return Value{}, ErrStatNotFound
	}
	return v, nil
}

// Names returns all stat names, sorted.
func (d *Document) Names() []string {
	seen := make(map[string]struct{}, len(d.values)+len(d.pending))
	for name := range d.values {
		seen[name] = struct{}{}
	}
	for _, v := range d.pending {
		seen[v.name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Delete removes the stat from both the applied map and the staged list.
func (d *Document) Delete(name string) error {
	if _, ok := d.effective(name); !ok {
		return ErrStatNotFound
	}

	delete(d.values, name)
	kept := d.pending[:0]
	for _, v := range d.pending {
		if v.name != name {
			kept = append(kept, v)
		}
	}
	d.pending = kept
	d.dirty = true
	return nil
}

// ApplyPending folds staged writes into the applied map, in order.
func (d *Document) ApplyPending() {
	for _, v := range d.pending {
		d.values[v.name] = v
	}
	d.pending = d.pending[:0]
}

// Merge adopts service-side stats the local document does not know yet.
// Local values, applied or staged, always win.
func (d *Document) Merge(other *Document) {
	for name, v := range other.values {
		if _, ok := d.effective(name); !ok {
			d.values[name] = v
		}
	}
}

func (d *Document) IsDirty() bool { return d.dirty }

func (d *Document) ClearDirty() { d.dirty = false }

func (d *Document) State() State { return d.state }

func (d *Document) SetState(s State) { d.state = s }

type documentJSON struct {
	Stats []Value `json:"stats"`
}

// Serialize encodes the applied values as JSON. Callers apply pending
// writes first when they want staged data included.
func (d *Document) Serialize() ([]byte, error) {
	out := documentJSON{Stats: make([]Value, 0, len(d.values))}
	names := make([]string, 0, len(d.values))
	for name := range d.values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out.Stats = append(out.Stats, d.values[name])
	}
	return json.Marshal(out)
}

// Deserialize replaces the applied values with the encoded document.
// Staged writes and dirty state are untouched.
func (d *Document) Deserialize(data []byte) error {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	d.values = make(map[string]Value, len(in.Stats))
	for _, v := range in.Stats {
		d.values[v.name] = v
	}
	return nil
}
