// Package node models the node table reported by a Meshtastic device and
// the pure logic applied to it: freshness classification and ordering.
package node

import (
	"bytes"
	"encoding/json"
)

// User is the identity sub-record a node broadcasts about itself.
type User struct {
	LongName  *string
	ShortName *string
	HWModel   *string
	Role      *string
	PublicKey *string
}

// DeviceMetrics is the telemetry sub-record.
type DeviceMetrics struct {
	BatteryLevel       *float64
	Voltage            *float64
	ChannelUtilization *float64
	AirUtilization     *float64
	UptimeSeconds      *int64
}

// Position is the location sub-record.
type Position struct {
	Latitude       *float64
	Longitude      *float64
	Altitude       *float64
	LocationSource *string
	Time           *int64
}

// Record is one entry of the node table. Every attribute is optional; a nil
// sub-record means the device did not report that section at all.
type Record struct {
	ID            string
	LastHeard     *int64
	SNR           *float64
	HopsAway      *int
	User          *User
	DeviceMetrics *DeviceMetrics
	Position      *Position

	// Raw is the record as decoded from the source, kept for the log sinks.
	Raw map[string]any
}

// ShortName returns the user short name, or nil when unknown.
func (r *Record) ShortName() *string {
	if r.User == nil {
		return nil
	}
	return r.User.ShortName
}

// Table maps node ids to records while remembering the order in which the
// source listed them. The first listed id is the locally attached device.
type Table struct {
	IDs   []string
	Nodes map[string]*Record
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{Nodes: make(map[string]*Record)}
}

// Add appends a record. Re-adding an id replaces the record but keeps the
// id's original position.
func (t *Table) Add(r *Record) {
	if _, ok := t.Nodes[r.ID]; !ok {
		t.IDs = append(t.IDs, r.ID)
	}
	t.Nodes[r.ID] = r
}

// Get returns the record for id, or nil.
func (t *Table) Get(id string) *Record {
	if t == nil {
		return nil
	}
	return t.Nodes[id]
}

// Len returns the number of nodes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.IDs)
}

// Self returns the id of the first-observed node, or "" for an empty table.
func (t *Table) Self() string {
	if t.Len() == 0 {
		return ""
	}
	return t.IDs[0]
}

// RawMaps returns each node's raw document, passed through fn when fn is
// non-nil, in source order.
func (t *Table) RawMaps(fn func(map[string]any) map[string]any) []map[string]any {
	out := make([]map[string]any, 0, t.Len())
	for _, id := range t.IDs {
		raw := t.Nodes[id].Raw
		if raw == nil {
			raw = map[string]any{}
		}
		if fn != nil {
			raw = fn(raw)
		}
		out = append(out, raw)
	}
	return out
}

// Ordered is a JSON object whose keys keep a fixed order when encoded.
type Ordered struct {
	Keys   []string
	Values []any
}

// MarshalJSON implements json.Marshaler.
func (o Ordered) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSON returns the table as an id-keyed object in source order, each value
// being the node's raw document passed through fn (if non-nil).
func (t *Table) JSON(fn func(map[string]any) map[string]any) Ordered {
	raws := t.RawMaps(fn)
	values := make([]any, len(raws))
	for i, r := range raws {
		values[i] = r
	}
	ids := make([]string, t.Len())
	copy(ids, t.IDs)
	return Ordered{Keys: ids, Values: values}
}

// MarshalJSON encodes the table with its raw documents in source order.
func (t *Table) MarshalJSON() ([]byte, error) {
	return t.JSON(nil).MarshalJSON()
}
