package node

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cast"
)

// ParseTable decodes a JSON object of node-id → node document, keeping the
// order in which ids appear. Field values of an unexpected type are treated
// as absent rather than failing the whole table.
func ParseTable(data []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read node table: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("node table must be a JSON object, got %v", tok)
	}

	table := NewTable()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read node id: %w", err)
		}
		id, _ := keyTok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode node %s: %w", id, err)
		}

		doc, _ := value.(map[string]any)
		table.Add(RecordFromMap(id, doc))
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read node table: %w", err)
	}
	return table, nil
}

// RecordFromMap builds a Record from a decoded node document. A nil doc
// yields a record with every field absent.
func RecordFromMap(id string, doc map[string]any) *Record {
	if doc == nil {
		doc = map[string]any{}
	}
	r := &Record{
		ID:        id,
		LastHeard: int64Field(doc, "lastHeard"),
		SNR:       floatField(doc, "snr"),
		HopsAway:  intField(doc, "hopsAway"),
		Raw:       doc,
	}

	if m := subRecord(doc, "user"); m != nil {
		r.User = &User{
			LongName:  stringField(m, "longName"),
			ShortName: stringField(m, "shortName"),
			HWModel:   stringField(m, "hwModel"),
			Role:      stringField(m, "role"),
			PublicKey: stringField(m, "publicKey"),
		}
	}

	if m := subRecord(doc, "deviceMetrics"); m != nil {
		r.DeviceMetrics = &DeviceMetrics{
			BatteryLevel:       floatField(m, "batteryLevel"),
			Voltage:            floatField(m, "voltage"),
			ChannelUtilization: floatField(m, "channelUtilization"),
			AirUtilization:     floatField(m, "airUtilization"),
			UptimeSeconds:      int64Field(m, "uptimeSeconds"),
		}
	}

	if m := subRecord(doc, "position"); m != nil {
		r.Position = &Position{
			Latitude:       floatField(m, "latitude"),
			Longitude:      floatField(m, "longitude"),
			Altitude:       floatField(m, "altitude"),
			LocationSource: stringField(m, "locationSource"),
			Time:           int64Field(m, "time"),
		}
	}

	return r
}

// subRecord returns doc[key] when it is a non-empty object. Empty objects
// count as absent, like a missing key.
func subRecord(doc map[string]any, key string) map[string]any {
	m, ok := doc[key].(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	return m
}

// scalar returns doc[key] if it holds a JSON scalar that cast may convert.
// Booleans, objects and arrays never convert to numbers here.
func scalar(doc map[string]any, key string) (any, bool) {
	v, ok := doc[key]
	if !ok || v == nil {
		return nil, false
	}
	switch v.(type) {
	case bool, map[string]any, []any:
		return nil, false
	}
	return v, true
}

func int64Field(doc map[string]any, key string) *int64 {
	v, ok := scalar(doc, key)
	if !ok {
		return nil
	}
	if f, isFloat := v.(float64); isFloat {
		// int64(f) is undefined outside this range
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return nil
		}
		n := int64(f)
		return &n
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return nil
	}
	return &n
}

func intField(doc map[string]any, key string) *int {
	n := int64Field(doc, key)
	if n == nil {
		return nil
	}
	i := int(*n)
	return &i
}

func floatField(doc map[string]any, key string) *float64 {
	v, ok := scalar(doc, key)
	if !ok {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return &f
}

func stringField(doc map[string]any, key string) *string {
	v, ok := doc[key]
	if !ok || v == nil {
		return nil
	}
	switch v.(type) {
	case map[string]any, []any:
		return nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil
	}
	return &s
}
