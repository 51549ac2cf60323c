package sink

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/elwarren/meshtastic-menubar/internal/node"
	"github.com/spf13/cast"
)

// Flatten lifts one level of nested maps into "parent_child" keys. Deeper
// values are kept as they are and encoded as JSON in the CSV.
func Flatten(doc map[string]any) map[string]any {
	flat := make(map[string]any, len(doc))
	for k, v := range doc {
		if sub, ok := v.(map[string]any); ok {
			for sk, sv := range sub {
				flat[k+"_"+sk] = sv
			}
			continue
		}
		flat[k] = v
	}
	return flat
}

// Columns returns the sorted union of keys across rows.
func Columns(rows []map[string]any) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// WriteCSV writes one row per node, in source order, with the flattened
// header.
func WriteCSV(w io.Writer, t *node.Table) error {
	var rows []map[string]any
	if t != nil {
		for _, raw := range t.RawMaps(StripRawMap) {
			rows = append(rows, Flatten(raw))
		}
	}
	header := Columns(rows)

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := make([]string, len(header))
		for i, col := range header {
			record[i] = cell(r[col])
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteNodesCSV overwrites the CSV snapshot at path.
func WriteNodesCSV(path string, t *node.Table) error {
	if path == "" {
		return nil
	}

	wrap := func(err error) error {
		return errors.WrapWithCode(err, errors.ErrSink,
			"Couldn't write node CSV "+path,
			"Check log_dir exists and is writable, or set log_nodes_csv to \"\"")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return wrap(err)
	}
	f, err := os.Create(path)
	if err != nil {
		return wrap(err)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return wrap(err)
	}
	if err := f.Close(); err != nil {
		return wrap(err)
	}
	return nil
}

func cell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case map[string]any, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
	return cast.ToString(v)
}
