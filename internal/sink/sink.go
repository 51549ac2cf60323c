// Package sink persists each fetched node table: an append-only JSON-lines
// log, an overwritten CSV snapshot, and the radio's own HTTP status report.
package sink

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/elwarren/meshtastic-menubar/internal/config"
	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/elwarren/meshtastic-menubar/internal/logger"
	"github.com/elwarren/meshtastic-menubar/internal/node"
)

// TimestampLayout is the "timestamp" format in the JSON-lines logs.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Sinks is the set of enabled outputs. An empty path disables that output.
type Sinks struct {
	NodesJSONL string
	NodesCSV   string
	// Report is only written when ReportURL is set.
	Report    string
	ReportURL string
	Client    *http.Client
	Log       logger.Logger
}

// FromConfig enables the sinks configured in cfg. The status report is only
// captured over wifi since it needs the radio's web server.
func FromConfig(cfg *config.Config) *Sinks {
	s := &Sinks{
		NodesJSONL: cfg.LogPath(cfg.LogNodesJSONL),
		NodesCSV:   cfg.LogPath(cfg.LogNodesCSV),
		Client:     http.DefaultClient,
		Log:        logger.Default(),
	}
	if cfg.Connection == config.ConnectionWifi {
		s.Report = cfg.LogPath(cfg.LogWifiReport)
		s.ReportURL = cfg.TargetURL() + "/json/report"
	}
	return s
}

// Save writes every enabled sink in turn and returns the failures, in
// the order JSONL, CSV, report. A failing sink does not stop the others.
func (s *Sinks) Save(ctx context.Context, ts time.Time, t *node.Table) []error {
	log := s.Log
	if log == nil {
		log = logger.Noop()
	}

	jobs := []func() error{
		func() error { return AppendNodes(s.NodesJSONL, ts, t) },
		func() error { return WriteNodesCSV(s.NodesCSV, t) },
	}
	if s.ReportURL != "" {
		jobs = append(jobs, func() error {
			return CaptureReport(ctx, s.Client, s.ReportURL, s.Report, ts)
		})
	}

	var failed []error
	for _, job := range jobs {
		if err := job(); err != nil {
			log.Warn("%s", errors.OneLine(err))
			failed = append(failed, err)
		}
	}
	return failed
}

// StripRaw returns a copy of v with every map key named "raw" removed, at
// any depth.
func StripRaw(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if k == "raw" {
				continue
			}
			out[k] = StripRaw(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = StripRaw(inner)
		}
		return out
	default:
		return v
	}
}

// StripRawMap is StripRaw for a single node document.
func StripRawMap(m map[string]any) map[string]any {
	return StripRaw(m).(map[string]any)
}

type nodesLine struct {
	Timestamp string       `json:"timestamp"`
	Nodes     node.Ordered `json:"nodes"`
}

// AppendNodes appends {"timestamp", "nodes"} to the JSON-lines log at path.
// Nodes keep source order; "raw" keys are dropped.
func AppendNodes(path string, ts time.Time, t *node.Table) error {
	if path == "" {
		return nil
	}
	if t == nil {
		t = node.NewTable()
	}

	line := nodesLine{
		Timestamp: ts.Format(TimestampLayout),
		Nodes:     t.JSON(StripRawMap),
	}
	if err := appendJSONLine(path, line); err != nil {
		return errors.WrapWithCode(err, errors.ErrSink,
			"Couldn't append nodes to "+path,
			"Check log_dir exists and is writable, or set log_nodes_jsonl to \"\"")
	}
	return nil
}

func appendJSONLine(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
