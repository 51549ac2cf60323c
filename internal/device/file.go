package device

import (
	"bytes"
	"context"
	"encoding/json"
	"os"

	"github.com/elwarren/meshtastic-menubar/internal/errors"
	"github.com/elwarren/meshtastic-menubar/internal/node"
)

// FileSource replays a node table saved on disk. It accepts a bare node map,
// the last line of a nodes JSON-lines log ({"timestamp": ..., "nodes": {...}})
// or captured `meshtastic --info` output.
type FileSource struct {
	Path string
}

// Describe implements Source.
func (s *FileSource) Describe() string {
	return "file " + s.Path
}

// FetchNodes implements Source.
func (s *FileSource) FetchNodes(ctx context.Context) (*node.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDevice,
			"Couldn't read nodes from "+s.Path,
			"Check the --from path")
	}

	if bytes.Contains(data, []byte(NodesMarker)) {
		return ExtractNodes(data)
	}

	doc := lastNonEmptyLine(data)
	if looksLikeLogLine(doc) {
		var line struct {
			Nodes json.RawMessage `json:"nodes"`
		}
		if err := json.Unmarshal(doc, &line); err == nil && len(line.Nodes) > 0 {
			doc = line.Nodes
		}
	} else {
		doc = data
	}

	table, err := node.ParseTable(doc)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDevice,
			"Couldn't parse nodes in "+s.Path,
			"Expected a JSON node map or a nodes .jsonl log")
	}
	return table, nil
}

// looksLikeLogLine reports whether doc is a single JSON object carrying a
// "timestamp" key, the shape written by the nodes log.
func looksLikeLogLine(doc []byte) bool {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(doc, &top); err != nil {
		return false
	}
	_, hasTS := top["timestamp"]
	_, hasNodes := top["nodes"]
	return hasTS && hasNodes
}

func lastNonEmptyLine(data []byte) []byte {
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if l := bytes.TrimSpace(lines[i]); len(l) > 0 {
			return l
		}
	}
	return nil
}
