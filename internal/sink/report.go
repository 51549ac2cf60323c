package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elwarren/meshtastic-menubar/internal/errors"
)

// ReportTimeout bounds the status report request.
const ReportTimeout = 10 * time.Second

type reportLine struct {
	Timestamp string          `json:"timestamp"`
	Report    json.RawMessage `json:"report"`
}

// CaptureReport fetches the radio's JSON status report from url and appends
// {"timestamp", "report"} to path. The request gets ReportTimeout on top of
// whatever deadline ctx already has.
func CaptureReport(ctx context.Context, client *http.Client, url, path string, ts time.Time) error {
	if path == "" {
		return nil
	}
	if client == nil {
		client = http.DefaultClient
	}

	report, err := fetchReport(ctx, client, url)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrReport,
			"Couldn't fetch status report from "+url,
			"The radio's web server must be enabled; set log_wifi_report to \"\" to skip this")
	}

	line := reportLine{Timestamp: ts.Format(TimestampLayout), Report: report}
	if err := appendJSONLine(path, line); err != nil {
		return errors.WrapWithCode(err, errors.ErrSink,
			"Couldn't append status report to "+path,
			"Check log_dir exists and is writable")
	}
	return nil
}

func fetchReport(ctx context.Context, client *http.Client, url string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, ReportTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("response is not JSON")
	}
	return json.RawMessage(body), nil
}

// CheckReport checks that url serves a JSON status report without saving it.
func CheckReport(ctx context.Context, client *http.Client, url string) error {
	if client == nil {
		client = http.DefaultClient
	}
	_, err := fetchReport(ctx, client, url)
	return err
}
