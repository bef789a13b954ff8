package cc

import (
	"bufio"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestStartMetricsServer_ServesCollectorStats(t *testing.T) {
	s := NewState(DefaultConfig)
	h := newNode(s, "a")
	h.DropIn(s)

	addr, stop, err := StartMetricsServer(":0", map[string]MetricFunc{"cc": s.Collector()})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = stop(context.Background()) }()

	cli := &http.Client{Timeout: 2 * time.Second}
	resp, err := cli.Get("http://" + addr + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %v", resp.Status)
	}

	rd := bufio.NewReader(resp.Body)
	var body string
	for {
		line, _, err := rd.ReadLine()
		if err != nil {
			break
		}
		body += string(line) + "\n"
	}

	if !strings.Contains(body, "cc_total_allocations 1") {
		t.Fatalf("missing cc_total_allocations metric, got: %q", body)
	}
	if !strings.Contains(body, "cc_fast_path_frees 1") {
		t.Fatalf("missing cc_fast_path_frees metric, got: %q", body)
	}
}

func TestSanitizeMetricToken(t *testing.T) {
	in := " cc metric (bad)!"
	out := sanitizeMetricToken(in)
	if strings.ContainsAny(out, " !()") {
		t.Fatalf("token not sanitized: %q", out)
	}
	if out == "" {
		t.Fatal("sanitizeMetricToken returned an empty token")
	}
}

func TestSanitizeMetricToken_LeadingDigitGetsPrefixed(t *testing.T) {
	out := sanitizeMetricToken("1cc_total")
	if out[0] != '_' {
		t.Fatalf("expected a leading-digit token to be prefixed with _, got %q", out)
	}
}
