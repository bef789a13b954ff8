package cc

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"
)

// MetricFunc returns a map of metric name -> value: plain tokens in
// [a-zA-Z0-9_:], one float64 per name, so multiple collectors can share one
// /metrics endpoint.
type MetricFunc func() map[string]float64

// Collector returns s's running Stats as a MetricFunc, ready to hand to
// StartMetricsServer under whatever collector name the caller chooses
// (e.g. "cc").
func (s *State) Collector() MetricFunc {
	return func() map[string]float64 {
		st := s.Stats()
		return map[string]float64{
			"total_allocations": float64(st.TotalAllocations),
			"live_headers":      float64(st.LiveHeaders),
			"total_clones":      float64(st.TotalClones),
			"total_drops":       float64(st.TotalDrops),
			"fast_path_frees":   float64(st.FastPathFrees),
			"collections_run":   float64(st.CollectionsRun),
			"cycles_detected":   float64(st.CyclesDetected),
			"traced_count":      float64(st.TracedCount),
			"resurrections":     float64(st.Resurrections),
			"finalizers_run":    float64(st.FinalizersRun),
			"possible_cycles":   float64(s.PossibleCycles()),
			"busy":              boolMetric(s.IsBusy()),
		}
	}
}

func boolMetric(b bool) float64 {
	if b {
		return 1
	}

	return 0
}

// StartMetricsServer starts a minimal text-exposition endpoint for metrics
// on addr (host:port). It returns the bound address (which may differ from
// addr if port 0 was used) and a shutdown function.
func StartMetricsServer(addr string, collectors map[string]MetricFunc) (string, func(ctx context.Context) error, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		names := make([]string, 0, len(collectors))
		for name := range collectors {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fn := collectors[name]
			if fn == nil {
				continue
			}

			snapshot := fn()
			keys := make([]string, 0, len(snapshot))
			for k := range snapshot {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			for _, k := range keys {
				fmt.Fprintf(w, "%s %g\n", sanitizeMetricToken(name+"_"+k), snapshot[k])
			}
		}
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 3 * time.Second}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, err
	}

	bound := ln.Addr().String()

	go func() { _ = srv.Serve(ln) }()

	return bound, func(ctx context.Context) error { return srv.Shutdown(ctx) }, nil
}

func sanitizeMetricToken(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == ':' {
			b[i] = c
		} else {
			b[i] = '_'
		}
	}

	if len(b) > 0 && b[0] >= '0' && b[0] <= '9' {
		return "_" + string(b)
	}

	return strings.ReplaceAll(string(b), "__", "_")
}
