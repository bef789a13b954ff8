package cc

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"
)

// DebugSnapshot is the JSON shape returned by StartDebugHTTP's /cc endpoint:
// a point-in-time view of a *State's list sizes and running stats, for
// watching collection behavior live without wiring a full metrics stack.
type DebugSnapshot struct {
	Busy           bool  `json:"busy"`
	PossibleCycles int   `json:"possibleCycles"`
	Stats          Stats `json:"stats"`
}

// StartDebugHTTP starts a lightweight HTTP server exposing diagnostic
// endpoints for s: a JSON snapshot endpoint plus an on-demand collection
// trigger, bound to addr (":0" picks an ephemeral port). It returns the
// bound address and a shutdown function compatible with http.Server.Shutdown.
//
//	GET  /cc          -> JSON DebugSnapshot
//	POST /cc/collect  -> runs CollectCyclesIn(s) synchronously, then returns
//	                     the post-collection DebugSnapshot
func StartDebugHTTP(s *State, addr string) (boundAddr string, shutdown func(ctx context.Context) error, err error) {
	mux := http.NewServeMux()

	snapshot := func() DebugSnapshot {
		return DebugSnapshot{
			Busy:           s.IsBusy(),
			PossibleCycles: s.PossibleCycles(),
			Stats:          s.Stats(),
		}
	}

	mux.HandleFunc("/cc", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(snapshot())
	})

	mux.HandleFunc("/cc/collect", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		CollectCyclesIn(s)

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(snapshot())
	})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, err
	}

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 3 * time.Second}
	go func() { _ = server.Serve(ln) }()

	return ln.Addr().String(), server.Shutdown, nil
}
