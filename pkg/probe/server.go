// Package probe serves the orchestrator's liveness and readiness checks on a
// port separate from the public API.
package probe

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"iris_api/pkg/httpx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	StatusAlive    = "alive"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// ReadinessFunc reports whether the process can take traffic.
type ReadinessFunc func() bool

type Options struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type state struct {
	Options

	Status string `json:"status"`
}

type Server struct {
	listenAddress string
	options       Options
	ready         ReadinessFunc
}

// NewServer serves /healthz and /ready. A nil ready func means always ready.
func NewServer(
	listenAddress string,
	options Options,
	ready ReadinessFunc,
) Server {
	if ready == nil {
		ready = func() bool { return true }
	}

	return Server{
		listenAddress: listenAddress,
		options:       options,
		ready:         ready,
	}
}

func (s Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handlerHealthz)
	mux.HandleFunc("GET /ready", s.handlerReady)

	return mux
}

func (s Server) Run(ctx context.Context) error {
	return httpx.Serve(ctx, s.listenAddress, s.Handler(), httpx.ServeOptions{Name: "probe"})
}

func (s Server) handlerHealthz(w http.ResponseWriter, _ *http.Request) {
	s.write(w, http.StatusOK, StatusAlive)
}

func (s Server) handlerReady(w http.ResponseWriter, _ *http.Request) {
	if !s.ready() {
		s.write(w, http.StatusServiceUnavailable, StatusNotReady)

		return
	}

	s.write(w, http.StatusOK, StatusReady)
}

func (s Server) write(w http.ResponseWriter, status int, probeStatus string) {
	body, _ := json.Marshal(state{Options: s.options, Status: probeStatus}) //nolint:errcheck,errchkjson

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body) //nolint:errcheck
}
