package hosttest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/reglet-dev/hostcap/domain/entities"
	"github.com/reglet-dev/hostcap/hostfuncs"
	"github.com/reglet-dev/hostcap/wireformat"
)

// Handler serves the remote-bridge REST contract.
func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+wireformat.PathHealth, func(w http.ResponseWriter, r *http.Request) {
		if !b.healthCheck() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, entities.HealthStatus{Status: "ok"})
	})

	for _, route := range wireformat.Routes() {
		mux.HandleFunc(route.Method+" "+route.Path, func(w http.ResponseWriter, r *http.Request) {
			payload, err := io.ReadAll(r.Body)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, entities.FailedEnvelope(err.Error(), "VALIDATION_ERROR"))
				return
			}
			res, err := b.invoke(r.Context(), route.Capability, route.Operation, payload)
			if err != nil {
				status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
				var he *hostfuncs.HostError
				if errors.As(err, &he) {
					status, code = he.Code, he.Kind
				}
				writeJSON(w, status, entities.FailedEnvelope(err.Error(), code))
				return
			}
			env, err := entities.NewEnvelope(res)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, entities.FailedEnvelope(err.Error(), "INTERNAL_ERROR"))
				return
			}
			writeJSON(w, http.StatusOK, env)
		})
	}
	return mux
}

// StartServer serves Handler on a loopback port for the duration of the test and
// returns its host and port.
func (b *Backend) StartServer(tb testing.TB) (string, int) {
	tb.Helper()
	srv := httptest.NewServer(b.Handler())
	tb.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		tb.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		tb.Fatal(err)
	}
	return u.Hostname(), port
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
