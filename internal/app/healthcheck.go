package app

import (
	"fmt"
	"net/http"
)

// healthHandler reports OK once a scene has been built, and 503 before.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	sc := a.Scene()
	if sc == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintln(w, "NO SCENE")
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK %s\n", sc.ID())
}

// newMux routes /health and /metrics.
func (a *App) newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.Handle("/metrics", a.metrics.Handler())
	return mux
}
