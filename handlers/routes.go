package handlers

import (
	"io/fs"
	"log"
	"net/http"
	"strings"

	"tasknest/store"
)

// Routes builds the full HTTP surface: the JSON API under /api/ and the
// client application everywhere else.
func Routes(st store.TaskStore, backend store.Backend, static fs.FS, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		HealthHandler(w, r, st, backend)
	})
	mux.HandleFunc("GET /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		ListTasksHandler(w, r, st)
	})
	mux.HandleFunc("POST /api/tasks", func(w http.ResponseWriter, r *http.Request) {
		AddTaskHandler(w, r, st)
	})
	mux.HandleFunc("GET /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		GetTaskHandler(w, r, st)
	})
	mux.HandleFunc("PUT /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		UpdateTaskHandler(w, r, st)
	})
	mux.HandleFunc("DELETE /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		DeleteTaskHandler(w, r, st)
	})
	mux.HandleFunc("/api/", apiFallback)

	mux.Handle("/", SPAHandler(static))

	return WithRequestID(Logging(logger)(mux))
}

// apiFallback answers every /api/ request no route matched. A known path
// reached with the wrong method gets 405 and an Allow header, anything else
// a JSON 404.
func apiFallback(w http.ResponseWriter, r *http.Request) {
	allow := allowedMethods(r.URL.Path)
	if allow == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func allowedMethods(path string) string {
	switch path {
	case "/api/health":
		return "GET, HEAD"
	case "/api/tasks":
		return "GET, HEAD, POST"
	}
	if id, ok := strings.CutPrefix(path, "/api/tasks/"); ok && id != "" && !strings.Contains(id, "/") {
		return "GET, HEAD, PUT, DELETE"
	}
	return ""
}
