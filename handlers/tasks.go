package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"tasknest/models"
	"tasknest/store"
	"tasknest/utils"
)

// HealthHandler reports whether the active backend answers.
func HealthHandler(w http.ResponseWriter, r *http.Request, st store.TaskStore, backend store.Backend) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := st.Ping(ctx); err != nil {
		log.Println("health check failed:", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unavailable",
			"backend": string(backend),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"backend": string(backend),
	})
}

func ListTasksHandler(w http.ResponseWriter, r *http.Request, st store.TaskStore) {
	tasks, err := st.List(r.Context())
	if err != nil {
		log.Println("Error listing tasks:", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func GetTaskHandler(w http.ResponseWriter, r *http.Request, st store.TaskStore) {
	id, ok := taskID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	task, err := st.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, "getting task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type addTaskRequest struct {
	Title *string `json:"title"`
}

// AddTaskHandler creates a task from {"title": "..."}.
func AddTaskHandler(w http.ResponseWriter, r *http.Request, st store.TaskStore) {
	if !utils.IsJSON(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req addTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	title := ""
	if req.Title != nil {
		title = *req.Title
	}
	task, err := st.Add(r.Context(), title)
	if err != nil {
		writeStoreError(w, "adding task", err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// UpdateTaskHandler applies {"title"?, "done"?} to an existing task.
func UpdateTaskHandler(w http.ResponseWriter, r *http.Request, st store.TaskStore) {
	id, ok := taskID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if !utils.IsJSON(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var patch models.TaskPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := st.Update(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, "updating task", err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func DeleteTaskHandler(w http.ResponseWriter, r *http.Request, st store.TaskStore) {
	id, ok := taskID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	if err := st.Delete(r.Context(), id); err != nil {
		writeStoreError(w, "deleting task", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// taskID reads the {id} path value. Anything that is not a positive integer
// cannot name a task.
func taskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, action string, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "Task not found")
	default:
		log.Printf("Error %s: %v", action, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
