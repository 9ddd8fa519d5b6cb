package handlers

import (
	"net/http"

	"github.com/jpereira88/pipecrm/internal/entity"
	"github.com/jpereira88/pipecrm/internal/infra/database"
	"github.com/jpereira88/pipecrm/internal/infra/http/middleware"
)

type TaskHandler struct {
	Tasks     *database.TaskRepository
	Deals     *database.DealRepository
	Customers *database.CustomerRepository
}

func NewTaskHandler(tasks *database.TaskRepository, deals *database.DealRepository, customers *database.CustomerRepository) *TaskHandler {
	return &TaskHandler{Tasks: tasks, Deals: deals, Customers: customers}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var assigneeFilter *int64
	if !p.OwnsAllRows() {
		assigneeFilter = &p.UserID
	}

	tasks, err := h.Tasks.List(r.Context(), assigneeFilter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// FormData returns the caller's deals and customers for the new-task form.
func (h *TaskHandler) FormData(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	deals, err := h.Deals.NamesByOwner(r.Context(), p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	customers, err := h.Customers.NamesByOwner(r.Context(), p.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"deals":     deals,
		"customers": customers,
	})
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.PrincipalFrom(r.Context())

	var task entity.Task
	if err := decodeBody(r, &task); err != nil {
		writeError(w, err)
		return
	}
	task.AssigneeID = p.UserID
	task.Status = entity.TaskStatusUpcoming

	if err := h.Tasks.Create(r.Context(), &task); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

type taskStatusRequest struct {
	Status string `json:"status"`
}

func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req taskStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.Tasks.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Tasks.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Task deleted"})
}
