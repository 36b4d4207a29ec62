package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/startsmart/backend/api/transport"
	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/pkg/httpcontext"
	"github.com/startsmart/backend/repository"
	recurrenceUC "github.com/startsmart/backend/usecase/recurrence"
	taskUC "github.com/startsmart/backend/usecase/task"
)

const dueDateLayout = "2006-01-02"

type TaskHandler struct {
	baseHandler
	tasks      *taskUC.UseCase
	recurrence *recurrenceUC.UseCase
}

func NewTaskHandler(tasks *taskUC.UseCase, recurrence *recurrenceUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		tasks:       tasks,
		recurrence:  recurrence,
	}
}

// @Summary List compliance tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}

	filter := repository.TaskFilter{
		Status:   string(ctx.QueryArgs().Peek("status")),
		Category: string(ctx.QueryArgs().Peek("category")),
		Limit:    parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:   parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.tasks.ListTasks(stdCtx, ownerID, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Get a single compliance task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.tasks.GetTask(stdCtx, ownerID, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create compliance task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}

	var req transport.TaskCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.badRequest(ctx, "invalid payload")
		return
	}

	due, ok := h.parseDueDate(ctx, req.DueDate)
	if !ok {
		return
	}

	task := &domain.ComplianceTask{
		TaskName:      req.TaskName,
		Description:   req.Description,
		Category:      domain.TaskCategory(req.Category),
		Priority:      domain.TaskPriority(req.Priority),
		Status:        domain.TaskStatus(req.Status),
		DueDate:       due,
		IsRecurring:   req.IsRecurring,
		Frequency:     domain.RecurrenceFrequency(req.Frequency),
		AutoGenerated: req.AutoGenerated,
		StateSpecific: req.StateSpecific,
	}
	if req.Priority == "" {
		task.Priority = domain.PriorityMedium
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.tasks.CreateTask(stdCtx, ownerID, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Partially update a compliance task
// @Tags tasks
// @Router /api/v1/tasks/{id} [patch]
func (h *TaskHandler) PatchTask(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	var req transport.TaskPatchRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.badRequest(ctx, "invalid payload")
		return
	}

	patch := taskUC.Patch{
		TaskName:    req.TaskName,
		Description: req.Description,
	}
	if req.Category != nil {
		category := domain.TaskCategory(*req.Category)
		patch.Category = &category
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		patch.Priority = &priority
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}
	if req.DueDate != nil {
		due, ok := h.parseDueDate(ctx, *req.DueDate)
		if !ok {
			return
		}
		patch.DueDate = due
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.tasks.PatchTask(stdCtx, ownerID, id, patch)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete a compliance task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.tasks.DeleteTask(stdCtx, ownerID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Advance a recurring task to its next cycle
// @Tags tasks
// @Router /api/v1/tasks/{id}/rollover [post]
func (h *TaskHandler) Rollover(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.recurrence.Rollover(stdCtx, ownerID, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Flag a task as recurring
// @Tags tasks
// @Router /api/v1/tasks/{id}/mark-recurring [post]
func (h *TaskHandler) MarkRecurring(ctx *fasthttp.RequestCtx) {
	ownerID := h.ownerID(ctx)
	if ownerID == "" {
		return
	}
	id, ok := h.taskID(ctx)
	if !ok {
		return
	}

	var req transport.MarkRecurringRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.badRequest(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.recurrence.MarkRecurring(stdCtx, ownerID, id, domain.RecurrenceFrequency(req.Frequency))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

func (h *TaskHandler) taskID(ctx *fasthttp.RequestCtx) (string, bool) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.badRequest(ctx, "missing task id")
		return "", false
	}
	return id, true
}

func (h *TaskHandler) parseDueDate(ctx *fasthttp.RequestCtx, raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(dueDateLayout, raw)
	if err != nil {
		h.badRequest(ctx, "due_date must be formatted as YYYY-MM-DD")
		return nil, false
	}
	return &parsed, true
}

func (h baseHandler) badRequest(ctx *fasthttp.RequestCtx, message string) {
	h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), message, nil))
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}
