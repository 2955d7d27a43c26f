package handler

import (
	"net/http"

	. "taskflow/internal/adapter/http/helper"
	"taskflow/internal/adapter/http/middleware"
	. "taskflow/internal/adapter/http/validation"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/model/request"
	"taskflow/internal/core/port"
	"taskflow/internal/core/util"
	"taskflow/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// CacheInvalidator drops cached reads of a user after a mutation.
type CacheInvalidator interface {
	InvalidateUser(userID string)
}

type TaskHandler struct {
	cache  CacheInvalidator
	logger *zap.Logger
}

func NewTaskHandler(cache CacheInvalidator, logger *zap.Logger) *TaskHandler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &TaskHandler{
		cache:  cache,
		logger: logger,
	}
}

func (t *TaskHandler) List(c *gin.Context) {
	dashboard, span, ok := t.begin(c, "List")

	if !ok {
		return
	}

	defer span.End()

	params, err := util.QueryToMap[request.ViewRequest](c)

	if err != nil {
		SendBadRequestError(c, "query", "Invalid query parameters")
		return
	}

	view := dashboard.View(params.ToQuery())

	span.SetAttributes(attribute.Int("tasks.count", len(view.Tasks)))

	c.JSON(http.StatusOK, view)
}

func (t *TaskHandler) Stats(c *gin.Context) {
	dashboard, span, ok := t.begin(c, "Stats")

	if !ok {
		return
	}

	defer span.End()

	c.JSON(http.StatusOK, dashboard.Stats())
}

func (t *TaskHandler) Create(c *gin.Context) {
	dashboard, span, ok := t.begin(c, "Create")

	if !ok {
		return
	}

	defer span.End()

	params, err := util.ParamsToMap[request.TaskRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	draft, err := params.ToDraft()

	if err != nil {
		SendBadRequestError(c, "request", err.Error())
		return
	}

	task, ok := dashboard.Add(c.Request.Context(), draft)

	if !ok {
		SendBadRequestError(c, "title", "Title and deadline are required")
		return
	}

	t.applied(c, span, task.ID)

	SendSuccess(c, http.StatusCreated, task, "Task created")
}

func (t *TaskHandler) Update(c *gin.Context) {
	dashboard, span, ok := t.begin(c, "Update")

	if !ok {
		return
	}

	defer span.End()

	id, ok := util.TaskID(c)

	if !ok {
		SendNotFoundError(c, "Task not found")
		return
	}

	params, err := util.ParamsToMap[request.TaskUpdateRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	patch, err := params.ToPatch()

	if err != nil {
		SendBadRequestError(c, "request", err.Error())
		return
	}

	if !patch.IsValid() {
		SendBadRequestError(c, "title", "Title and deadline are required")
		return
	}

	task, ok := dashboard.Update(c.Request.Context(), id, patch)

	if !ok {
		SendNotFoundError(c, "Task not found")
		return
	}

	t.applied(c, span, id)

	SendSuccess(c, http.StatusOK, task, "Task updated")
}

func (t *TaskHandler) Delete(c *gin.Context) {
	dashboard, span, ok := t.begin(c, "Delete")

	if !ok {
		return
	}

	defer span.End()

	id, ok := util.TaskID(c)

	if !ok || !dashboard.Remove(c.Request.Context(), id) {
		SendNotFoundError(c, "Task not found")
		return
	}

	t.applied(c, span, id)

	SendMessage(c, http.StatusOK, "Task deleted")
}

func (t *TaskHandler) SetStatus(c *gin.Context) {
	dashboard, span, ok := t.begin(c, "SetStatus")

	if !ok {
		return
	}

	defer span.End()

	id, ok := util.TaskID(c)

	if !ok {
		SendNotFoundError(c, "Task not found")
		return
	}

	params, err := util.ParamsToMap[request.StatusRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	status, err := domain.ParseTaskStatus(params.Status)

	if err != nil {
		SendBadRequestError(c, "status", err.Error())
		return
	}

	task, ok := dashboard.SetStatus(c.Request.Context(), id, status)

	if !ok {
		SendNotFoundError(c, "Task not found")
		return
	}

	t.applied(c, span, id)

	SendSuccess(c, http.StatusOK, task, "Status updated")
}

func (t *TaskHandler) SetProgress(c *gin.Context) {
	dashboard, span, ok := t.begin(c, "SetProgress")

	if !ok {
		return
	}

	defer span.End()

	id, ok := util.TaskID(c)

	if !ok {
		SendNotFoundError(c, "Task not found")
		return
	}

	params, err := util.ParamsToMap[request.ProgressRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	task, ok := dashboard.SetProgress(c.Request.Context(), id, *params.Progress)

	if !ok {
		SendNotFoundError(c, "Task not found")
		return
	}

	t.applied(c, span, id)

	SendSuccess(c, http.StatusOK, task, "Progress updated")
}

func (t *TaskHandler) Toggle(c *gin.Context) {
	dashboard, span, ok := t.begin(c, "Toggle")

	if !ok {
		return
	}

	defer span.End()

	id, ok := util.TaskID(c)

	if !ok {
		SendNotFoundError(c, "Task not found")
		return
	}

	task, ok := dashboard.ToggleStatus(c.Request.Context(), id)

	if task.ID == 0 {
		SendNotFoundError(c, "Task not found")
		return
	}

	if !ok {
		SendConflictError(c, "status", "Tasks in progress cannot be toggled")
		return
	}

	t.applied(c, span, id)

	SendSuccess(c, http.StatusOK, task, "Status toggled")
}

// begin resolves the dashboard admitted by the session middleware and opens
// a handler span. ok is false when the response has already been written.
func (t *TaskHandler) begin(c *gin.Context, operation string) (port.Dashboard, trace.Span, bool) {
	dashboard, ok := middleware.Dashboard(c)

	if !ok {
		SendUnauthorizedError(c, "Authentication required")
		return nil, nil, false
	}

	ctx, span := tracing.CreateChildSpan(c.Request.Context(), "handler.task."+operation, []attribute.KeyValue{
		attribute.String("handler.operation", operation),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
		attribute.String("user.id", middleware.UserID(c)),
	})

	c.Request = c.Request.WithContext(ctx)

	return dashboard, span, true
}

func (t *TaskHandler) applied(c *gin.Context, span trace.Span, id int64) {
	span.SetAttributes(attribute.Int64("task.id", id))

	userID := middleware.UserID(c)

	if t.cache != nil {
		t.cache.InvalidateUser(userID)
	}

	t.logger.Debug("TaskHandler#applied",
		zap.String("user_id", userID),
		zap.Int64("task_id", id),
		zap.String("path", c.FullPath()))
}
