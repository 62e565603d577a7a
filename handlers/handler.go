package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/utpal74/ai-task-scheduler/common"
	"github.com/utpal74/ai-task-scheduler/logger"
	"github.com/utpal74/ai-task-scheduler/model"
	"github.com/utpal74/ai-task-scheduler/service"
	"go.uber.org/zap"
)

// IdentityHeader names the acting Google identity of a request.
const IdentityHeader = "X-Google-Id"

const (
	submitTimeout = 60 * time.Second
	listTimeout   = 5 * time.Second
)

type TaskService interface {
	Submit(ctx context.Context, identity string, in model.TaskInput) (*service.TaskResult, error)
	List(ctx context.Context) ([]model.Task, error)
}

type TasksHandler struct {
	tasks TaskService
}

func NewTaskHandler(tasks TaskService) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

// taskResponse is the created task plus the state of its follow-up steps.
type taskResponse struct {
	*model.Task
	Plan     string            `json:"plan,omitempty"`
	Outcomes []service.Outcome `json:"sideEffects"`
}

func (handler *TasksHandler) StatusHandler(c *gin.Context) {
	c.String(http.StatusOK, "API is running!")
}

func (handler *TasksHandler) GetAllTasksHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), listTimeout)
	defer cancel()

	tasks, err := handler.tasks.List(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("Error fetching tasks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (handler *TasksHandler) NewTaskHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), submitTimeout)
	defer cancel()

	var in model.TaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := handler.tasks.Submit(ctx, c.GetHeader(IdentityHeader), in)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrAuthResolution):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No Google-authenticated user found. Please /auth/google first."})
		return
	case errors.Is(err, common.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	default:
		logger.FromCtx(ctx).Error("Error creating task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusCreated, taskResponse{
		Task:     result.Task,
		Plan:     result.Plan,
		Outcomes: result.Outcomes,
	})
}
