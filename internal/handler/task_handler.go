package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studytrack/backend/internal/middleware"
	"studytrack/backend/internal/service"
)

type TaskHandler struct {
	taskService *service.TaskService
}

type taskRequest struct {
	Title    string     `json:"title" binding:"required"`
	Category string     `json:"category"`
	Deadline *time.Time `json:"deadline"`
}

type completeRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := middleware.UserID(c)
	task, apiErr := h.taskService.Create(c.Request.Context(), userID, service.TaskInput{
		Title:    req.Title,
		Category: req.Category,
		Deadline: req.Deadline,
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *TaskHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)
	tasks, apiErr := h.taskService.List(c.Request.Context(), userID, c.Query("category"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := middleware.UserID(c)
	task, apiErr := h.taskService.Update(c.Request.Context(), userID, c.Param("id"), service.TaskInput{
		Title:    req.Title,
		Category: req.Category,
		Deadline: req.Deadline,
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskHandler) SetCompleted(c *gin.Context) {
	var req completeRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := middleware.UserID(c)
	task, apiErr := h.taskService.SetCompleted(c.Request.Context(), userID, c.Param("id"), *req.Completed)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID := middleware.UserID(c)
	if apiErr := h.taskService.Delete(c.Request.Context(), userID, c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}
