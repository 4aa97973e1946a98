package api

import (
	"net/http"
	"strconv"

	"shardbot/internal/model"
	"shardbot/internal/service"
	"shardbot/pkg/auth"
	"shardbot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type taskRoutes struct {
	ts        *service.TaskService
	presenter service.Presenter
	a         *auth.TelegramAuth
}

func NewTaskRoutes(handler *gin.RouterGroup, ts *service.TaskService, presenter service.Presenter, a *auth.TelegramAuth) {
	r := &taskRoutes{ts: ts, presenter: presenter, a: a}
	h := handler.Group("/tasks")
	h.Use(a.TelegramAuthMiddleware())
	{
		h.GET("/", r.GetTodo)
		h.POST("/:index/complete", r.CompleteTask)
	}
}

func (r *taskRoutes) GetTodo(c *gin.Context) {
	user, ok := telegramUser(c)
	if !ok {
		return
	}

	status := r.ts.Todo(c.Request.Context(), user.ID)

	days := make([]gin.H, len(status.Days))
	for i, day := range status.Days {
		tasks := make([]gin.H, service.NumTasks)
		for idx, name := range service.DailyTasks {
			tasks[idx] = gin.H{
				"index":     idx,
				"name":      name,
				"completed": day.Completed[idx],
			}
		}
		days[i] = gin.H{
			"date":  day.Date,
			"tasks": tasks,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"days":            days,
		"negative_shards": status.NegativeShards,
	})
}

type CompleteTaskRequest struct {
	Date string `json:"date"`
}

func (r *taskRoutes) CompleteTask(c *gin.Context) {
	log := logger.Logger()

	user, ok := telegramUser(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		log.Error("failed to parse task index", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task index"})
		return
	}

	var req CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := r.ts.Complete(c.Request.Context(), user.ID, index, model.Date(req.Date))
	if err != nil {
		log.Info("task completion rejected",
			zap.Int64("telegram_id", user.ID),
			zap.Int("task_index", index),
			zap.Error(err))
		c.JSON(serviceErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	r.presenter.RefreshTaskBoard(c.Request.Context(), result.Date)

	c.JSON(http.StatusOK, gin.H{
		"date":            result.Date,
		"task_index":      result.TaskIndex,
		"rewards_granted": result.RewardsGranted,
	})
}
