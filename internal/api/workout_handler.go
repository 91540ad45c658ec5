package api

import (
	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	log            *logger.Logger
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService, log *logger.Logger) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, log: log}
}

// Create godoc
// @Summary Log a workout (quick add)
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body service.WorkoutInput true "Workout"
// @Success 201 {object} domain.Workout
// @Failure 400 {object} gin.H "Every invalid field is listed"
// @Router /workouts [post]
func (h *WorkoutHandler) Create(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	var req service.WorkoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	w, err := h.workoutService.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// List godoc
// @Summary List workouts, most recent first
// @Tags Workouts
// @Param from query string false "YYYY-MM-DD inclusive"
// @Param to query string false "YYYY-MM-DD inclusive"
// @Router /workouts [get]
func (h *WorkoutHandler) List(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	workouts, err := h.workoutService.List(c.Request.Context(), userID, c.Query("from"), c.Query("to"))
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

func (h *WorkoutHandler) Get(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	w, err := h.workoutService.Get(c.Request.Context(), userID, workoutID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WorkoutHandler) Update(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req service.WorkoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	w, err := h.workoutService.Update(c.Request.Context(), userID, workoutID, req)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	if err := h.workoutService.Delete(c.Request.Context(), userID, workoutID); err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary godoc
// @Summary Totals for the seven days starting at week_start (defaults to this Monday)
// @Tags Workouts
// @Param week_start query string false "YYYY-MM-DD"
// @Router /workouts/summary [get]
func (h *WorkoutHandler) Summary(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	weekStart := c.Query("week_start")
	if weekStart == "" {
		weekStart = domain.WeekStartOf(time.Now().UTC())
	}
	sum, err := h.workoutService.WeeklySummary(c.Request.Context(), userID, weekStart)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
