package api

import (
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	log         *logger.Logger
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{planService: planService, log: log}
}

// Generate godoc
// @Summary Generate and store a 12-week plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body service.GenerateRequest true "Athlete profile and race distance"
// @Success 201 {object} domain.Plan
// @Failure 400 {object} gin.H "Invalid profile"
// @Failure 422 {object} gin.H "Generator output malformed"
// @Failure 502 {object} gin.H "Generator unavailable"
// @Router /plans/generate [post]
func (h *PlanHandler) Generate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	var req service.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.Generate(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// List godoc
// @Summary List the caller's plans, newest first
// @Tags Plans
// @Router /plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	plans, err := h.planService.List(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *PlanHandler) Get(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	planID, ok := parseObjectIDParam(c, "planId")
	if !ok {
		return
	}
	plan, err := h.planService.Get(c.Request.Context(), userID, planID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Update replaces the title and/or weeks of a plan.
func (h *PlanHandler) Update(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	planID, ok := parseObjectIDParam(c, "planId")
	if !ok {
		return
	}
	var req service.PlanUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	plan, err := h.planService.Update(c.Request.Context(), userID, planID, req)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	planID, ok := parseObjectIDParam(c, "planId")
	if !ok {
		return
	}
	if err := h.planService.Delete(c.Request.Context(), userID, planID); err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
