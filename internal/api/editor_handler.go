package api

import (
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EditorHandler exposes the plan editor's working copy.
type EditorHandler struct {
	log           *logger.Logger
	editorService service.EditorService
}

func NewEditorHandler(editorService service.EditorService, log *logger.Logger) *EditorHandler {
	return &EditorHandler{editorService: editorService, log: log}
}

// Indexes are zero-based positions in the plan's weeks and the week's days.
type MoveSessionRequest struct {
	WeekIndex int `json:"week_index"`
	DayIndex  int `json:"day_index"`
	From      int `json:"from"`
	To        int `json:"to"`
}

type ReorderSessionsRequest struct {
	WeekIndex int   `json:"week_index"`
	DayIndex  int   `json:"day_index"`
	Order     []int `json:"order" binding:"required"`
}

func (h *EditorHandler) ids(c *gin.Context) (userID, planID primitive.ObjectID, ok bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return userID, planID, false
	}
	planID, ok = parseObjectIDParam(c, "planId")
	return userID, planID, ok
}

// Open godoc
// @Summary Open (or resume) an editing session on a plan
// @Tags Editor
// @Router /plans/{planId}/editor [post]
func (h *EditorHandler) Open(c *gin.Context) {
	userID, planID, ok := h.ids(c)
	if !ok {
		return
	}
	st, err := h.editorService.Open(c.Request.Context(), userID, planID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *EditorHandler) Current(c *gin.Context) {
	userID, planID, ok := h.ids(c)
	if !ok {
		return
	}
	st, err := h.editorService.Current(c.Request.Context(), userID, planID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Move godoc
// @Summary Move one session within a day
// @Tags Editor
// @Param request body MoveSessionRequest true "Day and positions"
// @Router /plans/{planId}/editor/move [post]
func (h *EditorHandler) Move(c *gin.Context) {
	userID, planID, ok := h.ids(c)
	if !ok {
		return
	}
	var req MoveSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	st, err := h.editorService.Move(c.Request.Context(), userID, planID, req.WeekIndex, req.DayIndex, req.From, req.To)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *EditorHandler) Reorder(c *gin.Context) {
	userID, planID, ok := h.ids(c)
	if !ok {
		return
	}
	var req ReorderSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	st, err := h.editorService.Reorder(c.Request.Context(), userID, planID, req.WeekIndex, req.DayIndex, req.Order)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Save godoc
// @Summary Persist the working copy; a clean copy is not written
// @Tags Editor
// @Router /plans/{planId}/editor/save [post]
func (h *EditorHandler) Save(c *gin.Context) {
	userID, planID, ok := h.ids(c)
	if !ok {
		return
	}
	st, err := h.editorService.Save(c.Request.Context(), userID, planID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *EditorHandler) Discard(c *gin.Context) {
	userID, planID, ok := h.ids(c)
	if !ok {
		return
	}
	if err := h.editorService.Discard(c.Request.Context(), userID, planID); err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
