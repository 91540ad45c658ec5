package api

import (
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	log            *logger.Logger
	profileService service.ProfileService
	chatService    service.ChatService
}

func NewProfileHandler(profileService service.ProfileService, chatService service.ChatService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, chatService: chatService, log: log}
}

// Get godoc
// @Summary Get the caller's athlete profile
// @Tags Profile
// @Produce json
// @Success 200 {object} domain.AthleteProfile
// @Failure 404 {object} gin.H "Onboarding not completed"
// @Router /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	profile, err := h.profileService.Get(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Save godoc
// @Summary Create or replace the caller's athlete profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param profile body service.ProfileInput true "Onboarding answers"
// @Success 200 {object} domain.AthleteProfile
// @Failure 400 {object} gin.H "Every invalid field is listed"
// @Router /profile [put]
func (h *ProfileHandler) Save(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	profile, err := h.profileService.Save(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Chat godoc
// @Summary Ask the coaching assistant a question
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body service.ChatRequest true "Message and prior turns"
// @Success 200 {object} gin.H "reply"
// @Failure 502 {object} gin.H "Generator unavailable"
// @Router /chat [post]
func (h *ProfileHandler) Chat(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	var req service.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	reply, err := h.chatService.Reply(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
