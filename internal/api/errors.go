package api

import (
	"alcyxob/triplan/internal/csvimport"
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/schedule"
	"alcyxob/triplan/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondWithError maps service errors onto HTTP statuses. Validation-class
// errors carry their details; unexpected errors are logged and hidden.
func respondWithError(c *gin.Context, log *logger.Logger, err error) {
	var (
		verr   *service.ValidationError
		mapErr *csvimport.MappingIncomplete
		schErr *schedule.SchemaViolation
		genErr *service.GenerationFormatError
		perr   *service.PersistenceError
	)

	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validation failed", "problems": verr.Problems})
	case errors.As(err, &mapErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": mapErr.Error(), "missing": mapErr.Missing})
	case errors.As(err, &genErr):
		log.Warn("generator returned malformed plan", "error", err)
		abortWithError(c, http.StatusUnprocessableEntity, genErr.Error())
	case errors.As(err, &schErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": schErr.Error(), "path": schErr.Path})
	case errors.Is(err, schedule.ErrNotPermutation), errors.Is(err, schedule.ErrIndexOutOfRange):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAuthenticationRequired), errors.Is(err, service.ErrAuthenticationFailed):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrImportAlreadyCommitted),
		errors.Is(err, service.ErrImportInProgress):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrImportNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrNoEditorSession):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrGenerationUnavailable):
		log.Warn("generator unavailable", "error", err)
		abortWithError(c, http.StatusBadGateway, "Generation service is unavailable, try again later")
	case errors.As(err, &perr):
		log.Error("persistence failure", "op", perr.Op, "resource", perr.Resource, "error", perr.Err)
		abortWithError(c, http.StatusInternalServerError, "Could not save changes")
	default:
		log.Error("unexpected error", "error", err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
