package api

import (
	"alcyxob/triplan/internal/domain"
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/service"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ImportHandler struct {
	log           *logger.Logger
	importService service.ImportService
}

func NewImportHandler(importService service.ImportService, log *logger.Logger) *ImportHandler {
	return &ImportHandler{importService: importService, log: log}
}

type PreviewResponse struct {
	ImportID string           `json:"import_id"`
	Rows     []domain.Workout `json:"rows"`
}

type CommitResponse struct {
	ImportID string `json:"import_id"`
	Imported int    `json:"imported"`
}

func (h *ImportHandler) ids(c *gin.Context) (userID, jobID primitive.ObjectID, ok bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return userID, jobID, false
	}
	jobID, ok = parseObjectIDParam(c, "importId")
	return userID, jobID, ok
}

// Upload godoc
// @Summary Upload a CSV of workouts
// @Tags Imports
// @Accept multipart/form-data
// @Param file formData file true "CSV file"
// @Success 201 {object} domain.ImportJob
// @Router /imports [post]
func (h *ImportHandler) Upload(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "A CSV file is required in the 'file' field")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Could not read uploaded file")
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, service.MaxUploadBytes+1))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Could not read uploaded file")
		return
	}

	job, err := h.importService.Upload(c.Request.Context(), userID, fileHeader.Filename, raw)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// SetMapping godoc
// @Summary Map CSV columns to workout fields and preview the first rows
// @Tags Imports
// @Param mapping body domain.ColumnMapping true "Column mapping"
// @Success 200 {object} PreviewResponse
// @Failure 400 {object} gin.H "Mapping incomplete"
// @Router /imports/{importId}/mapping [put]
func (h *ImportHandler) SetMapping(c *gin.Context) {
	userID, jobID, ok := h.ids(c)
	if !ok {
		return
	}
	var req domain.ColumnMapping
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	rows, err := h.importService.SetMapping(c.Request.Context(), userID, jobID, req)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, PreviewResponse{ImportID: jobID.Hex(), Rows: rows})
}

func (h *ImportHandler) Preview(c *gin.Context) {
	userID, jobID, ok := h.ids(c)
	if !ok {
		return
	}
	rows, err := h.importService.Preview(c.Request.Context(), userID, jobID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, PreviewResponse{ImportID: jobID.Hex(), Rows: rows})
}

// Commit godoc
// @Summary Import every valid row; invalid rows are skipped
// @Tags Imports
// @Success 200 {object} CommitResponse
// @Router /imports/{importId}/commit [post]
func (h *ImportHandler) Commit(c *gin.Context) {
	userID, jobID, ok := h.ids(c)
	if !ok {
		return
	}
	n, err := h.importService.Commit(c.Request.Context(), userID, jobID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, CommitResponse{ImportID: jobID.Hex(), Imported: n})
}

func (h *ImportHandler) Source(c *gin.Context) {
	userID, jobID, ok := h.ids(c)
	if !ok {
		return
	}
	url, err := h.importService.SourceURL(c.Request.Context(), userID, jobID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *ImportHandler) Template(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="workouts_template.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(h.importService.Template()))
}
