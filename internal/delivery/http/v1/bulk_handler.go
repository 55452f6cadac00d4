package v1

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"go-recruitment-tracker/internal/delivery/http/response"
	"go-recruitment-tracker/internal/domain"
	"go-recruitment-tracker/pkg/apperror"
	"go-recruitment-tracker/pkg/logger"

	"github.com/gin-gonic/gin"
)

// maxBulkFileSize limits bulk import files to 20MB
const maxBulkFileSize = 20 << 20

type BulkHandler struct {
	bulkUC domain.BulkUsecase
}

// NewBulkHandler registers the bulk import route
func NewBulkHandler(uploadLimited *gin.RouterGroup, bulkUC domain.BulkUsecase) {
	handler := &BulkHandler{bulkUC: bulkUC}

	uploadLimited.POST("/candidates/bulk", handler.Import)
}

// Import godoc
// @Summary      Bulk import candidates
// @Description  Uploads a CSV or XLSX file and creates one full candidate per row. Rows are processed independently; the report lists per-row outcomes.
// @Tags         candidates
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV or XLSX file with a header row"
// @Success      200  {object}  response.Response{data=domain.BulkReport}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /candidates/bulk [post]
// @Security     BearerAuth
func (h *BulkHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("No file uploaded"))
		return
	}
	if fileHeader.Size > maxBulkFileSize {
		c.Error(apperror.BadRequest("File exceeds the 20MB limit"))
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".csv" && ext != ".xlsx" {
		c.Error(apperror.BadRequest("Only CSV and XLSX files are accepted"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	report, err := h.bulkUC.Import(c.Request.Context(), fileHeader.Filename, content, func(p domain.BulkProgress) {
		if p.Processed%100 == 0 || p.Processed == p.Total {
			logger.Log.Info("Bulk import progress",
				"processed", p.Processed,
				"total", p.Total,
				"succeeded", p.SuccessCount,
				"failed", p.FailureCount,
			)
		}
	})
	if err != nil {
		c.Error(err)
		return
	}

	logger.Log.Info("Bulk import finished",
		"batch_id", report.BatchID,
		"total", report.TotalProcessed,
		"succeeded", report.SuccessCount,
		"failed", report.FailureCount,
		"duration_ms", report.ProcessingTimeMs,
	)

	response.Success(c, http.StatusOK, "Bulk import processed", report)
}
