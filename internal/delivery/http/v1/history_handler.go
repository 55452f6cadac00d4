package v1

import (
	"net/http"

	"go-recruitment-tracker/internal/delivery/http/response"
	"go-recruitment-tracker/internal/domain"

	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	historyUC domain.HistoryUsecase
}

// NewHistoryHandler registers audit history routes
func NewHistoryHandler(protected *gin.RouterGroup, historyUC domain.HistoryUsecase) {
	handler := &HistoryHandler{historyUC: historyUC}

	protected.GET("/candidates/:id/history", handler.GetCandidateTimeline)
}

// GetCandidateTimeline godoc
// @Summary      Get candidate audit history
// @Description  Returns every history row recorded for a candidate: candidate, skill profile, job application and interview stage changes. History survives deletion of the live records.
// @Tags         history
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=domain.CandidateTimeline}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /candidates/{id}/history [get]
// @Security     BearerAuth
func (h *HistoryHandler) GetCandidateTimeline(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.Error(err)
		return
	}

	timeline, err := h.historyUC.GetCandidateTimeline(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate history retrieved", timeline)
}
