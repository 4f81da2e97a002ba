package handler

import (
	"net/http"

	"research-assist/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalysisHandler struct {
	gaps *service.GapAnalysisService
}

func NewAnalysisHandler(gaps *service.GapAnalysisService) *AnalysisHandler {
	return &AnalysisHandler{gaps: gaps}
}

type gapAnalysisRequest struct {
	PaperIDs    []string `json:"paper_ids" binding:"required"`
	Domain      string   `json:"domain" binding:"required"`
	Perspective string   `json:"perspective"`
}

// AnalyzeGaps 基于已收藏论文做研究空白分析
func (h *AnalysisHandler) AnalyzeGaps(c *gin.Context) {
	var req gapAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.gaps.Analyze(c.Request.Context(), ownerID(c), req.PaperIDs, req.Domain, req.Perspective)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}
