package handler

import (
	"net/http"
	"strconv"

	"research-assist/internal/model"
	"research-assist/internal/store"

	"github.com/gin-gonic/gin"
)

type PaperHandler struct {
	papers *store.PaperStore
}

func NewPaperHandler(papers *store.PaperStore) *PaperHandler {
	return &PaperHandler{papers: papers}
}

type createPaperRequest struct {
	Title    string `json:"title" binding:"required"`
	Authors  string `json:"authors"`
	Abstract string `json:"abstract"`
	Content  string `json:"content"`
	Venue    string `json:"venue"`
	Year     int    `json:"year"`
	Domain   string `json:"domain"`
}

func (h *PaperHandler) CreatePaper(c *gin.Context) {
	var req createPaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	paper := &model.Paper{
		OwnerID:  ownerID(c),
		Title:    req.Title,
		Authors:  req.Authors,
		Abstract: req.Abstract,
		Content:  req.Content,
		Venue:    req.Venue,
		Year:     req.Year,
		Domain:   req.Domain,
	}
	if err := h.papers.Create(c.Request.Context(), paper); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"paper": paper})
}

func (h *PaperHandler) ListPapers(c *gin.Context) {
	skip, limit := 0, 0
	if v := c.Query("skip"); v != "" {
		skip, _ = strconv.Atoi(v)
	}
	if v := c.Query("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	papers, err := h.papers.List(c.Request.Context(), ownerID(c), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"papers": papers,
		"total":  len(papers),
	})
}

func (h *PaperHandler) GetPaper(c *gin.Context) {
	paper, err := h.papers.Get(c.Request.Context(), c.Param("id"), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if paper == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "论文不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"paper": paper})
}

func (h *PaperHandler) DeletePaper(c *gin.Context) {
	deleted, err := h.papers.Delete(c.Request.Context(), c.Param("id"), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "论文不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// SearchPapers 按关键字搜索标题/作者/摘要
func (h *PaperHandler) SearchPapers(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少搜索关键字q"})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	papers, err := h.papers.Search(c.Request.Context(), ownerID(c), keyword, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"papers": papers,
		"total":  len(papers),
	})
}
