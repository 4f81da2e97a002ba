package handler

import (
	"net/http"

	"research-assist/internal/service"

	"github.com/gin-gonic/gin"
)

type WritingHandler struct {
	writing *service.WritingService
}

func NewWritingHandler(writing *service.WritingService) *WritingHandler {
	return &WritingHandler{writing: writing}
}

type outlineRequest struct {
	Topic    string   `json:"topic" binding:"required"`
	PaperIDs []string `json:"paper_ids"`
}

// GenerateOutline 基于主题和参考论文生成大纲
func (h *WritingHandler) GenerateOutline(c *gin.Context) {
	var req outlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outline, err := h.writing.GenerateOutline(c.Request.Context(), ownerID(c), req.Topic, req.PaperIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outline": outline})
}

type createProjectRequest struct {
	Title   string           `json:"title" binding:"required"`
	Topic   string           `json:"topic"`
	Outline *service.Outline `json:"outline"`
}

// CreateProject 创建写作项目，带大纲时同时生成章节
func (h *WritingHandler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.writing.CreateProject(c.Request.Context(), ownerID(c), req.Title, req.Topic, req.Outline)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

func (h *WritingHandler) ListProjects(c *gin.Context) {
	projects, err := h.writing.ListProjects(c.Request.Context(), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"total":    len(projects),
	})
}

func (h *WritingHandler) GetProject(c *gin.Context) {
	project, err := h.writing.GetProject(c.Request.Context(), c.Param("id"), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

type addChapterRequest struct {
	Title string `json:"title" binding:"required"`
}

// AddChapter 在项目末尾追加章节
func (h *WritingHandler) AddChapter(c *gin.Context) {
	var req addChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter, err := h.writing.AddChapter(c.Request.Context(), ownerID(c), c.Param("id"), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"chapter": chapter})
}

// SynthesizeChapter 调LLM合成章节正文
func (h *WritingHandler) SynthesizeChapter(c *gin.Context) {
	chapter, err := h.writing.SynthesizeChapter(
		c.Request.Context(), ownerID(c),
		c.Param("id"), c.Param("chapter_id"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chapter": chapter})
}
