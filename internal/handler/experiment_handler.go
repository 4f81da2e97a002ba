package handler

import (
	"net/http"
	"strconv"

	"research-assist/internal/service"
	"research-assist/internal/store"

	"github.com/gin-gonic/gin"
)

type ExperimentHandler struct {
	experiments *service.ExperimentService
}

func NewExperimentHandler(experiments *service.ExperimentService) *ExperimentHandler {
	return &ExperimentHandler{experiments: experiments}
}

// CreateExperiment 创建实验，初始状态draft（可由请求覆盖）
func (h *ExperimentHandler) CreateExperiment(c *gin.Context) {
	var req service.CreateExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := h.experiments.Create(c.Request.Context(), ownerID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"experiment": exp})
}

// ListExperiments 按owner列出实验，支持paper_id/status过滤与分页排序
func (h *ExperimentHandler) ListExperiments(c *gin.Context) {
	opts := store.ListOptions{
		OwnerID:   ownerID(c),
		PaperID:   c.Query("paper_id"),
		Status:    c.Query("status"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if skip := c.Query("skip"); skip != "" {
		if v, err := strconv.Atoi(skip); err == nil {
			opts.Skip = v
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			opts.Limit = v
		}
	}

	experiments, err := h.experiments.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"experiments": experiments,
		"total":       len(experiments),
	})
}

func (h *ExperimentHandler) GetExperiment(c *gin.Context) {
	exp, err := h.experiments.Get(c.Request.Context(), c.Param("id"), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"experiment": exp})
}

// UpdateExperiment 部分更新，未知字段静默忽略
func (h *ExperimentHandler) UpdateExperiment(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := h.experiments.Update(c.Request.Context(), c.Param("id"), ownerID(c), patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"experiment": exp})
}

func (h *ExperimentHandler) DeleteExperiment(c *gin.Context) {
	if err := h.experiments.Delete(c.Request.Context(), c.Param("id"), ownerID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

// RunExperiment 执行实验代码并返回本次执行摘要。
// 脚本非0退出不算请求失败，结果里status=error
func (h *ExperimentHandler) RunExperiment(c *gin.Context) {
	digest, err := h.experiments.Run(c.Request.Context(), c.Param("id"), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": digest})
}

// ListResults 某实验的全部执行结果，时间倒序
func (h *ExperimentHandler) ListResults(c *gin.Context) {
	results, err := h.experiments.ListResults(c.Request.Context(), c.Param("id"), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

// LatestResult 最近一次执行结果
func (h *ExperimentHandler) LatestResult(c *gin.Context) {
	result, err := h.experiments.LatestResult(c.Request.Context(), c.Param("id"), ownerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

type templateRequest struct {
	Language     string `json:"language"`
	Framework    string `json:"framework"`
	TemplateKind string `json:"template_kind"`
	PaperID      string `json:"paper_id"`
}

// CreateTemplate 生成实验起步代码
func (h *ExperimentHandler) CreateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := h.experiments.CreateTemplate(
		c.Request.Context(), ownerID(c),
		req.Language, req.Framework, req.TemplateKind, req.PaperID,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"language":  req.Language,
		"framework": req.Framework,
		"code":      code,
	})
}

type analyzeRequest struct {
	Code      string `json:"code"`
	Language  string `json:"language"`
	Framework string `json:"framework"`
}

// AnalyzeCode 提交代码的静态语法检查，不执行代码
func (h *ExperimentHandler) AnalyzeCode(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := service.AnalyzeCode(c.Request.Context(), req.Code, req.Language)
	c.JSON(http.StatusOK, gin.H{"analysis": result})
}

// GenerateDesign 按领域返回预置实验设计文档
func (h *ExperimentHandler) GenerateDesign(c *gin.Context) {
	domain := c.Query("domain")
	design := h.experiments.GenerateDesign(domain)
	c.JSON(http.StatusOK, gin.H{"design": design})
}
