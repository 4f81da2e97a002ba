package router

import (
	"research-assist/internal/handler"
	"research-assist/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRouter(svcCtx *service.ServiceContext) *gin.Engine {
	r := gin.Default()

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-User-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// 初始化handlers
	experimentHandler := handler.NewExperimentHandler(svcCtx.ExperimentService)
	paperHandler := handler.NewPaperHandler(svcCtx.PaperStore)
	writingHandler := handler.NewWritingHandler(svcCtx.WritingService)
	analysisHandler := handler.NewAnalysisHandler(svcCtx.GapAnalysisService)

	// API路由
	api := r.Group("/api")
	{
		// 实验相关
		experiments := api.Group("/experiments")
		{
			experiments.POST("", experimentHandler.CreateExperiment)
			experiments.GET("", experimentHandler.ListExperiments)
			experiments.POST("/template", experimentHandler.CreateTemplate)
			experiments.POST("/analyze", experimentHandler.AnalyzeCode)
			experiments.GET("/design", experimentHandler.GenerateDesign)
			experiments.GET("/:id", experimentHandler.GetExperiment)
			experiments.PUT("/:id", experimentHandler.UpdateExperiment)
			experiments.DELETE("/:id", experimentHandler.DeleteExperiment)
			experiments.POST("/:id/run", experimentHandler.RunExperiment)
			experiments.GET("/:id/results", experimentHandler.ListResults)
			experiments.GET("/:id/results/latest", experimentHandler.LatestResult)
		}

		// 论文相关
		papers := api.Group("/papers")
		{
			papers.POST("", paperHandler.CreatePaper)
			papers.GET("", paperHandler.ListPapers)
			papers.GET("/search", paperHandler.SearchPapers)
			papers.GET("/:id", paperHandler.GetPaper)
			papers.DELETE("/:id", paperHandler.DeletePaper)
		}

		// 写作相关
		writing := api.Group("/writing")
		{
			writing.POST("/outline", writingHandler.GenerateOutline)
			writing.POST("/projects", writingHandler.CreateProject)
			writing.GET("/projects", writingHandler.ListProjects)
			writing.GET("/projects/:id", writingHandler.GetProject)
			writing.POST("/projects/:id/chapters", writingHandler.AddChapter)
			writing.POST("/projects/:id/chapters/:chapter_id/synthesize", writingHandler.SynthesizeChapter)
		}

		// 分析相关
		analysis := api.Group("/analysis")
		{
			analysis.POST("/gaps", analysisHandler.AnalyzeGaps)
		}
	}

	return r
}
