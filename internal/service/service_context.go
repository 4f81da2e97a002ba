package service

import (
	"research-assist/internal/config"
	"research-assist/internal/db"
	"research-assist/internal/store"
)

type ServiceContext struct {
	ExperimentService  *ExperimentService
	WritingService     *WritingService
	GapAnalysisService *GapAnalysisService
	PaperStore         *store.PaperStore
}

func NewServiceContext(cfg *config.Config) *ServiceContext {
	llmClient := NewLLMClient(
		cfg.LLM.BaseURL,
		cfg.LLM.APIKey,
		cfg.LLM.Model,
		cfg.LLM.TimeoutSeconds,
	)

	experimentStore := store.NewExperimentStore(db.DB)
	paperStore := store.NewPaperStore(db.DB)
	runner := NewScriptRunner(cfg.Runner)
	templates := NewTemplateCatalog(llmClient, paperStore)

	return &ServiceContext{
		ExperimentService:  NewExperimentService(experimentStore, runner, templates),
		WritingService:     NewWritingService(db.DB, llmClient, paperStore),
		GapAnalysisService: NewGapAnalysisService(llmClient, paperStore),
		PaperStore:         paperStore,
	}
}
