package service

import (
	"context"
	"fmt"
	"time"

	"research-assist/internal/model"
	"research-assist/internal/store"
)

// CreateExperimentRequest 创建实验的入参
type CreateExperimentRequest struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Code        string                 `json:"code"`
	PaperID     string                 `json:"paper_id"`
	Status      string                 `json:"status"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// RunDigest 一次执行的摘要，返回给调用方
type RunDigest struct {
	ExperimentID string `json:"experiment_id"`
	Status       string `json:"status"`
	Stdout       string `json:"stdout"`
	Stderr       string `json:"stderr"`
	Output       string `json:"output"`
	ExitCode     int    `json:"exit_code"`
}

// ExperimentService 实验编排：状态机、执行、结果落库
type ExperimentService struct {
	store     *store.ExperimentStore
	runner    CodeRunner
	templates *TemplateCatalog
}

func NewExperimentService(expStore *store.ExperimentStore, runner CodeRunner, templates *TemplateCatalog) *ExperimentService {
	return &ExperimentService{
		store:     expStore,
		runner:    runner,
		templates: templates,
	}
}

func (s *ExperimentService) Create(ctx context.Context, ownerID string, req CreateExperimentRequest) (*model.Experiment, error) {
	exp := &model.Experiment{
		OwnerID:     ownerID,
		PaperID:     req.PaperID,
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		Status:      req.Status,
		Parameters:  model.JSONMap(req.Parameters),
	}
	if err := s.store.Create(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

func (s *ExperimentService) Get(ctx context.Context, id, ownerID string) (*model.Experiment, error) {
	exp, err := s.store.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, fmt.Errorf("%w: 实验 %s", ErrNotFound, id)
	}
	return exp, nil
}

func (s *ExperimentService) List(ctx context.Context, opts store.ListOptions) ([]model.Experiment, error) {
	return s.store.List(ctx, opts)
}

func (s *ExperimentService) Update(ctx context.Context, id, ownerID string, patch map[string]interface{}) (*model.Experiment, error) {
	exp, err := s.store.Update(ctx, id, ownerID, patch)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, fmt.Errorf("%w: 实验 %s", ErrNotFound, id)
	}
	return exp, nil
}

func (s *ExperimentService) Delete(ctx context.Context, id, ownerID string) error {
	deleted, err := s.store.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: 实验 %s", ErrNotFound, id)
	}
	return nil
}

func (s *ExperimentService) ListResults(ctx context.Context, experimentID, ownerID string) ([]model.ExperimentResult, error) {
	results, err := s.store.ListResults(ctx, experimentID, ownerID)
	if err != nil {
		return nil, err
	}
	if results == nil {
		return nil, fmt.Errorf("%w: 实验 %s", ErrNotFound, experimentID)
	}
	return results, nil
}

func (s *ExperimentService) LatestResult(ctx context.Context, experimentID, ownerID string) (*model.ExperimentResult, error) {
	results, err := s.ListResults(ctx, experimentID, ownerID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: 实验 %s 还没有执行结果", ErrNotFound, experimentID)
	}
	return &results[0], nil
}

// CreateTemplate 生成起步代码，见TemplateCatalog
func (s *ExperimentService) CreateTemplate(ctx context.Context, ownerID, language, framework, templateKind, paperID string) (string, error) {
	return s.templates.Generate(ctx, ownerID, language, framework, templateKind, paperID)
}

// GenerateDesign 按领域返回预置实验设计
func (s *ExperimentService) GenerateDesign(domain string) DesignDocument {
	return GenerateDesign(domain)
}

// Run 执行实验并落库结果。状态机：
//
//	draft/completed/failed --开始执行--> running --退出码0--> completed
//	                                        \--退出码非0或无法启动--> failed
//
// 子进程非0退出不算服务层错误，调用方通过返回的status判断。
// 同一实验的并发Run不做互斥，两次调用会各起一个子进程（已知限制）。
func (s *ExperimentService) Run(ctx context.Context, experimentID, ownerID string) (*RunDigest, error) {
	exp, err := s.store.Get(ctx, experimentID, ownerID)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, fmt.Errorf("%w: 实验 %s", ErrNotFound, experimentID)
	}

	// 参数校验放在状态流转之前，校验失败不改动实验状态
	language := s.languageOf(exp)
	if _, ok := languageSuffixes[language]; !ok {
		return nil, fmt.Errorf("%w: 不支持的语言 %q", ErrValidation, language)
	}

	if _, err := s.store.Update(ctx, experimentID, ownerID, map[string]interface{}{
		"status": model.ExperimentStatusRunning,
	}); err != nil {
		return nil, err
	}

	outcome, err := s.runner.Execute(ctx, exp.Code, language)
	if err != nil {
		s.markFailed(ctx, experimentID, ownerID)
		return nil, err
	}

	resultStatus := model.ResultStatusSuccess
	errorText := ""
	if outcome.ExitCode != 0 {
		resultStatus = model.ResultStatusError
		errorText = outcome.Stderr
	}

	result := &model.ExperimentResult{
		ExperimentID:  experimentID,
		Status:        resultStatus,
		ExitCode:      outcome.ExitCode,
		Stdout:        outcome.Stdout,
		Stderr:        outcome.Stderr,
		Output:        outcome.Stdout,
		Error:         errorText,
		Metrics:       model.JSONMap(ExtractMetrics(outcome.Stdout)),
		ExecutionTime: outcome.Duration.Seconds(),
	}

	// 结果先于终态提交：读到completed/failed的一方必然能看到对应结果
	if err := s.store.AppendResult(ctx, result); err != nil {
		s.markFailed(ctx, experimentID, ownerID)
		return nil, err
	}

	finalStatus := model.ExperimentStatusCompleted
	if outcome.ExitCode != 0 {
		finalStatus = model.ExperimentStatusFailed
	}
	now := time.Now()
	if _, err := s.store.Update(ctx, experimentID, ownerID, map[string]interface{}{
		"status":      finalStatus,
		"last_run_at": &now,
	}); err != nil {
		s.markFailed(ctx, experimentID, ownerID)
		return nil, err
	}

	return &RunDigest{
		ExperimentID: experimentID,
		Status:       resultStatus,
		Stdout:       outcome.Stdout,
		Stderr:       outcome.Stderr,
		Output:       outcome.Stdout,
		ExitCode:     outcome.ExitCode,
	}, nil
}

// languageOf 从parameters里取language，缺省为python
func (s *ExperimentService) languageOf(exp *model.Experiment) string {
	if exp.Parameters != nil {
		if lang, ok := exp.Parameters["language"].(string); ok && lang != "" {
			return lang
		}
	}
	return "python"
}

// markFailed 执行链路内部出错后把实验收敛到failed，失败本身不再上抛
func (s *ExperimentService) markFailed(ctx context.Context, experimentID, ownerID string) {
	now := time.Now()
	_, _ = s.store.Update(ctx, experimentID, ownerID, map[string]interface{}{
		"status":      model.ExperimentStatusFailed,
		"last_run_at": &now,
	})
}
