package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"research-assist/internal/store"
)

// ResearchGap 一条研究空白
type ResearchGap struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Severity            string   `json:"severity"`
	SuggestedDirections []string `json:"suggested_directions"`
}

// GapReport 研究空白分析报告
type GapReport struct {
	Domain      string        `json:"domain"`
	Perspective string        `json:"perspective"`
	Summary     string        `json:"summary"`
	Gaps        []ResearchGap `json:"gaps"`
	PaperCount  int           `json:"paper_count"`
}

// GapAnalysisService 基于已收藏论文做LLM研究空白分析
type GapAnalysisService struct {
	llm    LLMAssistant
	papers *store.PaperStore
}

func NewGapAnalysisService(llm LLMAssistant, papers *store.PaperStore) *GapAnalysisService {
	return &GapAnalysisService{llm: llm, papers: papers}
}

// Analyze 汇总指定论文，让LLM从给定视角输出结构化的空白报告。
// LLM没按JSON回答时，把原文塞进summary兜底，不让调用失败。
func (s *GapAnalysisService) Analyze(ctx context.Context, ownerID string, paperIDs []string, domain, perspective string) (*GapReport, error) {
	if domain == "" {
		return nil, fmt.Errorf("%w: 研究领域不能为空", ErrValidation)
	}

	var corpus strings.Builder
	count := 0
	for _, id := range paperIDs {
		paper, err := s.papers.Get(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}
		if paper == nil {
			continue
		}
		count++
		fmt.Fprintf(&corpus, "## %s\n作者：%s\n摘要：%s\n正文节选：%s\n\n",
			paper.Title, paper.Authors,
			truncateText(paper.Abstract, 800),
			truncateText(paper.Content, 2000))
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: 没有可用的论文", ErrNotFound)
	}

	if perspective == "" {
		perspective = "方法论"
	}

	prompt := fmt.Sprintf(`你是一名%s领域的资深研究者。请从「%s」视角分析下面这批论文，找出尚未被充分研究的空白。
输出JSON：
{"summary": "总体判断", "gaps": [{"title": "空白名称", "description": "具体说明", "severity": "high/medium/low", "suggested_directions": ["可行的研究方向"]}]}
只输出JSON，不要解释。

论文：
%s`, domain, perspective, corpus.String())

	answer, err := s.llm.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("研究空白分析失败: %w", err)
	}

	report := &GapReport{
		Domain:      domain,
		Perspective: perspective,
		PaperCount:  count,
	}

	var parsed struct {
		Summary string        `json:"summary"`
		Gaps    []ResearchGap `json:"gaps"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(answer)), &parsed); err == nil && (parsed.Summary != "" || len(parsed.Gaps) > 0) {
		report.Summary = parsed.Summary
		report.Gaps = parsed.Gaps
		return report, nil
	}

	report.Summary = strings.TrimSpace(answer)
	return report, nil
}
