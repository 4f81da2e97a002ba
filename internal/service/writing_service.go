package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"research-assist/internal/model"
	"research-assist/internal/store"

	"gorm.io/gorm"
)

// OutlineChapter 大纲中的一个章节
type OutlineChapter struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Outline 论文大纲
type Outline struct {
	Topic    string           `json:"topic"`
	Chapters []OutlineChapter `json:"chapters"`
}

// WritingService 写作项目：大纲生成、章节管理、LLM章节合成
type WritingService struct {
	db     *gorm.DB
	llm    LLMAssistant
	papers *store.PaperStore
}

func NewWritingService(gdb *gorm.DB, llm LLMAssistant, papers *store.PaperStore) *WritingService {
	return &WritingService{db: gdb, llm: llm, papers: papers}
}

// GenerateOutline 基于主题和参考论文让LLM生成大纲。
// 回答优先按JSON解析，解析不了就把非空行当作章节标题兜底。
func (s *WritingService) GenerateOutline(ctx context.Context, ownerID, topic string, paperIDs []string) (*Outline, error) {
	if topic == "" {
		return nil, fmt.Errorf("%w: 主题不能为空", ErrValidation)
	}

	var references strings.Builder
	for _, id := range paperIDs {
		paper, err := s.papers.Get(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}
		if paper == nil {
			continue
		}
		fmt.Fprintf(&references, "- %s：%s\n", paper.Title, truncateText(paper.Abstract, 500))
	}

	prompt := fmt.Sprintf(`请为下面的研究主题生成一份论文大纲，输出JSON：
{"chapters": [{"title": "章节标题", "summary": "本章要写什么"}]}
只输出JSON，不要解释。

主题：%s
参考文献：
%s`, topic, references.String())

	answer, err := s.llm.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("生成大纲失败: %w", err)
	}

	outline := &Outline{Topic: topic}
	var parsed struct {
		Chapters []OutlineChapter `json:"chapters"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(answer)), &parsed); err == nil && len(parsed.Chapters) > 0 {
		outline.Chapters = parsed.Chapters
		return outline, nil
	}

	// 兜底：按行拆章节标题
	for _, line := range strings.Split(answer, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line != "" {
			outline.Chapters = append(outline.Chapters, OutlineChapter{Title: line})
		}
	}
	if len(outline.Chapters) == 0 {
		return nil, fmt.Errorf("生成大纲失败: LLM回答为空")
	}
	return outline, nil
}

// CreateProject 创建写作项目；传入大纲时同时生成待写章节
func (s *WritingService) CreateProject(ctx context.Context, ownerID, title, topic string, outline *Outline) (*model.WritingProject, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: 项目标题不能为空", ErrValidation)
	}

	project := &model.WritingProject{
		OwnerID: ownerID,
		Title:   title,
		Topic:   topic,
	}
	if outline != nil {
		outlineJSON, err := json.Marshal(outline)
		if err != nil {
			return nil, fmt.Errorf("序列化大纲失败: %w", err)
		}
		project.OutlineJSON = string(outlineJSON)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		if outline == nil {
			return nil
		}
		for i, ch := range outline.Chapters {
			chapter := &model.Chapter{
				ProjectID: project.ID,
				Title:     ch.Title,
				Position:  i + 1,
			}
			if err := tx.Create(chapter).Error; err != nil {
				return err
			}
			project.Chapters = append(project.Chapters, *chapter)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("创建写作项目失败: %w", err)
	}
	return project, nil
}

func (s *WritingService) GetProject(ctx context.Context, projectID, ownerID string) (*model.WritingProject, error) {
	var project model.WritingProject
	err := s.db.WithContext(ctx).
		Preload("Chapters", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Where("id = ? AND owner_id = ?", projectID, ownerID).
		First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 写作项目 %s", ErrNotFound, projectID)
		}
		return nil, fmt.Errorf("查询写作项目失败: %w", err)
	}
	return &project, nil
}

func (s *WritingService) ListProjects(ctx context.Context, ownerID string) ([]model.WritingProject, error) {
	var projects []model.WritingProject
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("查询写作项目列表失败: %w", err)
	}
	return projects, nil
}

// AddChapter 在项目末尾追加一个待写章节
func (s *WritingService) AddChapter(ctx context.Context, ownerID, projectID, title string) (*model.Chapter, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: 章节标题不能为空", ErrValidation)
	}
	if _, err := s.GetProject(ctx, projectID, ownerID); err != nil {
		return nil, err
	}

	var maxPosition int
	s.db.WithContext(ctx).
		Model(&model.Chapter{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPosition)

	chapter := &model.Chapter{
		ProjectID: projectID,
		Title:     title,
		Position:  maxPosition + 1,
	}
	if err := s.db.WithContext(ctx).Create(chapter).Error; err != nil {
		return nil, fmt.Errorf("创建章节失败: %w", err)
	}
	return chapter, nil
}

// SynthesizeChapter 让LLM基于主题、大纲和章节标题合成正文并落库
func (s *WritingService) SynthesizeChapter(ctx context.Context, ownerID, projectID, chapterID string) (*model.Chapter, error) {
	project, err := s.GetProject(ctx, projectID, ownerID)
	if err != nil {
		return nil, err
	}

	var chapter model.Chapter
	if err := s.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", chapterID, projectID).
		First(&chapter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: 章节 %s", ErrNotFound, chapterID)
		}
		return nil, fmt.Errorf("查询章节失败: %w", err)
	}

	prompt := fmt.Sprintf(`请为一篇学术论文撰写某一章的正文。
论文主题：%s
论文大纲：%s
本章标题：%s
要求：学术写作风格，1000字以内，直接输出正文。`,
		project.Topic, project.OutlineJSON, chapter.Title)

	content, err := s.llm.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("章节合成失败: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Model(&chapter).
		Updates(map[string]interface{}{
			"content": content,
			"status":  model.ChapterStatusDrafted,
		}).Error; err != nil {
		return nil, fmt.Errorf("保存章节内容失败: %w", err)
	}

	chapter.Content = content
	chapter.Status = model.ChapterStatusDrafted
	return &chapter, nil
}

// extractJSONObject 从LLM回答里截取第一个完整JSON对象（容忍markdown围栏等噪音）
func extractJSONObject(answer string) string {
	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start < 0 || end <= start {
		return answer
	}
	return answer[start : end+1]
}
