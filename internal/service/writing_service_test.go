package service

import (
	"context"
	"errors"
	"testing"

	"research-assist/internal/model"
	"research-assist/internal/store"
)

// fakeLLM 按预设回答，不发真实请求
type fakeLLM struct {
	answer     string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Chat(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.answer, f.err
}

func (f *fakeLLM) GenerateCodeFromPaper(ctx context.Context, paperText, language, framework string) (string, error) {
	f.lastPrompt = paperText
	return f.answer, f.err
}

func TestGenerateOutlineFromJSON(t *testing.T) {
	llm := &fakeLLM{answer: `{"chapters": [
		{"title": "引言", "summary": "研究背景"},
		{"title": "方法", "summary": "模型设计"},
		{"title": "实验", "summary": "结果分析"}
	]}`}
	gdb := newTestDB(t)
	svc := NewWritingService(gdb, llm, store.NewPaperStore(gdb))

	outline, err := svc.GenerateOutline(context.Background(), "u1", "记忆增强的LLM智能体", nil)
	if err != nil {
		t.Fatalf("GenerateOutline失败: %v", err)
	}
	if len(outline.Chapters) != 3 {
		t.Fatalf("应解析出3章, 实际 %d", len(outline.Chapters))
	}
	if outline.Chapters[0].Title != "引言" {
		t.Errorf("章节标题解析错误: %+v", outline.Chapters[0])
	}
}

// LLM没按JSON回答时按行兜底
func TestGenerateOutlinePlainTextFallback(t *testing.T) {
	llm := &fakeLLM{answer: "1. 引言\n2. 相关工作\n3. 方法\n"}
	gdb := newTestDB(t)
	svc := NewWritingService(gdb, llm, store.NewPaperStore(gdb))

	outline, err := svc.GenerateOutline(context.Background(), "u1", "主题", nil)
	if err != nil {
		t.Fatalf("GenerateOutline失败: %v", err)
	}
	if len(outline.Chapters) != 3 {
		t.Fatalf("兜底应拆出3章, 实际 %+v", outline.Chapters)
	}
}

func TestCreateProjectWithOutline(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewWritingService(gdb, &fakeLLM{}, store.NewPaperStore(gdb))
	ctx := context.Background()

	outline := &Outline{
		Topic: "主题",
		Chapters: []OutlineChapter{
			{Title: "引言"},
			{Title: "方法"},
		},
	}

	project, err := svc.CreateProject(ctx, "u1", "论文初稿", "主题", outline)
	if err != nil {
		t.Fatalf("CreateProject失败: %v", err)
	}
	if len(project.Chapters) != 2 {
		t.Fatalf("应生成2个章节, 实际 %d", len(project.Chapters))
	}

	got, err := svc.GetProject(ctx, project.ID, "u1")
	if err != nil {
		t.Fatalf("GetProject失败: %v", err)
	}
	if len(got.Chapters) != 2 || got.Chapters[0].Position != 1 {
		t.Errorf("章节回读异常: %+v", got.Chapters)
	}
	if got.Chapters[0].Status != model.ChapterStatusPending {
		t.Errorf("新章节状态应为pending, 实际 %s", got.Chapters[0].Status)
	}

	// 其他owner不可见
	if _, err := svc.GetProject(ctx, project.ID, "u2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("他人项目应返回ErrNotFound, 实际 %v", err)
	}
}

func TestAddChapterAppendsAtEnd(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewWritingService(gdb, &fakeLLM{}, store.NewPaperStore(gdb))
	ctx := context.Background()

	project, _ := svc.CreateProject(ctx, "u1", "论文", "主题", &Outline{
		Chapters: []OutlineChapter{{Title: "引言"}},
	})

	chapter, err := svc.AddChapter(ctx, "u1", project.ID, "结论")
	if err != nil {
		t.Fatalf("AddChapter失败: %v", err)
	}
	if chapter.Position != 2 {
		t.Errorf("新章节应排在末尾, position = %d", chapter.Position)
	}
}

func TestSynthesizeChapter(t *testing.T) {
	llm := &fakeLLM{answer: "本章介绍研究背景与动机。"}
	gdb := newTestDB(t)
	svc := NewWritingService(gdb, llm, store.NewPaperStore(gdb))
	ctx := context.Background()

	project, _ := svc.CreateProject(ctx, "u1", "论文", "记忆增强智能体", &Outline{
		Chapters: []OutlineChapter{{Title: "引言"}},
	})

	chapter, err := svc.SynthesizeChapter(ctx, "u1", project.ID, project.Chapters[0].ID)
	if err != nil {
		t.Fatalf("SynthesizeChapter失败: %v", err)
	}
	if chapter.Content != "本章介绍研究背景与动机。" {
		t.Errorf("章节内容未保存: %q", chapter.Content)
	}
	if chapter.Status != model.ChapterStatusDrafted {
		t.Errorf("合成后状态应为drafted, 实际 %s", chapter.Status)
	}

	// 落库校验
	got, _ := svc.GetProject(ctx, project.ID, "u1")
	if got.Chapters[0].Content == "" {
		t.Error("章节内容应已落库")
	}
}
