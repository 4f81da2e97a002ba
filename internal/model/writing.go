package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 章节状态
const (
	ChapterStatusPending = "pending"
	ChapterStatusDrafted = "drafted"
)

// WritingProject 写作项目表 - 一篇论文初稿及其大纲
type WritingProject struct {
	ID        string         `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID string `gorm:"type:varchar(36);not null;index" json:"owner_id"`

	Title string `gorm:"type:varchar(500);not null" json:"title"`

	// 写作主题，用于章节内容合成的提示词
	Topic string `gorm:"type:text" json:"topic"`

	// 大纲（JSON，章节标题+摘要列表）
	OutlineJSON string `gorm:"type:text" json:"outline_json"`

	Chapters []Chapter `gorm:"foreignKey:ProjectID" json:"chapters,omitempty"`
}

func (p *WritingProject) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Chapter 章节表
type Chapter struct {
	ID        string         `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ProjectID string `gorm:"type:varchar(36);not null;index" json:"project_id"`

	Title string `gorm:"type:varchar(500);not null" json:"title"`

	// 章节顺序
	Position int `gorm:"not null" json:"position"`

	// LLM合成的章节正文
	Content string `gorm:"type:longtext" json:"content"`

	// pending/drafted
	Status string `gorm:"type:varchar(20);not null" json:"status"`
}

func (c *Chapter) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = ChapterStatusPending
	}
	return nil
}
