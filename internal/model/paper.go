package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Paper 论文表 - 用户收藏的文献，正文用于代码生成和研究空白分析
type Paper struct {
	ID        string         `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID string `gorm:"type:varchar(36);not null;index" json:"owner_id"`

	Title    string `gorm:"type:varchar(500);not null" json:"title"`
	Authors  string `gorm:"type:varchar(500)" json:"authors"`
	Abstract string `gorm:"type:text" json:"abstract"`

	// 论文全文（或可获取的正文部分）
	Content string `gorm:"type:longtext" json:"content"`

	// 期刊/会议、年份等可选元数据
	Venue string `gorm:"type:varchar(200)" json:"venue"`
	Year  int    `json:"year"`

	// 研究领域标签
	Domain string `gorm:"type:varchar(100);index" json:"domain"`
}

func (p *Paper) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
