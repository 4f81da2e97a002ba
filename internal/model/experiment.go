package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 实验状态
const (
	ExperimentStatusDraft     = "draft"
	ExperimentStatusRunning   = "running"
	ExperimentStatusCompleted = "completed"
	ExperimentStatusFailed    = "failed"
)

// 单次执行结果状态
const (
	ResultStatusSuccess = "success"
	ResultStatusError   = "error"
)

// Experiment 实验表 - 存储待执行的数据科学脚本及其状态
type Experiment struct {
	ID        string         `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time      `gorm:"index:idx_experiments_owner_created,priority:2" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// 所有访问都按owner隔离
	OwnerID string `gorm:"type:varchar(36);not null;index:idx_experiments_owner_created,priority:1" json:"owner_id"`

	// 关联的论文（可选）
	PaperID string `gorm:"type:varchar(36);index" json:"paper_id,omitempty"`

	Title       string `gorm:"type:varchar(200);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	// 完整的实验源码，按原样执行
	Code string `gorm:"type:longtext" json:"code"`

	// draft/running/completed/failed
	Status string `gorm:"type:varchar(20);not null;index" json:"status"`

	// 超参数、数据集标签等自由元数据
	Parameters JSONMap `gorm:"type:json" json:"parameters"`

	// 最近一次执行时间
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
}

func (e *Experiment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = ExperimentStatusDraft
	}
	if e.Parameters == nil {
		e.Parameters = JSONMap{}
	}
	return nil
}

// ExperimentResult 实验执行结果表 - 只追加，不更新
type ExperimentResult struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_results_experiment_created,priority:2,sort:desc" json:"created_at"`

	ExperimentID string `gorm:"type:varchar(36);not null;index:idx_results_experiment_created,priority:1" json:"experiment_id"`

	// success/error，由子进程退出码决定
	Status string `gorm:"type:varchar(20);not null" json:"status"`

	// 子进程退出码，无法启动时为-1
	ExitCode int `json:"exit_code"`

	Stdout string `gorm:"type:longtext" json:"stdout"`
	Stderr string `gorm:"type:longtext" json:"stderr"`

	// output与stdout内容一致，保留给把它当作完整记录的调用方
	Output string `gorm:"type:longtext" json:"output"`

	// 失败时为stderr内容
	Error string `gorm:"type:text" json:"error,omitempty"`

	// 从stdout中解析出的结构化指标
	Metrics JSONMap `gorm:"type:json" json:"metrics"`

	// 执行耗时（秒）
	ExecutionTime float64 `json:"execution_time"`
}

func (r *ExperimentResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Metrics == nil {
		r.Metrics = JSONMap{}
	}
	return nil
}
