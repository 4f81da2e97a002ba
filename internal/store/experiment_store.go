package store

import (
	"context"
	"errors"
	"fmt"

	"research-assist/internal/model"

	"gorm.io/gorm"
)

// ExperimentStore 实验持久层，所有读写都按owner隔离
type ExperimentStore struct {
	db *gorm.DB
}

func NewExperimentStore(gdb *gorm.DB) *ExperimentStore {
	return &ExperimentStore{db: gdb}
}

// ListOptions 实验列表过滤与分页参数
type ListOptions struct {
	OwnerID   string
	PaperID   string
	Status    string
	Skip      int
	Limit     int
	SortBy    string
	SortOrder string
}

// 可用于排序的列，防止拼接任意字段
var sortableColumns = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"last_run_at": true,
	"title":       true,
	"status":      true,
}

// 允许通过Update修改的列，未知键静默忽略（保持向前兼容）
var patchColumns = map[string]bool{
	"title":       true,
	"description": true,
	"code":        true,
	"status":      true,
	"parameters":  true,
	"paper_id":    true,
	"last_run_at": true,
}

// Get 按ID查询实验；ownerID非空时，他人的记录视同不存在
func (s *ExperimentStore) Get(ctx context.Context, id, ownerID string) (*model.Experiment, error) {
	query := s.db.WithContext(ctx).Where("id = ?", id)
	if ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}

	var exp model.Experiment
	if err := query.First(&exp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询实验失败: %w", err)
	}
	return &exp, nil
}

// List 按owner列出实验，支持paper/status过滤和偏移分页
func (s *ExperimentStore) List(ctx context.Context, opts ListOptions) ([]model.Experiment, error) {
	query := s.db.WithContext(ctx).Where("owner_id = ?", opts.OwnerID)

	if opts.PaperID != "" {
		query = query.Where("paper_id = ?", opts.PaperID)
	}
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}

	sortBy := opts.SortBy
	if !sortableColumns[sortBy] {
		sortBy = "created_at"
	}
	order := "DESC"
	if opts.SortOrder == "asc" {
		order = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, order))

	if opts.Skip > 0 {
		query = query.Offset(opts.Skip)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	var experiments []model.Experiment
	if err := query.Find(&experiments).Error; err != nil {
		return nil, fmt.Errorf("查询实验列表失败: %w", err)
	}
	return experiments, nil
}

func (s *ExperimentStore) Create(ctx context.Context, exp *model.Experiment) error {
	if err := s.db.WithContext(ctx).Create(exp).Error; err != nil {
		return fmt.Errorf("创建实验失败: %w", err)
	}
	return nil
}

// Update 部分更新；patch里不在白名单内的键会被忽略，不报错
func (s *ExperimentStore) Update(ctx context.Context, id, ownerID string, patch map[string]interface{}) (*model.Experiment, error) {
	updates := make(map[string]interface{}, len(patch))
	for k, v := range patch {
		if !patchColumns[k] {
			continue
		}
		if k == "parameters" {
			switch t := v.(type) {
			case model.JSONMap:
				updates[k] = t
			case map[string]interface{}:
				updates[k] = model.JSONMap(t)
			default:
				continue
			}
			continue
		}
		updates[k] = v
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).
			Model(&model.Experiment{}).
			Where("id = ? AND owner_id = ?", id, ownerID).
			Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("更新实验失败: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, nil
		}
	}

	return s.Get(ctx, id, ownerID)
}

// Delete 删除实验及其全部结果；不存在或不属于调用方时返回false
func (s *ExperimentStore) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exp model.Experiment
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&exp).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Where("experiment_id = ?", id).Delete(&model.ExperimentResult{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&exp).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("删除实验失败: %w", err)
	}
	return deleted, nil
}

// AppendResult 追加一条执行结果，结果记录只增不改
func (s *ExperimentStore) AppendResult(ctx context.Context, result *model.ExperimentResult) error {
	if err := s.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("写入实验结果失败: %w", err)
	}
	return nil
}

// ListResults 按时间倒序返回某实验的全部结果；实验不属于调用方时返回nil
func (s *ExperimentStore) ListResults(ctx context.Context, experimentID, ownerID string) ([]model.ExperimentResult, error) {
	exp, err := s.Get(ctx, experimentID, ownerID)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, nil
	}

	var results []model.ExperimentResult
	if err := s.db.WithContext(ctx).
		Where("experiment_id = ?", experimentID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("查询实验结果失败: %w", err)
	}
	return results, nil
}

// LatestResult 最近一次执行结果，没有结果时返回nil
func (s *ExperimentStore) LatestResult(ctx context.Context, experimentID, ownerID string) (*model.ExperimentResult, error) {
	results, err := s.ListResults(ctx, experimentID, ownerID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}
