package store

import (
	"context"
	"errors"
	"fmt"

	"research-assist/internal/model"

	"gorm.io/gorm"
)

// PaperStore 论文持久层
type PaperStore struct {
	db *gorm.DB
}

func NewPaperStore(gdb *gorm.DB) *PaperStore {
	return &PaperStore{db: gdb}
}

func (s *PaperStore) Get(ctx context.Context, id, ownerID string) (*model.Paper, error) {
	query := s.db.WithContext(ctx).Where("id = ?", id)
	if ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}

	var paper model.Paper
	if err := query.First(&paper).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询论文失败: %w", err)
	}
	return &paper, nil
}

func (s *PaperStore) List(ctx context.Context, ownerID string, skip, limit int) ([]model.Paper, error) {
	query := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC")

	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var papers []model.Paper
	if err := query.Find(&papers).Error; err != nil {
		return nil, fmt.Errorf("查询论文列表失败: %w", err)
	}
	return papers, nil
}

func (s *PaperStore) Create(ctx context.Context, paper *model.Paper) error {
	if err := s.db.WithContext(ctx).Create(paper).Error; err != nil {
		return fmt.Errorf("创建论文失败: %w", err)
	}
	return nil
}

func (s *PaperStore) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Paper{})
	if result.Error != nil {
		return false, fmt.Errorf("删除论文失败: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Search 按关键字搜索标题/作者/摘要
func (s *PaperStore) Search(ctx context.Context, ownerID, keyword string, limit int) ([]model.Paper, error) {
	if limit <= 0 {
		limit = 20
	}

	pattern := "%" + keyword + "%"
	var papers []model.Paper
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("title LIKE ? OR authors LIKE ? OR abstract LIKE ?", pattern, pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&papers).Error; err != nil {
		return nil, fmt.Errorf("搜索论文失败: %w", err)
	}
	return papers, nil
}
