package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskpad/internal/model"
)

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID string) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("position ASC, created_at ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, userID, categoryID string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, categoryID).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Rename(ctx context.Context, userID, categoryID, title string) error {
	if err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("user_id = ? AND id = ?", userID, categoryID).
		Update("title", title).Error; err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	return nil
}

// Reorder rewrites positions 0..n-1 following the given id order. Runs in a
// transaction so a partial failure never leaves duplicate positions behind.
func (r *CategoryRepository) Reorder(ctx context.Context, userID string, orderedIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for pos, id := range orderedIDs {
			if err := tx.Model(&model.Category{}).
				Where("user_id = ? AND id = ?", userID, id).
				Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reorder categories: %w", err)
	}
	return nil
}

// Delete removes a category and all its tasks, mirroring the backend's
// cascade-on-delete behavior.
func (r *CategoryRepository) Delete(ctx context.Context, userID, categoryID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND category_id = ?", userID, categoryID).
			Delete(&model.Task{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND id = ?", userID, categoryID).
			Delete(&model.Category{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
