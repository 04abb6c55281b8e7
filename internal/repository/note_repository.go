package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskpad/internal/model"
)

// NoteRepository handles CRUD for notes.
type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *model.Note) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (r *NoteRepository) ListByUser(ctx context.Context, userID string) ([]model.Note, error) {
	var notes []model.Note
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) FindByID(ctx context.Context, userID, noteID string) (*model.Note, error) {
	var note model.Note
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, noteID).
		First(&note).Error; err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) Update(ctx context.Context, userID, noteID, title, content string) error {
	updates := map[string]interface{}{
		"title":   title,
		"content": content,
	}
	if err := r.db.WithContext(ctx).Model(&model.Note{}).
		Where("user_id = ? AND id = ?", userID, noteID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, userID, noteID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, noteID).
		Delete(&model.Note{}).Error; err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
