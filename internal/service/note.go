package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"taskpad/internal/model"
	"taskpad/internal/repository"
)

// NoteService is a thin pass-through over the note rows.
type NoteService struct {
	repo     *repository.NoteRepository
	validate *validator.Validate
}

func NewNoteService(repo *repository.NoteRepository) *NoteService {
	return &NoteService{repo: repo, validate: validator.New()}
}

func (s *NoteService) Create(ctx context.Context, userID string, in NoteInput) (*model.Note, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	note := model.Note{UserID: userID, Title: in.Title, Content: in.Content}
	if err := s.repo.Create(ctx, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *NoteService) List(ctx context.Context, userID string) ([]model.Note, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *NoteService) Update(ctx context.Context, userID, noteID string, in NoteInput) (*model.Note, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := s.repo.FindByID(ctx, userID, noteID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, userID, noteID, in.Title, in.Content); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, userID, noteID)
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	return s.repo.Delete(ctx, userID, noteID)
}
