package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventapp/internal/domain"
)

type categoryService struct {
	categoryRepo domain.EventCategoryRepository
	clock        domain.Clock
}

// NewCategoryService creates an EventCategoryService with the given repository.
func NewCategoryService(categoryRepo domain.EventCategoryRepository, clock domain.Clock) domain.EventCategoryService {
	return &categoryService{categoryRepo: categoryRepo, clock: clock}
}

func (s *categoryService) Create(ctx context.Context, category *domain.EventCategory) (*domain.EventCategory, error) {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}

	now := s.clock.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, domain.ErrDuplicateCategory) {
			return nil, domain.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) GetByID(ctx context.Context, id string) (*domain.EventCategory, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context, filter domain.CategoryFilter, order domain.SortOrder, p domain.PaginationParams) ([]*domain.EventCategory, int, error) {
	categories, err := s.categoryRepo.List(ctx, filter, order, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	count, err := s.categoryRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}
	if categories == nil {
		categories = []*domain.EventCategory{}
	}
	return categories, count, nil
}

func (s *categoryService) Update(ctx context.Context, category *domain.EventCategory) (*domain.EventCategory, error) {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}
	category.UpdatedAt = s.clock.Now()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.ErrNotFound
		case errors.Is(err, domain.ErrDuplicateCategory):
			return nil, domain.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return domain.ErrNotFound
		case errors.Is(err, domain.ErrCategoryInUse):
			return domain.ErrCategoryInUse
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
