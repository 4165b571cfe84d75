package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nexbuildhq/nexbuild-backend/internal/model"
	"github.com/nexbuildhq/nexbuild-backend/internal/repository"
	"gorm.io/gorm"
)

type CatalogService interface {
	List(ctx context.Context, category model.ComponentCategory) ([]model.Component, error)
	Get(ctx context.Context, id uint64) (*model.Component, error)
}

type catalogService struct {
	repo repository.ComponentRepository
}

func NewCatalogService(repo repository.ComponentRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) List(ctx context.Context, category model.ComponentCategory) ([]model.Component, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("invalid category %q", category)
	}
	return s.repo.List(ctx, category)
}

func (s *catalogService) Get(ctx context.Context, id uint64) (*model.Component, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}
