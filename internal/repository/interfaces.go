package repository

import (
	"camrelay/internal/dto"
	"camrelay/internal/model"
)

// ImageRepository defines the interface for the stored image index.
type ImageRepository interface {
	// Create operations
	Upsert(img *model.Image) (int64, error)

	// Read operations
	GetByFilename(filename string) (*model.Image, error)
	GetAll(filter *dto.ImageFilters) ([]model.Image, error)
	GetTotalCount(filter *dto.ImageFilters) (int, error)

	// Delete operations
	DeleteByFilename(filename string) error
	Prune(existing []string) (int, error)
}
