package postgres

import (
	"context"

	"addrsvc/internal/domain/entity"
	"addrsvc/internal/domain/repository"
	"addrsvc/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// injectionRepository implements repository.AddressInjectionRepository using GORM.
type injectionRepository struct {
	db *gorm.DB
}

// NewInjectionRepository is the constructor for injectionRepository.
func NewInjectionRepository(db *gorm.DB) repository.AddressInjectionRepository {
	return &injectionRepository{db: db}
}

// FindByID retrieves a single curated injection by its ID.
func (repo *injectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.AddressInjection, error) {
	var injectionM model.AddressInjectionModel

	err := repo.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&injectionM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrInjectionNotFound
		}

		return nil, errors.Wrap(err, "failed to find address injection by id")
	}

	return toInjectionDomain(&injectionM), nil
}

func toInjectionDomain(injectionM *model.AddressInjectionModel) *entity.AddressInjection {
	return &entity.AddressInjection{
		ID:         injectionM.ID,
		Country:    injectionM.Country,
		Region:     injectionM.Region,
		Area:       injectionM.Area,
		City:       injectionM.City,
		Settlement: injectionM.Settlement,
		Street:     injectionM.Street,
		House:      injectionM.House,
		Block:      injectionM.Block,
		Keywords:   injectionM.Keywords,
		CreatedAt:  injectionM.CreatedAt,
		UpdatedAt:  injectionM.UpdatedAt,
		DeletedAt:  injectionM.DeletedAt,
	}
}
