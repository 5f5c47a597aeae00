package postgres

import (
	"context"
	"encoding/json"

	"addrsvc/internal/domain/entity"
	"addrsvc/internal/domain/repository"
	"addrsvc/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// addressSourceRepository implements repository.AddressSourceRepository using GORM.
type addressSourceRepository struct {
	db *gorm.DB
}

// NewAddressSourceRepository is the constructor for addressSourceRepository.
func NewAddressSourceRepository(db *gorm.DB) repository.AddressSourceRepository {
	return &addressSourceRepository{db: db}
}

// Create persists a new source-to-address mapping.
func (repo *addressSourceRepository) Create(ctx context.Context, source *entity.AddressSource) error {
	sourceM, err := fromAddressSourceDomain(source)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(sourceM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			// A concurrent request mapped the same raw string first. The
			// mapping is append-only, so losing this write is fine.
			return nil
		}
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(err, "address source references missing address")
		}

		return errors.Wrap(err, "failed to create address source")
	}

	source.ID = sourceM.ID
	source.CreatedAt = sourceM.CreatedAt
	source.UpdatedAt = sourceM.UpdatedAt

	return nil
}

// FindBySource retrieves the mapping for a normalized raw query string.
func (repo *addressSourceRepository) FindBySource(ctx context.Context, src string) (*entity.AddressSource, error) {
	var sourceM model.AddressSourceModel

	err := repo.db.WithContext(ctx).
		Where("source = ? AND deleted_at IS NULL", src).
		First(&sourceM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSourceNotFound
		}

		return nil, errors.Wrap(err, "failed to find address source")
	}

	return toAddressSourceDomain(&sourceM)
}

func fromAddressSourceDomain(source *entity.AddressSource) (*model.AddressSourceModel, error) {
	sender, err := json.Marshal(source.Sender)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal source sender")
	}

	return &model.AddressSourceModel{
		ID:        source.ID,
		Source:    source.Source,
		AddressID: source.AddressID,
		Dv:        source.Dv,
		Sender:    datatypes.JSON(sender),
		CreatedAt: source.CreatedAt,
		UpdatedAt: source.UpdatedAt,
		DeletedAt: source.DeletedAt,
	}, nil
}

func toAddressSourceDomain(sourceM *model.AddressSourceModel) (*entity.AddressSource, error) {
	var sender entity.Sender
	if len(sourceM.Sender) > 0 {
		if err := json.Unmarshal(sourceM.Sender, &sender); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal source sender")
		}
	}

	return &entity.AddressSource{
		ID:        sourceM.ID,
		Source:    sourceM.Source,
		AddressID: sourceM.AddressID,
		Dv:        sourceM.Dv,
		Sender:    sender,
		CreatedAt: sourceM.CreatedAt,
		UpdatedAt: sourceM.UpdatedAt,
		DeletedAt: sourceM.DeletedAt,
	}, nil
}
