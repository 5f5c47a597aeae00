package postgres

import (
	"context"
	"encoding/json"

	"addrsvc/internal/domain/entity"
	"addrsvc/internal/domain/repository"
	"addrsvc/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// addressRepository implements repository.AddressRepository using GORM.
type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository is the constructor for addressRepository.
func NewAddressRepository(db *gorm.DB) repository.AddressRepository {
	return &addressRepository{db: db}
}

// Create persists a new address. A unique violation on the canonical key is
// surfaced as repository.ErrDuplicateAddressKey so the caller can resolve the
// concurrent-create race.
func (repo *addressRepository) Create(ctx context.Context, address *entity.Address) error {
	addressM, err := fromAddressDomain(address)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(addressM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateAddressKey
		}

		return errors.Wrap(err, "failed to create address")
	}

	address.ID = addressM.ID
	address.CreatedAt = addressM.CreatedAt
	address.UpdatedAt = addressM.UpdatedAt

	return nil
}

// FindByID retrieves a single address by its ID, preloading its sources.
func (repo *addressRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	var addressM model.AddressModel

	err := repo.db.WithContext(ctx).
		Preload("Sources", "deleted_at IS NULL").
		Where("id = ? AND deleted_at IS NULL", id).
		First(&addressM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, errors.Wrap(err, "failed to find address by id")
	}

	return toAddressDomain(&addressM)
}

// FindByKey retrieves a single address by its canonical key, preloading its sources.
func (repo *addressRepository) FindByKey(ctx context.Context, key string) (*entity.Address, error) {
	var addressM model.AddressModel

	err := repo.db.WithContext(ctx).
		Preload("Sources", "deleted_at IS NULL").
		Where("key = ? AND deleted_at IS NULL", key).
		First(&addressM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, errors.Wrap(err, "failed to find address by key")
	}

	return toAddressDomain(&addressM)
}

// Update modifies an existing address row. Sources are managed by their own
// repository and are not written here.
func (repo *addressRepository) Update(ctx context.Context, address *entity.Address) error {
	addressM, err := fromAddressDomain(address)
	if err != nil {
		return err
	}

	result := repo.db.WithContext(ctx).
		Model(&model.AddressModel{}).
		Where("id = ? AND deleted_at IS NULL", addressM.ID).
		Updates(map[string]any{
			"address": addressM.Address,
			"key":     addressM.Key,
			"meta":    addressM.Meta,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateAddressKey
		}

		return errors.Wrap(result.Error, "failed to update address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

// fromAddressDomain maps the pure domain entity to a GORM persistence model.
func fromAddressDomain(address *entity.Address) (*model.AddressModel, error) {
	meta, err := json.Marshal(address.Meta)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal address meta")
	}

	return &model.AddressModel{
		ID:        address.ID,
		Address:   address.Address,
		Key:       address.Key,
		Meta:      datatypes.JSON(meta),
		CreatedAt: address.CreatedAt,
		UpdatedAt: address.UpdatedAt,
		DeletedAt: address.DeletedAt,
	}, nil
}

// toAddressDomain maps the persistence model back to a pure domain entity.
func toAddressDomain(addressM *model.AddressModel) (*entity.Address, error) {
	var meta entity.AddressMeta
	if len(addressM.Meta) > 0 {
		if err := json.Unmarshal(addressM.Meta, &meta); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal address meta")
		}
	}

	address := &entity.Address{
		ID:        addressM.ID,
		Address:   addressM.Address,
		Key:       addressM.Key,
		Meta:      meta,
		CreatedAt: addressM.CreatedAt,
		UpdatedAt: addressM.UpdatedAt,
		DeletedAt: addressM.DeletedAt,
	}

	for i := range addressM.Sources {
		source, err := toAddressSourceDomain(&addressM.Sources[i])
		if err != nil {
			return nil, err
		}
		address.Sources = append(address.Sources, *source)
	}

	return address, nil
}
