package impl

import (
	"context"
	"encoding/json"

	"addrsvc/internal/domain/entity"
	"addrsvc/internal/domain/repository"
	"addrsvc/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Hand-written testify doubles for the repository and service ports.

type mockAddressRepo struct {
	mock.Mock
}

func (m *mockAddressRepo) Create(ctx context.Context, address *entity.Address) error {
	args := m.Called(ctx, address)

	return args.Error(0)
}

func (m *mockAddressRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Address), args.Error(1)
}

func (m *mockAddressRepo) FindByKey(ctx context.Context, key string) (*entity.Address, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Address), args.Error(1)
}

func (m *mockAddressRepo) Update(ctx context.Context, address *entity.Address) error {
	args := m.Called(ctx, address)

	return args.Error(0)
}

type mockSourceRepo struct {
	mock.Mock
}

func (m *mockSourceRepo) Create(ctx context.Context, source *entity.AddressSource) error {
	args := m.Called(ctx, source)

	return args.Error(0)
}

func (m *mockSourceRepo) FindBySource(ctx context.Context, src string) (*entity.AddressSource, error) {
	args := m.Called(ctx, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.AddressSource), args.Error(1)
}

type mockInjectionRepo struct {
	mock.Mock
}

func (m *mockInjectionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.AddressInjection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.AddressInjection), args.Error(1)
}

// mockTxManager runs the callback against the same repositories the rest of
// the test uses, mimicking a transaction that always commits unless the
// callback fails.
type mockTxManager struct {
	addresses repository.AddressRepository
	sources   repository.AddressSourceRepository
}

func (m *mockTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m)
}

func (m *mockTxManager) NewAddressRepository() repository.AddressRepository {
	return m.addresses
}

func (m *mockTxManager) NewAddressSourceRepository() repository.AddressSourceRepository {
	return m.sources
}

type mockProvider struct {
	mock.Mock

	name          string
	supportsFias  bool
	supportsPlace bool
}

func (m *mockProvider) ProviderName() string { return m.name }

func (m *mockProvider) Get(ctx context.Context, q service.SearchQuery) ([]json.RawMessage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]json.RawMessage), args.Error(1)
}

func (m *mockProvider) GetAddressByFiasID(ctx context.Context, fiasID string) (json.RawMessage, error) {
	args := m.Called(ctx, fiasID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockProvider) GetByPlaceID(ctx context.Context, placeID string) (json.RawMessage, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockProvider) SupportsFiasID() bool { return m.supportsFias }

func (m *mockProvider) SupportsPlaceID() bool { return m.supportsPlace }

func (m *mockProvider) Normalize(raw []json.RawMessage) []*entity.NormalizedResult {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).([]*entity.NormalizedResult)
}

// staticSelector returns the same provider for every request.
type staticSelector struct {
	provider service.SearchProvider
}

func (s *staticSelector) ForRequest(_, _ string) service.SearchProvider {
	return s.provider
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishAddressCreated(ctx context.Context, event *service.AddressCreatedEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	args := m.Called()

	return args.Error(0)
}
