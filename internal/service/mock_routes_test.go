package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"go-docman-client/pkg/model"
)

type MockFileRoutes struct {
	mock.Mock
}

func (m *MockFileRoutes) List(ctx context.Context, includeDeleted *bool, folderID *uuid.UUID) (*model.Response[[]model.File], error) {
	args := m.Called(ctx, includeDeleted, folderID)
	return responseArg[[]model.File](args)
}

func (m *MockFileRoutes) GetByID(ctx context.Context, id uuid.UUID) (*model.Response[model.File], error) {
	args := m.Called(ctx, id)
	return responseArg[model.File](args)
}

func (m *MockFileRoutes) GetByFolderID(ctx context.Context, folderID uuid.UUID) (*model.Response[[]model.File], error) {
	args := m.Called(ctx, folderID)
	return responseArg[[]model.File](args)
}

func (m *MockFileRoutes) GetByNameAndClaimNumber(ctx context.Context, name string, fhClaimNumber string) (*model.Response[model.File], error) {
	args := m.Called(ctx, name, fhClaimNumber)
	return responseArg[model.File](args)
}

func (m *MockFileRoutes) GetVirtualPath(ctx context.Context, id uuid.UUID) (*model.Response[string], error) {
	args := m.Called(ctx, id)
	return responseArg[string](args)
}

func (m *MockFileRoutes) Insert(ctx context.Context, file model.File) (*model.Response[uuid.UUID], error) {
	args := m.Called(ctx, file)
	return responseArg[uuid.UUID](args)
}

func (m *MockFileRoutes) BatchInsert(ctx context.Context, files []model.File) (*model.Response[[]uuid.UUID], error) {
	args := m.Called(ctx, files)
	return responseArg[[]uuid.UUID](args)
}

func (m *MockFileRoutes) Update(ctx context.Context, file model.File) (*model.Response[model.NoContent], error) {
	args := m.Called(ctx, file)
	return responseArg[model.NoContent](args)
}

func (m *MockFileRoutes) Delete(ctx context.Context, id uuid.UUID, modifiedBy string) (*model.Response[model.NoContent], error) {
	args := m.Called(ctx, id, modifiedBy)
	return responseArg[model.NoContent](args)
}

func (m *MockFileRoutes) PhysicalDelete(ctx context.Context, id uuid.UUID) (*model.Response[model.NoContent], error) {
	args := m.Called(ctx, id)
	return responseArg[model.NoContent](args)
}

type MockHeartbeatRoutes struct {
	mock.Mock
}

func (m *MockHeartbeatRoutes) GetServerTime(ctx context.Context) (*model.Response[time.Time], error) {
	args := m.Called(ctx)
	return responseArg[time.Time](args)
}

func (m *MockHeartbeatRoutes) GetConnectionStringName(ctx context.Context) (*model.Response[string], error) {
	args := m.Called(ctx)
	return responseArg[string](args)
}

func responseArg[T any](args mock.Arguments) (*model.Response[T], error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Response[T]), args.Error(1)
}
