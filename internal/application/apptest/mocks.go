// Package apptest provides testify mocks shared by the service tests.
package apptest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// MockDAO is a mock implementation of shared.DAO.
type MockDAO[T any] struct {
	mock.Mock
}

// GetByID mocks shared.DAO.GetByID.
func (m *MockDAO[T]) GetByID(ctx context.Context, id int64) (*T, bool, error) {
	args := m.Called(ctx, id)
	return Found[T](args.Get(0)), args.Bool(1), args.Error(2)
}

// Create mocks shared.DAO.Create.
func (m *MockDAO[T]) Create(ctx context.Context, fields shared.Fields) (*T, error) {
	args := m.Called(ctx, fields)
	return Found[T](args.Get(0)), args.Error(1)
}

// Update mocks shared.DAO.Update.
func (m *MockDAO[T]) Update(ctx context.Context, id int64, fields shared.Fields) (*T, bool, error) {
	args := m.Called(ctx, id, fields)
	return Found[T](args.Get(0)), args.Bool(1), args.Error(2)
}

// SoftDelete mocks shared.DAO.SoftDelete.
func (m *MockDAO[T]) SoftDelete(ctx context.Context, id int64, flagField string) (bool, error) {
	args := m.Called(ctx, id, flagField)
	return args.Bool(0), args.Error(1)
}

// Restore mocks shared.DAO.Restore.
func (m *MockDAO[T]) Restore(ctx context.Context, id int64, flagField string) (bool, error) {
	args := m.Called(ctx, id, flagField)
	return args.Bool(0), args.Error(1)
}

// GetAll mocks shared.DAO.GetAll.
func (m *MockDAO[T]) GetAll(ctx context.Context) ([]*T, error) {
	args := m.Called(ctx)
	return List[T](args.Get(0)), args.Error(1)
}

// GetByFilter mocks shared.DAO.GetByFilter.
func (m *MockDAO[T]) GetByFilter(ctx context.Context, criteria shared.Fields) ([]*T, error) {
	args := m.Called(ctx, criteria)
	return List[T](args.Get(0)), args.Error(1)
}

// Search mocks shared.DAO.Search.
func (m *MockDAO[T]) Search(ctx context.Context, fields []string, term string) ([]*T, error) {
	args := m.Called(ctx, fields, term)
	return List[T](args.Get(0)), args.Error(1)
}

// List converts a mocked return value to a slice, treating nil as empty.
func List[T any](v any) []*T {
	if v == nil {
		return nil
	}
	return v.([]*T)
}

// Found converts a mocked return value to an entity pointer.
func Found[T any](v any) *T {
	if v == nil {
		return nil
	}
	return v.(*T)
}

// MockAuditor is a mock implementation of common.Auditor.
type MockAuditor struct {
	mock.Mock
}

// LogCreate mocks common.Auditor.LogCreate.
func (m *MockAuditor) LogCreate(ctx context.Context, tableName string, recordID int64, newData any, performedBy string) error {
	return m.Called(ctx, tableName, recordID, newData, performedBy).Error(0)
}

// LogUpdate mocks common.Auditor.LogUpdate.
func (m *MockAuditor) LogUpdate(ctx context.Context, tableName string, recordID int64, oldData, newData any, performedBy string) error {
	return m.Called(ctx, tableName, recordID, oldData, newData, performedBy).Error(0)
}

// LogStatusChange mocks common.Auditor.LogStatusChange.
func (m *MockAuditor) LogStatusChange(ctx context.Context, tableName string, recordID int64, active bool, performedBy string) error {
	return m.Called(ctx, tableName, recordID, active, performedBy).Error(0)
}

// NewPermissiveAuditor returns an auditor that accepts every call.
func NewPermissiveAuditor() *MockAuditor {
	m := new(MockAuditor)
	m.On("LogCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("LogStatusChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

// MockPublisher is a mock implementation of common.Publisher.
type MockPublisher struct {
	mock.Mock
}

// Publish mocks common.Publisher.Publish.
func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	return m.Called(ctx, routingKey, payload).Error(0)
}
