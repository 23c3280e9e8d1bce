package registry

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/rwa-id-gateway/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockNameRegistry mocks the NameRegistry interface
type MockNameRegistry struct {
	mock.Mock
}

// ProjectIDBySlugHash mocks the ProjectIDBySlugHash method
func (m *MockNameRegistry) ProjectIDBySlugHash(ctx context.Context, slugHash common.Hash) (interfaces.ProjectID, error) {
	args := m.Called(ctx, slugHash)
	return args.Get(0).(interfaces.ProjectID), args.Error(1)
}

// NameNodeFromHash mocks the NameNodeFromHash method
func (m *MockNameRegistry) NameNodeFromHash(ctx context.Context, projectID interfaces.ProjectID, labelHash common.Hash) (interfaces.Node, error) {
	args := m.Called(ctx, projectID, labelHash)
	return args.Get(0).(interfaces.Node), args.Error(1)
}

// ResolveAddr mocks the ResolveAddr method
func (m *MockNameRegistry) ResolveAddr(ctx context.Context, node interfaces.Node) (common.Address, error) {
	args := m.Called(ctx, node)
	return args.Get(0).(common.Address), args.Error(1)
}
