package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/angushq/prospect-sync/internal/entity"
	"github.com/angushq/prospect-sync/internal/infra/integration/crm"
	"github.com/angushq/prospect-sync/internal/infra/integration/recordstore"
)

// MockRecordStore
type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) FindProspectByEmail(ctx context.Context, email string) (*recordstore.ProspectRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recordstore.ProspectRecord), args.Error(1)
}

func (m *MockRecordStore) CreateProspect(ctx context.Context, email string) (*recordstore.ProspectRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recordstore.ProspectRecord), args.Error(1)
}

func (m *MockRecordStore) GetProspect(ctx context.Context, id string) (*recordstore.ProspectRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recordstore.ProspectRecord), args.Error(1)
}

func (m *MockRecordStore) PatchProspect(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockRecordStore) CreateSurveyResponse(ctx context.Context, resp entity.SurveyResponse) (string, error) {
	args := m.Called(ctx, resp)
	return args.String(0), args.Error(1)
}

func (m *MockRecordStore) ListOperators(ctx context.Context) ([]entity.Operator, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Operator), args.Error(1)
}

// MockCRMGateway
type MockCRMGateway struct {
	mock.Mock
}

func (m *MockCRMGateway) LookupContactByEmail(ctx context.Context, email string) (*crm.Contact, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Contact), args.Error(1)
}

func (m *MockCRMGateway) UpsertContact(ctx context.Context, payload crm.ContactPayload) (*crm.Contact, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Contact), args.Error(1)
}
