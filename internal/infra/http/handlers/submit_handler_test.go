package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/angushq/prospect-sync/internal/entity"
	"github.com/angushq/prospect-sync/internal/infra/integration/crm"
	"github.com/angushq/prospect-sync/internal/infra/integration/recordstore"
	"github.com/angushq/prospect-sync/internal/usecase"
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

func intPtr(n int) *int { return &n }

func prospect(id, email, code string, auto *int) *recordstore.ProspectRecord {
	rec := &recordstore.ProspectRecord{ID: id, Email: email, LegacyCode: code}
	if auto != nil {
		rec.AutoNumber = *auto
		rec.HasAutoNumber = true
	}
	return rec
}

func newHandler(store *MockRecordStore, gateway *MockCRMGateway) *SubmitHandler {
	resolver := usecase.NewIdentityResolver(store, usecase.NewOperatorAssigner(store, time.Minute))
	return NewSubmitHandler(usecase.NewSubmitSurveyUseCase(store, gateway, resolver, 0, ""))
}

func postSubmit(t *testing.T, h *SubmitHandler, body any) *httptest.ResponseRecorder {
	t.Helper()
	jsonBody, err := json.Marshal(body)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewBuffer(jsonBody))
	rr := httptest.NewRecorder()
	h.Handle(rr, req)
	return rr
}

func TestSubmitHandlerSuccess(t *testing.T) {
	store := new(MockRecordStore)
	gateway := new(MockCRMGateway)

	store.On("FindProspectByEmail", mock.Anything, "a@x.com").
		Return(prospect("rec1", "a@x.com", "X25-OP1005", intPtr(5)), nil)
	store.On("GetProspect", mock.Anything, "rec1").
		Return(prospect("rec1", "a@x.com", "X25-OP1005", intPtr(5)), nil)
	store.On("CreateSurveyResponse", mock.Anything, mock.Anything).Return("resp1", nil)
	store.On("PatchProspect", mock.Anything, "rec1", mock.Anything).Return(nil)

	gateway.On("LookupContactByEmail", mock.Anything, "a@x.com").Return(&crm.Contact{ID: "c1"}, nil)
	gateway.On("UpsertContact", mock.Anything, mock.Anything).Return(&crm.Contact{ID: "c1"}, nil)

	rr := postSubmit(t, newHandler(store, gateway), map[string]any{
		"email":   "a@x.com",
		"answers": []string{"one", "two"},
	})

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp SubmitResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "X25-OP1005", resp.LegacyCode)
}

func TestSubmitHandlerMissingEmail(t *testing.T) {
	rr := postSubmit(t, newHandler(new(MockRecordStore), new(MockCRMGateway)), map[string]any{
		"answers": []string{"one"},
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp SubmitResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "email")
}

func TestSubmitHandlerBadJSON(t *testing.T) {
	h := newHandler(new(MockRecordStore), new(MockCRMGateway))

	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	h.Handle(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSubmitHandlerResolutionFailure(t *testing.T) {
	store := new(MockRecordStore)
	store.On("FindProspectByEmail", mock.Anything, "a@x.com").
		Return(nil, &recordstore.UnavailableError{Op: "find prospect", StatusCode: 503})

	rr := postSubmit(t, newHandler(store, new(MockCRMGateway)), map[string]any{
		"email":   "a@x.com",
		"answers": []string{},
	})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp SubmitResponse
	json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.Equal(t, "error", resp.Status)
	assert.NotEmpty(t, resp.Error)
}
