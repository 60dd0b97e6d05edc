package usecase

import (
	"context"

	"github.com/angushq/prospect-sync/internal/entity"
	"github.com/angushq/prospect-sync/internal/infra/integration/crm"
	"github.com/angushq/prospect-sync/internal/infra/integration/recordstore"
)

// RecordStore is the tabular store holding Prospects, Survey Responses and
// the operator roster.
type RecordStore interface {
	FindProspectByEmail(ctx context.Context, email string) (*recordstore.ProspectRecord, error)
	CreateProspect(ctx context.Context, email string) (*recordstore.ProspectRecord, error)
	GetProspect(ctx context.Context, id string) (*recordstore.ProspectRecord, error)
	PatchProspect(ctx context.Context, id string, fields map[string]any) error
	CreateSurveyResponse(ctx context.Context, resp entity.SurveyResponse) (string, error)
	ListOperators(ctx context.Context) ([]entity.Operator, error)
}

// CRMGateway is the terminal sync target for prospect state.
type CRMGateway interface {
	LookupContactByEmail(ctx context.Context, email string) (*crm.Contact, error)
	UpsertContact(ctx context.Context, payload crm.ContactPayload) (*crm.Contact, error)
}
