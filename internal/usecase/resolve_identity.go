package usecase

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/angushq/prospect-sync/internal/entity"
	"github.com/angushq/prospect-sync/internal/infra/integration/recordstore"
)

// Identity is what resolution produces: the durable record id and its
// derived code.
type Identity struct {
	ProspectID string
	LegacyCode string
}

// IdentityResolver finds or creates the canonical Prospect for an email and
// guarantees the legacy code is assigned exactly once. Safe to re-run: the
// code is a pure function of the store-owned auto number.
//
// Concurrent resolves for the same email are collapsed onto a single flight
// so one process cannot race itself into creating duplicate Prospects. A
// second process can still lose that race; the store offers no uniqueness
// primitive to close it.
type IdentityResolver struct {
	store    RecordStore
	assigner *OperatorAssigner
	group    singleflight.Group
}

func NewIdentityResolver(store RecordStore, assigner *OperatorAssigner) *IdentityResolver {
	return &IdentityResolver{store: store, assigner: assigner}
}

func (r *IdentityResolver) Resolve(ctx context.Context, email string) (*Identity, error) {
	v, err, _ := r.group.Do(email, func() (any, error) {
		return r.resolve(ctx, email)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Identity), nil
}

func (r *IdentityResolver) resolve(ctx context.Context, email string) (*Identity, error) {
	rec, err := r.store.FindProspectByEmail(ctx, email)
	if err != nil {
		return nil, &IdentityResolutionError{Email: email, Err: err}
	}

	if rec != nil {
		// Fast path: fully initialized record, nothing to write.
		if rec.LegacyCode != "" {
			return &Identity{ProspectID: rec.ID, LegacyCode: rec.LegacyCode}, nil
		}
		// A prior write died between create and code assignment. Repair it.
		return r.repair(ctx, email, rec)
	}

	return r.create(ctx, email)
}

// repair finishes a partially-initialized record: read the auto number back
// if the search result lacked it, derive the code, persist it.
func (r *IdentityResolver) repair(ctx context.Context, email string, rec *recordstore.ProspectRecord) (*Identity, error) {
	auto, err := r.autoNumber(ctx, rec)
	if err != nil {
		return nil, &IdentityResolutionError{Email: email, Err: err}
	}

	code := entity.LegacyCode(auto)
	if err := r.store.PatchProspect(ctx, rec.ID, map[string]any{recordstore.FieldLegacyCode: code}); err != nil {
		return nil, &IdentityResolutionError{Email: email, Err: err}
	}

	log.Printf("🔧 Repaired prospect %s with code %s", rec.ID, code)
	return &Identity{ProspectID: rec.ID, LegacyCode: code}, nil
}

func (r *IdentityResolver) create(ctx context.Context, email string) (*Identity, error) {
	rec, err := r.store.CreateProspect(ctx, email)
	if err != nil {
		return nil, &IdentityResolutionError{Email: email, Err: err}
	}

	auto, err := r.autoNumber(ctx, rec)
	if err != nil {
		return nil, &IdentityResolutionError{Email: email, Err: err}
	}

	code := entity.LegacyCode(auto)
	if err := r.store.PatchProspect(ctx, rec.ID, map[string]any{recordstore.FieldLegacyCode: code}); err != nil {
		return nil, &IdentityResolutionError{Email: email, Err: err}
	}

	// First creation is the only moment an operator is attached. A failed
	// or empty assignment never blocks the submission.
	op, err := r.assigner.ChooseOperator(ctx, auto)
	if err != nil {
		log.Printf("⚠️ Operator assignment failed for %s: %v", code, err)
	} else if op != nil {
		fields := map[string]any{}
		if op.LegacyCode != "" {
			fields[recordstore.FieldAssignedOpCode] = op.LegacyCode
		}
		if op.Email != "" {
			fields[recordstore.FieldAssignedOpEmail] = op.Email
		}
		if op.CRMUserID != "" {
			fields[recordstore.FieldCRMUserID] = op.CRMUserID
		}
		if len(fields) > 0 {
			if err := r.store.PatchProspect(ctx, rec.ID, fields); err != nil {
				log.Printf("⚠️ Could not persist operator for %s: %v", code, err)
			}
		}
	}

	log.Printf("✅ Created prospect %s (%s)", code, rec.ID)
	return &Identity{ProspectID: rec.ID, LegacyCode: code}, nil
}

var errAutoNumberUnavailable = errors.New("auto number unavailable after re-fetch")

// autoNumber returns the store-assigned sequence number, re-fetching the
// record once when the first read omitted it. The store is the only
// authority for this value; no default is ever substituted.
func (r *IdentityResolver) autoNumber(ctx context.Context, rec *recordstore.ProspectRecord) (int, error) {
	if rec.HasAutoNumber {
		return rec.AutoNumber, nil
	}

	fresh, err := r.store.GetProspect(ctx, rec.ID)
	if err != nil {
		return 0, err
	}
	if !fresh.HasAutoNumber {
		return 0, errAutoNumberUnavailable
	}
	return fresh.AutoNumber, nil
}
