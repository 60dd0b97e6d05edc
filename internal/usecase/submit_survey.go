package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/angushq/prospect-sync/internal/entity"
	"github.com/angushq/prospect-sync/internal/infra/integration/crm"
	"github.com/angushq/prospect-sync/internal/infra/integration/recordstore"
)

// AnswerPlaceholder fills the trailing slots of a short submission. The
// pipeline never errors on missing answers, only on a missing email.
const AnswerPlaceholder = "No response provided"

// CRM custom-field keys for the six answers, in answer order, plus the
// identity fields attached alongside them.
var crmAnswerKeys = [entity.AnswerCount]string{
	"q1_real_reason_for_change",
	"q2_life_work_starting_point",
	"q3_weekly_bandwidth",
	"q4_past_goal_killers",
	"q5_work_style",
	"q6_ready_to_follow_90_day_plan",
}

const (
	crmLegacyCodeKey = "legacy_code_id"
	crmOpEmailKey    = "assigned_op_email"
	crmOpCodeKey     = "assigned_op_legacy_code"
	crmCompletionTag = "screening_complete"

	syncStatusOK = "Synced to CRM"
)

// SubmitSurveyUseCase sequences one submission end to end: resolve the
// identity, persist the response, propagate to the CRM, and record the
// outcome on the Prospect. The two stores share no transaction; the
// pipeline favors forward progress over atomicity.
type SubmitSurveyUseCase struct {
	Store    RecordStore
	CRM      CRMGateway
	Resolver *IdentityResolver

	// Wait before the CRM step so store-side automations settle. Blocks
	// only the CRM step and honors context cancellation.
	PreSyncDelay time.Duration

	// Template with one %s for the operator's CRM user id. Empty disables
	// the redirect target.
	BookingURLTemplate string
}

func NewSubmitSurveyUseCase(store RecordStore, crmGateway CRMGateway, resolver *IdentityResolver, preSyncDelay time.Duration, bookingURLTemplate string) *SubmitSurveyUseCase {
	return &SubmitSurveyUseCase{
		Store:              store,
		CRM:                crmGateway,
		Resolver:           resolver,
		PreSyncDelay:       preSyncDelay,
		BookingURLTemplate: bookingURLTemplate,
	}
}

func (uc *SubmitSurveyUseCase) Execute(ctx context.Context, input SubmitSurveyInput) (*SubmitSurveyOutput, error) {
	if errs := ValidateSubmitSurveyInput(input); len(errs) > 0 {
		return nil, errs[0]
	}

	answers := padAnswers(input.Answers)
	log.Printf("📩 Received survey: %s | answers=%d", input.Email, len(input.Answers))

	identity, err := uc.Resolver.Resolve(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	response := entity.SurveyResponse{
		ProspectID:  identity.ProspectID,
		LegacyCode:  identity.LegacyCode,
		Answers:     answers,
		SubmittedAt: time.Now().UTC(),
	}
	if _, err := uc.Store.CreateSurveyResponse(ctx, response); err != nil {
		// Tolerated: the Prospect is durable, the orphaned attempt is
		// visible in the logs, and the submitter still gets their code.
		log.Printf("⚠️ Survey response save failed for %s: %v", identity.LegacyCode, err)
	}

	syncState, rec := uc.syncToCRM(ctx, input.Email, identity, answers)

	out := &SubmitSurveyOutput{
		LegacyCode: identity.LegacyCode,
		State:      syncState,
	}
	if uc.BookingURLTemplate != "" && rec.AssignedOpCRMUserID != "" {
		out.RedirectTarget = fmt.Sprintf(uc.BookingURLTemplate, rec.AssignedOpCRMUserID)
	}
	return out, nil
}

// syncToCRM runs the terminal propagation step and writes the outcome onto
// the Prospect's sync status either way. Fire-and-forget per submission: a
// failure is recorded, never retried inline; the next submission from the
// same email re-attempts through the same idempotent path.
func (uc *SubmitSurveyUseCase) syncToCRM(ctx context.Context, email string, identity *Identity, answers []string) (State, *recordstore.ProspectRecord) {
	rec := &recordstore.ProspectRecord{ID: identity.ProspectID}

	if uc.PreSyncDelay > 0 {
		log.Printf("⏱ Waiting %s before CRM sync...", uc.PreSyncDelay)
		timer := time.NewTimer(uc.PreSyncDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			uc.recordSyncStatus(identity.ProspectID, "CRM ERR canceled before sync")
			return StateCrmFailed, rec
		}
	}

	contact, err := uc.CRM.LookupContactByEmail(ctx, email)
	if err != nil {
		// Lookup is advisory; treat a failed lookup as "unknown contact"
		// and let the upsert decide.
		log.Printf("⚠️ CRM lookup failed for %s: %v", email, err)
		contact = nil
	}

	// The operator fields live on the Prospect, written at creation time.
	// Re-read them so repeat submissions carry the original assignment.
	if fresh, err := uc.Store.GetProspect(ctx, identity.ProspectID); err != nil {
		log.Printf("⚠️ Could not re-read prospect %s before CRM sync: %v", identity.ProspectID, err)
	} else {
		rec = fresh
	}

	fields := map[string]string{
		crmLegacyCodeKey: identity.LegacyCode,
		crmOpEmailKey:    rec.AssignedOpEmail,
		crmOpCodeKey:     rec.AssignedOpCode,
	}
	for i, key := range crmAnswerKeys {
		fields[key] = answers[i]
	}

	payload := crm.ContactPayload{
		Email:          email,
		AssignedUserID: rec.AssignedOpCRMUserID,
		CustomFields:   fields,
		Tags:           []string{crmCompletionTag},
	}
	if contact != nil {
		payload.ContactID = contact.ID
	}

	if _, err := uc.CRM.UpsertContact(ctx, payload); err != nil {
		log.Printf("❌ CRM sync failed for %s: %v", identity.LegacyCode, err)
		uc.recordSyncStatus(identity.ProspectID, fmt.Sprintf("CRM ERR %v", err))
		return StateCrmFailed, rec
	}

	log.Printf("✅ CRM contact synced for %s", identity.LegacyCode)
	uc.recordSyncStatus(identity.ProspectID, syncStatusOK)
	return StateCrmSynced, rec
}

// recordSyncStatus is last-write-wins and best-effort; the sync status
// field is the sole audit trail for CRM propagation.
func (uc *SubmitSurveyUseCase) recordSyncStatus(prospectID, status string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := uc.Store.PatchProspect(ctx, prospectID, map[string]any{recordstore.FieldSyncStatus: status}); err != nil {
		log.Printf("⚠️ Could not record sync status on %s: %v", prospectID, err)
	}
}

// padAnswers fixes the answer list at exactly six entries, placeholder in
// every trailing slot.
func padAnswers(answers []string) []string {
	padded := make([]string, entity.AnswerCount)
	for i := range padded {
		if i < len(answers) {
			padded[i] = answers[i]
		} else {
			padded[i] = AnswerPlaceholder
		}
	}
	return padded
}
