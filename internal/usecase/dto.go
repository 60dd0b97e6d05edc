package usecase

// SubmitSurveyInput is the validated submission handed in by the HTTP
// layer: an email and up to six answers.
type SubmitSurveyInput struct {
	Email   string   `json:"email"`
	Answers []string `json:"answers"`
}

// SubmitSurveyOutput is what the submitter sees. Success is decoupled from
// CRM propagation: once the Prospect is durably written this is returned
// even if the CRM step failed.
type SubmitSurveyOutput struct {
	LegacyCode     string `json:"legacy_code"`
	RedirectTarget string `json:"redirect_target,omitempty"`

	// Terminal pipeline state, for logging and metrics. Not part of the
	// response body.
	State State `json:"-"`
}

// State is where a submission sits in the pipeline. CrmSynced and CrmFailed
// are terminal; both are reported back onto the Prospect's sync status.
type State string

const (
	StateReceived      State = "Received"
	StateResolved      State = "Resolved"
	StateResponseSaved State = "ResponseSaved"
	StateCrmSynced     State = "CrmSynced"
	StateCrmFailed     State = "CrmFailed"
)
