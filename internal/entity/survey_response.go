package entity

import "time"

// AnswerCount is the fixed shape of a submission: six answers, always.
// Short submissions are padded before this struct is built.
const AnswerCount = 6

// SurveyResponse records one submission. Written exactly once, never
// mutated; repeat submissions from the same email produce new responses
// pointing at the same Prospect.
type SurveyResponse struct {
	ProspectID  string    `json:"prospect_id"`
	LegacyCode  string    `json:"legacy_code"`
	Answers     []string  `json:"answers"`
	SubmittedAt time.Time `json:"submitted_at"`
}
