package entity

// Operator is one row of the externally managed roster. Read-only here;
// the roster is edited out of band and must be reloaded per assignment.
type Operator struct {
	LegacyCode   string `json:"legacy_code"`
	Email        string `json:"email"`
	CRMUserID    string `json:"crm_user_id"`
	CalendarLink string `json:"calendar_link,omitempty"`
}
