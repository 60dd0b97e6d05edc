package entity

import "strconv"

// Prospect is the canonical lead identity, keyed by email. The record store
// owns AutoNumber; everything derived from it lives here.
type Prospect struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	AutoNumber int    `json:"auto_number"`
	LegacyCode string `json:"legacy_code"`

	// Operator back-reference, set at most once at creation.
	AssignedOpCode      string `json:"assigned_op_code,omitempty"`
	AssignedOpEmail     string `json:"assigned_op_email,omitempty"`
	AssignedOpCRMUserID string `json:"assigned_op_crm_user_id,omitempty"`

	// Outcome of the most recent CRM propagation attempt. Last write wins.
	SyncStatus string `json:"sync_status,omitempty"`
}

const legacyCodePrefix = "X25-OP"

// LegacyCode derives the human-readable prospect identifier from the
// store-assigned auto number. Pure function; the same auto number always
// yields the same code, e.g. 7 -> "X25-OP1007".
func LegacyCode(autoNumber int) string {
	return legacyCodePrefix + strconv.Itoa(1000+autoNumber)
}
