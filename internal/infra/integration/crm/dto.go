package crm

// Contact is the CRM's view of a person. A separate identity space from the
// Prospect: contacts can pre-exist from other marketing flows.
type Contact struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ContactPayload is everything one upsert pushes at the CRM. ContactID
// empty means create; set means update in place.
type ContactPayload struct {
	ContactID      string
	Email          string
	AssignedUserID string
	CustomFields   map[string]string
	Tags           []string
}

type contactDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// The lookup endpoint has answered with both of these shapes over time.
type lookupResponse struct {
	Contacts []contactDTO `json:"contacts"`
	Contact  *contactDTO  `json:"contact"`
}

type upsertResponse struct {
	Contact *contactDTO `json:"contact"`
	ID      string      `json:"id"`
	Email   string      `json:"email"`
}
