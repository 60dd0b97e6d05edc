package recordstore

// Field names in the store's tables. The store matches on the literal
// column label, spaces included.
const (
	FieldProspectEmail   = "Prospect Email"
	FieldLegacyCode      = "Legacy Code"
	FieldAssignedOpCode  = "Assigned Op Legacy Code"
	FieldAssignedOpEmail = "Assigned Op Email"
	FieldCRMUserID       = "CRM User ID"
	FieldSyncStatus      = "Sync Status"

	FieldDateSubmitted = "Date Submitted"
	FieldProspectsLink = "Prospects"
)

// The six response columns, in answer order.
var AnswerFields = [6]string{
	"Q1 Real Reason for Change",
	"Q2 Life/Work Starting Point",
	"Q3 Weekly Bandwidth",
	"Q4 Past Goal Killers",
	"Q5 Work Style",
	"Q6 Ready to Follow 90-Day Plan?",
}

// ProspectRecord is the typed view of one Prospects row. HasAutoNumber is
// explicit because the store may omit AutoNum on a create response; zero is
// a legal auto number.
type ProspectRecord struct {
	ID                  string
	Email               string
	AutoNumber          int
	HasAutoNumber       bool
	LegacyCode          string
	AssignedOpCode      string
	AssignedOpEmail     string
	AssignedOpCRMUserID string
	SyncStatus          string
}

type prospectFields struct {
	Email           string `json:"Prospect Email,omitempty"`
	AutoNum         *int   `json:"AutoNum,omitempty"`
	LegacyCode      string `json:"Legacy Code,omitempty"`
	AssignedOpCode  string `json:"Assigned Op Legacy Code,omitempty"`
	AssignedOpEmail string `json:"Assigned Op Email,omitempty"`
	CRMUserID       string `json:"CRM User ID,omitempty"`
	SyncStatus      string `json:"Sync Status,omitempty"`
}

type operatorFields struct {
	LegacyCode   string `json:"Legacy Code,omitempty"`
	Email        string `json:"Email,omitempty"`
	CRMUserID    string `json:"CRM User ID,omitempty"`
	CalendarLink string `json:"Calendar Link,omitempty"`
}

type prospectRecordDTO struct {
	ID     string         `json:"id"`
	Fields prospectFields `json:"fields"`
}

type operatorRecordDTO struct {
	ID     string         `json:"id"`
	Fields operatorFields `json:"fields"`
}

type prospectListResponse struct {
	Records []prospectRecordDTO `json:"records"`
	Offset  string              `json:"offset,omitempty"`
}

type operatorListResponse struct {
	Records []operatorRecordDTO `json:"records"`
	Offset  string              `json:"offset,omitempty"`
}

type createRecordRequest struct {
	Fields map[string]any `json:"fields"`
}

type createdRecordResponse struct {
	ID     string         `json:"id"`
	Fields prospectFields `json:"fields"`
}

func (d prospectRecordDTO) toRecord() *ProspectRecord {
	rec := &ProspectRecord{
		ID:                  d.ID,
		Email:               d.Fields.Email,
		LegacyCode:          d.Fields.LegacyCode,
		AssignedOpCode:      d.Fields.AssignedOpCode,
		AssignedOpEmail:     d.Fields.AssignedOpEmail,
		AssignedOpCRMUserID: d.Fields.CRMUserID,
		SyncStatus:          d.Fields.SyncStatus,
	}
	if d.Fields.AutoNum != nil {
		rec.AutoNumber = *d.Fields.AutoNum
		rec.HasAutoNumber = true
	}
	return rec
}
