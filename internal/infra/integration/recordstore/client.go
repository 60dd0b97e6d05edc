package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angushq/prospect-sync/internal/entity"
)

// Client is the typed access layer for the tabular record store: Prospects,
// Survey Responses and the operator roster.
type Client struct {
	apiKey         string
	baseURL        string // e.g. https://api.airtable.com/v0/appXXXX
	prospectsTable string
	responsesTable string
	operatorsTable string
	http           *http.Client
}

func NewClient(apiKey, baseURL, baseID, prospectsTable, responsesTable, operatorsTable string) *Client {
	return &Client{
		apiKey:         apiKey,
		baseURL:        strings.TrimRight(baseURL, "/") + "/" + baseID,
		prospectsTable: prospectsTable,
		responsesTable: responsesTable,
		operatorsTable: operatorsTable,
		http:           &http.Client{Timeout: 15 * time.Second},
	}
}

// FindProspectByEmail does a server-side exact match on the email column.
// Returns nil without error when no row matches.
func (c *Client) FindProspectByEmail(ctx context.Context, email string) (*ProspectRecord, error) {
	params := url.Values{}
	params.Set("filterByFormula", fmt.Sprintf("{%s} = '%s'", FieldProspectEmail, escapeFormulaValue(email)))
	params.Set("maxRecords", "1")

	var out prospectListResponse
	if err := c.do(ctx, "find prospect", http.MethodGet, c.url(c.prospectsTable, "", params), nil, &out); err != nil {
		return nil, err
	}
	if len(out.Records) == 0 {
		return nil, nil
	}
	return out.Records[0].toRecord(), nil
}

// CreateProspect writes a new row holding only the email. The store may not
// echo AutoNum in the create response; callers re-fetch via GetProspect.
func (c *Client) CreateProspect(ctx context.Context, email string) (*ProspectRecord, error) {
	body := createRecordRequest{Fields: map[string]any{FieldProspectEmail: email}}

	var out createdRecordResponse
	if err := c.do(ctx, "create prospect", http.MethodPost, c.url(c.prospectsTable, "", nil), body, &out); err != nil {
		return nil, err
	}
	return prospectRecordDTO(out).toRecord(), nil
}

// GetProspect reads the full field set of one row. This is the only way to
// obtain AutoNum when a create response omitted it.
func (c *Client) GetProspect(ctx context.Context, id string) (*ProspectRecord, error) {
	var out prospectRecordDTO
	if err := c.do(ctx, "get prospect", http.MethodGet, c.url(c.prospectsTable, id, nil), nil, &out); err != nil {
		return nil, err
	}
	return out.toRecord(), nil
}

// PatchProspect performs a partial field update; absent fields are left
// untouched by the store.
func (c *Client) PatchProspect(ctx context.Context, id string, fields map[string]any) error {
	body := createRecordRequest{Fields: fields}
	return c.do(ctx, "patch prospect", http.MethodPatch, c.url(c.prospectsTable, id, nil), body, nil)
}

// CreateSurveyResponse persists one immutable submission row linked to its
// Prospect. Returns the new record id.
func (c *Client) CreateSurveyResponse(ctx context.Context, resp entity.SurveyResponse) (string, error) {
	fields := map[string]any{
		FieldDateSubmitted: resp.SubmittedAt.UTC().Format(time.RFC3339),
		FieldLegacyCode:    resp.LegacyCode,
		FieldProspectsLink: []string{resp.ProspectID},
	}
	for i, name := range AnswerFields {
		if i < len(resp.Answers) {
			fields[name] = resp.Answers[i]
		}
	}

	var out createdRecordResponse
	if err := c.do(ctx, "create survey response", http.MethodPost, c.url(c.responsesTable, "", nil), createRecordRequest{Fields: fields}, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// ListOperators pages through the whole roster. The store signals
// continuation with an opaque offset token that must be followed until it
// stops appearing.
func (c *Client) ListOperators(ctx context.Context) ([]entity.Operator, error) {
	var operators []entity.Operator
	offset := ""

	for {
		params := url.Values{}
		if offset != "" {
			params.Set("offset", offset)
		}

		var page operatorListResponse
		if err := c.do(ctx, "list operators", http.MethodGet, c.url(c.operatorsTable, "", params), nil, &page); err != nil {
			return nil, err
		}

		for _, rec := range page.Records {
			operators = append(operators, entity.Operator{
				LegacyCode:   rec.Fields.LegacyCode,
				Email:        rec.Fields.Email,
				CRMUserID:    rec.Fields.CRMUserID,
				CalendarLink: rec.Fields.CalendarLink,
			})
		}

		if page.Offset == "" {
			return operators, nil
		}
		offset = page.Offset
	}
}

func (c *Client) url(table, recordID string, params url.Values) string {
	u := c.baseURL + "/" + url.PathEscape(table)
	if recordID != "" {
		u += "/" + recordID
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, op, method, rawURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", op, err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &UnavailableError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return &UnavailableError{Op: op, StatusCode: resp.StatusCode}
	case resp.StatusCode >= 400:
		detail, _ := io.ReadAll(resp.Body)
		return &RejectedError{Op: op, StatusCode: resp.StatusCode, Detail: string(detail)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// escapeFormulaValue keeps a user-supplied email from breaking out of the
// quoted literal inside the server-side filter expression.
func escapeFormulaValue(v string) string {
	return strings.ReplaceAll(strings.ReplaceAll(v, `\`, `\\`), `'`, `\'`)
}
