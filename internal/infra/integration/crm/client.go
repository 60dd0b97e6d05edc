package crm

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
)

// SyncError is any non-success answer from the CRM. Soft by design: the
// caller records it on the Prospect and moves on, never retries inline.
type SyncError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("crm %s failed (status %d): %s", e.Op, e.StatusCode, e.Detail)
}

type Client struct {
	apiKey     string
	locationID string
	baseURL    string
	encoder    FieldEncoder
	http       *http.Client
}

func NewClient(apiKey, locationID, baseURL string, encoder FieldEncoder) *Client {
	return &Client{
		apiKey:     apiKey,
		locationID: locationID,
		baseURL:    strings.TrimRight(baseURL, "/"),
		encoder:    encoder,
		http:       &http.Client{Timeout: 15 * time.Second},
	}
}

// LookupContactByEmail asks the CRM whether a contact already exists for
// this email within our location. Advisory only: nil without error means
// "not found, create one".
func (c *Client) LookupContactByEmail(ctx context.Context, email string) (*Contact, error) {
	params := url.Values{}
	params.Set("email", email)
	params.Set("locationId", c.locationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/contacts/lookup?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &SyncError{Op: "lookup", Detail: err.Error()}
	}
	defer resp.Body.Close()

	// The lookup answers 404 for an unknown email; that is the create signal.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return nil, &SyncError{Op: "lookup", StatusCode: resp.StatusCode, Detail: string(detail)}
	}

	var out lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &SyncError{Op: "lookup", Detail: "bad response body: " + err.Error()}
	}

	if len(out.Contacts) > 0 {
		return &Contact{ID: out.Contacts[0].ID, Email: out.Contacts[0].Email}, nil
	}
	if out.Contact != nil && out.Contact.ID != "" {
		return &Contact{ID: out.Contact.ID, Email: out.Contact.Email}, nil
	}
	return nil, nil
}

// UpsertContact pushes the full contact state: email, custom fields in the
// configured encoding, tags, and the assigned CRM user. PUT when the
// contact id is known, POST otherwise.
func (c *Client) UpsertContact(ctx context.Context, p ContactPayload) (*Contact, error) {
	payload := map[string]any{
		"email":      p.Email,
		"locationId": c.locationID,
	}
	if len(p.CustomFields) > 0 {
		key, value := c.encoder.Encode(p.CustomFields)
		payload[key] = value
	}
	if len(p.Tags) > 0 {
		payload["tags"] = p.Tags
	}
	if p.AssignedUserID != "" {
		payload["assignedUserId"] = p.AssignedUserID
	}

	method := http.MethodPost
	endpoint := c.baseURL + "/contacts"
	op := "create contact"
	if p.ContactID != "" {
		method = http.MethodPut
		endpoint = c.baseURL + "/contacts/" + p.ContactID
		op = "update contact"
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal contact payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &SyncError{Op: op, Detail: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &SyncError{Op: op, StatusCode: resp.StatusCode, Detail: string(body)}
	}

	var out upsertResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &SyncError{Op: op, Detail: "bad response body: " + err.Error()}
	}
	if out.Contact != nil {
		return &Contact{ID: out.Contact.ID, Email: out.Contact.Email}, nil
	}
	return &Contact{ID: out.ID, Email: out.Email}, nil
}

// SetTags replaces the contact's tag list.
func (c *Client) SetTags(ctx context.Context, contactID string, tags []string) error {
	return c.putJSON(ctx, "set tags", "/contacts/"+contactID, map[string]any{"tags": tags})
}

// SetCustomFields writes just the custom-field block, in the configured
// encoding.
func (c *Client) SetCustomFields(ctx context.Context, contactID string, fields map[string]string) error {
	key, value := c.encoder.Encode(fields)
	return c.putJSON(ctx, "set custom fields", "/contacts/"+contactID, map[string]any{key: value})
}

func (c *Client) putJSON(ctx context.Context, op, path string, payload map[string]any) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &SyncError{Op: op, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(resp.Body)
		return &SyncError{Op: op, StatusCode: resp.StatusCode, Detail: string(detail)}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
