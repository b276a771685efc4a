package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/outreachly/crm-sync/internal/domain/provider"
)

func TestClient_CreateContact(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a Lead with backfilled required fields", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/services/data/v59.0/sobjects/Lead", r.URL.Path)
			assert.Equal(t, "Bearer sf-token", r.Header.Get("Authorization"))

			var fields map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
			assert.Equal(t, "jane@acme.example", fields["Email"])
			assert.Equal(t, "Jane", fields["FirstName"])
			// Email-only leads still need LastName and Company.
			assert.Equal(t, "Unknown", fields["LastName"])
			assert.Equal(t, "Unknown", fields["Company"])

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"00Q5e000001abcXYZ","success":true,"errors":[]}`))
		}))
		defer server.Close()

		client := NewClient("sf-token", server.URL, zap.NewNop())
		remote, err := client.CreateContact(ctx, &provider.Contact{
			Email:     "jane@acme.example",
			FirstName: "Jane",
		})

		assert.NoError(t, err)
		assert.Equal(t, "00Q5e000001abcXYZ", remote.ID)
		assert.Equal(t, provider.RemoteTypeContact, remote.Type)
	})

	t.Run("keeps the caller's LastName and Company when present", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var fields map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
			assert.Equal(t, "Doe", fields["LastName"])
			assert.Equal(t, "Acme Inc", fields["Company"])
			w.Write([]byte(`{"id":"00Q1","success":true}`))
		}))
		defer server.Close()

		client := NewClient("sf-token", server.URL, zap.NewNop())
		_, err := client.CreateContact(ctx, &provider.Contact{
			Email:    "jane@acme.example",
			LastName: "Doe",
			Company:  "Acme Inc",
		})
		assert.NoError(t, err)
	})
}

func TestClient_UpdateContact(t *testing.T) {
	// Salesforce answers PATCH with 204 and no body.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/services/data/v59.0/sobjects/Lead/00Q5e000001abcXYZ", r.URL.Path)

		var fields map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		assert.Equal(t, "+1-555-0100", fields["Phone"])
		// LastName was not supplied, so the partial update must not carry it.
		_, hasLastName := fields["LastName"]
		assert.False(t, hasLastName)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient("sf-token", server.URL, zap.NewNop())
	remote, err := client.UpdateContact(context.Background(), "00Q5e000001abcXYZ", &provider.Contact{
		Phone: "+1-555-0100",
	})

	assert.NoError(t, err)
	assert.Equal(t, "00Q5e000001abcXYZ", remote.ID)
}

func TestClient_FindContactByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("runs a SOQL query and maps the first record", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/services/data/v59.0/query", r.URL.Path)
			soql := r.URL.Query().Get("q")
			assert.Contains(t, soql, "FROM Lead")
			assert.Contains(t, soql, "Email = 'jane@acme.example'")

			w.Write([]byte(`{"totalSize":1,"done":true,"records":[{"Id":"00Q1","Email":"jane@acme.example","FirstName":"Jane","LastName":"Doe","Company":"Acme Inc"}]}`))
		}))
		defer server.Close()

		client := NewClient("sf-token", server.URL, zap.NewNop())
		contact, err := client.FindContactByEmail(ctx, "jane@acme.example")

		assert.NoError(t, err)
		assert.NotNil(t, contact)
		assert.Equal(t, "00Q1", contact.RemoteID)
		assert.Equal(t, "Doe", contact.LastName)
	})

	t.Run("escapes single quotes in the email literal", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			soql := r.URL.Query().Get("q")
			assert.Contains(t, soql, `o\'brien@acme.example`)
			w.Write([]byte(`{"totalSize":0,"records":[]}`))
		}))
		defer server.Close()

		client := NewClient("sf-token", server.URL, zap.NewNop())
		contact, err := client.FindContactByEmail(ctx, "o'brien@acme.example")

		assert.NoError(t, err)
		assert.Nil(t, contact)
	})
}

func TestClient_CreateActivity(t *testing.T) {
	sentAt := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v59.0/sobjects/Task", r.URL.Path)

		var fields map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		assert.Equal(t, "Intro", fields["Subject"])
		assert.Equal(t, "Completed", fields["Status"])
		assert.Equal(t, "Call", fields["TaskSubtype"])
		assert.Equal(t, "2026-02-01", fields["ActivityDate"])
		assert.Equal(t, "00Q1", fields["WhoId"])
		assert.Equal(t, "Spoke briefly\n\nOutcome: interested", fields["Description"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"00T1","success":true}`))
	}))
	defer server.Close()

	client := NewClient("sf-token", server.URL, zap.NewNop())
	remote, err := client.CreateActivity(context.Background(), &provider.Activity{
		ContactID: "00Q1",
		Type:      "call",
		Subject:   "Intro",
		Body:      "Spoke briefly",
		Timestamp: sentAt,
		Outcome:   "interested",
	})

	assert.NoError(t, err)
	assert.Equal(t, "00T1", remote.ID)
	assert.Equal(t, provider.RemoteTypeActivity, remote.Type)
}

func TestTaskSubtype(t *testing.T) {
	assert.Equal(t, "Email", taskSubtype("email"))
	assert.Equal(t, "Call", taskSubtype("call"))
	assert.Equal(t, "Task", taskSubtype("note"))
	// Salesforce has no meeting subtype on Task.
	assert.Equal(t, "Task", taskSubtype("meeting"))
	assert.Equal(t, "Task", taskSubtype("anything-else"))
}

func TestClient_CreateDeal(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an Opportunity and its contact role", func(t *testing.T) {
		var rolePosted bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/services/data/v59.0/sobjects/Opportunity":
				var fields map[string]interface{}
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
				assert.Equal(t, "Acme expansion", fields["Name"])
				assert.Equal(t, 1500.5, fields["Amount"])
				assert.Equal(t, "Prospecting", fields["StageName"])
				assert.NotEmpty(t, fields["CloseDate"])
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"id":"0061","success":true}`))
			case "/services/data/v59.0/sobjects/OpportunityContactRole":
				rolePosted = true
				var fields map[string]interface{}
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
				assert.Equal(t, "0061", fields["OpportunityId"])
				assert.Equal(t, "0031", fields["ContactId"])
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{"id":"00K1","success":true}`))
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
			}
		}))
		defer server.Close()

		amount := decimal.NewFromFloat(1500.5)
		client := NewClient("sf-token", server.URL, zap.NewNop())
		remote, err := client.CreateDeal(ctx, &provider.Deal{
			Name:      "Acme expansion",
			Amount:    &amount,
			ContactID: "0031",
		})

		assert.NoError(t, err)
		assert.Equal(t, "0061", remote.ID)
		assert.True(t, rolePosted)
	})

	t.Run("keeps the opportunity when the contact role fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/services/data/v59.0/sobjects/OpportunityContactRole" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`[{"message":"invalid contact"}]`))
				return
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"0061","success":true}`))
		}))
		defer server.Close()

		client := NewClient("sf-token", server.URL, zap.NewNop())
		remote, err := client.CreateDeal(ctx, &provider.Deal{
			Name:      "Acme expansion",
			ContactID: "0031",
		})

		assert.NoError(t, err)
		assert.Equal(t, "0061", remote.ID)
	})
}
