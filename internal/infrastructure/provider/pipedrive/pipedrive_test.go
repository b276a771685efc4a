package pipedrive

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

	t.Run("posts a person with labelled email and phone arrays", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/persons", r.URL.Path)
			assert.Equal(t, "Bearer pd-token", r.Header.Get("Authorization"))

			var fields map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
			assert.Equal(t, "Jane Doe", fields["name"])
			emails := fields["email"].([]interface{})
			email := emails[0].(map[string]interface{})
			assert.Equal(t, "jane@acme.example", email["value"])
			assert.Equal(t, true, email["primary"])

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"success":true,"data":{"id":42,"name":"Jane Doe"}}`))
		}))
		defer server.Close()

		client := NewClient("pd-token", server.URL, zap.NewNop())
		remote, err := client.CreateContact(ctx, &provider.Contact{
			Email:     "jane@acme.example",
			FirstName: "Jane",
			LastName:  "Doe",
		})

		assert.NoError(t, err)
		assert.Equal(t, "42", remote.ID)
		assert.Equal(t, provider.RemoteTypeContact, remote.Type)
	})

	t.Run("treats a success:false envelope as a provider error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"error":"missing name"}`))
		}))
		defer server.Close()

		client := NewClient("pd-token", server.URL, zap.NewNop())
		_, err := client.CreateContact(ctx, &provider.Contact{Email: "jane@acme.example"})

		provErr, ok := err.(*provider.Error)
		assert.True(t, ok)
		assert.Equal(t, provider.ErrCodeRemoteAPIError, provErr.Code)
	})
}

func TestClient_UpdateContact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/persons/42", r.URL.Path)
		w.Write([]byte(`{"success":true,"data":{"id":42}}`))
	}))
	defer server.Close()

	client := NewClient("pd-token", server.URL, zap.NewNop())
	remote, err := client.UpdateContact(context.Background(), "42", &provider.Contact{Phone: "+1-555-0100"})

	assert.NoError(t, err)
	assert.Equal(t, "42", remote.ID)
}

func TestClient_FindContactByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("searches by exact email match", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/persons/search", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "jane@acme.example", q.Get("term"))
			assert.Equal(t, "email", q.Get("fields"))
			assert.Equal(t, "true", q.Get("exact_match"))

			w.Write([]byte(`{"success":true,"data":{"items":[{"item":{"id":42,"name":"Jane Doe"}}]}}`))
		}))
		defer server.Close()

		client := NewClient("pd-token", server.URL, zap.NewNop())
		contact, err := client.FindContactByEmail(ctx, "jane@acme.example")

		assert.NoError(t, err)
		assert.NotNil(t, contact)
		assert.Equal(t, "42", contact.RemoteID)
		// Search items omit the email arrays; the searched email is kept.
		assert.Equal(t, "jane@acme.example", contact.Email)
	})

	t.Run("returns nil when nothing matches", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":true,"data":{"items":[]}}`))
		}))
		defer server.Close()

		client := NewClient("pd-token", server.URL, zap.NewNop())
		contact, err := client.FindContactByEmail(ctx, "nobody@acme.example")

		assert.NoError(t, err)
		assert.Nil(t, contact)
	})
}

func TestClient_CreateActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("posts a done activity with due date and time", func(t *testing.T) {
		sentAt := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/activities", r.URL.Path)

			var fields map[string]interface{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
			assert.Equal(t, "Intro", fields["subject"])
			assert.Equal(t, "email", fields["type"])
			assert.Equal(t, "2026-02-01", fields["due_date"])
			assert.Equal(t, "09:30", fields["due_time"])
			assert.Equal(t, float64(42), fields["person_id"])
			assert.Equal(t, float64(1), fields["done"])

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"success":true,"data":{"id":7}}`))
		}))
		defer server.Close()

		client := NewClient("pd-token", server.URL, zap.NewNop())
		remote, err := client.CreateActivity(ctx, &provider.Activity{
			ContactID: "42",
			Type:      "email",
			Subject:   "Intro",
			Timestamp: sentAt,
		})

		assert.NoError(t, err)
		assert.Equal(t, "7", remote.ID)
		assert.Equal(t, provider.RemoteTypeActivity, remote.Type)
	})

	t.Run("maps notes and unknown types to task", func(t *testing.T) {
		assert.Equal(t, "task", activityType("note"))
		assert.Equal(t, "task", activityType("linkedin_message"))
		assert.Equal(t, "meeting", activityType("meeting"))
	})

	t.Run("rejects a non-numeric person id", func(t *testing.T) {
		client := NewClient("pd-token", "http://localhost", zap.NewNop())
		_, err := client.CreateActivity(ctx, &provider.Activity{
			ContactID: "person-42",
			Type:      "email",
			Timestamp: time.Now(),
		})

		provErr, ok := err.(*provider.Error)
		assert.True(t, ok)
		assert.Equal(t, provider.ErrCodeValidation, provErr.Code)
	})
}

func TestClient_CreateDeal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deals", r.URL.Path)

		var fields map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		assert.Equal(t, "Acme expansion", fields["title"])
		assert.Equal(t, "1500.5", fields["value"])
		assert.Equal(t, float64(42), fields["person_id"])
		// Non-numeric stages cannot map to a Pipedrive stage id.
		_, hasStage := fields["stage_id"]
		assert.False(t, hasStage)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"data":{"id":9}}`))
	}))
	defer server.Close()

	amount := decimal.NewFromFloat(1500.5)
	client := NewClient("pd-token", server.URL, zap.NewNop())
	remote, err := client.CreateDeal(context.Background(), &provider.Deal{
		Name:      "Acme expansion",
		Amount:    &amount,
		Stage:     "Prospecting",
		ContactID: "42",
	})

	assert.NoError(t, err)
	assert.Equal(t, "9", remote.ID)
	assert.Equal(t, provider.RemoteTypeDeal, remote.Type)
}
