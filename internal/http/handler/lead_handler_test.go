package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leadpilot/leads-api/internal/auth"
	"github.com/leadpilot/leads-api/internal/domain"
	"github.com/leadpilot/leads-api/internal/http/handler"
	"github.com/leadpilot/leads-api/internal/repository"
	"github.com/leadpilot/leads-api/internal/service"
	"github.com/leadpilot/leads-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newLeadRouter mounts the lead routes behind a stub session middleware
func newLeadRouter(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	logger := zap.NewNop()

	leadService := service.NewLeadService(
		repository.NewLeadRepository(db),
		repository.NewNoteRepository(db),
		repository.NewTaskRepository(db),
		repository.NewActivityRepository(db),
		logger,
	)
	h := handler.NewLeadHandler(leadService, logger)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithUserContext(req.Context(), &auth.UserContext{
				UserID:      uuid.New(),
				Username:    "jdoe",
				DisplayName: "Jane Doe",
				Role:        domain.RoleUser,
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/api/leads", func(r chi.Router) {
		r.Get("/", h.ListLeads)
		r.Post("/", h.CreateLead)
		r.Get("/{id}", h.GetLead)
		r.Put("/{id}", h.UpdateLead)
		r.Patch("/{id}/archive", h.ArchiveLead)
		r.Post("/{id}/notes", h.AddNote)
		r.Post("/{id}/tasks", h.AddTask)
		r.Patch("/{id}/tasks/{taskId}", h.ToggleTask)
		r.Post("/{id}/activities", h.AddActivity)
	})
	return r, db
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(out))
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp domain.ErrorResponse
	decodeInto(t, w, &resp)
	return resp.Error
}

func createLead(t *testing.T, router http.Handler, name string) domain.LeadDTO {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/leads", domain.CreateLeadRequest{Name: name, Source: "referral"})
	require.Equal(t, http.StatusCreated, w.Code)
	var lead domain.LeadDTO
	decodeInto(t, w, &lead)
	return lead
}

func TestLeadHandler_CreateLead(t *testing.T) {
	router, _ := newLeadRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/leads", domain.CreateLeadRequest{
		Name:    "Ada Lovelace",
		Company: "Analytical Engines",
		Source:  "website",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var lead domain.LeadDTO
	decodeInto(t, w, &lead)
	assert.Equal(t, "Ada Lovelace", lead.Name)
	assert.Equal(t, domain.LeadStatusNew, lead.Status)
	assert.Equal(t, "Unassigned", lead.AssignedTo)
	assert.NotNil(t, lead.Notes)
	assert.NotNil(t, lead.Tasks)
	require.Len(t, lead.Activities, 1)
	assert.Equal(t, "Lead created", lead.Activities[0].Description)
}

func TestLeadHandler_CreateLead_MissingName(t *testing.T) {
	router, _ := newLeadRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/leads", map[string]string{"company": "Acme", "source": "website"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name and source are required", errorMessage(t, w))
}

func TestLeadHandler_CreateLead_MissingSource(t *testing.T) {
	router, _ := newLeadRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/leads", map[string]string{"name": "Ada"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name and source are required", errorMessage(t, w))
}

func TestLeadHandler_CreateLead_ScoreOutOfRange(t *testing.T) {
	router, _ := newLeadRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/leads", map[string]interface{}{
		"name":   "Ada",
		"source": "website",
		"score":  150,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "score: must be less than or equal to 100", errorMessage(t, w))
}

func TestLeadHandler_GetLead_BadID(t *testing.T) {
	router, _ := newLeadRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/leads/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Lead not found", errorMessage(t, w))
}

func TestLeadHandler_GetLead_Unknown(t *testing.T) {
	router, _ := newLeadRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/leads/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Lead not found", errorMessage(t, w))
}

func TestLeadHandler_UpdateLead(t *testing.T) {
	router, _ := newLeadRouter(t)
	lead := createLead(t, router, "Before")

	w := doJSON(t, router, http.MethodPut, "/api/leads/"+lead.ID.String(), map[string]interface{}{
		"name":   "After",
		"status": "contacted",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated domain.LeadDTO
	decodeInto(t, w, &updated)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, domain.LeadStatusContacted, updated.Status)
}

func TestLeadHandler_UpdateLead_ClosedStatuses(t *testing.T) {
	router, _ := newLeadRouter(t)

	for _, status := range []string{"won", "lost"} {
		lead := createLead(t, router, "Deal "+status)
		w := doJSON(t, router, http.MethodPut, "/api/leads/"+lead.ID.String(), map[string]interface{}{
			"status": status,
		})
		require.Equal(t, http.StatusOK, w.Code, "status %q", status)

		var updated domain.LeadDTO
		decodeInto(t, w, &updated)
		assert.Equal(t, domain.LeadStatus(status), updated.Status)
	}
}

func TestLeadHandler_UpdateLead_BadStatus(t *testing.T) {
	router, _ := newLeadRouter(t)
	lead := createLead(t, router, "Ada")

	w := doJSON(t, router, http.MethodPut, "/api/leads/"+lead.ID.String(), map[string]interface{}{
		"status": "galactic",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeadHandler_ArchiveLead(t *testing.T) {
	router, _ := newLeadRouter(t)
	lead := createLead(t, router, "Ada")

	w := doJSON(t, router, http.MethodPatch, "/api/leads/"+lead.ID.String()+"/archive", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var archived domain.LeadDTO
	decodeInto(t, w, &archived)
	assert.True(t, archived.Archived)
}

func TestLeadHandler_ListLeads_ArchivedFilter(t *testing.T) {
	router, _ := newLeadRouter(t)
	keep := createLead(t, router, "Active")
	archive := createLead(t, router, "Archived")

	w := doJSON(t, router, http.MethodPatch, "/api/leads/"+archive.ID.String()+"/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/leads", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var leads []domain.LeadDTO
	decodeInto(t, w, &leads)
	require.Len(t, leads, 1)
	assert.Equal(t, keep.ID, leads[0].ID)

	w = doJSON(t, router, http.MethodGet, "/api/leads?archived=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeInto(t, w, &leads)
	require.Len(t, leads, 1)
	assert.Equal(t, archive.ID, leads[0].ID)
}

func TestLeadHandler_ListLeads_AllSentinel(t *testing.T) {
	router, _ := newLeadRouter(t)
	createLead(t, router, "Ada")
	createLead(t, router, "Grace")

	// "all" behaves exactly like an absent filter
	w := doJSON(t, router, http.MethodGet, "/api/leads?status=all&source=all&assignedTo=all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var leads []domain.LeadDTO
	decodeInto(t, w, &leads)
	assert.Len(t, leads, 2)
}

func TestLeadHandler_AddNote(t *testing.T) {
	router, _ := newLeadRouter(t)
	lead := createLead(t, router, "Ada")

	w := doJSON(t, router, http.MethodPost, "/api/leads/"+lead.ID.String()+"/notes", domain.AddNoteRequest{
		Text: "Followed up by phone",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var note domain.NoteDTO
	decodeInto(t, w, &note)
	assert.Equal(t, "Followed up by phone", note.Text)
	assert.Equal(t, "Jane Doe", note.Author)
}

func TestLeadHandler_AddNote_EmptyText(t *testing.T) {
	router, _ := newLeadRouter(t)
	lead := createLead(t, router, "Ada")

	w := doJSON(t, router, http.MethodPost, "/api/leads/"+lead.ID.String()+"/notes", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Note text is required", errorMessage(t, w))
}

func TestLeadHandler_AddTask(t *testing.T) {
	router, _ := newLeadRouter(t)
	lead := createLead(t, router, "Ada")

	// Bare dates and RFC 3339 timestamps are both accepted
	for _, due := range []string{"2026-09-01", "2026-09-01T09:00:00Z"} {
		w := doJSON(t, router, http.MethodPost, "/api/leads/"+lead.ID.String()+"/tasks", domain.AddTaskRequest{
			Title:   "Send proposal",
			DueDate: due,
		})
		assert.Equal(t, http.StatusCreated, w.Code, "due date %q", due)
	}
}

func TestLeadHandler_AddTask_InvalidDueDate(t *testing.T) {
	router, _ := newLeadRouter(t)
	lead := createLead(t, router, "Ada")

	w := doJSON(t, router, http.MethodPost, "/api/leads/"+lead.ID.String()+"/tasks", domain.AddTaskRequest{
		Title:   "Send proposal",
		DueDate: "next tuesday",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid due date", errorMessage(t, w))
}

func TestLeadHandler_ToggleTask(t *testing.T) {
	router, _ := newLeadRouter(t)
	lead := createLead(t, router, "Ada")

	w := doJSON(t, router, http.MethodPost, "/api/leads/"+lead.ID.String()+"/tasks", domain.AddTaskRequest{
		Title:   "Call back",
		DueDate: "2026-09-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var task domain.TaskDTO
	decodeInto(t, w, &task)

	w = doJSON(t, router, http.MethodPatch, "/api/leads/"+lead.ID.String()+"/tasks/"+task.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var toggled domain.TaskDTO
	decodeInto(t, w, &toggled)
	assert.True(t, toggled.Completed)
}

func TestLeadHandler_ToggleTask_Unknown(t *testing.T) {
	router, _ := newLeadRouter(t)
	lead := createLead(t, router, "Ada")

	w := doJSON(t, router, http.MethodPatch, "/api/leads/"+lead.ID.String()+"/tasks/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found", errorMessage(t, w))
}

func TestLeadHandler_AddActivity(t *testing.T) {
	router, _ := newLeadRouter(t)
	lead := createLead(t, router, "Ada")

	w := doJSON(t, router, http.MethodPost, "/api/leads/"+lead.ID.String()+"/activities", domain.AddActivityRequest{
		Type:        domain.ActivityTypeCall,
		Description: "Intro call",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var activity domain.ActivityDTO
	decodeInto(t, w, &activity)
	assert.Equal(t, domain.ActivityTypeCall, activity.Type)
}

func TestLeadHandler_AddActivity_InvalidType(t *testing.T) {
	router, _ := newLeadRouter(t)
	lead := createLead(t, router, "Ada")

	w := doJSON(t, router, http.MethodPost, "/api/leads/"+lead.ID.String()+"/activities", map[string]string{
		"type":        "telepathy",
		"description": "reached out",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
