package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"symptomdx/internal/models"
	"symptomdx/internal/session"
	"symptomdx/internal/testutil"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	e := testutil.Engine(t)
	store := session.New(session.NewMemory(), time.Minute)

	sessions := NewSessionHandler(e, store)
	symptoms := NewSymptomHandler(e)
	diagnose := NewDiagnoseHandler(e)
	health := NewHealthHandler(e)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/healthz", health.Check)
	app.Get("/api/symptoms", symptoms.List)
	app.Get("/api/symptoms/match", symptoms.Match)
	app.Post("/api/diagnose", diagnose.Diagnose)
	app.Post("/api/sessions", sessions.Create)
	app.Get("/api/sessions/:id", sessions.Get)
	app.Post("/api/sessions/:id/answer", sessions.Answer)
	app.Post("/api/sessions/:id/finish", sessions.Finish)
	app.Delete("/api/sessions/:id", sessions.Delete)
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, envelope) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test(%s %s) error = %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: invalid JSON %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("failed to decode data %s: %v", env.Data, err)
	}
	return v
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, "GET", "/healthz", nil)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	h := decode[models.HealthResponse](t, env)
	if h.Status != "ok" || h.Symptoms != 7 || h.Diseases != 4 || h.Knowledge != 2 {
		t.Errorf("health = %+v", h)
	}
}

func TestSymptoms(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, "GET", "/api/symptoms", nil)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	v := decode[models.VocabularyResponse](t, env)
	if v.Count != 7 || v.Symptoms[0] != "itching" {
		t.Errorf("vocabulary = %+v", v)
	}

	tests := []struct {
		name    string
		query   string
		status  int
		matches []string
	}{
		{"two matches", "/api/symptoms/match?q=PAIN", fiber.StatusOK, []string{"chest_pain", "back_pain"}},
		{"no match", "/api/symptoms/match?q=sneezing", fiber.StatusOK, []string{}},
		{"missing query", "/api/symptoms/match", fiber.StatusBadRequest, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, "GET", tt.query, nil)
			if status != tt.status {
				t.Fatalf("status = %d, want %d", status, tt.status)
			}
			if tt.status != fiber.StatusOK {
				if env.Status != "error" {
					t.Errorf("envelope status = %q", env.Status)
				}
				return
			}
			m := decode[models.SymptomMatchResponse](t, env)
			if len(m.Matches) != len(tt.matches) {
				t.Fatalf("matches = %v, want %v", m.Matches, tt.matches)
			}
			for i := range m.Matches {
				if m.Matches[i] != tt.matches[i] {
					t.Errorf("matches[%d] = %q, want %q", i, m.Matches[i], tt.matches[i])
				}
			}
		})
	}
}

func TestDiagnose(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name    string
		body    any
		status  int
		disease string
		outcome string
	}{
		{"flu", map[string]any{"symptoms": []string{"High Fever", "cough"}}, fiber.StatusOK, "Flu", models.OutcomeDiagnosed},
		{"empty", map[string]any{"symptoms": []string{}}, fiber.StatusOK, "", models.OutcomeInsufficientInput},
		{"unknown symptom", map[string]any{"symptoms": []string{"sneezing"}}, fiber.StatusBadRequest, "", ""},
		{"bad body", "not an object", fiber.StatusBadRequest, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, "POST", "/api/diagnose", tt.body)
			if status != tt.status {
				t.Fatalf("status = %d, want %d (%s)", status, tt.status, env.Error)
			}
			if status != fiber.StatusOK {
				return
			}
			d := decode[models.Diagnosis](t, env)
			if d.Outcome != tt.outcome || d.Disease != tt.disease {
				t.Errorf("diagnosis = %+v", d)
			}
		})
	}
}

func TestSession_FullDialogue(t *testing.T) {
	app := newTestApp(t)

	status, env := do(t, app, "POST", "/api/sessions", nil)
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d", status)
	}
	s := decode[models.SessionResponse](t, env)
	if s.State != "collecting" || s.Question == nil || s.Question.Kind != "symptom" {
		t.Fatalf("created session = %+v", s)
	}
	path := "/api/sessions/" + s.ID.String()

	_, env = do(t, app, "POST", path+"/answer", map[string]string{"answer": "pain"})
	s = decode[models.SessionResponse](t, env)
	if s.State != "confirming" || s.Question.Symptom != "chest_pain" || s.Question.Typed != "pain" {
		t.Fatalf("after pain = %+v", s.Question)
	}

	_, env = do(t, app, "POST", path+"/answer", map[string]string{"answer": "yes"})
	s = decode[models.SessionResponse](t, env)
	if s.Question.Symptom != "back_pain" {
		t.Fatalf("second candidate = %+v", s.Question)
	}

	_, env = do(t, app, "POST", path+"/answer", map[string]string{"answer": "no"})
	s = decode[models.SessionResponse](t, env)
	if s.State != "collecting" {
		t.Fatalf("state = %q, want collecting", s.State)
	}

	status, env = do(t, app, "GET", path, nil)
	if status != fiber.StatusOK {
		t.Fatalf("get status = %d", status)
	}
	s = decode[models.SessionResponse](t, env)
	if len(s.Confirmed) != 2 || s.Confirmed[0] != "chest_pain" || s.Confirmed[1] != "pain" {
		t.Fatalf("confirmed = %v", s.Confirmed)
	}

	do(t, app, "POST", path+"/answer", map[string]string{"answer": "cough"})
	_, env = do(t, app, "POST", path+"/answer", map[string]string{"answer": "done"})
	s = decode[models.SessionResponse](t, env)
	if s.State != "done" || s.Diagnosis == nil {
		t.Fatalf("final = %+v", s)
	}
	if s.Diagnosis.Disease != "Bronchitis" {
		t.Errorf("disease = %q, want Bronchitis", s.Diagnosis.Disease)
	}
	if s.Question != nil {
		t.Errorf("finished session should have no question")
	}

	status, _ = do(t, app, "GET", path, nil)
	if status != fiber.StatusNotFound {
		t.Errorf("finished session status = %d, want 404", status)
	}
}

func TestSession_FinishKeepsTypedToken(t *testing.T) {
	app := newTestApp(t)

	_, env := do(t, app, "POST", "/api/sessions", nil)
	path := "/api/sessions/" + decode[models.SessionResponse](t, env).ID.String()

	do(t, app, "POST", path+"/answer", map[string]string{"answer": "itching"})
	do(t, app, "POST", path+"/answer", map[string]string{"answer": "pain"})

	status, env := do(t, app, "POST", path+"/finish", nil)
	if status != fiber.StatusOK {
		t.Fatalf("finish status = %d", status)
	}
	d := decode[models.SessionResponse](t, env).Diagnosis
	if d == nil || d.Disease != "Fungal infection" {
		t.Fatalf("diagnosis = %+v", d)
	}
	if len(d.Symptoms) != 2 || d.Symptoms[1] != "pain" {
		t.Errorf("symptoms = %v", d.Symptoms)
	}
}

func TestSession_DoneWithoutSymptoms(t *testing.T) {
	app := newTestApp(t)

	_, env := do(t, app, "POST", "/api/sessions", nil)
	path := "/api/sessions/" + decode[models.SessionResponse](t, env).ID.String()

	_, env = do(t, app, "POST", path+"/answer", map[string]string{"answer": "done"})
	d := decode[models.SessionResponse](t, env).Diagnosis
	if d == nil || !d.IsInsufficient() {
		t.Fatalf("diagnosis = %+v", d)
	}
}

func TestSession_Errors(t *testing.T) {
	app := newTestApp(t)

	_, env := do(t, app, "POST", "/api/sessions", nil)
	path := "/api/sessions/" + decode[models.SessionResponse](t, env).ID.String()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{"invalid id", "GET", "/api/sessions/not-a-uuid", nil, fiber.StatusBadRequest},
		{"unknown id", "GET", "/api/sessions/00000000-0000-0000-0000-000000000001", nil, fiber.StatusNotFound},
		{"invalid symptom", "POST", path + "/answer", map[string]string{"answer": "fever!!"}, fiber.StatusUnprocessableEntity},
		{"bad body", "POST", path + "/answer", "answer", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, tt.method, tt.path, tt.body)
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if env.Status != "error" || env.Error == "" {
				t.Errorf("envelope = %+v", env)
			}
		})
	}

	status, _ := do(t, app, "GET", path, nil)
	if status != fiber.StatusOK {
		t.Errorf("session should survive failed answers, got %d", status)
	}
}

func TestSession_Delete(t *testing.T) {
	app := newTestApp(t)

	_, env := do(t, app, "POST", "/api/sessions", nil)
	path := "/api/sessions/" + decode[models.SessionResponse](t, env).ID.String()

	status, _ := do(t, app, "DELETE", path, nil)
	if status != fiber.StatusNoContent {
		t.Fatalf("delete status = %d", status)
	}
	status, _ = do(t, app, "GET", path, nil)
	if status != fiber.StatusNotFound {
		t.Errorf("deleted session status = %d, want 404", status)
	}
}
