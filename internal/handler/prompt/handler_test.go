package prompt

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/serenity/backend/internal/model/prompt"
)

func setupRouter(now time.Time) (*chi.Mux, prompt.Store) {
	store := prompt.NewMemoryStore(prompt.Seed())
	handler := New(store)
	handler.now = func() time.Time { return now }

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, store
}

func getDaily(t *testing.T, r http.Handler, query string) (int, prompt.Daily) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/prompts/daily"+query, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var daily prompt.Daily
	if resp.Code == http.StatusOK {
		if err := json.Unmarshal(resp.Body.Bytes(), &daily); err != nil {
			t.Fatalf("decode daily: %v", err)
		}
	}
	return resp.Code, daily
}

func TestListPrompts(t *testing.T) {
	r, _ := setupRouter(time.Now())
	req := httptest.NewRequest(http.MethodGet, "/prompts", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var categories []prompt.Category
	if err := json.Unmarshal(resp.Body.Bytes(), &categories); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(categories) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(categories))
	}
}

func TestDailyPromptIsDeterministic(t *testing.T) {
	r, store := setupRouter(time.Now())

	code, first := getDaily(t, r, "?date=2024-01-01")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	_, second := getDaily(t, r, "?date=2024-01-01")
	if first != second {
		t.Fatalf("same date returned different prompts: %+v vs %+v", first, second)
	}

	want, _ := store.ForDay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if first != want {
		t.Fatalf("expected %+v, got %+v", want, first)
	}
	if first.Date != "2024-01-01" {
		t.Fatalf("unexpected date %s", first.Date)
	}

	_, next := getDaily(t, r, "?date=2024-01-02")
	if next.Prompt == first.Prompt {
		t.Fatalf("consecutive days should rotate prompts")
	}
}

func TestDailyPromptDefaultsToToday(t *testing.T) {
	now := time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC)
	r, _ := setupRouter(now)

	code, daily := getDaily(t, r, "")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if daily.Date != "2025-03-09" {
		t.Fatalf("expected today's date, got %s", daily.Date)
	}
}

func TestDailyPromptRejectsMalformedDate(t *testing.T) {
	r, _ := setupRouter(time.Now())
	if code, _ := getDaily(t, r, "?date=03/09/2025"); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestGetCategory(t *testing.T) {
	r, _ := setupRouter(time.Now())

	req := httptest.NewRequest(http.MethodGet, "/prompts/Emotional%20Awareness", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/prompts/Unknown", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
