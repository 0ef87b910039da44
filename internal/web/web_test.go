package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/gdg-garage/kursverwaltung/internal/catalog"
	"github.com/gdg-garage/kursverwaltung/internal/dashboard"
	"github.com/gdg-garage/kursverwaltung/internal/tabs"
	"github.com/gdg-garage/kursverwaltung/internal/testfixtures"
)

const testNonce = "0123456789abcdef"

type testServer struct {
	cat    *catalog.Catalog
	gw     *testfixtures.Gateway
	course testfixtures.Course
	csrf   *CSRF
	router *chi.Mux
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := &testServer{
		cat:  testfixtures.Catalog(),
		gw:   testfixtures.NewGateway(),
		csrf: NewCSRF("test-secret"),
	}
	s.course = testfixtures.SeedCourses(s.gw, s.cat)

	loader := dashboard.NewLoader(s.gw, s.cat)
	h := NewHandler(s.cat, loader, tabs.New(s.cat, s.gw, nil, nil), s.csrf)
	s.router = chi.NewRouter()
	h.Routes(s.router)
	return s
}

func (s *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func (s *testServer) post(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	token, err := s.csrf.Issue(testNonce)
	if err != nil {
		t.Fatal(err)
	}
	if form == nil {
		form = url.Values{}
	}
	form.Set(csrfField, token)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookie, Value: testNonce})
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func TestDashboardPage(t *testing.T) {
	s := newTestServer(t)

	rr := s.get(t, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"500 €", "Go Grundlagen", "Dr. Anna Berg", "A101 (Hauptgebäude)", `name="csrf_token"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != csrfCookie {
		t.Errorf("expected nonce cookie, got %v", cookies)
	}

	rr = s.get(t, "/?tab=anmeldungen")
	if !strings.Contains(rr.Body.String(), "Bezahlt") || !strings.Contains(rr.Body.String(), "Offen") {
		t.Error("expected enrollment table with payment badges")
	}
}

func TestDashboardPageWithGatewayDown(t *testing.T) {
	s := newTestServer(t)
	for _, e := range s.cat.All() {
		s.gw.Fail(e.AppID, errors.New("down"))
	}

	rr := s.get(t, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected page even when loading fails, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Einige Daten konnten nicht geladen werden.") {
		t.Error("expected load error banner")
	}
	if !strings.Contains(body, "Noch keine Kurse vorhanden") {
		t.Error("expected empty table")
	}
}

func TestCreateRequiresCSRF(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/ui/raeume", strings.NewReader("raumname=X"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
	if len(s.gw.Calls()) != 0 {
		t.Errorf("expected no gateway calls, got %v", s.gw.Calls())
	}
}

func TestCreateMissingReferenceKeepsDialogOpen(t *testing.T) {
	s := newTestServer(t)

	rr := s.post(t, "/ui/kurse", url.Values{
		"titel":          {"Rust Einführung"},
		"startdatum":     {"2025-06-01"},
		"enddatum":       {"2025-06-30"},
		"max_teilnehmer": {"10"},
		"preis":          {"150"},
		"dozent":         {s.course.Dozent},
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<dialog open>") || !strings.Contains(body, "Rust Einführung") {
		t.Error("expected dialog with submitted values")
	}
	if !strings.Contains(body, "Bitte auswählen") {
		t.Error("expected field error for raum")
	}
	for _, call := range s.gw.Calls() {
		if strings.HasPrefix(call, "create") {
			t.Errorf("no create call expected, got %v", s.gw.Calls())
		}
	}
}

func TestCreateRedirectsToDashboard(t *testing.T) {
	s := newTestServer(t)

	rr := s.post(t, "/ui/teilnehmer", url.Values{
		"name":  {"Jonas Weber"},
		"email": {"jonas@example.de"},
	})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/?tab=teilnehmer" {
		t.Errorf("unexpected redirect %s", loc)
	}

	records, _ := s.gw.List(context.Background(), s.cat.MustLookup(catalog.Teilnehmer).AppID)
	if len(records) != 3 {
		t.Errorf("expected 3 participants, got %d", len(records))
	}
}

func TestEditPrefillsForm(t *testing.T) {
	s := newTestServer(t)

	rr := s.get(t, "/ui/kurse/"+s.course.Kurs1+"/edit")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Kurs bearbeiten") {
		t.Error("expected edit title")
	}
	if !strings.Contains(body, `<option value="`+s.course.Dozent+`" selected>`) {
		t.Error("expected instructor preselected")
	}
}

func TestEditUnknownRecord(t *testing.T) {
	s := newTestServer(t)

	rr := s.get(t, "/ui/kurse/"+testfixtures.ID(999)+"/edit")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Kurs nicht gefunden") {
		t.Error("expected not found banner")
	}
	if strings.Contains(body, "<dialog open>") {
		t.Error("no dialog expected for an unknown record")
	}
}

func TestDeleteFlow(t *testing.T) {
	s := newTestServer(t)
	target := "/ui/anmeldungen/" + testfixtures.ID(23) + "/delete"

	rr := s.get(t, target)
	if !strings.Contains(rr.Body.String(), "Möchten Sie die Anmeldung von &#34;Lena Schmidt&#34; für den Kurs &#34;Go Fortgeschritten&#34; wirklich löschen?") {
		t.Errorf("unexpected confirmation: %s", rr.Body.String())
	}

	rr = s.post(t, target, nil)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/?tab=anmeldungen" {
		t.Fatalf("unexpected response %d %s", rr.Code, rr.Header().Get("Location"))
	}

	// Deleting again hits a record that is gone.
	rr = s.post(t, target, nil)
	if loc := rr.Header().Get("Location"); !strings.Contains(loc, "error=") {
		t.Errorf("expected error banner redirect, got %s", loc)
	}
}

func TestToggleAfterCourseDeleted(t *testing.T) {
	s := newTestServer(t)

	rr := s.post(t, "/ui/kurse/"+s.course.Kurs2+"/delete", nil)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("delete failed: %d", rr.Code)
	}

	rr = s.post(t, "/ui/anmeldungen/"+testfixtures.ID(23)+"/toggle", nil)
	if rr.Code != http.StatusSeeOther || strings.Contains(rr.Header().Get("Location"), "error=") {
		t.Fatalf("toggle failed: %d %s", rr.Code, rr.Header().Get("Location"))
	}

	fields, _ := s.gw.Get(s.cat.MustLookup(catalog.Anmeldungen).AppID, testfixtures.ID(23))
	if fields["bezahlt"] != true {
		t.Errorf("expected paid, got %v", fields["bezahlt"])
	}

	page := s.get(t, "/?tab=anmeldungen").Body.String()
	if !strings.Contains(page, "<td>-</td>") {
		t.Error("expected placeholder for the deleted course")
	}
}

func TestToggleUnsupportedEntity(t *testing.T) {
	s := newTestServer(t)

	rr := s.post(t, "/ui/kurse/"+s.course.Kurs1+"/toggle", nil)
	if loc := rr.Header().Get("Location"); !strings.Contains(loc, "error=") {
		t.Errorf("expected error redirect, got %s", loc)
	}
}

func TestCSRFVerify(t *testing.T) {
	c := NewCSRF("secret")
	token, err := c.Issue("nonce-a")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Verify(token, "nonce-a"); err != nil {
		t.Errorf("expected valid token, got %v", err)
	}
	if err := c.Verify(token, "nonce-b"); err == nil {
		t.Error("expected nonce mismatch to fail")
	}
	if err := NewCSRF("other").Verify(token, "nonce-a"); err == nil {
		t.Error("expected signature mismatch to fail")
	}
}
