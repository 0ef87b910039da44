// Package web renders the dashboard page and handles its forms. Every
// successful change redirects back to the dashboard, which reloads all
// collections.
package web

import (
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/gdg-garage/kursverwaltung/internal/catalog"
	"github.com/gdg-garage/kursverwaltung/internal/dashboard"
	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
	"github.com/gdg-garage/kursverwaltung/internal/tabs"
)

//go:embed templates/*.html
var templateFS embed.FS

type Handler struct {
	catalog *catalog.Catalog
	loader  *dashboard.Loader
	tabs    *tabs.Set
	csrf    *CSRF
	tmpl    *template.Template
}

func NewHandler(cat *catalog.Catalog, loader *dashboard.Loader, set *tabs.Set, csrf *CSRF) *Handler {
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"value": func(values map[string]string, name string) string { return values[name] },
		"deref": func(b *bool) bool { return b != nil && *b },
		"inc":   func(n int) int { return n + 1 },
		"inputType": func(k catalog.Kind) string {
			switch k {
			case catalog.KindEmail, catalog.KindTel, catalog.KindDate:
				return string(k)
			case catalog.KindNumber, catalog.KindDecimal:
				return "number"
			}
			return "text"
		},
		"dict": func(pairs ...any) map[string]any {
			m := make(map[string]any, len(pairs)/2)
			for i := 0; i+1 < len(pairs); i += 2 {
				key, _ := pairs[i].(string)
				m[key] = pairs[i+1]
			}
			return m
		},
		"fieldError": func(verr *catalog.ValidationError, name string) string {
			if verr == nil {
				return ""
			}
			return verr.Message(name)
		},
	}).ParseFS(templateFS, "templates/*.html"))

	return &Handler{catalog: cat, loader: loader, tabs: set, csrf: csrf, tmpl: tmpl}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleDashboard)
	r.Route("/ui/{entity}", func(r chi.Router) {
		r.Use(h.csrf.Middleware)
		r.Get("/new", h.handleNew)
		r.Post("/", h.handleCreate)
		r.Get("/{id}/edit", h.handleEdit)
		r.Post("/{id}", h.handleUpdate)
		r.Get("/{id}/delete", h.handleConfirmDelete)
		r.Post("/{id}/delete", h.handleDelete)
		r.Post("/{id}/toggle", h.handleToggle)
	})
}

type tabView struct {
	Entity *catalog.Entity
	Rows   []dashboard.Row
	Active bool
	Busy   bool
}

type dialogView struct {
	Entity  *catalog.Entity
	Title   string
	Action  string
	Values  map[string]string
	Errors  *catalog.ValidationError
	Options map[string][]dashboard.Option
	Message string
	Busy    bool
}

type confirmView struct {
	Title       string
	Description string
	Action      string
	Busy        bool
}

type pageData struct {
	Stats     dashboard.Stats
	Revenue   string
	LoadError bool
	ActiveTab string
	Tabs      []tabView
	Dialog    *dialogView
	Confirm   *confirmView
	Error     string
	CSRF      string
	// status overrides the response status set by the caller of render.
	status    int
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, r.URL.Query().Get("tab"), func(*dashboard.Snapshot, *pageData) {})
}

// render loads all collections and writes the page. decorate adds dialogs.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, activeTab string, decorate func(*dashboard.Snapshot, *pageData)) {
	snap, err := h.loader.Load(r.Context())
	if err != nil {
		log.Printf("Error loading data: %v", err)
	}

	if _, ok := h.catalog.Lookup(activeTab); !ok {
		activeTab = catalog.Keys[0]
	}

	data := &pageData{
		Stats:     snap.Stats(),
		LoadError: err != nil,
		ActiveTab: activeTab,
		Error:     r.URL.Query().Get("error"),
	}
	data.Revenue = dashboard.FormatEuro(data.Stats.TotalRevenue)
	for _, e := range h.catalog.All() {
		tv := tabView{Entity: e, Rows: snap.Rows(e.Key), Active: e.Key == activeTab}
		if t, ok := h.tabs.Get(e.Key); ok {
			tv.Busy = t.Busy()
		}
		data.Tabs = append(data.Tabs, tv)
	}
	decorate(snap, data)
	if data.status != 0 {
		status = data.status
	}

	token, err := h.csrf.Issue(h.csrf.nonce(w, r))
	if err != nil {
		http.Error(w, "Failed to issue form token", http.StatusInternalServerError)
		return
	}
	data.CSRF = token

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		log.Printf("Failed to render dashboard: %v", err)
	}
}

func (h *Handler) entity(w http.ResponseWriter, r *http.Request) (*catalog.Entity, *tabs.Tab, bool) {
	key := chi.URLParam(r, "entity")
	e, ok := h.catalog.Lookup(key)
	if !ok {
		http.NotFound(w, r)
		return nil, nil, false
	}
	t, ok := h.tabs.Get(key)
	if !ok {
		http.NotFound(w, r)
		return nil, nil, false
	}
	return e, t, true
}

func (h *Handler) dialog(snap *dashboard.Snapshot, e *catalog.Entity, recordID string, values map[string]string) *dialogView {
	d := &dialogView{
		Entity:  e,
		Title:   e.NewLabel,
		Action:  "/ui/" + e.Key,
		Values:  values,
		Options: map[string][]dashboard.Option{},
	}
	if recordID != "" {
		d.Title = e.Singular + " bearbeiten"
		d.Action = "/ui/" + e.Key + "/" + url.PathEscape(recordID)
	}
	for _, ref := range e.References() {
		d.Options[ref.Target] = snap.Options(ref.Target)
	}
	if t, ok := h.tabs.Get(e.Key); ok {
		d.Busy = t.Busy()
	}
	return d
}

func (h *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	e, _, ok := h.entity(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, e.Key, func(snap *dashboard.Snapshot, data *pageData) {
		data.Dialog = h.dialog(snap, e, "", e.Defaults())
	})
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	e, _, ok := h.entity(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	h.render(w, r, http.StatusOK, e.Key, func(snap *dashboard.Snapshot, data *pageData) {
		rec, found := snap.Find(e.Key, id)
		if !found {
			data.Error = e.Singular + " nicht gefunden"
			data.status = http.StatusNotFound
			return
		}
		data.Dialog = h.dialog(snap, e, id, e.FormValues(rec))
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "")
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, chi.URLParam(r, "id"))
}

// submit handles create and edit forms. On failure the dialog is shown
// again with the submitted values and the error.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request, recordID string) {
	e, t, ok := h.entity(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	values := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		values[f.Name] = r.PostForm.Get(f.Name)
	}

	var err error
	if recordID == "" {
		_, err = t.Create(r.Context(), catalog.FormInput(values))
	} else {
		_, err = t.Update(r.Context(), recordID, catalog.FormInput(values))
	}
	if err == nil {
		redirect(w, r, e.Key, "")
		return
	}

	status := http.StatusBadGateway
	var verr *catalog.ValidationError
	message := "Speichern fehlgeschlagen. Bitte erneut versuchen."
	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		message = "Bitte die markierten Felder prüfen."
	case errors.Is(err, tabs.ErrBusy):
		status = http.StatusConflict
		message = "Es wird bereits gespeichert."
	case errors.Is(err, tabs.ErrNotFound):
		status = http.StatusNotFound
		message = e.Singular + " existiert nicht mehr."
	}

	h.render(w, r, status, e.Key, func(snap *dashboard.Snapshot, data *pageData) {
		data.Dialog = h.dialog(snap, e, recordID, values)
		data.Dialog.Errors = verr
		data.Dialog.Message = message
	})
}

func (h *Handler) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	e, t, ok := h.entity(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	h.render(w, r, http.StatusOK, e.Key, func(snap *dashboard.Snapshot, data *pageData) {
		rec, found := snap.Find(e.Key, id)
		if !found {
			rec = livingapps.Record{RecordID: id}
		}
		data.Confirm = &confirmView{
			Title:       e.Singular + " löschen",
			Description: snap.DeletePrompt(e.Key, rec),
			Action:      "/ui/" + e.Key + "/" + url.PathEscape(id) + "/delete",
			Busy:        t.Busy(),
		}
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	e, t, ok := h.entity(w, r)
	if !ok {
		return
	}
	if err := t.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		redirect(w, r, e.Key, e.Singular+" konnte nicht gelöscht werden.")
		return
	}
	redirect(w, r, e.Key, "")
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	e, t, ok := h.entity(w, r)
	if !ok {
		return
	}
	snap, err := h.loader.LoadOnly(r.Context(), e.Key)
	if err != nil {
		log.Printf("Error loading %s: %v", e.Key, err)
		redirect(w, r, e.Key, "Zahlungsstatus konnte nicht geändert werden.")
		return
	}
	rec, found := snap.Find(e.Key, chi.URLParam(r, "id"))
	if !found {
		redirect(w, r, e.Key, e.Singular+" existiert nicht mehr.")
		return
	}
	if _, err := t.TogglePaid(r.Context(), rec); err != nil {
		redirect(w, r, e.Key, "Zahlungsstatus konnte nicht geändert werden.")
		return
	}
	redirect(w, r, e.Key, "")
}

func redirect(w http.ResponseWriter, r *http.Request, tab, message string) {
	q := url.Values{"tab": {tab}}
	if message != "" {
		q.Set("error", message)
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}
