package tabs

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/gdg-garage/kursverwaltung/internal/catalog"
	"github.com/gdg-garage/kursverwaltung/internal/database"
	"github.com/gdg-garage/kursverwaltung/internal/history"
	"github.com/gdg-garage/kursverwaltung/internal/livingapps"
	"github.com/gdg-garage/kursverwaltung/internal/models"
	"github.com/gdg-garage/kursverwaltung/internal/notifier"
	"github.com/gdg-garage/kursverwaltung/internal/testfixtures"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifier.Event
}

func (n *recordingNotifier) Notify(e notifier.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return nil
}

type fixture struct {
	cat      *catalog.Catalog
	gw       *testfixtures.Gateway
	set      *Set
	recorder *history.Recorder
	notes    *recordingNotifier
	course   testfixtures.Course
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	f := &fixture{
		cat:      testfixtures.Catalog(),
		gw:       testfixtures.NewGateway(),
		recorder: history.NewRecorder(db),
		notes:    &recordingNotifier{},
	}
	f.course = testfixtures.SeedCourses(f.gw, f.cat)
	f.set = New(f.cat, f.gw, f.recorder, f.notes)
	return f
}

func (f *fixture) tab(t *testing.T, key string) *Tab {
	t.Helper()
	tab, ok := f.set.Get(key)
	if !ok {
		t.Fatalf("no tab for %s", key)
	}
	return tab
}

func TestCreateRejectsMissingReferenceBeforeNetwork(t *testing.T) {
	f := setup(t)
	tab := f.tab(t, catalog.Anmeldungen)

	_, err := tab.Create(context.Background(), map[string]any{
		"teilnehmer":   f.course.Teilnehmer1,
		"anmeldedatum": "2025-02-02",
	})
	var verr *catalog.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Message("kurs") == "" {
		t.Errorf("expected kurs to be reported, got %+v", verr.Fields)
	}
	if calls := f.gw.Calls(); len(calls) != 0 {
		t.Errorf("expected no gateway calls, got %v", calls)
	}
	if tab.Busy() {
		t.Error("tab must not stay busy after a validation error")
	}
}

func TestCreateAndUpdate(t *testing.T) {
	f := setup(t)
	tab := f.tab(t, catalog.Anmeldungen)
	app := f.cat.MustLookup(catalog.Anmeldungen).AppID

	rec, err := tab.Create(context.Background(), map[string]any{
		"teilnehmer":   f.course.Teilnehmer2,
		"kurs":         f.course.Kurs2,
		"anmeldedatum": "2025-02-02",
		"bezahlt":      "on",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stored, ok := f.gw.Get(app, rec.RecordID)
	if !ok {
		t.Fatal("record not stored")
	}
	if stored["kurs"] != testfixtures.Ref(f.cat, catalog.Kurse, f.course.Kurs2) {
		t.Errorf("unexpected kurs reference %v", stored["kurs"])
	}
	if stored["bezahlt"] != true {
		t.Errorf("expected bezahlt true, got %v", stored["bezahlt"])
	}

	_, err = tab.Update(context.Background(), rec.RecordID, map[string]any{
		"teilnehmer":   f.course.Teilnehmer2,
		"kurs":         f.course.Kurs1,
		"anmeldedatum": "2025-02-03",
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	stored, _ = f.gw.Get(app, rec.RecordID)
	if stored["bezahlt"] != false || stored["anmeldedatum"] != "2025-02-03" {
		t.Errorf("full field set not sent: %v", stored)
	}

	entries, err := f.recorder.List(context.Background(), history.Filter{RecordID: rec.RecordID})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Action != models.ActionUpdate || entries[1].Action != models.ActionCreate {
		t.Errorf("unexpected history: %+v", entries)
	}
	if len(f.notes.events) != 1 || f.notes.events[0].Action != models.ActionCreate {
		t.Errorf("expected one create notification, got %+v", f.notes.events)
	}
}

func TestUpdateUnknownRecord(t *testing.T) {
	f := setup(t)
	tab := f.tab(t, catalog.Dozenten)

	_, err := tab.Update(context.Background(), testfixtures.ID(404), map[string]any{"name": "X", "email": "x@example.de"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteFailureKeepsRecord(t *testing.T) {
	f := setup(t)
	tab := f.tab(t, catalog.Kurse)
	app := f.cat.MustLookup(catalog.Kurse).AppID
	f.gw.Fail(app, errors.New("boom"))

	if err := tab.Delete(context.Background(), f.course.Kurs1); err == nil {
		t.Fatal("expected error")
	}
	f.gw.Fail(app, nil)
	if _, ok := f.gw.Get(app, f.course.Kurs1); !ok {
		t.Error("record should still exist")
	}
	if tab.Busy() {
		t.Error("tab must be released after failure")
	}

	if err := tab.Delete(context.Background(), f.course.Kurs1); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := f.gw.Get(app, f.course.Kurs1); ok {
		t.Error("record should be gone")
	}
}

func TestTogglePaidAfterCourseDeleted(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	anmApp := f.cat.MustLookup(catalog.Anmeldungen).AppID

	if err := f.tab(t, catalog.Kurse).Delete(ctx, f.course.Kurs2); err != nil {
		t.Fatal(err)
	}

	fields, _ := f.gw.Get(anmApp, testfixtures.ID(23))
	rec := livingapps.Record{RecordID: testfixtures.ID(23), Fields: fields}

	tab := f.tab(t, catalog.Anmeldungen)
	if _, err := tab.TogglePaid(ctx, rec); err != nil {
		t.Fatalf("TogglePaid returned error: %v", err)
	}
	stored, _ := f.gw.Get(anmApp, rec.RecordID)
	if stored["bezahlt"] != true {
		t.Errorf("expected paid, got %v", stored["bezahlt"])
	}
	if stored["kurs"] != fields["kurs"] {
		t.Error("partial update must leave other fields alone")
	}

	last := f.notes.events[len(f.notes.events)-1]
	if last.Action != models.ActionToggle || last.Paid == nil || !*last.Paid {
		t.Errorf("unexpected notification %+v", last)
	}

	entries, err := f.recorder.List(ctx, history.Filter{RecordID: rec.RecordID})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Fields["kurs"] != fields["kurs"] || entries[0].Fields["bezahlt"] != true {
		t.Errorf("toggle should record the whole record, got %+v", entries)
	}
}

func TestTogglePaidUnsupported(t *testing.T) {
	f := setup(t)
	_, err := f.tab(t, catalog.Kurse).TogglePaid(context.Background(), livingapps.Record{RecordID: f.course.Kurs1})
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestBusyRejectsSecondMutation(t *testing.T) {
	f := setup(t)
	tab := f.tab(t, catalog.Raeume)

	entered := make(chan struct{})
	unblock := make(chan struct{})
	var once sync.Once
	f.gw.Hook = func(op, appID string) {
		if op == "create" {
			once.Do(func() {
				close(entered)
				<-unblock
			})
		}
	}

	input := map[string]any{"raumname": "B2", "gebaeude": "Nord", "kapazitaet": 10}
	done := make(chan error)
	go func() {
		_, err := tab.Create(context.Background(), input)
		done <- err
	}()

	<-entered
	if _, err := tab.Create(context.Background(), input); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	// Other tabs are independent.
	if err := f.tab(t, catalog.Kurse).Delete(context.Background(), f.course.Kurs1); err != nil {
		t.Errorf("other tab should not be blocked: %v", err)
	}

	close(unblock)
	if err := <-done; err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}
	if tab.Busy() {
		t.Error("tab should be idle again")
	}
}
