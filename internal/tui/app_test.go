package tui

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/tuido/internal/config"
	"github.com/jask/tuido/internal/controller"
	"github.com/jask/tuido/internal/database/repository"
	"github.com/jask/tuido/internal/msg"
	"github.com/jask/tuido/internal/sched"
)

// recEnqueuer records envelopes without draining them.
type recEnqueuer struct {
	msgs []msg.Message
}

func (r *recEnqueuer) Enqueue(m msg.Message) { r.msgs = append(r.msgs, m) }

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func testConfig() config.Config {
	return config.Config{UI: config.UIConfig{AccentColor: "205", ShowStatus: true}}
}

func TestListKeysProduceMessages(t *testing.T) {
	rec := &recEnqueuer{}
	view := NewView()
	view.Dispatch(msg.ShowItems{Items: []msg.Item{
		{ID: "1", Title: "a"},
		{ID: "2", Title: "b", Completed: true},
	}})
	app := New(testConfig(), rec, view)

	app.Update(keyRunes('x'))                 // toggle item under cursor
	app.Update(tea.KeyMsg{Type: tea.KeyDown}) // cursor to second item
	app.Update(keyRunes('d'))                 // delete it
	app.Update(keyRunes('o'))                 // route: active
	app.Update(keyRunes('t'))                 // toggle all
	app.Update(keyRunes('C'))                 // clear completed

	want := []msg.Message{
		msg.ToController{Msg: msg.ToggleItem{ID: "1", Completed: true}},
		msg.ToController{Msg: msg.RemoveItem{ID: "2"}},
		msg.ToController{Msg: msg.SetPage{Hash: "#/active"}},
		msg.ToController{Msg: msg.ToggleAll{Completed: true}},
		msg.ToController{Msg: msg.RemoveCompleted{}},
	}
	if !reflect.DeepEqual(rec.msgs, want) {
		t.Fatalf("messages = %v, want %v", rec.msgs, want)
	}
}

func TestInputFocusAddsItem(t *testing.T) {
	rec := &recEnqueuer{}
	view := NewView()
	app := New(testConfig(), rec, view)

	app.Update(keyRunes('n'))
	if app.focus != focusInput {
		t.Fatalf("n should focus the input")
	}
	for _, r := range "milk" {
		app.Update(keyRunes(r))
	}
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	want := msg.ToController{Msg: msg.AddItem{Title: "milk"}}
	if len(rec.msgs) != 1 || !reflect.DeepEqual(rec.msgs[0], want) {
		t.Fatalf("messages = %v, want [%v]", rec.msgs, want)
	}

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if app.focus != focusList {
		t.Fatalf("esc should return to the list")
	}
}

func TestEditFocusSavesAndCancels(t *testing.T) {
	rec := &recEnqueuer{}
	view := NewView()
	view.Dispatch(msg.ShowItems{Items: []msg.Item{{ID: "1", Title: "a"}}})
	app := New(testConfig(), rec, view)

	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if app.focus != focusEdit || app.editingID != "1" {
		t.Fatalf("enter should open the editor for the selected item")
	}
	app.Update(keyRunes('!'))
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	save, ok := rec.msgs[len(rec.msgs)-1].(msg.ToController)
	if !ok {
		t.Fatalf("expected a controller envelope, got %v", rec.msgs)
	}
	es, ok := save.Msg.(msg.EditItemSave)
	if !ok || es.ID != "1" || !strings.HasSuffix(es.Title, "!") {
		t.Fatalf("save = %+v", save.Msg)
	}
	if app.focus != focusList {
		t.Fatalf("editor should close after save")
	}

	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	cancel, ok := rec.msgs[len(rec.msgs)-1].(msg.ToController)
	if !ok {
		t.Fatalf("expected a controller envelope, got %v", rec.msgs)
	}
	if _, ok := cancel.Msg.(msg.EditItemCancel); !ok {
		t.Fatalf("esc should cancel the edit, got %+v", cancel.Msg)
	}
}

func TestListRendersCreatedDates(t *testing.T) {
	rec := &recEnqueuer{}
	view := NewView()
	view.Dispatch(msg.ShowItems{Items: []msg.Item{
		{ID: "1", Title: "pay rent", CreatedAt: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)},
		{ID: "2", Title: "no date"},
	}})
	cfg := testConfig()
	cfg.UI.DateFormat = "02/01"
	app := New(cfg, rec, view)

	frame := app.View()
	if !strings.Contains(frame, "14/03") {
		t.Fatalf("frame missing created date:\n%s", frame)
	}
	if strings.Contains(frame, "01/01") {
		t.Fatalf("zero created time must render without a date:\n%s", frame)
	}
}

// appStore is the minimal in-memory store for full-loop tests.
type appStore struct {
	todos []repository.Todo
}

func (s *appStore) Insert(_ context.Context, t repository.Todo) error {
	s.todos = append(s.todos, t)
	return nil
}

func (s *appStore) UpdateTitle(_ context.Context, id, title string) error {
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos[i].Title = title
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *appStore) SetCompleted(_ context.Context, id string, completed bool) error {
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos[i].Completed = completed
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *appStore) SetAllCompleted(_ context.Context, completed bool) error {
	for i := range s.todos {
		s.todos[i].Completed = completed
	}
	return nil
}

func (s *appStore) Delete(_ context.Context, id string) error {
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos = append(s.todos[:i], s.todos[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *appStore) DeleteCompleted(_ context.Context) (int64, error) {
	var kept []repository.Todo
	var n int64
	for _, t := range s.todos {
		if t.Completed {
			n++
			continue
		}
		kept = append(kept, t)
	}
	s.todos = kept
	return n, nil
}

func (s *appStore) Find(_ context.Context, q repository.TodoQuery) ([]repository.Todo, error) {
	var out []repository.Todo
	for _, t := range s.todos {
		if q.ID != "" && t.ID != q.ID {
			continue
		}
		if q.Visibility == repository.VisibilityActive && t.Completed {
			continue
		}
		if q.Visibility == repository.VisibilityCompleted && !t.Completed {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *appStore) Count(_ context.Context) (repository.Counts, error) {
	var c repository.Counts
	for _, t := range s.todos {
		c.Total++
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c, nil
}

// TestFullLoop drives the real scheduler, controller and view through the
// bubbletea model, the same wiring main sets up.
func TestFullLoop(t *testing.T) {
	s := sched.New()
	store := &appStore{}
	ctrl := controller.New(context.Background(), store, s)
	view := NewView()
	s.SetController(ctrl)
	s.SetView(view)
	app := New(testConfig(), s, view)

	// Initial route, as bootstrap does it.
	s.Enqueue(msg.ToController{Msg: msg.SetPage{Hash: ""}})

	app.Update(keyRunes('n'))
	for _, r := range "ship it" {
		app.Update(keyRunes(r))
	}
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(store.todos) != 1 {
		t.Fatalf("store should hold the new todo, have %d", len(store.todos))
	}
	if len(view.items) != 1 || view.items[0].Title != "ship it" {
		t.Fatalf("view items = %v", view.items)
	}
	if app.input.Value() != "" {
		t.Fatalf("input should have been cleared, still %q", app.input.Value())
	}
	if !view.showMain || view.itemsLeft != 1 {
		t.Fatalf("chrome not updated: showMain=%v left=%d", view.showMain, view.itemsLeft)
	}

	// Toggle it from the list and narrow to active: the list empties.
	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app.Update(keyRunes('x'))
	app.Update(keyRunes('o'))
	if len(view.items) != 0 {
		t.Fatalf("active route should hide the completed todo, items=%v", view.items)
	}
	if view.itemsLeft != 0 || !view.showClear {
		t.Fatalf("footer wrong: left=%d showClear=%v", view.itemsLeft, view.showClear)
	}
	if s.Running() {
		t.Fatalf("scheduler must be idle between frames")
	}

	frame := app.View()
	if !strings.Contains(frame, "0 items left") {
		t.Fatalf("frame missing footer:\n%s", frame)
	}
}
