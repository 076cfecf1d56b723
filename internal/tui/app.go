package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/tuido/internal/config"
	"github.com/jask/tuido/internal/msg"
	"github.com/jask/tuido/internal/sched"
)

// App is the bubbletea model. Its key handlers are the application's event
// callbacks: anything that should change state becomes a scheduler message,
// and the scheduler drains it synchronously before Update returns, so the
// frame rendered afterwards always reflects a fully settled View.
type App struct {
	enq  sched.Enqueuer
	view *View
	cfg  config.Config

	input textinput.Model
	edit  textinput.Model

	focus     appFocus
	cursor    int
	editingID string
	width     int
	height    int
	quitting  bool

	styles styles
}

type appFocus string

const (
	focusList  appFocus = "list"
	focusInput appFocus = "input"
	focusEdit  appFocus = "edit"
)

type styles struct {
	title    lipgloss.Style
	accent   lipgloss.Style
	done     lipgloss.Style
	filterOn lipgloss.Style
	errText  lipgloss.Style
	faint    lipgloss.Style
}

func newStyles(accent string) styles {
	color := lipgloss.Color(accent)
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Underline(true),
		accent:   lipgloss.NewStyle().Foreground(color),
		done:     lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241")),
		filterOn: lipgloss.NewStyle().Bold(true).Foreground(color).Underline(true),
		errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		faint:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// New wires the bubbletea model to the render state and the scheduler's
// enqueue handle.
func New(cfg config.Config, enq sched.Enqueuer, view *View) *App {
	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	input.CharLimit = 200

	edit := textinput.New()
	edit.CharLimit = 200

	return &App{
		enq:    enq,
		view:   view,
		cfg:    cfg,
		input:  input,
		edit:   edit,
		focus:  focusList,
		width:  80,
		height: 24,
		styles: newStyles(cfg.UI.AccentColor),
	}
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(m tea.Msg) (tea.Model, tea.Cmd) {
	switch m := m.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case tea.KeyMsg:
		switch a.focus {
		case focusInput:
			return a.handleInputKey(m)
		case focusEdit:
			return a.handleEditKey(m)
		default:
			return a.handleListKey(m)
		}
	}
	return a, nil
}

func (a *App) handleListKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		a.quitting = true
		return a, tea.Quit
	case "n", "i":
		a.focus = focusInput
		a.input.Focus()
		return a, textinput.Blink
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.view.items)-1 {
			a.cursor++
		}
	case " ", "x":
		if it := a.selected(); it != nil {
			a.enqueue(msg.ToggleItem{ID: it.ID, Completed: !it.Completed})
		}
	case "d":
		if it := a.selected(); it != nil {
			a.enqueue(msg.RemoveItem{ID: it.ID})
		}
	case "enter", "e":
		if it := a.selected(); it != nil {
			a.focus = focusEdit
			a.editingID = it.ID
			a.edit.SetValue(it.Title)
			a.edit.CursorEnd()
			a.edit.Focus()
			return a, textinput.Blink
		}
	case "t":
		a.enqueue(msg.ToggleAll{Completed: !a.view.toggleAll})
	case "C":
		a.enqueue(msg.RemoveCompleted{})
	case "a":
		a.enqueue(msg.SetPage{Hash: "#/"})
	case "o":
		a.enqueue(msg.SetPage{Hash: "#/active"})
	case "c":
		a.enqueue(msg.SetPage{Hash: "#/completed"})
	}
	a.clampCursor()
	return a, nil
}

func (a *App) handleInputKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.focus = focusList
		a.input.Blur()
		return a, nil
	case "ctrl+c":
		a.quitting = true
		return a, tea.Quit
	case "enter":
		a.enqueue(msg.AddItem{Title: a.input.Value()})
		if a.view.TakeClearInput() {
			a.input.Reset()
		}
		a.clampCursor()
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	return a, cmd
}

func (a *App) handleEditKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.enqueue(msg.EditItemCancel{ID: a.editingID})
		a.closeEditor()
		return a, nil
	case "ctrl+c":
		a.quitting = true
		return a, tea.Quit
	case "enter":
		a.enqueue(msg.EditItemSave{ID: a.editingID, Title: a.edit.Value()})
		a.closeEditor()
		a.clampCursor()
		return a, nil
	}
	var cmd tea.Cmd
	a.edit, cmd = a.edit.Update(m)
	return a, cmd
}

// enqueue wraps a controller payload and pushes it through the scheduler.
func (a *App) enqueue(m msg.ControllerMsg) {
	a.enq.Enqueue(msg.ToController{Msg: m})
}

func (a *App) closeEditor() {
	a.focus = focusList
	a.editingID = ""
	a.edit.Blur()
	a.edit.Reset()
}

func (a *App) selected() *msg.Item {
	if a.cursor < 0 || a.cursor >= len(a.view.items) {
		return nil
	}
	return &a.view.items[a.cursor]
}

func (a *App) clampCursor() {
	if a.cursor >= len(a.view.items) {
		a.cursor = len(a.view.items) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}
	out := a.styles.title.Render("todos") + "\n\n"
	out += a.renderInput() + "\n"
	if a.view.showMain {
		out += a.renderList()
		out += "\n" + a.renderFilters() + "\n"
		out += a.renderFooter()
	} else {
		out += a.styles.faint.Render("Nothing to do. Press [n] to add a todo.") + "\n"
	}
	if a.cfg.UI.ShowStatus && a.view.status != "" {
		line := a.view.status
		if a.view.statusErr {
			line = a.styles.errText.Render(line)
		}
		out += "\n" + line
	}
	return out
}

func (a *App) renderInput() string {
	marker := "  "
	if a.focus == focusInput {
		marker = a.styles.accent.Render("> ")
	}
	return marker + a.input.View()
}

func (a *App) renderList() string {
	var out string
	for i, it := range a.view.items {
		marker := "  "
		if i == a.cursor && a.focus != focusInput {
			marker = a.styles.accent.Render("▶ ")
		}
		box := "[ ]"
		if it.Completed {
			box = "[x]"
		}
		if a.focus == focusEdit && it.ID == a.editingID {
			out += fmt.Sprintf("%s%s %s\n", marker, box, a.edit.View())
			continue
		}
		title := it.Title
		if it.Completed {
			title = a.styles.done.Render(title)
		}
		line := fmt.Sprintf("%s%s %s", marker, box, title)
		if !it.CreatedAt.IsZero() {
			line += " " + a.styles.faint.Render(it.CreatedAt.Format(a.cfg.UI.DateFormat))
		}
		out += line + "\n"
	}
	return out
}

func (a *App) renderFilters() string {
	parts := make([]string, 0, 3)
	for _, r := range []msg.Route{msg.RouteAll, msg.RouteActive, msg.RouteCompleted} {
		label := string(r)
		if r == a.view.route {
			label = a.styles.filterOn.Render(label)
		} else {
			label = a.styles.faint.Render(label)
		}
		parts = append(parts, label)
	}
	return parts[0] + "  " + parts[1] + "  " + parts[2]
}

func (a *App) renderFooter() string {
	noun := "items"
	if a.view.itemsLeft == 1 {
		noun = "item"
	}
	out := fmt.Sprintf("%d %s left\n", a.view.itemsLeft, noun)
	hints := "[n] New  [enter] Edit  [space] Toggle  [d] Delete  [t] Toggle all  [a/o/c] Filter  [q] Quit"
	if a.view.showClear {
		hints += "  [C] Clear completed"
	}
	return out + a.styles.faint.Render(hints)
}
