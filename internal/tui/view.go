package tui

import (
	"github.com/jask/tuido/internal/msg"
)

// View is the presentation collaborator. The scheduler hands it ViewMsg
// payloads and it mutates render state only; it never touches storage. The
// App reads this state when bubbletea asks for a frame, and consumes the
// one-shot flags (clearInput) after each drain.
type View struct {
	items      []msg.Item
	itemsLeft  int
	showClear  bool
	showMain   bool
	toggleAll  bool
	route      msg.Route
	status     string
	statusErr  bool
	clearInput bool
}

// NewView returns a view showing the all route with nothing in it.
func NewView() *View {
	return &View{route: msg.RouteAll}
}

// Dispatch is the scheduler's entry point.
func (v *View) Dispatch(m msg.ViewMsg) {
	switch m := m.(type) {
	case msg.ClearNewTodo:
		v.clearInput = true
	case msg.ShowItems:
		v.items = m.Items
	case msg.SetItemsLeft:
		v.itemsLeft = m.Count
	case msg.ShowClearCompleted:
		v.showClear = m.Visible
	case msg.ShowMain:
		v.showMain = m.Visible
	case msg.SetToggleAll:
		v.toggleAll = m.Checked
	case msg.HighlightFilter:
		v.route = m.Route
	case msg.RemoveListItem:
		v.removeItem(m.ID)
	case msg.SetItemComplete:
		if it := v.find(m.ID); it != nil {
			it.Completed = m.Completed
		}
	case msg.EditItemDone:
		if it := v.find(m.ID); it != nil {
			it.Title = m.Title
		}
	case msg.Notify:
		v.status = m.Text
		v.statusErr = m.IsErr
	}
}

// TakeClearInput reports whether the input field should reset, clearing the
// flag as it does.
func (v *View) TakeClearInput() bool {
	c := v.clearInput
	v.clearInput = false
	return c
}

func (v *View) find(id string) *msg.Item {
	for i := range v.items {
		if v.items[i].ID == id {
			return &v.items[i]
		}
	}
	return nil
}

func (v *View) removeItem(id string) {
	for i := range v.items {
		if v.items[i].ID == id {
			v.items = append(v.items[:i], v.items[i+1:]...)
			return
		}
	}
}
