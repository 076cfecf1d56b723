package msg

import "time"

// Message is the envelope routed by the scheduler. It carries either a
// controller payload or a view payload; the scheduler never inspects the
// payload itself, only the target. The interface is sealed so the set of
// targets stays closed and type switches over it stay exhaustive.
type Message interface {
	target()
}

// ToController addresses a payload to the controller.
type ToController struct {
	Msg ControllerMsg
}

// ToView addresses a payload to the view.
type ToView struct {
	Msg ViewMsg
}

func (ToController) target() {}
func (ToView) target()       {}

// Route identifies which slice of the todo list is visible.
type Route string

const (
	RouteAll       Route = "all"
	RouteActive    Route = "active"
	RouteCompleted Route = "completed"
)

// Item is the presentation shape of a todo carried in view payloads.
type Item struct {
	ID        string
	Title     string
	Completed bool
	CreatedAt time.Time
}

// ControllerMsg is a sealed set of state-change requests. Each variant
// names an intent against stored data; anything the user should see as a
// result comes back as a ViewMsg enqueued by the controller.
type ControllerMsg interface {
	controllerMsg()
}

type (
	// AddItem creates a new todo with the given title.
	AddItem struct{ Title string }
	// SetPage switches the active route from a location hash such as
	// "#/active". An empty hash means RouteAll.
	SetPage struct{ Hash string }
	// EditItemSave commits an edited title for the item.
	EditItemSave struct {
		ID    string
		Title string
	}
	// EditItemCancel abandons an in-progress edit of the item.
	EditItemCancel struct{ ID string }
	// RemoveCompleted deletes every completed todo.
	RemoveCompleted struct{}
	// RemoveItem deletes one todo.
	RemoveItem struct{ ID string }
	// ToggleAll marks every todo completed or active.
	ToggleAll struct{ Completed bool }
	// ToggleItem marks one todo completed or active.
	ToggleItem struct {
		ID        string
		Completed bool
	}
)

func (AddItem) controllerMsg()         {}
func (SetPage) controllerMsg()         {}
func (EditItemSave) controllerMsg()    {}
func (EditItemCancel) controllerMsg()  {}
func (RemoveCompleted) controllerMsg() {}
func (RemoveItem) controllerMsg()      {}
func (ToggleAll) controllerMsg()       {}
func (ToggleItem) controllerMsg()      {}

// ViewMsg is a sealed set of presentation updates. Variants mutate render
// state only; the view performs no storage I/O on their behalf.
type ViewMsg interface {
	viewMsg()
}

type (
	// ClearNewTodo empties the new-todo input field.
	ClearNewTodo struct{}
	// ShowItems replaces the visible list.
	ShowItems struct{ Items []Item }
	// SetItemsLeft updates the active-item counter in the footer.
	SetItemsLeft struct{ Count int }
	// ShowClearCompleted shows or hides the clear-completed affordance.
	ShowClearCompleted struct{ Visible bool }
	// ShowMain shows or hides the list section (hidden when no todos exist).
	ShowMain struct{ Visible bool }
	// SetToggleAll sets the state of the mark-all-complete toggle.
	SetToggleAll struct{ Checked bool }
	// HighlightFilter marks the active route in the filter bar.
	HighlightFilter struct{ Route Route }
	// RemoveListItem drops a single item from the visible list without a
	// full refresh.
	RemoveListItem struct{ ID string }
	// SetItemComplete flips the rendered checkbox for one item.
	SetItemComplete struct {
		ID        string
		Completed bool
	}
	// EditItemDone closes the inline editor for the item, applying Title.
	EditItemDone struct {
		ID    string
		Title string
	}
	// Notify puts a message on the status line.
	Notify struct {
		Text  string
		IsErr bool
	}
)

func (ClearNewTodo) viewMsg()       {}
func (ShowItems) viewMsg()          {}
func (SetItemsLeft) viewMsg()       {}
func (ShowClearCompleted) viewMsg() {}
func (ShowMain) viewMsg()           {}
func (SetToggleAll) viewMsg()       {}
func (HighlightFilter) viewMsg()    {}
func (RemoveListItem) viewMsg()     {}
func (SetItemComplete) viewMsg()    {}
func (EditItemDone) viewMsg()       {}
func (Notify) viewMsg()             {}
