// Package controller turns stored todo state into scheduler messages. It is
// the business-rules collaborator: the scheduler hands it ControllerMsg
// payloads and every user-visible consequence leaves again as a ViewMsg
// through the enqueuer.
package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/jask/tuido/internal/database/repository"
	"github.com/jask/tuido/internal/msg"
	"github.com/jask/tuido/internal/sched"
)

// Store is the persistence surface the controller needs. *repository.TodoRepo
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	Insert(ctx context.Context, t repository.Todo) error
	UpdateTitle(ctx context.Context, id, title string) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	SetAllCompleted(ctx context.Context, completed bool) error
	Delete(ctx context.Context, id string) error
	DeleteCompleted(ctx context.Context) (int64, error)
	Find(ctx context.Context, q repository.TodoQuery) ([]repository.Todo, error)
	Count(ctx context.Context) (repository.Counts, error)
}

// Controller applies state changes and tells the view what to show.
type Controller struct {
	ctx   context.Context
	store Store
	enq   sched.Enqueuer

	activeRoute     msg.Route
	lastActiveRoute msg.Route
}

// New wires a controller to its store and the scheduler's enqueue handle.
func New(ctx context.Context, store Store, enq sched.Enqueuer) *Controller {
	return &Controller{
		ctx:             ctx,
		store:           store,
		enq:             enq,
		activeRoute:     msg.RouteAll,
		lastActiveRoute: "none",
	}
}

// Dispatch is the scheduler's entry point. It may enqueue any number of new
// messages before returning and never blocks on anything but the store.
func (c *Controller) Dispatch(m msg.ControllerMsg) {
	switch m := m.(type) {
	case msg.AddItem:
		c.addItem(m.Title)
	case msg.SetPage:
		c.setPage(m.Hash)
	case msg.EditItemSave:
		c.editItemSave(m.ID, m.Title)
	case msg.EditItemCancel:
		c.editItemCancel(m.ID)
	case msg.RemoveCompleted:
		c.removeCompletedItems()
	case msg.RemoveItem:
		c.removeItem(m.ID)
	case msg.ToggleAll:
		c.toggleAll(m.Completed)
	case msg.ToggleItem:
		c.toggleItem(m.ID, m.Completed)
	}
}

func (c *Controller) addItem(title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	err := c.store.Insert(c.ctx, repository.Todo{
		ID:    uuid.NewString(),
		Title: title,
	})
	if err != nil {
		c.notifyErr(fmt.Errorf("add item: %w", err))
		return
	}
	c.toView(msg.ClearNewTodo{})
	c.filter(true)
	c.updateCounts()
}

// setPage parses a location-style hash ("", "#/", "#/active", "#/completed")
// into a route. Unknown fragments keep the current route and suggest the
// closest real one.
func (c *Controller) setPage(hash string) {
	fragment := strings.TrimPrefix(strings.TrimPrefix(hash, "#"), "/")
	route, ok := parseRoute(fragment)
	if !ok {
		text := fmt.Sprintf("unknown filter %q", fragment)
		if near := nearestRoute(fragment); near != "" {
			text += fmt.Sprintf(", did you mean %q?", near)
		}
		c.toView(msg.Notify{Text: text, IsErr: true})
		return
	}
	c.activeRoute = route
	c.toView(msg.HighlightFilter{Route: route})
	c.filter(false)
	c.updateCounts()
}

func (c *Controller) editItemSave(id, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		// An edit that erases the title removes the item.
		c.removeItem(id)
		return
	}
	if err := c.store.UpdateTitle(c.ctx, id, title); err != nil {
		c.notifyErr(fmt.Errorf("save item: %w", err))
		return
	}
	c.toView(msg.EditItemDone{ID: id, Title: title})
	c.filter(true)
}

func (c *Controller) editItemCancel(id string) {
	items, err := c.store.Find(c.ctx, repository.TodoQuery{ID: id})
	if err != nil {
		c.notifyErr(fmt.Errorf("cancel edit: %w", err))
		return
	}
	if len(items) == 0 {
		return
	}
	c.toView(msg.EditItemDone{ID: id, Title: items[0].Title})
}

func (c *Controller) removeCompletedItems() {
	n, err := c.store.DeleteCompleted(c.ctx)
	if err != nil {
		c.notifyErr(fmt.Errorf("clear completed: %w", err))
		return
	}
	if n > 0 {
		c.toView(msg.Notify{Text: fmt.Sprintf("cleared %d completed", n)})
	}
	c.filter(true)
	c.updateCounts()
}

func (c *Controller) removeItem(id string) {
	if err := c.store.Delete(c.ctx, id); err != nil {
		c.notifyErr(fmt.Errorf("remove item: %w", err))
		return
	}
	c.toView(msg.RemoveListItem{ID: id})
	c.filter(true)
	c.updateCounts()
}

func (c *Controller) toggleAll(completed bool) {
	if err := c.store.SetAllCompleted(c.ctx, completed); err != nil {
		c.notifyErr(fmt.Errorf("toggle all: %w", err))
		return
	}
	c.toView(msg.SetToggleAll{Checked: completed})
	c.filter(true)
	c.updateCounts()
}

func (c *Controller) toggleItem(id string, completed bool) {
	if err := c.store.SetCompleted(c.ctx, id, completed); err != nil {
		c.notifyErr(fmt.Errorf("toggle item: %w", err))
		return
	}
	c.toView(msg.SetItemComplete{ID: id, Completed: completed})
	// Under a narrowed route the toggled item enters or leaves the visible
	// slice, so the list itself needs a refresh too.
	if c.activeRoute != msg.RouteAll {
		c.filter(true)
	}
	c.updateCounts()
}

// filter refreshes the visible list when the route changed, or always when
// force is set.
func (c *Controller) filter(force bool) {
	if !force && c.activeRoute == c.lastActiveRoute {
		return
	}
	items, err := c.store.Find(c.ctx, repository.TodoQuery{Visibility: visibilityFor(c.activeRoute)})
	if err != nil {
		c.notifyErr(fmt.Errorf("load items: %w", err))
		return
	}
	views := make([]msg.Item, 0, len(items))
	for _, t := range items {
		views = append(views, msg.Item{ID: t.ID, Title: t.Title, Completed: t.Completed, CreatedAt: t.CreatedAt})
	}
	c.toView(msg.ShowItems{Items: views})
	c.lastActiveRoute = c.activeRoute
}

// updateCounts refreshes the footer counter, the clear-completed button,
// the toggle-all state and whether the list section shows at all.
func (c *Controller) updateCounts() {
	counts, err := c.store.Count(c.ctx)
	if err != nil {
		c.notifyErr(fmt.Errorf("count items: %w", err))
		return
	}
	c.toView(msg.SetItemsLeft{Count: counts.Active})
	c.toView(msg.ShowClearCompleted{Visible: counts.Completed > 0})
	c.toView(msg.ShowMain{Visible: counts.Total > 0})
	c.toView(msg.SetToggleAll{Checked: counts.Total > 0 && counts.Active == 0})
}

func (c *Controller) toView(m msg.ViewMsg) {
	c.enq.Enqueue(msg.ToView{Msg: m})
}

func (c *Controller) notifyErr(err error) {
	c.toView(msg.Notify{Text: err.Error(), IsErr: true})
}

func parseRoute(fragment string) (msg.Route, bool) {
	switch fragment {
	case "", string(msg.RouteAll):
		return msg.RouteAll, true
	case string(msg.RouteActive):
		return msg.RouteActive, true
	case string(msg.RouteCompleted):
		return msg.RouteCompleted, true
	}
	return "", false
}

// nearestRoute suggests the route with the smallest edit distance from the
// typed fragment, or "" when nothing is close enough to be plausible.
func nearestRoute(fragment string) msg.Route {
	routes := []msg.Route{msg.RouteAll, msg.RouteActive, msg.RouteCompleted}
	best := msg.Route("")
	bestDist := len(fragment) + 1
	for _, r := range routes {
		d := levenshtein.ComputeDistance(strings.ToLower(fragment), string(r))
		if d < bestDist {
			best, bestDist = r, d
		}
	}
	if bestDist > len(string(best))/2 {
		return ""
	}
	return best
}

func visibilityFor(r msg.Route) repository.Visibility {
	switch r {
	case msg.RouteActive:
		return repository.VisibilityActive
	case msg.RouteCompleted:
		return repository.VisibilityCompleted
	default:
		return repository.VisibilityAll
	}
}
