package repository

import "time"

// Todo represents a todos row.
type Todo struct {
	ID        string
	Title     string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Visibility selects which todos a query returns.
type Visibility string

const (
	VisibilityAll       Visibility = "all"
	VisibilityActive    Visibility = "active"
	VisibilityCompleted Visibility = "completed"
)

// TodoQuery narrows a Find call. The zero value matches everything.
type TodoQuery struct {
	Visibility Visibility
	ID         string
}

// Counts summarizes the list for footer rendering.
type Counts struct {
	Total     int
	Active    int
	Completed int
}
