package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jask/tuido/internal/database"
)

// ErrNotFound is returned when a todo id does not exist.
var ErrNotFound = errors.New("todo not found")

// TodoRepo handles todos.
type TodoRepo struct {
	db *sql.DB
}

func NewTodoRepo(db *sql.DB) *TodoRepo {
	return &TodoRepo{db: db}
}

func (r *TodoRepo) Insert(ctx context.Context, t Todo) error {
	now := database.Now()
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO todos(id, title, completed, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?);
	`, t.ID, t.Title, t.Completed, now, now)
	return err
}

func (r *TodoRepo) Get(ctx context.Context, id string) (Todo, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, title, completed, created_at, updated_at FROM todos WHERE id = ?
	`, id)
	var t Todo
	if err := row.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Todo{}, ErrNotFound
		}
		return Todo{}, err
	}
	return t, nil
}

// UpdateTitle renames a todo.
func (r *TodoRepo) UpdateTitle(ctx context.Context, id, title string) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE todos SET title = ?, updated_at = ? WHERE id = ?
	`, title, database.Now(), id)
	if err != nil {
		return err
	}
	return oneRow(res)
}

// SetCompleted marks one todo completed or active.
func (r *TodoRepo) SetCompleted(ctx context.Context, id string, completed bool) error {
	res, err := r.db.ExecContext(ctx, `
	UPDATE todos SET completed = ?, updated_at = ? WHERE id = ?
	`, completed, database.Now(), id)
	if err != nil {
		return err
	}
	return oneRow(res)
}

// SetAllCompleted marks every todo completed or active.
func (r *TodoRepo) SetAllCompleted(ctx context.Context, completed bool) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE todos SET completed = ?, updated_at = ? WHERE completed != ?
	`, completed, database.Now(), completed)
	return err
}

func (r *TodoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return oneRow(res)
}

// DeleteCompleted removes every completed todo and reports how many went.
// The count and the delete run in one transaction so the number reported is
// exactly the number removed.
func (r *TodoRepo) DeleteCompleted(ctx context.Context) (int64, error) {
	var n int64
	err := database.WithTx(r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos WHERE completed = 1`)
		if err := row.Scan(&n); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE completed = 1`)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Find returns todos matching q in insertion order.
func (r *TodoRepo) Find(ctx context.Context, q TodoQuery) ([]Todo, error) {
	query := `SELECT id, title, completed, created_at, updated_at FROM todos`
	var args []any
	var where []string
	switch q.Visibility {
	case "", VisibilityAll:
	case VisibilityActive:
		where = append(where, "completed = 0")
	case VisibilityCompleted:
		where = append(where, "completed = 1")
	default:
		return nil, fmt.Errorf("unknown visibility %q", q.Visibility)
	}
	if q.ID != "" {
		where = append(where, "id = ?")
		args = append(args, q.ID)
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	// rowid preserves insertion order even when several rows share a
	// created_at second.
	query += " ORDER BY rowid"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Todo
	for rows.Next() {
		var t Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Count tallies todos by completion state.
func (r *TodoRepo) Count(ctx context.Context) (Counts, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT COUNT(*), COALESCE(SUM(completed = 0), 0), COALESCE(SUM(completed = 1), 0) FROM todos
	`)
	var c Counts
	if err := row.Scan(&c.Total, &c.Active, &c.Completed); err != nil {
		return Counts{}, err
	}
	return c, nil
}

func oneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
