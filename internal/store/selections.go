package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Selection is one committed toolbox selection.
type Selection struct {
	ID         string    `json:"id"`
	TargetID   string    `json:"targetId"`
	Label      string    `json:"label"`
	SelectedAt time.Time `json:"selectedAt"`
}

// SelectionRepository records the selection history.
type SelectionRepository struct {
	db *sql.DB
}

// Selections returns the selection repository for this store.
func (s *Store) Selections() *SelectionRepository {
	return &SelectionRepository{db: s.db}
}

// Record inserts sel. A missing ID is generated and a zero SelectedAt is set
// to now.
func (r *SelectionRepository) Record(sel *Selection) error {
	if sel.ID == "" {
		sel.ID = uuid.New().String()
	}
	if sel.SelectedAt.IsZero() {
		sel.SelectedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO selections (id, target_id, label, selected_at) VALUES (?, ?, ?, ?)`,
		sel.ID, sel.TargetID, sel.Label, sel.SelectedAt,
	)
	return err
}

// GetByID retrieves a selection by its ID.
func (r *SelectionRepository) GetByID(id string) (*Selection, error) {
	sel := &Selection{}
	err := r.db.QueryRow(
		`SELECT id, target_id, label, selected_at FROM selections WHERE id = ?`,
		id,
	).Scan(&sel.ID, &sel.TargetID, &sel.Label, &sel.SelectedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sel, nil
}

// Recent returns up to limit selections, newest first.
func (r *SelectionRepository) Recent(limit int) ([]*Selection, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, target_id, label, selected_at FROM selections
		 ORDER BY selected_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var selections []*Selection
	for rows.Next() {
		sel := &Selection{}
		if err := rows.Scan(&sel.ID, &sel.TargetID, &sel.Label, &sel.SelectedAt); err != nil {
			return nil, err
		}
		selections = append(selections, sel)
	}

	return selections, rows.Err()
}

// Count returns how many times targetID has been selected.
func (r *SelectionRepository) Count(targetID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM selections WHERE target_id = ?`, targetID).Scan(&n)
	return n, err
}
