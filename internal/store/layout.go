package store

import (
	"database/sql"
	"errors"
	"time"
)

// Layout is the saved transform for a design: where the user last left
// the overlay. Exactly one row per design; this is deliberately not a
// transform history.
type Layout struct {
	DesignID  string
	PositionX float64
	PositionY float64
	Rotation  float64
	Scale     float64
	UpdatedAt time.Time
}

// LayoutRepository provides access to saved layouts.
type LayoutRepository struct {
	db *sql.DB
}

// Layouts returns the layout repository for this store.
func (s *Store) Layouts() *LayoutRepository {
	return &LayoutRepository{db: s.db}
}

// Get retrieves the saved layout for a design.
func (r *LayoutRepository) Get(designID string) (*Layout, error) {
	l := &Layout{}

	err := r.db.QueryRow(
		`SELECT design_id, position_x, position_y, rotation, scale, updated_at
		 FROM layouts WHERE design_id = ?`,
		designID,
	).Scan(&l.DesignID, &l.PositionX, &l.PositionY, &l.Rotation, &l.Scale, &l.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return l, nil
}

// Save upserts the layout for a design, replacing any previous one.
func (r *LayoutRepository) Save(l *Layout) error {
	l.UpdatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO layouts (design_id, position_x, position_y, rotation, scale, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(design_id) DO UPDATE SET
			position_x = excluded.position_x,
			position_y = excluded.position_y,
			rotation = excluded.rotation,
			scale = excluded.scale,
			updated_at = excluded.updated_at`,
		l.DesignID, l.PositionX, l.PositionY, l.Rotation, l.Scale, l.UpdatedAt,
	)
	return err
}

// Delete removes the saved layout for a design.
func (r *LayoutRepository) Delete(designID string) error {
	result, err := r.db.Exec(`DELETE FROM layouts WHERE design_id = ?`, designID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
