package store

import (
	"database/sql"
	"errors"
	"time"
)

// Design represents an overlay design stored in the catalog.
type Design struct {
	ID        string
	Name      string
	ImagePath string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DesignRepository provides CRUD operations for designs.
type DesignRepository struct {
	db *sql.DB
}

// Designs returns the design repository for this store.
func (s *Store) Designs() *DesignRepository {
	return &DesignRepository{db: s.db}
}

// Create inserts a new design into the database.
func (r *DesignRepository) Create(d *Design) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO designs (id, name, image_path, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.ImagePath, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

// GetByID retrieves a design by its ID.
func (r *DesignRepository) GetByID(id string) (*Design, error) {
	d := &Design{}

	err := r.db.QueryRow(
		`SELECT id, name, image_path, created_at, updated_at
		 FROM designs WHERE id = ?`,
		id,
	).Scan(&d.ID, &d.Name, &d.ImagePath, &d.CreatedAt, &d.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return d, nil
}

// List retrieves all designs, newest first.
func (r *DesignRepository) List() ([]*Design, error) {
	rows, err := r.db.Query(
		`SELECT id, name, image_path, created_at, updated_at
		 FROM designs ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var designs []*Design
	for rows.Next() {
		d := &Design{}
		if err := rows.Scan(&d.ID, &d.Name, &d.ImagePath, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		designs = append(designs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return designs, nil
}

// Update updates an existing design.
func (r *DesignRepository) Update(d *Design) error {
	d.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE designs SET name = ?, image_path = ?, updated_at = ? WHERE id = ?`,
		d.Name, d.ImagePath, d.UpdatedAt, d.ID,
	)
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

// Delete removes a design and, via cascade, its saved layout.
func (r *DesignRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM designs WHERE id = ?`, id)
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
