package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Designs table - the overlay design catalog
		`CREATE TABLE IF NOT EXISTS designs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			image_path TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Layouts table - one saved transform per design, so a fitted
		// garment can be re-opened where the user left it
		`CREATE TABLE IF NOT EXISTS layouts (
			design_id TEXT PRIMARY KEY REFERENCES designs(id) ON DELETE CASCADE,
			position_x REAL NOT NULL,
			position_y REAL NOT NULL,
			rotation REAL NOT NULL,
			scale REAL NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - tuning overrides as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
