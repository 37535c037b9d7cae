package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - brush color, size and tool as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Selections table - one row per committed toolbox selection
		`CREATE TABLE IF NOT EXISTS selections (
			id TEXT PRIMARY KEY,
			target_id TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			selected_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_selections_selected_at ON selections(selected_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
