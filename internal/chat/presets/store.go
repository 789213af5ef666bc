// Package presets loads chat presets from the database. Presets are read
// fresh for every chat request so dashboard edits take effect immediately;
// no cache sits in front of the table.
package presets

import (
	"context"
	"database/sql"
	"strings"

	"crm-assistant/internal/models"
)

const listQuery = `
	SELECT name, keywords, phrase, description, report
	FROM chat_presets
	ORDER BY position, preset_id`

// Store reads preset rows from PostgreSQL.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// List returns all presets in dashboard order. Order matters: the matcher
// keeps the first preset seen at a given score.
func (s *Store) List(ctx context.Context) ([]models.Preset, error) {
	rows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Preset
	for rows.Next() {
		var p models.Preset
		var keywords, phrase, description, report sql.NullString
		if err := rows.Scan(&p.Name, &keywords, &phrase, &description, &report); err != nil {
			return nil, err
		}
		p.Keywords = keywords.String
		p.Phrase = phrase.String
		p.Description = description.String
		// Template-era preset rows stored query text ending in ";".
		// The trailing semicolon is trimmed so migrated rows keep working
		// as plain report names.
		p.Report = strings.TrimSuffix(strings.TrimSpace(report.String), ";")
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
