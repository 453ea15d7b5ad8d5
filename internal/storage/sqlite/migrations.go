package sqlite

import "database/sql"

// schema runs on startup to ensure tables exist.
// The expression indexes must repeat the exact json_extract text used by
// Collection.Range for SQLite to pick them up.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    id TEXT NOT NULL,
    body TEXT NOT NULL CHECK (json_valid(body)),
    PRIMARY KEY (collection, id)
);

CREATE INDEX IF NOT EXISTS idx_documents_timestamp
    ON documents(collection, json_extract(body, '$.timestamp'));
CREATE INDEX IF NOT EXISTS idx_documents_date
    ON documents(collection, json_extract(body, '$.date'));
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
