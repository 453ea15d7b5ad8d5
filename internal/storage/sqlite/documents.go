package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/mmynk/mealbook/internal/storage"
)

// Order is the sort order of a range query.
type Order string

const (
	Ascending  Order = "ASC"
	Descending Order = "DESC"
)

// fieldPattern restricts range fields to plain top-level JSON keys, since the
// field is inlined into the query text.
var fieldPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Collection is a named set of JSON documents in the documents table.
type Collection struct {
	db   *sql.DB
	name string
}

// NewCollection returns the collection called name.
func NewCollection(db *sql.DB, name string) *Collection {
	return &Collection{db: db, name: name}
}

// Insert stores doc under a freshly generated ID and returns that ID.
func (c *Collection) Insert(ctx context.Context, doc any) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s document: %w", c.name, err)
	}

	id := uuid.New().String()
	_, err = c.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)",
		c.name, id, string(body),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert %s document: %w", c.name, err)
	}
	return id, nil
}

// Get decodes the document with the given ID into dst.
func (c *Collection) Get(ctx context.Context, id string, dst any) error {
	var body string
	err := c.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE collection = ? AND id = ?",
		c.name, id,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", c.name, id, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get %s document: %w", c.name, err)
	}

	if err := json.Unmarshal([]byte(body), dst); err != nil {
		return fmt.Errorf("failed to decode %s document: %w", c.name, err)
	}
	return nil
}

// Put writes doc under id, replacing any existing document.
func (c *Collection) Put(ctx context.Context, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", c.name, err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, body) VALUES (?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET body = excluded.body`,
		c.name, id, string(body),
	)
	if err != nil {
		return fmt.Errorf("failed to put %s document: %w", c.name, err)
	}
	return nil
}

// Merge applies patch to the document as an RFC 7396 merge patch: keys are
// replaced, nil values remove the key.
func (c *Collection) Merge(ctx context.Context, id string, patch map[string]any) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to encode %s patch: %w", c.name, err)
	}

	res, err := c.db.ExecContext(ctx,
		"UPDATE documents SET body = json_patch(body, ?) WHERE collection = ? AND id = ?",
		string(body), c.name, id,
	)
	if err != nil {
		return fmt.Errorf("failed to merge %s document: %w", c.name, err)
	}
	return checkAffected(res, c.name, id)
}

// Delete removes the document. A missing ID returns storage.ErrNotFound.
func (c *Collection) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?",
		c.name, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete %s document: %w", c.name, err)
	}
	return checkAffected(res, c.name, id)
}

// Range calls fn for each document whose numeric field lies in [lo, hi],
// sorted by that field and then by ID.
func (c *Collection) Range(ctx context.Context, field string, lo, hi int64, order Order, fn func(id string, body []byte) error) error {
	if !fieldPattern.MatchString(field) {
		return fmt.Errorf("invalid range field %q", field)
	}
	if order != Descending {
		order = Ascending
	}

	expr := fmt.Sprintf("json_extract(body, '$.%s')", field)
	query := fmt.Sprintf(
		"SELECT id, body FROM documents WHERE collection = ? AND %s BETWEEN ? AND ? ORDER BY %s %s, id",
		expr, expr, order,
	)

	rows, err := c.db.QueryContext(ctx, query, c.name, lo, hi)
	if err != nil {
		return fmt.Errorf("failed to query %s documents: %w", c.name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, body string
		if err := rows.Scan(&id, &body); err != nil {
			return fmt.Errorf("failed to scan %s document: %w", c.name, err)
		}
		if err := fn(id, []byte(body)); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate %s documents: %w", c.name, err)
	}
	return nil
}

func checkAffected(res sql.Result, collection, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", collection, id, storage.ErrNotFound)
	}
	return nil
}

func isStorageErr(err error) bool {
	return errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrPersistence)
}
