// Package sqlite implements session persistence on a local SQLite file,
// using the pure-Go driver so the client builds without cgo.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"
	_ "modernc.org/sqlite"

	"github.com/rossa-autoparts/storefront/db"
	"github.com/rossa-autoparts/storefront/internal/cart"
)

var _ cart.Store = (*CartStore)(nil)

// CartStore persists cart lines in a local SQLite database.
type CartStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) the cart database at path and applies
// the embedded schema. Use ":memory:" for an ephemeral store.
func Open(ctx context.Context, path string) (*CartStore, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open cart database")
	}
	// The driver is safe for concurrent use, but SQLite writes serialize
	// anyway; a single connection avoids SQLITE_BUSY on overlapping saves.
	d.SetMaxOpenConns(1)

	if _, err := d.ExecContext(ctx, db.Schema); err != nil {
		_ = d.Close()
		return nil, errors.Wrap(err, "apply schema")
	}
	return &CartStore{db: d}, nil
}

// Close releases the underlying database handle.
func (s *CartStore) Close() error {
	return s.db.Close()
}

// Load returns the persisted cart lines in insertion order.
func (s *CartStore) Load(ctx context.Context) ([]cart.StoredLine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, quantity FROM cart_lines ORDER BY position`)
	if err != nil {
		return nil, errors.Wrap(err, "query cart lines")
	}
	defer rows.Close()

	var lines []cart.StoredLine
	for rows.Next() {
		var l cart.StoredLine
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return nil, errors.Wrap(err, "scan cart line")
		}
		lines = append(lines, l)
	}
	return lines, errors.Wrap(rows.Err(), "iterate cart lines")
}

// Save replaces the persisted cart with the given lines, keeping their
// order. The replace runs in a single transaction so a crash cannot leave
// a half-written cart.
func (s *CartStore) Save(ctx context.Context, lines []cart.StoredLine) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines`); err != nil {
		return errors.Wrap(err, "clear cart lines")
	}
	for i, l := range lines {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cart_lines (product_id, quantity, position) VALUES (?, ?, ?)`,
			l.ProductID, l.Quantity, i)
		if err != nil {
			return errors.Wrapf(err, "insert cart line %s", l.ProductID)
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}
