package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ncruces/go-sqlite3"

	"github.com/zjrosen/idkit/internal/log"
	"github.com/zjrosen/idkit/prefixid"
)

const mintColumns = `id, kind, value, batch_id, created_at`

// Repository reads and writes mints.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a Repository over db. The mints table must exist.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Record stores m. A zero ID is replaced with a fresh MintID and a zero
// CreatedAt with the current time; the stored row is returned.
func (r *Repository) Record(ctx context.Context, m Mint) (Mint, error) {
	return r.record(ctx, r.db, m)
}

// RecordBatch stores one mint per value under a fresh BatchID in a single
// transaction. Either all values are recorded or none are.
func (r *Repository) RecordBatch(ctx context.Context, kind string, values []string) (BatchID, []Mint, error) {
	batch := NewBatchID()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return BatchID{}, nil, fmt.Errorf("failed to begin batch: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	out := make([]Mint, 0, len(values))
	for _, v := range values {
		m, err := r.record(ctx, tx, Mint{Kind: kind, Value: v, Batch: prefixid.NullOf(batch)})
		if err != nil {
			return BatchID{}, nil, err
		}
		out = append(out, m)
	}

	if err := tx.Commit(); err != nil {
		return BatchID{}, nil, fmt.Errorf("failed to commit batch: %w", err)
	}
	log.Debug(log.CatDB, "Recorded batch", "batch", batch, "kind", kind, "count", len(out))
	return batch, out, nil
}

func (r *Repository) record(ctx context.Context, ex execer, m Mint) (Mint, error) {
	if m.Kind == "" || m.Value == "" {
		return Mint{}, fmt.Errorf("failed to record mint: kind and value are required")
	}
	if m.ID.IsZero() {
		m.ID = prefixid.New[mintKind]()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.now()
	}
	m.CreatedAt = m.CreatedAt.Truncate(time.Second)

	_, err := ex.ExecContext(ctx,
		`INSERT INTO mints (`+mintColumns+`) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Kind, m.Value, m.Batch, m.CreatedAt.Unix(),
	)
	if errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) {
		return Mint{}, fmt.Errorf("%w: %s", ErrDuplicateValue, m.Value)
	}
	if err != nil {
		return Mint{}, fmt.Errorf("failed to record mint: %w", err)
	}
	return m, nil
}

func scanMint(scanner interface{ Scan(...any) error }) (Mint, error) {
	var (
		m       Mint
		created int64
	)
	err := scanner.Scan(&m.ID, &m.Kind, &m.Value, &m.Batch, &created)
	m.CreatedAt = time.Unix(created, 0)
	return m, err
}

// Get returns the mint with the given id.
// Returns MintNotFoundError if no row matches.
func (r *Repository) Get(ctx context.Context, id MintID) (Mint, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+mintColumns+` FROM mints WHERE id = ?`, id)
	m, err := scanMint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Mint{}, &MintNotFoundError{ID: id.String()}
	}
	if err != nil {
		return Mint{}, fmt.Errorf("failed to get mint: %w", err)
	}
	return m, nil
}

// FindByValue returns the mint that recorded value.
// Returns MintNotFoundError if the value was never recorded.
func (r *Repository) FindByValue(ctx context.Context, value string) (Mint, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+mintColumns+` FROM mints WHERE value = ?`, value)
	m, err := scanMint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Mint{}, &MintNotFoundError{Value: value}
	}
	if err != nil {
		return Mint{}, fmt.Errorf("failed to find mint by value: %w", err)
	}
	return m, nil
}

// ListByBatch returns the mints of one batch in insertion order.
func (r *Repository) ListByBatch(ctx context.Context, batch BatchID) ([]Mint, error) {
	return r.query(ctx,
		`SELECT `+mintColumns+` FROM mints WHERE batch_id = ? ORDER BY rowid`,
		batch,
	)
}

// List returns mints matching filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Mint, error) {
	query := `SELECT ` + mintColumns + ` FROM mints`
	var args []any
	if filter.Kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, filter.Kind)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	return r.query(ctx, query, args...)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) ([]Mint, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list mints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Mint
	for rows.Next() {
		m, err := scanMint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mint: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list mints: %w", err)
	}
	return out, nil
}
