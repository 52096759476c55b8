package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"giftlist/internal/models"
	"giftlist/migrations"
)

// itemColumns is the standard column list for wishlist item queries.
const itemColumns = `id, user_id, title, description, link, image_url, position,
	removed_by_owner, reserved_by, reserved_with, hidden_from_owner, suggested_by, created_at`

// PostgresStore is the Postgres driver: every RunTx maps to a SERIALIZABLE
// transaction, so conflicting concurrent commits fail with a serialization
// error that surfaces as ErrTxAborted. Change notifications are published
// in-process after commit; the service runs as a single instance.
type PostgresStore struct {
	pool *pgxpool.Pool
	hub  *hub

	seqMu sync.Mutex
	seq   uint64
}

// NewPostgresStore creates a connection pool and verifies connectivity.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool, hub: newHub()}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (s *PostgresStore) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Ping reports database reachability, for readiness probes.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	err := row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.Title,
		&item.Description,
		&item.Link,
		&item.ImageURL,
		&item.Position,
		&item.RemovedByOwner,
		&item.ReservedBy,
		&item.ReservedWith,
		&item.HiddenFromOwner,
		&item.SuggestedBy,
		&item.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func scanItems(rows pgx.Rows) ([]*models.Item, error) {
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.DisplayName, &p.Email, &p.PIN, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetItem retrieves an item by ID.
func (s *PostgresStore) GetItem(ctx context.Context, id string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM wishlist_items WHERE id = $1`
	return scanItem(s.pool.QueryRow(ctx, query, id))
}

// ListItems retrieves all items owned by ownerID in creation order.
func (s *PostgresStore) ListItems(ctx context.Context, ownerID string) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM wishlist_items WHERE user_id = $1 ORDER BY created_at ASC`
	rows, err := s.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

// ListReservedBy retrieves all items reserved by personID in creation order.
func (s *PostgresStore) ListReservedBy(ctx context.Context, personID string) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM wishlist_items WHERE reserved_by = $1 ORDER BY created_at ASC`
	rows, err := s.pool.Query(ctx, query, personID)
	if err != nil {
		return nil, err
	}
	return scanItems(rows)
}

// GetProfile retrieves a profile by ID.
func (s *PostgresStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT id, display_name, email, pin, created_at FROM users WHERE id = $1`
	return scanProfile(s.pool.QueryRow(ctx, query, id))
}

// ListProfiles retrieves all profiles sorted by display name.
func (s *PostgresStore) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	query := `SELECT id, display_name, email, pin, created_at FROM users ORDER BY display_name ASC`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// pgTx adapts a pgx transaction to the Tx handle and records which owners
// and reservers the transaction touches, so the right topics can be
// republished after commit.
type pgTx struct {
	ctx context.Context
	tx  pgx.Tx

	owners    map[string]bool
	reservers map[string]bool
}

func (t *pgTx) touch(item *models.Item) {
	if item == nil {
		return
	}
	t.owners[item.OwnerID] = true
	if item.Reserved() {
		t.reservers[*item.ReservedBy] = true
	}
}

func (t *pgTx) GetItem(id string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM wishlist_items WHERE id = $1`
	item, err := scanItem(t.tx.QueryRow(t.ctx, query, id))
	if err != nil {
		return nil, err
	}
	t.touch(item)
	return item, nil
}

func (t *pgTx) PutItem(item *models.Item) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO wishlist_items (id, user_id, title, description, link, image_url, position,
			removed_by_owner, reserved_by, reserved_with, hidden_from_owner, suggested_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			link = EXCLUDED.link,
			image_url = EXCLUDED.image_url,
			position = EXCLUDED.position,
			removed_by_owner = EXCLUDED.removed_by_owner,
			reserved_by = EXCLUDED.reserved_by,
			reserved_with = EXCLUDED.reserved_with,
			hidden_from_owner = EXCLUDED.hidden_from_owner,
			suggested_by = EXCLUDED.suggested_by
	`
	_, err := t.tx.Exec(t.ctx, query,
		item.ID,
		item.OwnerID,
		item.Title,
		item.Description,
		item.Link,
		item.ImageURL,
		item.Position,
		item.RemovedByOwner,
		item.ReservedBy,
		item.ReservedWith,
		item.HiddenFromOwner,
		item.SuggestedBy,
		item.CreatedAt,
	)
	if err != nil {
		return err
	}
	t.touch(item)
	return nil
}

func (t *pgTx) DeleteItem(id string) error {
	// Capture the pre-image so the reserver's view is republished after a
	// purge.
	item, err := t.GetItem(id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	t.touch(item)

	_, err = t.tx.Exec(t.ctx, `DELETE FROM wishlist_items WHERE id = $1`, id)
	return err
}

func (t *pgTx) GetProfile(id string) (*models.Profile, error) {
	query := `SELECT id, display_name, email, pin, created_at FROM users WHERE id = $1`
	return scanProfile(t.tx.QueryRow(t.ctx, query, id))
}

func (t *pgTx) PutProfile(profile *models.Profile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO users (id, display_name, email, pin, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			email = EXCLUDED.email,
			pin = EXCLUDED.pin
	`
	_, err := t.tx.Exec(t.ctx, query,
		profile.ID, profile.DisplayName, profile.Email, profile.PIN, profile.CreatedAt)
	return err
}

// isSerializationFailure reports whether err is a retryable transaction
// conflict (serialization failure or deadlock).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// RunTx executes fn inside a SERIALIZABLE transaction. Serialization
// conflicts abort the transaction and surface as ErrTxAborted; fn's own
// errors roll back and pass through unchanged.
func (s *PostgresStore) RunTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}

	handle := &pgTx{
		ctx:       ctx,
		tx:        tx,
		owners:    make(map[string]bool),
		reservers: make(map[string]bool),
	}

	if err := fn(handle); err != nil {
		_ = tx.Rollback(ctx)
		if isSerializationFailure(err) {
			return ErrTxAborted
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return ErrTxAborted
		}
		return err
	}

	s.publishAfterCommit(ctx, handle.owners, handle.reservers)
	return nil
}

func (s *PostgresStore) publishAfterCommit(ctx context.Context, owners, reservers map[string]bool) {
	s.seqMu.Lock()
	s.seq++
	seq := s.seq
	s.seqMu.Unlock()

	for owner := range owners {
		items, err := s.ListItems(ctx, owner)
		if err != nil {
			continue
		}
		s.hub.publish(topicOwner+owner, seq, items)
	}
	for person := range reservers {
		items, err := s.ListReservedBy(ctx, person)
		if err != nil {
			continue
		}
		s.hub.publish(topicReserver+person, seq, items)
	}
}

// Subscribe registers fn for the full item set of ownerID after every
// commit touching it.
func (s *PostgresStore) Subscribe(ownerID string, fn func(items []*models.Item)) func() {
	return s.hub.subscribe(topicOwner+ownerID, fn)
}

// SubscribeReservations registers fn for the full set of items reserved by
// personID after every commit touching it.
func (s *PostgresStore) SubscribeReservations(personID string, fn func(items []*models.Item)) func() {
	return s.hub.subscribe(topicReserver+personID, fn)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
