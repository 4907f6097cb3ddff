package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

type productRow struct {
	bun.BaseModel `bun:"table:products"`

	ID       string  `bun:"id,pk"`
	SKU      string  `bun:"sku"`
	Name     string  `bun:"name"`
	Price    float64 `bun:"price"`
	Currency string  `bun:"currency"`
}

// PostgresStore reads products from the catalog table.
type PostgresStore struct {
	db      *bun.DB
	timeout time.Duration
}

var _ Store = (*PostgresStore)(nil)

// NewDB opens a bun handle over pgdriver. Shared with the audit sink.
func NewDB(dsn string) (*bun.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func NewPostgresStore(db *bun.DB, cfg PostgresConfig) (*PostgresStore, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PostgresStore{db: db, timeout: timeout}, nil
}

func (s *PostgresStore) ByID(ctx context.Context, id string) (Product, error) {
	return s.one(ctx, "id = ?", strings.TrimSpace(id))
}

func (s *PostgresStore) BySKU(ctx context.Context, sku string) (Product, error) {
	return s.one(ctx, "sku = ?", strings.TrimSpace(sku))
}

func (s *PostgresStore) one(ctx context.Context, where string, arg string) (Product, error) {
	if arg == "" {
		return Product{}, ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var row productRow
	err := s.db.NewSelect().Model(&row).Where(where, arg).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, fmt.Errorf("query product: %w", err)
	}

	return Product{
		ID:       row.ID,
		SKU:      row.SKU,
		Name:     row.Name,
		Price:    row.Price,
		Currency: row.Currency,
	}, nil
}
