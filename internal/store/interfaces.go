package store

//go:generate mockgen -source=interfaces.go -destination=../mock/catalog_repository_mock.go -package=mock

import (
	"context"
	"database/sql"

	"github.com/metacore-io/metacore/models"
)

// DBTX is the subset of database handle methods shared by *sql.DB and
// *sql.Tx. Repository methods accept it so that the same code runs both
// standalone and inside an ambient transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying. See [PostgresErrorClassifier] for the PostgreSQL implementation.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// CatalogRepository persists Type and Field metadata in the system tables
// and allocates identifier sequences. Mutating methods take a [DBTX] so the
// caller can scope them to the transaction wrapping a logical metadata
// change.
type CatalogRepository interface {
	// LoadTypes reads the whole catalog wholesale: every type row with its
	// field rows, assembled into registered-ready [*models.Type] values.
	LoadTypes(ctx context.Context) ([]*models.Type, error)

	InsertType(ctx context.Context, q DBTX, t *models.Type) error
	UpdateType(ctx context.Context, q DBTX, t *models.Type) error
	DeleteType(ctx context.Context, q DBTX, id models.KID) error

	InsertField(ctx context.Context, q DBTX, f models.Field) error
	UpdateField(ctx context.Context, q DBTX, f models.Field) error
	DeleteField(ctx context.Context, q DBTX, id models.KID) error

	// NextKeyPrefix draws the next custom-type key prefix from the
	// persisted monotonic counter.
	NextKeyPrefix(ctx context.Context, q DBTX) (models.KeyPrefix, error)

	// NextTypeID and NextFieldID allocate catalog identifiers for new
	// metadata rows.
	NextTypeID(ctx context.Context, q DBTX) (models.KID, error)
	NextFieldID(ctx context.Context, q DBTX) (models.KID, error)
}
