package reportstore

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql" // register the "mysql" database/sql driver
	"github.com/jmoiron/sqlx"

	"forestreport/models"
)

// PoolConfig bounds the number of storage connections.
type PoolConfig struct {
	Min int
	Max int
}

const createTableSQL = "CREATE TABLE IF NOT EXISTS `analisis_reportes` (" +
	"`id` BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY," +
	"`tipo_reporte` VARCHAR(100) NOT NULL," +
	"`titulo` VARCHAR(255) NOT NULL," +
	"`descripcion` TEXT," +
	"`parametros` LONGTEXT," +
	"`resultado` LONGTEXT," +
	"`generado_por` VARCHAR(255)," +
	"`created_at` TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)," +
	"KEY `idx_tipo_created` (`tipo_reporte`, `created_at`)" +
	") DEFAULT CHARSET=utf8mb4"

const insertSQL = "INSERT INTO `analisis_reportes` " +
	"(`tipo_reporte`, `titulo`, `descripcion`, `parametros`, `resultado`, `generado_por`) " +
	"VALUES (?, ?, ?, ?, ?, ?)"

const selectColumns = "SELECT `id`, `tipo_reporte`, `titulo`, `descripcion`, `parametros`, `resultado`, `generado_por`, `created_at` " +
	"FROM `analisis_reportes` "

const (
	listAllSQL    = selectColumns + "ORDER BY `created_at` DESC, `id` DESC LIMIT ?"
	listByTypeSQL = selectColumns + "WHERE `tipo_reporte` = ? ORDER BY `created_at` DESC, `id` DESC LIMIT ?"
)

// SQLStore keeps reports in the MySQL table analisis_reportes.
type SQLStore struct {
	DB *sqlx.DB
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore opens a pooled connection to the database at dsn and pings it.
// parseTime=true is required in the DSN so created_at scans into time.Time.
func NewSQLStore(ctx context.Context, dsn string, pool PoolConfig) (*SQLStore, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, ErrConnect{Driver: "mysql", Err: err}
	}
	db.SetMaxOpenConns(pool.Max)
	db.SetMaxIdleConns(pool.Min)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, ErrConnect{Driver: "mysql", Err: err}
	}
	return &SQLStore{DB: db}, nil
}

type reportRow struct {
	ID          int64          `db:"id"`
	Type        string         `db:"tipo_reporte"`
	Title       string         `db:"titulo"`
	Description sql.NullString `db:"descripcion"`
	Parameters  sql.NullString `db:"parametros"`
	Result      sql.NullString `db:"resultado"`
	GeneratedBy sql.NullString `db:"generado_por"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r reportRow) report() models.Report {
	return models.Report{
		ID:          r.ID,
		Type:        models.ReportType(r.Type),
		Title:       r.Title,
		Description: r.Description.String,
		Parameters:  nullJSON(r.Parameters),
		Result:      nullJSON(r.Result),
		GeneratedBy: r.GeneratedBy.String,
		CreatedAt:   models.Timestamp(r.CreatedAt),
	}
}

func nullJSON(s sql.NullString) []byte {
	if !s.Valid {
		return nil
	}
	return rawJSON(&s.String)
}

func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, createTableSQL); err != nil {
		return ErrSchema{Err: err}
	}
	return nil
}

func (s *SQLStore) Append(ctx context.Context, r NewReport) (err error) {
	p, err := encodeReport(r)
	if err != nil {
		return ErrInsert{ReportType: string(r.Type), Err: err}
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return ErrInsert{ReportType: string(r.Type), Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, insertSQL,
		string(r.Type), r.Title, r.Description, p.Parameters, p.Result, r.GeneratedBy,
	); err != nil {
		return ErrInsert{ReportType: string(r.Type), Err: err}
	}
	if err = tx.Commit(); err != nil {
		return ErrInsert{ReportType: string(r.Type), Err: err}
	}
	return nil
}

func (s *SQLStore) ListAll(ctx context.Context, limit int) ([]models.Report, error) {
	limit, err := NormalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, listAllSQL, limit)
}

func (s *SQLStore) ListByType(ctx context.Context, reportType models.ReportType, limit int) ([]models.Report, error) {
	limit, err := NormalizeLimit(limit)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, listByTypeSQL, string(reportType), limit)
}

func (s *SQLStore) list(ctx context.Context, query string, args ...any) ([]models.Report, error) {
	var rows []reportRow
	if err := sqlx.SelectContext(ctx, s.DB, &rows, query, args...); err != nil {
		return nil, ErrQuery{Err: err}
	}
	out := make([]models.Report, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.report())
	}
	return out, nil
}

// Close releases the connection pool.
func (s *SQLStore) Close() error {
	return s.DB.Close()
}
