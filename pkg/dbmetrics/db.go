package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const defaultStatsInterval = 15 * time.Second

// Recorder приёмник метрик запросов и пула соединений
type Recorder interface {
	ObserveQuery(operation string, elapsed time.Duration)
}

// PoolRecorder приёмник статистики пула
type PoolRecorder interface {
	SetPoolStats(db string, stats sql.DBStats)
}

// DB обёртка над *sql.DB, замеряющая длительность запросов.
// С nil recorder работает как обычный *sql.DB.
type DB struct {
	db       *sql.DB
	recorder Recorder
}

// Wrap оборачивает *sql.DB без сбора метрик
func Wrap(db *sql.DB) *DB {
	return &DB{db: db}
}

// WrapWithDefault оборачивает *sql.DB и запускает периодический сбор статистики пула.
// Сбор останавливается при закрытии stopCh.
func WrapWithDefault(db *sql.DB, recorder Recorder, dbName string, stopCh <-chan struct{}) *DB {
	wrapped := &DB{db: db, recorder: recorder}
	if pool, ok := recorder.(PoolRecorder); ok {
		go collectPoolStats(db, pool, dbName, defaultStatsInterval, stopCh)
	}
	return wrapped
}

// Unwrap возвращает исходный *sql.DB (для goose и health-check)
func (d *DB) Unwrap() *sql.DB {
	return d.db
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer d.observe(query, time.Now())
	return d.db.ExecContext(ctx, query, args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer d.observe(query, time.Now())
	return d.db.QueryContext(ctx, query, args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer d.observe(query, time.Now())
	return d.db.QueryRowContext(ctx, query, args...)
}

// BeginTx открывает транзакцию; запросы внутри неё тоже замеряются
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &meteredTx{SqlTxWrapper: SqlTxWrapper{Tx: tx}, parent: d}, nil
}

func (d *DB) observe(query string, started time.Time) {
	if d.recorder == nil {
		return
	}
	d.recorder.ObserveQuery(operationOf(query), time.Since(started))
}

type meteredTx struct {
	SqlTxWrapper
	parent *DB
}

func (t *meteredTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer t.parent.observe(query, time.Now())
	return t.SqlTxWrapper.ExecContext(ctx, query, args...)
}

func (t *meteredTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer t.parent.observe(query, time.Now())
	return t.SqlTxWrapper.QueryContext(ctx, query, args...)
}

func (t *meteredTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer t.parent.observe(query, time.Now())
	return t.SqlTxWrapper.QueryRowContext(ctx, query, args...)
}

// operationOf берёт первое ключевое слово запроса: SELECT, INSERT, UPDATE, DELETE
func operationOf(query string) string {
	q := strings.TrimSpace(query)
	if i := strings.IndexAny(q, " \n\t"); i > 0 {
		q = q[:i]
	}
	return strings.ToUpper(q)
}

func collectPoolStats(db *sql.DB, pool PoolRecorder, dbName string, every time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	pool.SetPoolStats(dbName, db.Stats())
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			pool.SetPoolStats(dbName, db.Stats())
		}
	}
}
