// Package store persists battery cell records in a relational database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/schema"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names of the record store.
const (
	cellsTable      = "cells"
	summariesTable  = "cycle_summaries"
	timeseriesTable = "cycle_timeseries"
)

var recordTables = []string{cellsTable, summariesTable, timeseriesTable}

// RecordStoreImpl reads and writes records using one of the supported database backends.
type RecordStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.RecordStore = &RecordStoreImpl{} // Compile-time check

// driverName returns the database/sql driver registered for a backend.
func driverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}
}

// openDB opens and pings a database for a backend. An empty SQLite connection string
// selects the default database file.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driver, err := driverName(backend)
	if err != nil {
		return nil, err
	}

	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = contract.GetDBFilePath()
		}
	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		connStr = withMySQLParams(connStr)
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check connection format: user:password@tcp(host:port)/dbname"
		case schema.PostgreSQLBackend:
			connDetail = "Check connection format: host=localhost port=5432 user=postgres dbname=mydb"
		default:
			connDetail = "Ensure the directory is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, nil
}

// withMySQLParams enables multi statements so migrations can run several statements per file.
func withMySQLParams(connStr string) string {
	if connStr == "" {
		return connStr
	}
	cfg, err := mysql.ParseDSN(connStr)
	if err != nil {
		return connStr
	}
	cfg.MultiStatements = true
	return cfg.FormatDSN()
}

// NewRecordStore opens the record store for backend and makes sure its tables exist.
func NewRecordStore(backend schema.DatabaseBackend, connStr string) (contract.RecordStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled persistence
		return &RecordStoreImpl{backend: backend, connStr: connStr}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	if err := createTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create record tables: %w", err)
	}
	return &RecordStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// createTables creates every record table that does not exist yet.
func createTables(db *sql.DB, backend schema.DatabaseBackend) error {
	for _, stmt := range createTableQueries(backend) {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// createTableQueries returns the CREATE TABLE statements for the given backend.
func createTableQueries(backend schema.DatabaseBackend) []string {
	cells := quoteTableName(cellsTable, backend)
	summaries := quoteTableName(summariesTable, backend)
	timeseries := quoteTableName(timeseriesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				cell_id VARCHAR(255) PRIMARY KEY,
				charge_policy VARCHAR(255) NOT NULL DEFAULT '',
				cycle_life DOUBLE
			)`, cells),
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				cell_id VARCHAR(255) NOT NULL,
				cycle_index INT NOT NULL,
				ir DOUBLE, q_charge DOUBLE, q_discharge DOUBLE,
				tavg DOUBLE, tmin DOUBLE, tmax DOUBLE, chargetime DOUBLE,
				PRIMARY KEY (cell_id, cycle_index)
			)`, summaries),
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				cell_id VARCHAR(255) NOT NULL,
				cycle_index INT NOT NULL,
				time DOUBLE, current DOUBLE, voltage DOUBLE,
				q_charge DOUBLE, q_discharge DOUBLE, temperature DOUBLE,
				INDEX idx_timeseries_cell_cycle (cell_id, cycle_index)
			)`, timeseries),
		}

	case schema.PostgreSQLBackend:
		return []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				cell_id TEXT PRIMARY KEY,
				charge_policy TEXT NOT NULL DEFAULT '',
				cycle_life DOUBLE PRECISION
			)`, cells),
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				cell_id TEXT NOT NULL,
				cycle_index INTEGER NOT NULL,
				ir DOUBLE PRECISION, q_charge DOUBLE PRECISION, q_discharge DOUBLE PRECISION,
				tavg DOUBLE PRECISION, tmin DOUBLE PRECISION, tmax DOUBLE PRECISION, chargetime DOUBLE PRECISION,
				PRIMARY KEY (cell_id, cycle_index)
			)`, summaries),
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				cell_id TEXT NOT NULL,
				cycle_index INTEGER NOT NULL,
				time DOUBLE PRECISION, current DOUBLE PRECISION, voltage DOUBLE PRECISION,
				q_charge DOUBLE PRECISION, q_discharge DOUBLE PRECISION, temperature DOUBLE PRECISION
			)`, timeseries),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_timeseries_cell_cycle ON %s (cell_id, cycle_index)`, timeseries),
		}

	default: // SQLite
		return []string{
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				cell_id TEXT PRIMARY KEY,
				charge_policy TEXT NOT NULL DEFAULT '',
				cycle_life REAL
			)`, cells),
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				cell_id TEXT NOT NULL,
				cycle_index INTEGER NOT NULL,
				ir REAL, q_charge REAL, q_discharge REAL,
				tavg REAL, tmin REAL, tmax REAL, chargetime REAL,
				PRIMARY KEY (cell_id, cycle_index)
			)`, summaries),
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				cell_id TEXT NOT NULL,
				cycle_index INTEGER NOT NULL,
				time REAL, current REAL, voltage REAL,
				q_charge REAL, q_discharge REAL, temperature REAL
			)`, timeseries),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_timeseries_cell_cycle ON %s (cell_id, cycle_index)`, timeseries),
		}
	}
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

var placeholderRe = regexp.MustCompile(`\?`)

// rebind rewrites ? placeholders into the form the backend expects.
func (rs *RecordStoreImpl) rebind(query string) string {
	if rs.backend != schema.PostgreSQLBackend {
		return query
	}
	n := 0
	return placeholderRe.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}

func (rs *RecordStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// ListCells returns all cells, or those whose ID contains search.
func (rs *RecordStoreImpl) ListCells(ctx context.Context, search string) ([]schema.Cell, error) {
	if rs.disabled() {
		return []schema.Cell{}, nil
	}

	query := fmt.Sprintf("SELECT cell_id, charge_policy, cycle_life FROM %s", quoteTableName(cellsTable, rs.backend))
	var args []any
	if search != "" {
		query += " WHERE cell_id LIKE ?"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY cell_id"

	rows, err := rs.db.QueryContext(ctx, rs.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cells: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cells := []schema.Cell{}
	for rows.Next() {
		var c schema.Cell
		var policy sql.NullString
		var life sql.NullFloat64
		if err := rows.Scan(&c.CellID, &policy, &life); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		c.ChargePolicy = policy.String
		c.CycleLife = nullFloat(life)
		cells = append(cells, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cells: %w", err)
	}
	return cells, nil
}

const summaryColumns = "cycle_index, ir, q_charge, q_discharge, tavg, tmin, tmax, chargetime"

// GetCycleSummaries returns every cycle summary of a cell ordered by cycle index.
func (rs *RecordStoreImpl) GetCycleSummaries(ctx context.Context, cellID string) ([]schema.CycleSummary, error) {
	if rs.disabled() {
		return []schema.CycleSummary{}, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE cell_id = ? ORDER BY cycle_index",
		summaryColumns, quoteTableName(summariesTable, rs.backend))
	return rs.querySummaries(ctx, query, cellID)
}

// GetCycleSummariesInRange returns the summaries with start <= cycle_index <= end.
func (rs *RecordStoreImpl) GetCycleSummariesInRange(ctx context.Context, cellID string, start, end int) ([]schema.CycleSummary, error) {
	if rs.disabled() {
		return []schema.CycleSummary{}, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE cell_id = ? AND cycle_index BETWEEN ? AND ? ORDER BY cycle_index",
		summaryColumns, quoteTableName(summariesTable, rs.backend))
	return rs.querySummaries(ctx, query, cellID, start, end)
}

func (rs *RecordStoreImpl) querySummaries(ctx context.Context, query string, args ...any) ([]schema.CycleSummary, error) {
	rows, err := rs.db.QueryContext(ctx, rs.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cycle summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := []schema.CycleSummary{}
	for rows.Next() {
		var s schema.CycleSummary
		var ir, qc, qd, tavg, tmin, tmax, ct sql.NullFloat64
		if err := rows.Scan(&s.CycleIndex, &ir, &qc, &qd, &tavg, &tmin, &tmax, &ct); err != nil {
			return nil, fmt.Errorf("failed to scan cycle summary: %w", err)
		}
		s.IR, s.QCharge, s.QDischarge = nullFloat(ir), nullFloat(qc), nullFloat(qd)
		s.TAvg, s.TMin, s.TMax, s.ChargeTime = nullFloat(tavg), nullFloat(tmin), nullFloat(tmax), nullFloat(ct)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cycle summaries: %w", err)
	}
	return summaries, nil
}

// GetCycleTimeseries returns the readings of a cell ordered by time, optionally for one cycle.
func (rs *RecordStoreImpl) GetCycleTimeseries(ctx context.Context, cellID string, cycleIndex *int) ([]schema.TimeseriesPoint, error) {
	if rs.disabled() {
		return []schema.TimeseriesPoint{}, nil
	}

	query := fmt.Sprintf("SELECT cycle_index, time, current, voltage, q_charge, q_discharge, temperature FROM %s WHERE cell_id = ?",
		quoteTableName(timeseriesTable, rs.backend))
	args := []any{cellID}
	if cycleIndex != nil {
		query += " AND cycle_index = ?"
		args = append(args, *cycleIndex)
	}
	query += " ORDER BY time, id"

	rows, err := rs.db.QueryContext(ctx, rs.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cycle timeseries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	points := []schema.TimeseriesPoint{}
	for rows.Next() {
		var p schema.TimeseriesPoint
		var tm, cur, volt, qc, qd, temp sql.NullFloat64
		if err := rows.Scan(&p.CycleIndex, &tm, &cur, &volt, &qc, &qd, &temp); err != nil {
			return nil, fmt.Errorf("failed to scan timeseries point: %w", err)
		}
		p.Time, p.Current, p.Voltage = nullFloat(tm), nullFloat(cur), nullFloat(volt)
		p.QCharge, p.QDischarge, p.Temperature = nullFloat(qc), nullFloat(qd), nullFloat(temp)
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timeseries: %w", err)
	}
	return points, nil
}

// InsertCells stores cells, replacing rows with the same cell ID.
func (rs *RecordStoreImpl) InsertCells(ctx context.Context, cells []schema.Cell) error {
	if rs.disabled() || len(cells) == 0 {
		return nil
	}
	query := rs.upsertQuery(cellsTable, []string{"cell_id", "charge_policy", "cycle_life"}, []string{"cell_id"})
	return rs.inTx(ctx, query, len(cells), func(i int) []any {
		c := cells[i]
		return []any{c.CellID, c.ChargePolicy, c.CycleLife}
	})
}

// InsertCycleSummaries stores the summaries of a cell, replacing existing cycles.
func (rs *RecordStoreImpl) InsertCycleSummaries(ctx context.Context, cellID string, summaries []schema.CycleSummary) error {
	if rs.disabled() || len(summaries) == 0 {
		return nil
	}
	cols := []string{"cell_id", "cycle_index", "ir", "q_charge", "q_discharge", "tavg", "tmin", "tmax", "chargetime"}
	query := rs.upsertQuery(summariesTable, cols, []string{"cell_id", "cycle_index"})
	return rs.inTx(ctx, query, len(summaries), func(i int) []any {
		s := summaries[i]
		return []any{cellID, s.CycleIndex, s.IR, s.QCharge, s.QDischarge, s.TAvg, s.TMin, s.TMax, s.ChargeTime}
	})
}

// InsertTimeseries appends readings of a cell.
func (rs *RecordStoreImpl) InsertTimeseries(ctx context.Context, cellID string, points []schema.TimeseriesPoint) error {
	if rs.disabled() || len(points) == 0 {
		return nil
	}
	query := fmt.Sprintf(`INSERT INTO %s (cell_id, cycle_index, time, current, voltage, q_charge, q_discharge, temperature)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, quoteTableName(timeseriesTable, rs.backend))
	return rs.inTx(ctx, rs.rebind(query), len(points), func(i int) []any {
		p := points[i]
		return []any{cellID, p.CycleIndex, p.Time, p.Current, p.Voltage, p.QCharge, p.QDischarge, p.Temperature}
	})
}

// upsertQuery returns the backend-specific UPSERT for a table.
func (rs *RecordStoreImpl) upsertQuery(table string, cols, keys []string) string {
	quoted := quoteTableName(table, rs.backend)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	colList := strings.Join(cols, ", ")

	var updates []string
	for _, c := range cols {
		if contains(keys, c) {
			continue
		}
		switch rs.backend {
		case schema.MySQLBackend:
			updates = append(updates, fmt.Sprintf("%s = new.%s", c, c))
		default:
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}

	switch rs.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) AS new ON DUPLICATE KEY UPDATE %s",
			quoted, colList, marks, strings.Join(updates, ", "))
	case schema.PostgreSQLBackend:
		return rs.rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
			quoted, colList, marks, strings.Join(keys, ", "), strings.Join(updates, ", ")))
	default: // SQLite
		return fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)", quoted, colList, marks)
	}
}

// inTx executes query once per row inside one transaction.
func (rs *RecordStoreImpl) inTx(ctx context.Context, query string, n int, args func(i int) []any) error {
	tx, err := rs.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range n {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Close closes the underlying DB connection.
func (rs *RecordStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the record store.
func (rs *RecordStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	for _, table := range recordTables {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		if err := rs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	// Estimate database size (approximate)
	switch rs.backend {
	case schema.SQLiteBackend:
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := rs.db.QueryRow(sizeQuery).Scan(&status.SizeBytes); err != nil {
			status.SizeBytes = 0
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(rs.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		sizeQuery := "SELECT COALESCE(SUM(data_length + index_length), 0) FROM information_schema.tables WHERE table_schema = ?"
		if err := rs.db.QueryRow(sizeQuery, cfg.DBName).Scan(&status.SizeBytes); err != nil {
			status.SizeBytes = 0
		}
	case schema.PostgreSQLBackend:
		sizeQuery := "SELECT pg_total_relation_size($1) + pg_total_relation_size($2) + pg_total_relation_size($3)"
		if err := rs.db.QueryRow(sizeQuery, cellsTable, summariesTable, timeseriesTable).Scan(&status.SizeBytes); err != nil {
			status.SizeBytes = 0
		}
	}
	return status, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
