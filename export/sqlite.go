// Package export writes decoded catalogs to a SQLite database and grid
// footprints to ESRI shapefiles.
package export

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/golang/glog"
	"github.com/sdifrance/gribindex/catalog"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS catalogs (
		id TEXT PRIMARY KEY,
		location TEXT NOT NULL,
		edition INTEGER NOT NULL,
		index_version TEXT,
		record_count INTEGER NOT NULL,
		geometry_count INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS attributes (
		catalog_id TEXT NOT NULL REFERENCES catalogs(id),
		name TEXT NOT NULL,
		value TEXT,
		PRIMARY KEY (catalog_id, name)
	);
	CREATE TABLE IF NOT EXISTS records (
		catalog_id TEXT NOT NULL REFERENCES catalogs(id),
		seq INTEGER NOT NULL,
		product_template INTEGER NOT NULL,
		discipline INTEGER NOT NULL,
		category INTEGER NOT NULL,
		parameter INTEGER NOT NULL,
		type_gen_process INTEGER NOT NULL,
		level_type1 INTEGER NOT NULL,
		level_value1 REAL NOT NULL,
		level_type2 INTEGER NOT NULL,
		level_value2 REAL NOT NULL,
		ref_time DATETIME NOT NULL,
		valid_time DATETIME,
		forecast_time INTEGER NOT NULL,
		start_of_interval INTEGER NOT NULL,
		interval_name TEXT,
		suffix TEXT,
		time_unit INTEGER NOT NULL,
		gds_key INTEGER NOT NULL,
		offset1 INTEGER NOT NULL,
		offset2 INTEGER NOT NULL,
		center INTEGER NOT NULL,
		sub_center INTEGER NOT NULL,
		table_version INTEGER NOT NULL,
		edition INTEGER NOT NULL,
		interval_stat_type INTEGER NOT NULL,
		decimal_scale INTEGER NOT NULL,
		bms_exists BOOLEAN NOT NULL,
		is_ensemble BOOLEAN NOT NULL,
		ensemble_type INTEGER NOT NULL,
		ensemble_number INTEGER NOT NULL,
		number_forecasts INTEGER NOT NULL,
		lower_limit REAL NOT NULL,
		upper_limit REAL NOT NULL,
		PRIMARY KEY (catalog_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_records_parameter ON records(discipline, category, parameter);
	CREATE TABLE IF NOT EXISTS geometry_params (
		catalog_id TEXT NOT NULL REFERENCES catalogs(id),
		gds_key INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL,
		value TEXT,
		PRIMARY KEY (catalog_id, gds_key, seq)
	);
`

const (
	insertCatalog = `INSERT INTO catalogs (id, location, edition, index_version, record_count, geometry_count) VALUES (?, ?, ?, ?, ?, ?)`
	insertAttr    = `INSERT INTO attributes (catalog_id, name, value) VALUES (?, ?, ?)`
	insertRecord  = `INSERT INTO records (catalog_id, seq, product_template, discipline, category, parameter,
		type_gen_process, level_type1, level_value1, level_type2, level_value2, ref_time, valid_time,
		forecast_time, start_of_interval, interval_name, suffix, time_unit, gds_key, offset1, offset2,
		center, sub_center, table_version, edition, interval_stat_type, decimal_scale, bms_exists,
		is_ensemble, ensemble_type, ensemble_number, number_forecasts, lower_limit, upper_limit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	insertParam = `INSERT INTO geometry_params (catalog_id, gds_key, seq, name, value) VALUES (?, ?, ?, ?, ?)`
)

// OpenSQLite opens the database at path and makes sure the schema exists.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the export tables when they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// WriteCatalog stores a catalog in a single transaction.
func WriteCatalog(ctx context.Context, db *sql.DB, cat *catalog.Catalog) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	id := cat.ID.String()
	geoms := cat.Geometries()
	if _, err = tx.ExecContext(ctx, insertCatalog,
		id, cat.Location, cat.Edition(), cat.IndexVersion(), cat.RecordCount(), len(geoms)); err != nil {
		return fmt.Errorf("inserting catalog %s: %w", cat.Location, err)
	}

	for _, a := range cat.Attributes() {
		if _, err = tx.ExecContext(ctx, insertAttr, id, a.Name, a.Value); err != nil {
			return fmt.Errorf("inserting attribute %s: %w", a.Name, err)
		}
	}

	if err = insertRecords(ctx, tx, id, cat.Records); err != nil {
		return err
	}

	for _, g := range geoms {
		for i, name := range g.Names() {
			value, _ := g.Param(name)
			if _, err = tx.ExecContext(ctx, insertParam, id, g.Key, i, name, value); err != nil {
				return fmt.Errorf("inserting geometry %d: %w", g.Key, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog %s: %w", cat.Location, err)
	}
	glog.V(1).Infof("exported %s: %d records, %d geometries", cat.Location, cat.RecordCount(), len(geoms))
	return nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, id string, records []catalog.Record) error {
	stmt, err := tx.PrepareContext(ctx, insertRecord)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		var valid any
		if !r.ValidTime.IsZero() {
			valid = r.ValidTime
		}
		if _, err := stmt.ExecContext(ctx, id, i,
			r.ProductTemplate, r.Discipline, r.Category, r.ParamNumber, r.TypeGenProcess,
			r.LevelType1, float64(r.LevelValue1), r.LevelType2, float64(r.LevelValue2),
			r.RefTime, valid, r.ForecastTime, r.StartOfInterval,
			r.MakeIntervalName(), r.MakeSuffix(), r.TimeUnit,
			r.GdsKey, r.Offset1, r.Offset2, r.Center, r.SubCenter, r.Table,
			r.Edition, r.IntervalStatType, r.DecimalScale, r.BmsExists,
			r.IsEnsemble, r.Type, r.EnsembleNumber, r.NumberForecasts,
			float64(r.LowerLimit), float64(r.UpperLimit)); err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}
	return nil
}

// Summary describes an exported catalog.
type Summary struct {
	ID            string
	Location      string
	Edition       int
	IndexVersion  string
	RecordCount   int
	GeometryCount int
}

// Summaries lists the exported catalogs by location.
func Summaries(ctx context.Context, db *sql.DB) ([]Summary, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, location, edition, index_version, record_count, geometry_count FROM catalogs ORDER BY location, id`)
	if err != nil {
		return nil, fmt.Errorf("querying catalogs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var version sql.NullString
		if err := rows.Scan(&s.ID, &s.Location, &s.Edition, &version, &s.RecordCount, &s.GeometryCount); err != nil {
			return nil, fmt.Errorf("scanning catalog: %w", err)
		}
		s.IndexVersion = version.String
		out = append(out, s)
	}
	return out, rows.Err()
}
