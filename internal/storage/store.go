// Package storage persists parsed motion capture takes in a SQLite archive
// and reads trajectories back with optional frame and time filtering.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/motive-tools/mocap/internal/mocap"
)

// SqliteStore handles database operations. Write and read connections are
// opened lazily and independently: the write connection runs in WAL mode and
// initializes the schema, the read connection is opened read-only.
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a new store backed by the Sqlite database at dbPath.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

// StoreTake persists a parsed take with all its trajectories and returns the
// new take ID. Each body's frames are written in a single transaction.
func (s *SqliteStore) StoreTake(ctx context.Context, sourceFile string, take *mocap.Take) (takeID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return 0, fmt.Errorf("getting write connection: %w", err)
	}

	version, _ := take.Info("Format Version")

	result, err := db.ExecContext(ctx, insertTakeSQL,
		sourceFile,
		version,
		take.FrameRate,
		take.Units,
		take.RotationType,
		take.NumFrames(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting take: %w", err)
	}
	if takeID, err = result.LastInsertId(); err != nil {
		return 0, fmt.Errorf("reading take ID: %w", err)
	}

	for _, label := range take.Labels() {
		body, _ := take.Body(label)
		if err = s.storeBody(ctx, db, takeID, body); err != nil {
			return 0, fmt.Errorf("storing body %q: %w", label, err)
		}
	}

	return takeID, nil
}

func (s *SqliteStore) storeBody(ctx context.Context, db *sql.DB, takeID int64, body *mocap.RigidBody) (err error) {
	result, err := db.ExecContext(ctx, insertBodySQL, takeID, body.Label, body.ID)
	if err != nil {
		return fmt.Errorf("inserting body: %w", err)
	}

	bodyID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading body ID: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	stmt, err := tx.PrepareContext(ctx, insertFrameSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	for frame := range body.Times {
		pos := positionArgs(body.Positions[frame])
		rot := rotationArgs(body.Rotations[frame])

		_, err = stmt.ExecContext(ctx,
			bodyID,
			frame,
			body.Times[frame],
			pos[0], pos[1], pos[2],
			rot[0], rot[1], rot[2], rot[3],
		)
		if err != nil {
			return fmt.Errorf("inserting frame %d: %w", frame, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Take returns the stored metadata of a take by its ID.
func (s *SqliteStore) Take(ctx context.Context, id int64) (take *TakeRecord, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	var rec TakeRecord
	err = db.QueryRowContext(ctx, selectTakeSQL, id).Scan(
		&rec.ID,
		&rec.ImportedAt,
		&rec.SourceFile,
		&rec.FormatVersion,
		&rec.FrameRate,
		&rec.LengthUnits,
		&rec.RotationType,
		&rec.FrameCount,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning take: %w", err)
	}
	return &rec, nil
}

// Takes returns all stored takes ordered by import time.
func (s *SqliteStore) Takes(ctx context.Context) (takes []*TakeRecord, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectTakesSQL)
	if err != nil {
		return nil, fmt.Errorf("querying takes: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var rec TakeRecord
		if err = rows.Scan(
			&rec.ID,
			&rec.ImportedAt,
			&rec.SourceFile,
			&rec.FormatVersion,
			&rec.FrameRate,
			&rec.LengthUnits,
			&rec.RotationType,
			&rec.FrameCount,
		); err != nil {
			return nil, fmt.Errorf("scanning take: %w", err)
		}
		takes = append(takes, &rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating takes: %w", err)
	}
	return takes, nil
}

// Bodies returns the rigid bodies of a stored take ordered by label.
func (s *SqliteStore) Bodies(ctx context.Context, takeID int64) (bodies []*BodyRecord, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectBodiesSQL, takeID)
	if err != nil {
		return nil, fmt.Errorf("querying bodies: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var rec BodyRecord
		if err = rows.Scan(&rec.ID, &rec.TakeID, &rec.Label, &rec.AssetID); err != nil {
			return nil, fmt.Errorf("scanning body: %w", err)
		}
		bodies = append(bodies, &rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bodies: %w", err)
	}
	return bodies, nil
}

// Close closes the database connections.
func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}
