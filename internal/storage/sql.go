package storage

const initSchemaSQL = `
CREATE TABLE IF NOT EXISTS takes (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    imported_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    source_file    TEXT    NOT NULL,
    format_version TEXT    NOT NULL,
    frame_rate     REAL    NOT NULL,
    length_units   TEXT    NOT NULL,
    rotation_type  TEXT    NOT NULL,
    frame_count    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bodies (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    take_id  INTEGER NOT NULL REFERENCES takes (id),
    label    TEXT    NOT NULL,
    asset_id TEXT    NOT NULL,
    UNIQUE (take_id, label)
);

CREATE TABLE IF NOT EXISTS frames (
    body_id INTEGER NOT NULL REFERENCES bodies (id),
    frame   INTEGER NOT NULL,
    time    REAL    NOT NULL,
    pos_x   REAL,
    pos_y   REAL,
    pos_z   REAL,
    rot_x   REAL,
    rot_y   REAL,
    rot_z   REAL,
    rot_w   REAL,
    PRIMARY KEY (body_id, frame)
);

CREATE INDEX IF NOT EXISTS idx_frames_body_time ON frames (body_id, time);
`

const (
	insertTakeSQL = `
INSERT INTO takes (imported_at,
                   source_file,
                   format_version,
                   frame_rate,
                   length_units,
                   rotation_type,
                   frame_count)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?, ?, ?, ?)`

	insertBodySQL = `
INSERT INTO bodies (take_id,
                    label,
                    asset_id)
VALUES (?, ?, ?)`

	insertFrameSQL = `
INSERT INTO frames (body_id,
                    frame,
                    time,
                    pos_x, pos_y, pos_z,
                    rot_x, rot_y, rot_z, rot_w)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectTakeSQL = `
SELECT
    id,
    imported_at,
    source_file,
    format_version,
    frame_rate,
    length_units,
    rotation_type,
    frame_count
FROM takes
WHERE
    id = ?`

	selectTakesSQL = `
SELECT
    id,
    imported_at,
    source_file,
    format_version,
    frame_rate,
    length_units,
    rotation_type,
    frame_count
FROM takes
ORDER BY imported_at`

	selectBodiesSQL = `
SELECT
    id,
    take_id,
    label,
    asset_id
FROM bodies
WHERE
    take_id = ?
ORDER BY label`

	selectFrameBoundsSQL = `
SELECT
    MIN(frame),
    MAX(frame),
    MIN(time),
    MAX(time)
FROM frames
WHERE
    body_id = ?`

	selectFramesSQL = `
SELECT
    frame,
    time,
    pos_x, pos_y, pos_z,
    rot_x, rot_y, rot_z, rot_w
FROM frames
WHERE
    body_id = ?
    AND frame BETWEEN ? AND ?
    AND time BETWEEN ? AND ?
ORDER BY frame`
)
