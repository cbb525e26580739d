package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nethesis/media-image-popup/logger"
	"github.com/nethesis/media-image-popup/models"
	_ "modernc.org/sqlite"
)

// Database is the entity store backing file, media and image style loads.
type Database struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewDatabase initializes a SQLite database at the given path and creates the schema.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		if cerr := db.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close sqlite database after ping error")
		}
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	d := &Database{db: db}

	if err := d.createSchema(); err != nil {
		if cerr := db.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close sqlite database after createSchema error")
		}
		return nil, err
	}

	logger.Info().Str("path", dbPath).Msg("entity database initialized")
	return d, nil
}

func (d *Database) createSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS file_managed (
		fid INTEGER PRIMARY KEY,
		uri TEXT NOT NULL,
		filename TEXT,
		filemime TEXT
	);
	CREATE TABLE IF NOT EXISTS media (
		mid INTEGER PRIMARY KEY,
		bundle TEXT NOT NULL,
		name TEXT,
		thumbnail_target_id INTEGER,
		thumbnail_uri TEXT,
		thumbnail_width INTEGER,
		thumbnail_height INTEGER,
		thumbnail_alt TEXT,
		thumbnail_title TEXT,
		field_media_image_target_id INTEGER
	);
	CREATE TABLE IF NOT EXISTS image_style (
		name TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		effects TEXT NOT NULL DEFAULT '[]'
	);
	`
	if _, err := d.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create entity tables: %w", err)
	}
	return nil
}

// SaveFile inserts or replaces a file entity.
func (d *Database) SaveFile(ctx context.Context, f *models.File) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	query := `
	INSERT INTO file_managed (fid, uri, filename, filemime)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(fid) DO UPDATE SET
		uri = excluded.uri,
		filename = excluded.filename,
		filemime = excluded.filemime;
	`
	if _, err := d.db.ExecContext(ctx, query, f.ID, f.URI, f.Filename, f.MimeType); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	logger.Debug().Int64("fid", f.ID).Str("uri", f.URI).Msg("file saved")
	return nil
}

// LoadFile returns the file with the given id, or nil when it does not exist.
func (d *Database) LoadFile(ctx context.Context, fid int64) (*models.File, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var (
		f        models.File
		filename sql.NullString
		filemime sql.NullString
	)
	err := d.db.QueryRowContext(ctx, `SELECT fid, uri, filename, filemime FROM file_managed WHERE fid = ?;`, fid).
		Scan(&f.ID, &f.URI, &filename, &filemime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	f.Filename = filename.String
	f.MimeType = filemime.String
	return &f, nil
}

// SaveMedia inserts or replaces a media entity.
func (d *Database) SaveMedia(ctx context.Context, m *models.Media) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	query := `
	INSERT INTO media (mid, bundle, name, thumbnail_target_id, thumbnail_uri, thumbnail_width,
		thumbnail_height, thumbnail_alt, thumbnail_title, field_media_image_target_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(mid) DO UPDATE SET
		bundle = excluded.bundle,
		name = excluded.name,
		thumbnail_target_id = excluded.thumbnail_target_id,
		thumbnail_uri = excluded.thumbnail_uri,
		thumbnail_width = excluded.thumbnail_width,
		thumbnail_height = excluded.thumbnail_height,
		thumbnail_alt = excluded.thumbnail_alt,
		thumbnail_title = excluded.thumbnail_title,
		field_media_image_target_id = excluded.field_media_image_target_id;
	`
	t := m.Thumbnail
	_, err := d.db.ExecContext(ctx, query, m.ID, m.Bundle, m.Name, t.TargetID, t.URI, t.Width, t.Height, t.Alt, t.Title, m.ImageFileID)
	if err != nil {
		return fmt.Errorf("failed to save media: %w", err)
	}

	logger.Debug().Int64("mid", m.ID).Str("bundle", m.Bundle).Msg("media saved")
	return nil
}

// LoadMedia returns the media entity with the given id, or nil when it does
// not exist. The thumbnail file is attached when it can be loaded.
func (d *Database) LoadMedia(ctx context.Context, mid int64) (*models.Media, error) {
	d.mu.RLock()
	var (
		m                     models.Media
		name, uri, alt, title sql.NullString
		thumbFID, imageFID    sql.NullInt64
		width, height         sql.NullInt64
	)
	query := `
	SELECT mid, bundle, name, thumbnail_target_id, thumbnail_uri, thumbnail_width, thumbnail_height,
		thumbnail_alt, thumbnail_title, field_media_image_target_id
	FROM media
	WHERE mid = ?;
	`
	err := d.db.QueryRowContext(ctx, query, mid).Scan(
		&m.ID, &m.Bundle, &name, &thumbFID, &uri, &width, &height, &alt, &title, &imageFID,
	)
	d.mu.RUnlock()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load media: %w", err)
	}

	m.Name = name.String
	m.ImageFileID = imageFID.Int64
	m.Thumbnail = models.ImageItem{
		TargetID: thumbFID.Int64,
		URI:      uri.String,
		Width:    int(width.Int64),
		Height:   int(height.Int64),
		Alt:      alt.String,
		Title:    title.String,
	}

	if m.Thumbnail.TargetID != 0 {
		file, err := d.LoadFile(ctx, m.Thumbnail.TargetID)
		if err != nil {
			return nil, err
		}
		m.Thumbnail.Entity = file
	}
	return &m, nil
}

// SaveImageStyle inserts or replaces an image style.
func (d *Database) SaveImageStyle(ctx context.Context, s *models.ImageStyle) error {
	effects, err := json.Marshal(s.Effects)
	if err != nil {
		return fmt.Errorf("failed to encode image style effects: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	query := `
	INSERT INTO image_style (name, label, effects)
	VALUES (?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		label = excluded.label,
		effects = excluded.effects;
	`
	if _, err := d.db.ExecContext(ctx, query, s.Name, s.Label, string(effects)); err != nil {
		return fmt.Errorf("failed to save image style: %w", err)
	}

	logger.Debug().Str("style", s.Name).Int("effects", len(s.Effects)).Msg("image style saved")
	return nil
}

// LoadImageStyle returns the style with the given machine name, or nil when
// it does not exist.
func (d *Database) LoadImageStyle(ctx context.Context, name string) (*models.ImageStyle, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var (
		s       models.ImageStyle
		effects string
	)
	err := d.db.QueryRowContext(ctx, `SELECT name, label, effects FROM image_style WHERE name = ?;`, name).
		Scan(&s.Name, &s.Label, &effects)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load image style: %w", err)
	}
	if err := json.Unmarshal([]byte(effects), &s.Effects); err != nil {
		return nil, fmt.Errorf("failed to decode effects of image style %q: %w", name, err)
	}
	return &s, nil
}

// ListImageStyles returns all image styles ordered by label.
func (d *Database) ListImageStyles(ctx context.Context) ([]*models.ImageStyle, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.db.QueryContext(ctx, `SELECT name, label, effects FROM image_style ORDER BY label, name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to query image styles: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var styles []*models.ImageStyle
	for rows.Next() {
		var (
			s       models.ImageStyle
			effects string
		)
		if err := rows.Scan(&s.Name, &s.Label, &effects); err != nil {
			return nil, fmt.Errorf("failed to scan image style: %w", err)
		}
		if err := json.Unmarshal([]byte(effects), &s.Effects); err != nil {
			return nil, fmt.Errorf("failed to decode effects of image style %q: %w", s.Name, err)
		}
		styles = append(styles, &s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating image styles: %w", err)
	}

	return styles, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
