package cache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
	video_id   TEXT NOT NULL,
	lang       TEXT NOT NULL,
	lines      TEXT NOT NULL,
	title      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	PRIMARY KEY (video_id, lang)
);
`

// SQLiteStore keeps transcripts in a single SQLite table, for installs
// where a flat cache directory is awkward to share or back up. Expiry and
// payload encoding match FileStore; only the medium differs.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
}

func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating cache database directory")
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening cache database")
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "executing %s", pragma)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating transcripts table")
	}

	return &SQLiteStore{db: db, ttl: ttl}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Lookup(ctx context.Context, videoID, lang string) (*Entry, error) {
	var (
		payload string
		title   string
		created time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT lines, title, created_at FROM transcripts WHERE video_id = ? AND lang = ?`,
		videoID, lang,
	).Scan(&payload, &title, &created)
	if err == sql.ErrNoRows {
		return nil, ErrMiss
	}
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"video_id": videoID,
			"lang":     lang,
		}).Warn("Cache query failed")
		return nil, ErrMiss
	}

	if time.Since(created) > s.ttl {
		if err := s.Remove(ctx, videoID, lang); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"video_id": videoID,
				"lang":     lang,
			}).Warn("Failed to remove expired cache entry")
		}
		return nil, ErrMiss
	}

	if title == "" {
		title = placeholderTitle(videoID)
	}
	return &Entry{
		VideoID:   videoID,
		Language:  lang,
		Lines:     splitLines(payload),
		Title:     title,
		FetchedAt: created,
	}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, entry *Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transcripts (video_id, lang, lines, title, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(video_id, lang) DO UPDATE SET
			lines = excluded.lines,
			title = excluded.title,
			created_at = excluded.created_at`,
		entry.VideoID, entry.Language, joinLines(entry.Lines), entry.Title, time.Now(),
	)
	return errors.Wrap(err, "writing cache row")
}

func (s *SQLiteStore) Remove(ctx context.Context, videoID, lang string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM transcripts WHERE video_id = ? AND lang = ?`,
		videoID, lang,
	)
	return errors.Wrap(err, "removing cache row")
}

func (s *SQLiteStore) PurgeExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transcripts WHERE created_at < ?`,
		time.Now().Add(-s.ttl),
	)
	if err != nil {
		return 0, errors.Wrap(err, "purging expired cache rows")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "counting purged rows")
	}
	return int(n), nil
}
