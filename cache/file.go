package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	payloadSuffix  = ".txt"
	metadataSuffix = ".metadata.json"
)

// FileStore keeps one payload file and one metadata sidecar per entry in a
// single flat directory:
//
//	<dir>/<id>.<lang>.txt       transcript, one line per text line
//	<dir>/<id>.metadata.json    {"title": "..."}
//
// The sidecar is keyed by video ID alone, so all languages of a video share
// one title. Entry age is the payload file's mtime. Writes are plain
// truncate-and-write with no locking; concurrent writers for the same key
// produce identical content, so last-write-wins is acceptable.
type FileStore struct {
	dir string
	ttl time.Duration
}

func NewFileStore(dir string, ttl time.Duration) *FileStore {
	return &FileStore{dir: dir, ttl: ttl}
}

type metadata struct {
	Title string `json:"title"`
}

func (s *FileStore) paths(videoID, lang string) (payload, sidecar string) {
	payload = filepath.Join(s.dir, videoID+"."+lang+payloadSuffix)
	sidecar = filepath.Join(s.dir, videoID+metadataSuffix)
	return payload, sidecar
}

func (s *FileStore) Lookup(ctx context.Context, videoID, lang string) (*Entry, error) {
	payload, sidecar := s.paths(videoID, lang)

	info, err := os.Stat(payload)
	if err != nil {
		return nil, ErrMiss
	}
	if _, err := os.Stat(sidecar); err != nil {
		// A payload without its sidecar is a half-written pair.
		return nil, ErrMiss
	}

	if time.Since(info.ModTime()) > s.ttl {
		if err := s.Remove(ctx, videoID, lang); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"video_id": videoID,
				"lang":     lang,
			}).Warn("Failed to remove expired cache entry")
		}
		return nil, ErrMiss
	}

	raw, err := os.ReadFile(payload)
	if err != nil {
		logrus.WithError(err).WithField("path", payload).Warn("Failed to read cached transcript")
		return nil, ErrMiss
	}

	title, ok := s.readTitle(sidecar)
	if !ok {
		return nil, ErrMiss
	}
	if title == "" {
		title = placeholderTitle(videoID)
	}

	return &Entry{
		VideoID:   videoID,
		Language:  lang,
		Lines:     splitLines(string(raw)),
		Title:     title,
		FetchedAt: info.ModTime(),
	}, nil
}

// readTitle reads the sidecar, treating corruption as a miss. The files are
// left in place: the next successful fetch overwrites the pair, so deleting
// here would only race with that write.
func (s *FileStore) readTitle(sidecar string) (string, bool) {
	raw, err := os.ReadFile(sidecar)
	if err != nil {
		return "", false
	}
	var md metadata
	if err := json.Unmarshal(raw, &md); err != nil {
		logrus.WithError(err).WithField("path", sidecar).Warn("Ignoring corrupt cache metadata")
		return "", false
	}
	return md.Title, true
}

func (s *FileStore) Put(ctx context.Context, entry *Entry) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "creating cache directory")
	}
	payload, sidecar := s.paths(entry.VideoID, entry.Language)

	if err := os.WriteFile(payload, []byte(joinLines(entry.Lines)), 0o644); err != nil {
		return errors.Wrap(err, "writing cached transcript")
	}
	md, err := json.Marshal(metadata{Title: entry.Title})
	if err != nil {
		return errors.Wrap(err, "encoding cache metadata")
	}
	if err := os.WriteFile(sidecar, md, 0o644); err != nil {
		return errors.Wrap(err, "writing cache metadata")
	}
	return nil
}

// Remove deletes both files of the pair. The sidecar is shared across
// languages, so removing one language drops the title for the others too;
// they fall back to the placeholder title until refetched.
func (s *FileStore) Remove(ctx context.Context, videoID, lang string) error {
	payload, sidecar := s.paths(videoID, lang)

	var errs []error
	for _, path := range []string{payload, sidecar} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Wrapf(errs[0], "removing cache entry %s.%s", videoID, lang)
	}
	return nil
}

// PurgeExpired scans the cache directory and removes every payload older
// than the retention window, along with its sidecar.
func (s *FileStore) PurgeExpired(ctx context.Context) (int, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "reading cache directory")
	}

	removed := 0
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, payloadSuffix) {
			continue
		}
		videoID, lang, ok := strings.Cut(strings.TrimSuffix(name, payloadSuffix), ".")
		if !ok {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) <= s.ttl {
			continue
		}
		if err := s.Remove(ctx, videoID, lang); err != nil {
			logrus.WithError(err).WithField("name", name).Warn("Failed to purge cache entry")
			continue
		}
		removed++
	}
	return removed, nil
}
