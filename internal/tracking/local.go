// Package tracking keeps watch history and favorites in a local SQLite database.
package tracking

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/leoallday/movwatch/internal/util"
	_ "github.com/mattn/go-sqlite3"
)

// IsCgoEnabled reports whether this binary can open SQLite databases
var IsCgoEnabled = cgoEnabled

var (
	ErrCgoDisabled      = errors.New("CGO disabled: sqlite tracking not available")
	ErrTrackerNotInited = errors.New("tracker not initialized")
)

const (
	DatabaseName = "movwatch.db"

	MaxHistory   = 100
	MaxFavorites = 100

	busyTimeout       = 5000 // ms
	walAutoCheckpoint = 1000 // pages
	defaultCacheSize  = -8000
	maxOpenConns      = 1
)

// HistoryEntry is the last episode watched for a title
type HistoryEntry struct {
	Title       string
	Episode     string
	LastUpdated time.Time
}

// Favorite is a bookmarked title
type Favorite struct {
	Title   string
	Poster  string
	AddedAt time.Time
}

// Store persists history and favorites. A nil *Store reports ErrTrackerNotInited.
type Store struct {
	db *sql.DB

	markPS      *sql.Stmt
	lastPS      *sql.Stmt
	historyPS   *sql.Stmt
	prunePS     *sql.Stmt
	favAllPS    *sql.Stmt
	favGetPS    *sql.Stmt
	favRemovePS *sql.Stmt

	historyLimit  int
	favoriteLimit int
	now           func() time.Time
}

// DefaultPath returns the database location inside dataDir
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, DatabaseName)
}

// Open creates or opens the database at dbPath
func Open(dbPath string) (*Store, error) {
	if !IsCgoEnabled {
		return nil, ErrCgoDisabled
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)

	if err := initializeDatabase(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db:            db,
		historyLimit:  MaxHistory,
		favoriteLimit: MaxFavorites,
		now:           time.Now,
	}
	if err := s.prepareStatements(); err != nil {
		_ = s.Close()
		return nil, err
	}

	util.Debug("Tracking database ready", "path", dbPath)
	return s, nil
}

func dsn(dbPath string) string {
	// SQLite wants forward slashes in URI filenames
	if runtime.GOOS == "windows" {
		dbPath = strings.ReplaceAll(dbPath, "\\", "/")
	}
	return fmt.Sprintf(
		"file:%s?_journal_mode=WAL&_synchronous=NORMAL&_wal_autocheckpoint=%d&_busy_timeout=%d&_cache_size=%d",
		dbPath, walAutoCheckpoint, busyTimeout, defaultCacheSize,
	)
}

func initializeDatabase(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS history (
			title        TEXT    PRIMARY KEY,
			episode      TEXT    NOT NULL,
			last_updated INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_updated ON history(last_updated)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			title    TEXT    PRIMARY KEY,
			poster   TEXT    NOT NULL DEFAULT '',
			added_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_added ON favorites(added_at)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema creation failed: %w", err)
		}
	}
	return nil
}

func (s *Store) prepareStatements() error {
	prepare := func(dst **sql.Stmt, name, query string) error {
		stmt, err := s.db.Prepare(query)
		if err != nil {
			return fmt.Errorf("%s preparation failed: %w", name, err)
		}
		*dst = stmt
		return nil
	}

	steps := []struct {
		dst   **sql.Stmt
		name  string
		query string
	}{
		{&s.markPS, "mark", `INSERT INTO history (title, episode, last_updated) VALUES (?,?,?)
			ON CONFLICT(title) DO UPDATE SET
				episode = excluded.episode,
				last_updated = excluded.last_updated`},
		{&s.lastPS, "last", `SELECT episode FROM history WHERE title = ?`},
		{&s.historyPS, "history", `SELECT title, episode, last_updated FROM history
			ORDER BY last_updated DESC, rowid DESC`},
		{&s.prunePS, "prune", `DELETE FROM history WHERE title NOT IN (
			SELECT title FROM history ORDER BY last_updated DESC, rowid DESC LIMIT ?)`},
		{&s.favAllPS, "favorites", `SELECT title, poster, added_at FROM favorites
			ORDER BY added_at DESC, rowid DESC`},
		{&s.favGetPS, "favorite", `SELECT 1 FROM favorites WHERE title = ?`},
		{&s.favRemovePS, "unfavorite", `DELETE FROM favorites WHERE title = ?`},
	}
	for _, step := range steps {
		if err := prepare(step.dst, step.name, step.query); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ready() bool {
	return s != nil && s.db != nil && s.markPS != nil
}

// MarkWatched records episode as the last one watched for title and prunes
// the oldest entries past the history limit.
func (s *Store) MarkWatched(title, episode string) error {
	if !s.ready() {
		return ErrTrackerNotInited
	}
	if title == "" {
		return errors.New("history entry needs a title")
	}

	if _, err := s.markPS.Exec(title, episode, s.now().UnixNano()); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	if _, err := s.prunePS.Exec(s.historyLimit); err != nil {
		return fmt.Errorf("pruning history: %w", err)
	}
	return nil
}

// LastWatched returns the last episode recorded for title
func (s *Store) LastWatched(title string) (string, bool, error) {
	if !s.ready() {
		return "", false, ErrTrackerNotInited
	}

	var episode string
	err := s.lastPS.QueryRow(title).Scan(&episode)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query failed: %w", err)
	}
	return episode, true, nil
}

// History lists entries, most recently updated first
func (s *Store) History() ([]HistoryEntry, error) {
	if !s.ready() {
		return nil, ErrTrackerNotInited
	}

	rows, err := s.historyPS.Query()
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]HistoryEntry, 0, s.historyLimit)
	for rows.Next() {
		var e HistoryEntry
		var ts int64
		if err := rows.Scan(&e.Title, &e.Episode, &ts); err != nil {
			return nil, fmt.Errorf("row scan failed: %w", err)
		}
		e.LastUpdated = time.Unix(0, ts)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return entries, nil
}

// AddFavorite bookmarks title. An existing favorite only has its timestamp
// refreshed; a full list drops its oldest entry first.
func (s *Store) AddFavorite(title, poster string) error {
	if !s.ready() {
		return ErrTrackerNotInited
	}
	if title == "" {
		return errors.New("favorite needs a title")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now().UnixNano()
	res, err := tx.Exec(`UPDATE favorites SET added_at = ? WHERE title = ?`, now, title)
	if err != nil {
		return fmt.Errorf("refreshing favorite: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return tx.Commit()
	}

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM favorites`).Scan(&count); err != nil {
		return fmt.Errorf("counting favorites: %w", err)
	}
	if count >= s.favoriteLimit {
		if _, err := tx.Exec(`DELETE FROM favorites WHERE title = (
			SELECT title FROM favorites ORDER BY added_at ASC, rowid ASC LIMIT 1)`); err != nil {
			return fmt.Errorf("evicting oldest favorite: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO favorites (title, poster, added_at) VALUES (?,?,?)`, title, poster, now); err != nil {
		return fmt.Errorf("saving favorite: %w", err)
	}
	return tx.Commit()
}

// RemoveFavorite deletes title; removing a missing title is not an error
func (s *Store) RemoveFavorite(title string) error {
	if !s.ready() {
		return ErrTrackerNotInited
	}
	_, err := s.favRemovePS.Exec(title)
	return err
}

// IsFavorite reports whether title is bookmarked
func (s *Store) IsFavorite(title string) (bool, error) {
	if !s.ready() {
		return false, ErrTrackerNotInited
	}
	var one int
	err := s.favGetPS.QueryRow(title).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query failed: %w", err)
	}
	return true, nil
}

// Favorites lists bookmarks, most recently added first
func (s *Store) Favorites() ([]Favorite, error) {
	if !s.ready() {
		return nil, ErrTrackerNotInited
	}

	rows, err := s.favAllPS.Query()
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	favorites := make([]Favorite, 0, s.favoriteLimit)
	for rows.Next() {
		var f Favorite
		var ts int64
		if err := rows.Scan(&f.Title, &f.Poster, &ts); err != nil {
			return nil, fmt.Errorf("row scan failed: %w", err)
		}
		f.AddedAt = time.Unix(0, ts)
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return favorites, nil
}

// Close releases the prepared statements and the database
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	var finalErr error
	for _, stmt := range []*sql.Stmt{s.markPS, s.lastPS, s.historyPS, s.prunePS, s.favAllPS, s.favGetPS, s.favRemovePS} {
		if stmt == nil {
			continue
		}
		if err := stmt.Close(); err != nil {
			finalErr = fmt.Errorf("statement close error: %w", err)
		}
	}
	if err := s.db.Close(); err != nil {
		finalErr = fmt.Errorf("database close error: %w", err)
	}
	return finalErr
}
