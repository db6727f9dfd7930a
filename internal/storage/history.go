package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxVisits bounds the visits table when no limit is configured.
const DefaultMaxVisits = 1000

// Visit is one rendered page.
type Visit struct {
	ID        int64
	Path      string
	Title     string
	SessionID string
	VisitedAt time.Time
}

// VisitStore records page visits in SQLite. Every store belongs to one
// session, so visits from one run of the program can be told apart.
type VisitStore struct {
	db      *sql.DB
	session string
	maxSize int
	now     func() time.Time
}

// NewVisitStore creates a visit store with a fresh session id.
func NewVisitStore(db *DB, maxEntries int) *VisitStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxVisits
	}
	return &VisitStore{
		db:      db.Conn(),
		session: uuid.NewString(),
		maxSize: maxEntries,
		now:     time.Now,
	}
}

// Session returns the id stamped on this store's visits.
func (vs *VisitStore) Session() string {
	return vs.session
}

// Add records a visit. A repeat of this session's latest path only
// refreshes its timestamp and title.
func (vs *VisitStore) Add(path, title string) error {
	if path == "" {
		return nil
	}
	now := vs.now().UnixMilli()

	var lastID int64
	var lastPath string
	err := vs.db.QueryRow(
		`SELECT id, path FROM visits WHERE session_id = ? ORDER BY visited_at DESC, id DESC LIMIT 1`,
		vs.session,
	).Scan(&lastID, &lastPath)
	switch {
	case err == nil && lastPath == path:
		_, err = vs.db.Exec(
			`UPDATE visits SET visited_at = ?, title = CASE WHEN ? = '' THEN title ELSE ? END WHERE id = ?`,
			now, title, title, lastID,
		)
		if err != nil {
			return fmt.Errorf("updating visit: %w", err)
		}
		return nil
	case err != nil && err != sql.ErrNoRows:
		return fmt.Errorf("reading last visit: %w", err)
	}

	if _, err := vs.db.Exec(
		`INSERT INTO visits (path, title, session_id, visited_at) VALUES (?, ?, ?, ?)`,
		path, title, vs.session, now,
	); err != nil {
		return fmt.Errorf("inserting visit: %w", err)
	}

	// Trim the oldest rows over the limit.
	if _, err := vs.db.Exec(
		`DELETE FROM visits WHERE id NOT IN (
			SELECT id FROM visits ORDER BY visited_at DESC, id DESC LIMIT ?
		)`,
		vs.maxSize,
	); err != nil {
		return fmt.Errorf("trimming visits: %w", err)
	}
	return nil
}

// List returns up to limit visits, newest first. limit <= 0 returns all.
func (vs *VisitStore) List(limit int) ([]Visit, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := vs.db.Query(
		`SELECT id, path, title, session_id, visited_at FROM visits
		 ORDER BY visited_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	defer rows.Close()
	return scanVisits(rows)
}

// Search finds visits whose title or path contains query.
func (vs *VisitStore) Search(query string) ([]Visit, error) {
	like := "%" + query + "%"
	rows, err := vs.db.Query(
		`SELECT id, path, title, session_id, visited_at FROM visits
		 WHERE title LIKE ? OR path LIKE ?
		 ORDER BY visited_at DESC, id DESC`,
		like, like,
	)
	if err != nil {
		return nil, fmt.Errorf("searching visits: %w", err)
	}
	defer rows.Close()
	return scanVisits(rows)
}

// Remove deletes a visit by id. Returns false if not found.
func (vs *VisitStore) Remove(id int64) (bool, error) {
	res, err := vs.db.Exec(`DELETE FROM visits WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting visit: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Clear removes all visits.
func (vs *VisitStore) Clear() error {
	if _, err := vs.db.Exec(`DELETE FROM visits`); err != nil {
		return fmt.Errorf("clearing visits: %w", err)
	}
	return nil
}

// Count returns the number of stored visits.
func (vs *VisitStore) Count() int {
	var count int
	vs.db.QueryRow(`SELECT COUNT(*) FROM visits`).Scan(&count)
	return count
}

func scanVisits(rows *sql.Rows) ([]Visit, error) {
	var visits []Visit
	for rows.Next() {
		var v Visit
		var at int64
		if err := rows.Scan(&v.ID, &v.Path, &v.Title, &v.SessionID, &at); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		v.VisitedAt = time.UnixMilli(at)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
