package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/vidyasagar/cellsurf/internal/browser"
)

// Bookmark represents a saved page.
type Bookmark struct {
	ID        int64
	Path      string
	Title     string
	Tags      []string
	CreatedAt time.Time
}

// BookmarkStore manages bookmarks persisted in SQLite.
type BookmarkStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewBookmarkStore creates a bookmark store using the given database.
func NewBookmarkStore(db *DB) *BookmarkStore {
	return &BookmarkStore{db: db.Conn(), now: time.Now}
}

// Add bookmarks a location. Returns false if it was already bookmarked.
func (bs *BookmarkStore) Add(path, title string, tags ...string) (bool, error) {
	res, err := bs.db.Exec(
		`INSERT OR IGNORE INTO bookmarks (path, title, tags, created_at) VALUES (?, ?, ?, ?)`,
		path, title, strings.Join(tags, ","), bs.now().UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("adding bookmark: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Remove removes a bookmark by location. Returns false if not found.
func (bs *BookmarkStore) Remove(path string) (bool, error) {
	res, err := bs.db.Exec(`DELETE FROM bookmarks WHERE path = ?`, path)
	if err != nil {
		return false, fmt.Errorf("removing bookmark: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Toggle adds the bookmark, or removes it if present. It reports whether
// the location is bookmarked afterwards.
func (bs *BookmarkStore) Toggle(path, title string) (bool, error) {
	if bs.Has(path) {
		_, err := bs.Remove(path)
		return false, err
	}
	_, err := bs.Add(path, title)
	return err == nil, err
}

// Has reports whether a location is bookmarked.
func (bs *BookmarkStore) Has(path string) bool {
	var count int
	err := bs.db.QueryRow(`SELECT COUNT(*) FROM bookmarks WHERE path = ?`, path).Scan(&count)
	return err == nil && count > 0
}

// List returns all bookmarks, newest first.
func (bs *BookmarkStore) List() ([]Bookmark, error) {
	rows, err := bs.db.Query(
		`SELECT id, path, title, tags, created_at FROM bookmarks ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	defer rows.Close()
	return scanBookmarks(rows)
}

// Search finds bookmarks whose title or location contains query.
func (bs *BookmarkStore) Search(query string) ([]Bookmark, error) {
	like := "%" + query + "%"
	rows, err := bs.db.Query(
		`SELECT id, path, title, tags, created_at FROM bookmarks
		 WHERE title LIKE ? OR path LIKE ?
		 ORDER BY created_at DESC, id DESC`,
		like, like,
	)
	if err != nil {
		return nil, fmt.Errorf("searching bookmarks: %w", err)
	}
	defer rows.Close()
	return scanBookmarks(rows)
}

// Count returns the number of bookmarks.
func (bs *BookmarkStore) Count() int {
	var count int
	bs.db.QueryRow(`SELECT COUNT(*) FROM bookmarks`).Scan(&count)
	return count
}

func scanBookmarks(rows *sql.Rows) ([]Bookmark, error) {
	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		var tagStr string
		var createdAt int64
		if err := rows.Scan(&b.ID, &b.Path, &b.Title, &tagStr, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		if tagStr != "" {
			b.Tags = strings.Split(tagStr, ",")
		}
		b.CreatedAt = time.UnixMilli(createdAt)
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// RenderBookmarks formats bookmarks as a markdown page.
func RenderBookmarks(bookmarks []Bookmark, now time.Time) (string, []browser.Link) {
	var sb strings.Builder
	var links []browser.Link

	sb.WriteString("# Bookmarks\n\n")

	if len(bookmarks) == 0 {
		sb.WriteString("No bookmarks yet. Press `B` to bookmark a page.\n")
		return sb.String(), links
	}

	for i, b := range bookmarks {
		idx := i + 1
		title := b.Title
		if title == "" {
			title = b.Path
		}
		fmt.Fprintf(&sb, "- %s **[%d]**  \n  `%s`, saved %s\n", title, idx, b.Path, TimeAgo(b.CreatedAt, now))
		if len(b.Tags) > 0 {
			fmt.Fprintf(&sb, "  tags: %s\n", strings.Join(b.Tags, ", "))
		}
		links = append(links, browser.Link{Index: idx, Text: title, Href: b.Path})
	}
	sb.WriteString("\n")

	return sb.String(), links
}

// TimeAgo renders the age of t relative to now.
func TimeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
