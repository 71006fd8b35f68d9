package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sjpark-dev/roomchat-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	name         TEXT PRIMARY KEY,
	capacity     INTEGER NOT NULL,
	private      BOOLEAN NOT NULL DEFAULT 0,
	member_count INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	room       TEXT NOT NULL,
	sender     TEXT NOT NULL,
	text       TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room, id DESC);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and applies the schema.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRoom inserts or replaces the room record.
func (s *SQLiteStore) SaveRoom(ctx context.Context, rec store.RoomRecord) error {
	query := `
		INSERT INTO rooms (name, capacity, private, member_count, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			capacity = excluded.capacity,
			private = excluded.private,
			member_count = excluded.member_count
	`
	if _, err := s.db.ExecContext(ctx, query, rec.Name, rec.Capacity, rec.Private, rec.MemberCount, rec.CreatedAt); err != nil {
		return fmt.Errorf("save room: %w", err)
	}
	return nil
}

// DeleteRoom removes the room record and its messages. Message records
// live only as long as their room.
func (s *SQLiteStore) DeleteRoom(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE room = ?`, name); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return tx.Commit()
}

// SetRoomMemberCount updates the stored member count.
func (s *SQLiteStore) SetRoomMemberCount(ctx context.Context, name string, count int) error {
	res, err := s.db.ExecContext(ctx, `UPDATE rooms SET member_count = ? WHERE name = ?`, count, name)
	if err != nil {
		return fmt.Errorf("update member count: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListRooms returns all room records ordered by name.
func (s *SQLiteStore) ListRooms(ctx context.Context) ([]store.RoomRecord, error) {
	query := `
		SELECT name, capacity, private, member_count, created_at
		FROM rooms
		ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query rooms: %w", err)
	}
	defer rows.Close()

	var out []store.RoomRecord
	for rows.Next() {
		var rec store.RoomRecord
		if err := rows.Scan(&rec.Name, &rec.Capacity, &rec.Private, &rec.MemberCount, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveMessage persists one message and returns its id.
func (s *SQLiteStore) SaveMessage(ctx context.Context, rec store.MessageRecord) (int64, error) {
	query := `
		INSERT INTO messages (room, sender, text, created_at)
		VALUES (?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query, rec.Room, rec.Sender, rec.Text, rec.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// ListMessages returns up to limit most recent messages for the room in
// chronological order.
func (s *SQLiteStore) ListMessages(ctx context.Context, room string, limit int) ([]store.MessageRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, room, sender, text, created_at
		FROM messages
		WHERE room = ?
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, room, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []store.MessageRecord
	for rows.Next() {
		var rec store.MessageRecord
		if err := rows.Scan(&rec.ID, &rec.Room, &rec.Sender, &rec.Text, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the query; flip to chronological.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
