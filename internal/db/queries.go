package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/memory"
)

// memoryColumns is the column list shared by all memory SELECTs.
const memoryColumns = `id, user_id, title, description, type, content, tags_json, date, created_at, updated_at`

// Insert stores a new memory record.
func Insert(db *sql.DB, rec *memory.Record) error {
	tagsJSON, err := tagsToJSON(rec.Tags)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO memories (
			id, user_id, title, description, type, content,
			tags_json, date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.Exec(query,
		rec.ID, rec.UserID, rec.Title, toNullString(rec.Description),
		string(rec.Type), rec.Content, tagsJSON,
		rec.Date, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetByID retrieves a memory by ULID, scoped to its owning user.
// Ownership is enforced in the query so a record is never visible
// outside its user.
func GetByID(db *sql.DB, userID, id string) (*memory.Record, error) {
	query := `
		SELECT ` + memoryColumns + `
		FROM memories
		WHERE id = ? AND user_id = ?
	`

	row := db.QueryRow(query, id, userID)
	rec, err := scanMemory(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return rec, nil
}

// ListByUser returns all memories for a user sorted by date descending
// (created_at descending as tiebreak). This ordering is the collection
// contract the capsule pipeline depends on: "the first N records" at any
// downstream consumer means "the N most recent memories".
func ListByUser(db *sql.DB, userID string, limit, offset int) (memory.Collection, error) {
	query := `
		SELECT ` + memoryColumns + `
		FROM memories
		WHERE user_id = ?
		ORDER BY date DESC, created_at DESC
	`

	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	records := make(memory.Collection, 0)
	for rows.Next() {
		rec, err := scanMemoryRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return records, nil
}

// CountByUser returns the number of memories a user has.
func CountByUser(db *sql.DB, userID string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM memories WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

// UpdateByID updates mutable fields of an existing memory.
// Sets updated_at to current timestamp. Does NOT change: id, user_id.
func UpdateByID(db *sql.DB, rec *memory.Record) error {
	tagsJSON, err := tagsToJSON(rec.Tags)
	if err != nil {
		return errors.NewInternal(err)
	}

	now := time.Now().Unix()

	query := `
		UPDATE memories
		SET title = ?, description = ?, type = ?, content = ?,
			tags_json = ?, date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := db.Exec(query,
		rec.Title, toNullString(rec.Description), string(rec.Type),
		rec.Content, tagsJSON, rec.Date, now,
		rec.ID, rec.UserID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(rec.ID)
	}

	rec.UpdatedAt = now

	return nil
}

// Delete removes a memory permanently.
func Delete(db *sql.DB, userID, id string) error {
	result, err := db.Exec(`DELETE FROM memories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

// scanMemory scans a single row into a memory.Record.
func scanMemory(row *sql.Row) (*memory.Record, error) {
	return scanFrom(row)
}

// scanMemoryRows scans the current row of a result set.
func scanMemoryRows(rows *sql.Rows) (*memory.Record, error) {
	return scanFrom(rows)
}

func scanFrom(s scanner) (*memory.Record, error) {
	var (
		rec         memory.Record
		description sql.NullString
		typ         string
		tagsJSON    sql.NullString
	)

	err := s.Scan(
		&rec.ID, &rec.UserID, &rec.Title, &description, &typ,
		&rec.Content, &tagsJSON, &rec.Date, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Type = memory.Type(typ)
	if description.Valid {
		rec.Description = &description.String
	}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &rec.Tags); err != nil {
			return nil, err
		}
	}

	return &rec, nil
}

// tagsToJSON serializes tags for storage; empty tag lists store as NULL.
func tagsToJSON(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
