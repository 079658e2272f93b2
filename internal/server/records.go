package server

import (
	"context"
	"database/sql"
	"fmt"
)

// FileRecord is one metadata row per uploaded file, keyed by file number.
// Rows are created once and never updated or deleted by this service.
type FileRecord struct {
	FileNumber  string
	ObjectKey   string
	Filename    string
	Description string
	ContentType string
	UploadedAt  int64 // Unix seconds
}

// insertRecord writes a new FileRecord. A duplicate file number fails
// loudly instead of overwriting the existing row: the allocator should
// make duplicates impossible, so hitting one means the table was written
// to outside this service.
func insertRecord(ctx context.Context, conn *sql.DB, rec FileRecord) error {
	res, err := conn.ExecContext(ctx, `
		INSERT INTO file_records (file_number, object_key, filename, description, content_type, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (file_number) DO NOTHING`,
		rec.FileNumber, rec.ObjectKey, rec.Filename, rec.Description, rec.ContentType, rec.UploadedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("file number already exists: %s", rec.FileNumber)
	}
	return nil
}

// getRecord looks up a record by exact file number. Returns
// sql.ErrNoRows when the file number is unknown.
func getRecord(ctx context.Context, conn *sql.DB, fileNumber string) (FileRecord, error) {
	var rec FileRecord
	err := conn.QueryRowContext(ctx, `
		SELECT file_number, object_key, filename, description, content_type, uploaded_at
		FROM file_records
		WHERE file_number = $1`,
		fileNumber,
	).Scan(&rec.FileNumber, &rec.ObjectKey, &rec.Filename, &rec.Description, &rec.ContentType, &rec.UploadedAt)
	return rec, err
}

// latestRecordByFilename resolves a filename to the most recently
// uploaded record carrying it. Filenames are not unique; the greatest
// uploaded_at wins and ties fall to stored order. Returns sql.ErrNoRows
// when no record matches.
func latestRecordByFilename(ctx context.Context, conn *sql.DB, filename string) (FileRecord, error) {
	var rec FileRecord
	err := conn.QueryRowContext(ctx, `
		SELECT file_number, object_key, filename, description, content_type, uploaded_at
		FROM file_records
		WHERE filename = $1
		ORDER BY uploaded_at DESC
		LIMIT 1`,
		filename,
	).Scan(&rec.FileNumber, &rec.ObjectKey, &rec.Filename, &rec.Description, &rec.ContentType, &rec.UploadedAt)
	return rec, err
}
