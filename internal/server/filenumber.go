package server

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// File numbers look like FIR-20251014-001: a fixed prefix, the upload
// date, and a per-day sequence zero-padded to three digits. The padding
// simply grows once a day passes 999 uploads.

const fileNumberTag = "FIR"

func dayOf(now time.Time) string {
	return now.Format("20060102")
}

func fileNumberPrefix(day string) string {
	return fileNumberTag + "-" + day + "-"
}

func formatFileNumber(day string, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", fileNumberTag, day, seq)
}

// parseSequence extracts the trailing numeric segment of a stored file
// number. A malformed segment is an error, never skipped: a bad row in
// the table means something else wrote to it and allocation must stop.
func parseSequence(fileNumber string) (int, error) {
	i := strings.LastIndexByte(fileNumber, '-')
	if i < 0 || i == len(fileNumber)-1 {
		return 0, fmt.Errorf("malformed file number %q", fileNumber)
	}
	seq, err := strconv.Atoi(fileNumber[i+1:])
	if err != nil {
		return 0, fmt.Errorf("malformed file number %q: %w", fileNumber, err)
	}
	return seq, nil
}

// maxStoredSequence scans the day's records and returns the highest
// sequence number recorded, 0 if the day has none.
func maxStoredSequence(ctx context.Context, conn *sql.DB, day string) (int, error) {
	rows, err := conn.QueryContext(ctx,
		`SELECT file_number FROM file_records WHERE file_number LIKE $1`,
		fileNumberPrefix(day)+"%",
	)
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()

	maxSeq := 0
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
		seq, err := parseSequence(n)
		if err != nil {
			return 0, err
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq, rows.Err()
}

// nextFileNumber allocates the next file number for the current date.
//
// The legacy scheme recomputed max(sequence)+1 from a table scan on every
// upload, so two concurrent uploads could observe the same maximum and
// collide. Allocation now goes through a per-day counter row bumped with
// a single upsert, which Postgres serialises: concurrent uploads always
// receive distinct numbers. The scan result only seeds the counter so
// that records predating the counter table keep their day's sequence.
func nextFileNumber(ctx context.Context, conn *sql.DB, now time.Time) (string, error) {
	day := dayOf(now)

	seed, err := maxStoredSequence(ctx, conn, day)
	if err != nil {
		return "", err
	}

	var seq int
	err = conn.QueryRowContext(ctx, `
		INSERT INTO file_number_counters (day, seq) VALUES ($1, $2)
		ON CONFLICT (day) DO UPDATE
		SET seq = GREATEST(file_number_counters.seq + 1, excluded.seq)
		RETURNING seq`,
		day, seed+1,
	).Scan(&seq)
	if err != nil {
		return "", err
	}

	return formatFileNumber(day, seq), nil
}
