package server

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"
)

// downloadResp is the JSON response for both lookup endpoints. The file
// number is only echoed on filename lookups, where the caller does not
// already have it.
type downloadResp struct {
	DownloadURL string `json:"download_url"`
	FileNumber  string `json:"file_number,omitempty"`
	Filename    string `json:"filename"`
	Description string `json:"description"`
}

// downloadHandler handles GET /download/{file_number}: exact primary-key
// lookup, then a time-limited presigned URL for the record's object key.
// An unknown file number is a 404, never a server error.
func (cfg Config) downloadHandler(conn *sql.DB, store *ObjectStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fileNumber := r.PathValue("file_number")

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		rec, err := getRecord(ctx, conn, fileNumber)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "file not found")
				return
			}
			cfg.lookupFailed(r, "get_record", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		downloadURL, err := store.PresignGet(ctx, rec.ObjectKey)
		if err != nil {
			cfg.lookupFailed(r, "presign", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		GetMetrics().RecordLookup()
		writeJSON(w, http.StatusOK, downloadResp{
			DownloadURL: downloadURL,
			Filename:    rec.Filename,
			Description: rec.Description,
		})
	})
}

// downloadByFilenameHandler handles GET /download-by-filename/{filename}.
// Filenames are not unique; when several records share one, the most
// recently uploaded wins. The response includes the matched file number
// since that is the real key.
func (cfg Config) downloadByFilenameHandler(conn *sql.DB, store *ObjectStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filename := r.PathValue("filename")

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		rec, err := latestRecordByFilename(ctx, conn, filename)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeError(w, http.StatusNotFound, "no file found with filename '"+filename+"'")
				return
			}
			cfg.lookupFailed(r, "scan_filename", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		downloadURL, err := store.PresignGet(ctx, rec.ObjectKey)
		if err != nil {
			cfg.lookupFailed(r, "presign", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		GetMetrics().RecordLookup()
		writeJSON(w, http.StatusOK, downloadResp{
			DownloadURL: downloadURL,
			FileNumber:  rec.FileNumber,
			Filename:    rec.Filename,
			Description: rec.Description,
		})
	})
}

func (cfg Config) lookupFailed(r *http.Request, op string, err error) {
	rid := RequestIDFromContext(r.Context())
	log.Printf("rid=%s msg=%s err=%v", rid, op, err)
	GetMetrics().RecordLookupError()
}
