package server

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"
)

// multipartMemory caps how much of a parsed form is held in memory
// before spilling to temp files.
const multipartMemory = 32 << 20

// uploadResp is the JSON response returned after a successful upload.
type uploadResp struct {
	Message     string `json:"message"`
	FileNumber  string `json:"file_number"`
	Filename    string `json:"filename"`
	Description string `json:"description"`
}

// uploadHandler handles POST /upload requests. The multipart form must
// carry a "file" part; a "description" text field is optional. The blob
// is written to the object store under uploads/{file_number}/{filename}
// with encryption at rest, then one metadata row is inserted.
//
// The blob write and the row insert are not transactional: if the insert
// fails after the blob landed, the blob is orphaned and the error is
// surfaced to the caller as-is.
func (cfg Config) uploadHandler(conn *sql.DB, store *ObjectStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cfg.MaxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)
		}

		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "file too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			// Reject before any store side effect.
			writeError(w, http.StatusBadRequest, "no file provided")
			return
		}
		defer func() { _ = file.Close() }()

		description := r.FormValue("description")

		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = cfg.DefaultContentType
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
		defer cancel()

		now := time.Now().UTC()
		fileNumber, err := nextFileNumber(ctx, conn, now)
		if err != nil {
			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=allocate_file_number err=%v", rid, err)
			GetMetrics().RecordUploadError()
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		objectKey := "uploads/" + fileNumber + "/" + header.Filename

		if err := store.Put(ctx, objectKey, file, header.Size, contentType); err != nil {
			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=putobject key=%s err=%v", rid, objectKey, err)
			GetMetrics().RecordUploadError()
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		rec := FileRecord{
			FileNumber:  fileNumber,
			ObjectKey:   objectKey,
			Filename:    header.Filename,
			Description: description,
			ContentType: contentType,
			UploadedAt:  now.Unix(),
		}
		if err := insertRecord(ctx, conn, rec); err != nil {
			// The blob stays behind under objectKey; accepted risk.
			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=insert_record file_number=%s err=%v", rid, fileNumber, err)
			GetMetrics().RecordUploadError()
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		GetMetrics().RecordUpload(header.Size)
		writeJSON(w, http.StatusCreated, uploadResp{
			Message:     "Upload successful",
			FileNumber:  fileNumber,
			Filename:    header.Filename,
			Description: description,
		})
	})
}
