package httpapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/steelcity-drags/roster-api/internal/app/imports"
	"github.com/steelcity-drags/roster-api/internal/ports/out/idempotency"
)

const maxImportBody = 10 << 20

// ImportCSV accepts the CSV as the raw body or as the multipart field "file".
//
// With an Idempotency-Key header, a retry carrying the same payload replays the stored
// result; the same key with a different payload is rejected with 409.
func (s *Server) ImportCSV(w http.ResponseWriter, r *http.Request) {
	p, ok := s.principal(w, r)
	if !ok {
		return
	}
	kind, err := imports.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "IMPORT_KIND_NOT_FOUND", err.Error(), nil)
		return
	}

	payload, err := readUpload(w, r)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "unreadable upload", map[string]any{"file": err.Error()})
		return
	}

	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	var fp idempotency.Fingerprint
	sum := sha256.Sum256(payload)
	bodyHash := hex.EncodeToString(sum[:])
	if key != "" && s.Idem != nil {
		fp = idempotency.Fingerprint{
			Key:     idempotency.Key(key),
			Subject: p.Subject,
			Route:   "POST /imports/" + string(kind),
		}
		rec, found, err := s.Idem.Get(r.Context(), fp)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if found && rec.Expired(s.Clock.Now(), s.IdemTTL) {
			found = false
		}
		if found {
			if rec.BodyHash != bodyHash {
				writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSED", "idempotency key reuse with different payload", nil)
				return
			}
			w.Header().Set("Content-Type", rec.ContentType)
			w.Header().Set("Idempotency-Replayed", "true")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}
	}

	res, err := s.Imports.Import(r.Context(), p, kind, bytes.NewReader(payload))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body, err := json.Marshal(res)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body = append(body, '\n')

	if fp.Key != "" {
		if err := s.Idem.Put(r.Context(), fp, idempotency.Record{
			BodyHash:    bodyHash,
			StatusCode:  http.StatusOK,
			ContentType: "application/json",
			Body:        body,
			CreatedAt:   s.Clock.Now(),
		}); err != nil {
			s.Log.Warn("store idempotency record", zap.String("key", key), zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBody)
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		return io.ReadAll(r.Body)
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errors.New(`multipart field "file" is required`)
		}
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
