package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ssargent/bdat/pkg/codec"
	"github.com/ssargent/bdat/pkg/decoder"
	"github.com/ssargent/bdat/pkg/query"
	"github.com/ssargent/bdat/pkg/record"
	"github.com/ssargent/bdat/pkg/storage"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handlePutBlob(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		sendError(w, "Request body is empty", http.StatusBadRequest)
		return
	}

	id, err := s.store.Put(body)
	if err != nil {
		s.fail(w, err)
		return
	}
	sendSuccess(w, BlobResponse{ID: id.String(), Size: len(body)})
}

func (s *Server) handleListBlobs(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List()
	if err != nil {
		s.fail(w, err)
		return
	}
	blobs := make([]BlobResponse, len(ids))
	for i, id := range ids {
		blobs[i] = BlobResponse{ID: id.String()}
	}
	sendSuccess(w, blobs)
}

func (s *Server) handleGetBlob(w http.ResponseWriter, r *http.Request) {
	data, ok := s.loadBlob(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteBlob(w http.ResponseWriter, r *http.Request) {
	id, err := storage.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.Delete(id); err != nil {
		s.fail(w, err)
		return
	}
	sendSuccess(w, map[string]string{"status": "deleted"})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	data, ok := s.loadBlob(w, r)
	if !ok {
		return
	}
	req, err := parseRequest(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	results, err := s.decoder.Decode(r.Context(), data, req)
	if err != nil {
		s.fail(w, err)
		return
	}

	out := make([]DecodeResponse, len(results))
	for i, res := range results {
		out[i] = DecodeResponse{
			Type:   req.Type,
			Offset: res.Offset,
			End:    res.End,
			Value:  record.ToInterface(res.Value),
		}
	}
	sendSuccess(w, out)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	data, ok := s.loadBlob(w, r)
	if !ok {
		return
	}
	req, err := parseRequest(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	invert, err := boolParam(q.Get("invert"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	f := query.Filter{Field: q.Get("field"), Operator: "=", Preview: []byte(q.Get("preview"))}
	if invert {
		f.Operator = "!="
	}

	match, err := s.decoder.Filter(r.Context(), data, req, f)
	if err != nil {
		s.fail(w, err)
		return
	}
	sendSuccess(w, FilterResponse{
		Type:    req.Type,
		Field:   f.Field,
		Preview: string(f.Preview),
		Invert:  invert,
		Match:   match,
	})
}

func (s *Server) loadBlob(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	id, err := storage.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return nil, false
	}
	data, err := s.store.Get(id)
	if err != nil {
		s.fail(w, err)
		return nil, false
	}
	return data, true
}

// fail maps an error to its HTTP status
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		sendError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, decoder.ErrBadRequest):
		sendError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, codec.ErrOutOfBounds),
		errors.Is(err, codec.ErrUnknownTypeTag),
		errors.Is(err, record.ErrInvalidCount),
		errors.Is(err, record.ErrTooDeep),
		errors.Is(err, storage.ErrCorruption):
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		s.logger.Error("request failed", zap.Error(err))
		sendError(w, "Internal server error", http.StatusInternalServerError)
	}
}

// parseRequest reads type, offset, count and max_bytes from the query.
// offset may list several comma-separated offsets.
func parseRequest(r *http.Request) (decoder.Request, error) {
	q := r.URL.Query()
	req := decoder.Request{Type: q.Get("type")}
	if req.Type == "" {
		return req, fmt.Errorf("type is required")
	}

	if raw := q.Get("offset"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			off, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || off < 0 {
				return req, fmt.Errorf("invalid offset %q", part)
			}
			req.Offsets = append(req.Offsets, off)
		}
	}

	var err error
	if req.Count, err = intParam(q.Get("count"), "count"); err != nil {
		return req, err
	}
	if req.MaxBytes, err = intParam(q.Get("max_bytes"), "max_bytes"); err != nil {
		return req, err
	}
	return req, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

func boolParam(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid invert %q", raw)
	}
	return b, nil
}
