package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/ingestion"
	"github.com/jonathan/career-coach/internal/logger"
	"github.com/jonathan/career-coach/internal/types"
)

func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req types.AnalyzeResumeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.resumes.Analyze(r.Context(), userID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleUploadResume extracts text from an uploaded file. Any extraction
// failure is answered with requiresManualPaste so the client falls back to
// the paste box.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	if r.ContentLength > s.maxUploadBytes {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	// Browsers send octet-stream for unknown types; sniff instead.
	contentType := header.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/octet-stream") {
		contentType = ""
	}

	result, err := ingestion.Extract(r.Context(), content, contentType, header.Filename)
	if err != nil {
		s.logger.Warn("resume extraction failed",
			zap.String("filename", logger.TruncateForLog(header.Filename, 100)),
			zap.Error(err),
		)
		s.jsonResponse(w, http.StatusOK, &ingestion.Result{RequiresManualPaste: true})
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleResumeHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	items, err := s.resumes.History(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": items})
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	resumeID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	record, err := s.resumes.Get(r.Context(), userID, resumeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}
