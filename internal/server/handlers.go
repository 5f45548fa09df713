package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"contractrag/internal/domain"
)

// maxQuestionLen caps questions submitted through the API.
const maxQuestionLen = 500

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Success    bool             `json:"success"`
	Answer     string           `json:"answer"`
	Confidence float64          `json:"confidence"`
	Sources    []string         `json:"sources"`
	Context    []domain.Snippet `json:"context"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !s.svc.Ready() {
		status = "knowledge base not loaded"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  status,
		"ready":   s.svc.Ready(),
		"chunks":  s.svc.ChunkCount(),
	})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.svc.ListDocuments()
	if err != nil {
		s.logger.Error("listing documents", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list documents")
		return
	}
	if files == nil {
		files = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "files": files})
}

// handleUpload stores uploaded .txt files in the data directory and
// rebuilds the knowledge base over everything present.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	if err := os.MkdirAll(s.svc.DataPath(), 0o755); err != nil {
		s.logger.Error("creating data dir", "error", err)
		writeError(w, http.StatusInternalServerError, "could not store files")
		return
	}

	var saved []string
	for _, part := range parts {
		name := sanitizeFilename(part.Filename)
		if name == "" || !strings.EqualFold(filepath.Ext(name), ".txt") {
			continue
		}
		if err := saveUpload(part, filepath.Join(s.svc.DataPath(), name)); err != nil {
			s.logger.Error("saving upload", "file", name, "error", err)
			writeError(w, http.StatusInternalServerError, "could not store "+name)
			return
		}
		saved = append(saved, name)
	}
	if len(saved) == 0 {
		writeError(w, http.StatusBadRequest, "no .txt files in upload")
		return
	}

	s.logger.Info("rebuilding knowledge base", "saved", saved)
	if err := s.svc.BuildKnowledgeBase(s.svc.DataPath()); err != nil {
		s.logger.Error("rebuild failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
			"saved":   saved,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "saved": saved})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		writeError(w, http.StatusBadRequest, "question cannot be empty")
		return
	}
	if len([]rune(question)) > maxQuestionLen {
		writeError(w, http.StatusBadRequest, "question too long (max 500 characters)")
		return
	}

	s.logger.Info("processing question", "question", question)
	result, err := s.svc.AnswerQuestion(question, 0)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotBuilt):
			writeError(w, http.StatusInternalServerError, "knowledge base not initialized")
		case errors.Is(err, domain.ErrModel):
			// Soft failure: the endpoint stays successful with a
			// degraded payload so front-ends can render the message.
			s.logger.Error("answering failed", "error", err)
			writeJSON(w, http.StatusOK, askResponse{
				Success:    true,
				Answer:     "Error generating answer: " + err.Error(),
				Confidence: 0,
				Sources:    []string{},
				Context:    []domain.Snippet{},
			})
		default:
			s.logger.Error("answering failed", "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if result.Sources == nil {
		result.Sources = []string{}
	}
	if result.Context == nil {
		result.Context = []domain.Snippet{}
	}
	writeJSON(w, http.StatusOK, askResponse{
		Success:    true,
		Answer:     result.Answer,
		Confidence: result.Confidence,
		Sources:    result.Sources,
		Context:    result.Context,
	})
}

func saveUpload(part *multipart.FileHeader, dest string) error {
	src, err := part.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, src)
	return err
}

// sanitizeFilename keeps only the base name and rejects anything that
// could escape the data directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return ""
	}
	return name
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}
