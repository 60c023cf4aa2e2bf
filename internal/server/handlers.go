package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hyperjump/sozoku/internal/models"
	"github.com/hyperjump/sozoku/internal/storage"
	"github.com/hyperjump/sozoku/pkg/utils"
	"go.uber.org/zap"
)

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	if strings.TrimSpace(req.Query) == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return "", false
	}
	return req.Query, true
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	query, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}
	s.logger.Debug("chat request", zap.Int("query_runes", utils.RuneLen(query)))

	flusher, _ := w.(http.Flusher)
	started := false
	err := s.chat.Stream(r.Context(), query, func(fragment string) error {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if _, err := w.Write([]byte(fragment)); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err == nil {
		return
	}
	if started {
		s.logger.Error("chat stream cut", zap.Error(err))
		return
	}
	s.logger.Error("chat failed", zap.Error(err))
	s.respondError(w, statusFor(err), err.Error())
}

func (s *Server) handleChatStructured(w http.ResponseWriter, r *http.Request) {
	query, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}
	answer, err := s.chat.AnswerStructured(r.Context(), query)
	if err != nil {
		s.logger.Error("structured chat failed", zap.Error(err))
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	if answer.Sources == nil {
		answer.Sources = []string{}
	}
	s.respondJSON(w, http.StatusOK, answer)
}

type classifyResponse struct {
	*models.CategoryScores
	Summary string `json:"summary"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	query, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}
	scores, err := s.classifier.Classify(r.Context(), query)
	if err != nil {
		s.logger.Error("classify failed", zap.Error(err))
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, classifyResponse{CategoryScores: scores, Summary: scores.String()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	chunkCount, err := s.storage.CountChunks(ctx)
	if err != nil {
		s.logger.Error("status: count chunks failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sources, err := s.storage.ListSources(ctx)
	if err != nil {
		s.logger.Error("status: list sources failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"chunks":            chunkCount,
		"sources":           len(sources),
		"vector_index_size": s.index.IndexSize(),
		"vector_index_type": s.index.IndexType(),
	}

	if s.config != nil {
		resp["config"] = map[string]interface{}{
			"embedding_provider":   s.config.Embedding.Provider,
			"embedding_model":      s.config.Embedding.Model,
			"embedding_dimensions": s.config.Embedding.Dimensions,
			"llm_provider":         s.config.LLM.Provider,
			"llm_model":            s.config.LLM.Model,
			"chunk_size":           s.config.Chunking.Size,
			"chunk_overlap":        s.config.Chunking.Overlap,
			"top_k":                s.config.Retrieval.TopK,
			"threshold_enabled":    s.config.Retrieval.ThresholdEnabled,
			"threshold":            s.config.Retrieval.Threshold,
			"template":             s.config.Retrieval.Template,
			"index_path":           s.config.Storage.IndexPath,
		}
		diskBytes, err := storage.DiskUsageBytes(s.config.Storage.IndexPath)
		if err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
