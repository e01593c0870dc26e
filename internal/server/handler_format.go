package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sukalov/lyricsfmt/internal/db"
	"github.com/sukalov/lyricsfmt/internal/formatter"
	"github.com/sukalov/lyricsfmt/internal/logger"
	"github.com/sukalov/lyricsfmt/internal/lyrics"
)

type formatResponse struct {
	ID      string            `json:"id"`
	Text    string            `json:"text"`
	Metrics formatter.Metrics `json:"metrics"`
}

type recordResponse struct {
	ID        string            `json:"id"`
	Source    string            `json:"source"`
	Lang      formatter.Lang    `json:"lang"`
	Input     string            `json:"input"`
	Output    string            `json:"output"`
	Metrics   formatter.Metrics `json:"metrics"`
	CreatedAt string            `json:"created_at"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

func (s *Server) handleStages(w http.ResponseWriter, r *http.Request) {
	type stage struct {
		Name        string `json:"name"`
		EnglishOnly bool   `json:"english_only"`
	}

	var result []stage
	for _, st := range formatter.Stages() {
		result = append(result, stage{Name: st.Name, EnglishOnly: st.EnglishOnly})
	}
	writeJson(w, result)
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	req, err := readRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	opts, err := s.options(req.Options)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	input, source := req.Text, "http"
	var output string

	if req.URL != "" {
		res, err := s.lyrics.FormatLyrics(r.Context(), req.URL, opts)
		if errors.Is(err, lyrics.ErrUnsupportedSource) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		input, output, source = res.Text, res.Formatted, res.Source
	} else {
		output = formatter.Format(input, opts)
	}

	metrics := formatter.Check(output)
	id := uuid.NewString()

	if s.history != nil {
		rec, err := s.history.SaveRecord(r.Context(), db.NewRecord(0, source, opts.Lang, input, output, metrics))
		if err != nil {
			logger.LogWithErr("failed to save record", err)
		} else {
			id = rec.ID
		}
	}

	writeJson(w, formatResponse{
		ID:      id,
		Text:    output,
		Metrics: metrics,
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	req, err := readRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJson(w, formatter.Check(req.Text))
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, nil)
		return
	}

	rec, err := s.history.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJson(w, recordResponse{
		ID:        rec.ID,
		Source:    rec.Source,
		Lang:      rec.Lang,
		Input:     rec.Input,
		Output:    rec.Output,
		Metrics:   formatter.Check(rec.Output),
		CreatedAt: rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}
