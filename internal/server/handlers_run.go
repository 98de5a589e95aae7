package server

import (
	"log/slog"
	"net/http"

	"github.com/jonathan/skillbridge/internal/pipeline"
	"github.com/jonathan/skillbridge/internal/types"
)

type runRequest struct {
	ResumeText          string `json:"resume_text" validate:"required"`
	JobText             string `json:"job_text" validate:"required_without=JobURL"`
	JobURL              string `json:"job_url" validate:"omitempty,http_url"`
	Skill               string `json:"skill" validate:"max=200"`
	SkipRecommendations bool   `json:"skip_recommendations"`
	UseBrowser          bool   `json:"use_browser"`
}

type runComplete struct {
	Report   types.Report `json:"report"`
	Warnings []string     `json:"warnings,omitempty"`
}

// handleRunStream runs the whole pipeline and streams progress as
// Server-Sent Events: "progress" per step, then "complete" or "error".
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	res, err := s.pipeline.Run(r.Context(), pipeline.RunOptions{
		ResumeText:          req.ResumeText,
		JobText:             req.JobText,
		JobURL:              req.JobURL,
		Skill:               req.Skill,
		SkipRecommendations: req.SkipRecommendations,
		UseBrowser:          req.UseBrowser,
		OnProgress: func(event pipeline.ProgressEvent) {
			if err := sse.Progress(event); err != nil {
				slog.Debug("progress event not delivered", slog.Any("error", err))
			}
		},
	})
	if err != nil {
		_, body := errorBody(err)
		slog.Warn("streamed run failed", slog.Any("error", err))
		sse.Fail(body)
		return
	}

	sse.Complete(runComplete{Report: res.Report, Warnings: res.Warnings})
}
