package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/skillbridge/internal/ingestion"
	"github.com/jonathan/skillbridge/internal/report"
	"github.com/jonathan/skillbridge/internal/types"
)

// maxJSONBytes bounds JSON request bodies.
const maxJSONBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type analyzeRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
	JobText    string `json:"job_text" validate:"required_without=JobURL"`
	JobURL     string `json:"job_url" validate:"omitempty,http_url"`
	UseBrowser bool   `json:"use_browser"`
}

type analyzeResponse struct {
	SkillGap *types.SkillGap `json:"skill_gap"`
	Warnings []string        `json:"warnings,omitempty"`
}

type recommendRequest struct {
	Skill string `json:"skill" validate:"required,max=200"`
}

type reportRequest struct {
	SkillGap       *types.SkillGap          `json:"skill_gap" validate:"required"`
	Recommendation *types.RecommendationSet `json:"recommendation"`
}

type normalizeResponse struct {
	Text      string              `json:"text"`
	Format    ingestion.Format    `json:"format"`
	Pages     int                 `json:"pages"`
	Truncated bool                `json:"truncated"`
	Metadata  *ingestion.Metadata `json:"metadata,omitempty"`
}

// decodeJSON reads a JSON body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return validateStruct(dst)
}

// validateStruct converts the first validator failure to ErrValidation.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag())}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

// readUpload reads the "file" part of a multipart request.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", &ErrValidation{Field: "file", Message: err.Error()}
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", &ErrValidation{Field: "file", Message: err.Error()}
	}
	return data, header.Filename, nil
}

// handleNormalize extracts text from an uploaded resume.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	data, name, err := s.readUpload(w, r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	doc, err := s.pipeline.NormalizeDocument(data, name)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, normalizeResponse{
		Text:      doc.Text,
		Format:    doc.Format,
		Pages:     doc.Pages,
		Truncated: doc.Truncated,
		Metadata:  doc.Metadata,
	})
}

// handleAnalyze compares resume text with a job description.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	resume, err := s.pipeline.NormalizeResumeText(req.ResumeText)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	job, err := s.jobText(r, req.JobText, req.JobURL, req.UseBrowser)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	gap, err := s.pipeline.Analyze(r.Context(), resume, job)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, analyzeResponse{
		SkillGap: gap,
		Warnings: ingestion.ContentWarnings(resume, job),
	})
}

// jobText normalizes pasted job text or fetches it from url.
func (s *Server) jobText(r *http.Request, text, url string, useBrowser bool) (string, error) {
	if strings.TrimSpace(url) != "" {
		return s.pipeline.IngestJobURL(r.Context(), url, useBrowser)
	}
	return s.pipeline.NormalizeJob(text)
}

// handleRecommend finds learning videos for any skill.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	rec, err := s.pipeline.Recommend(r.Context(), req.Skill)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleReport assembles a report from client-held results and returns it
// as a download.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	if err := report.Check(req.SkillGap, req.Recommendation); err != nil {
		s.errorResponse(w, r, &ErrValidation{Field: "recommendation", Message: err.Error()})
		return
	}

	s.reportResponse(w, r, s.pipeline.AssembleReport(req.SkillGap, req.Recommendation, time.Now()))
}

// reportResponse writes rep as a JSON attachment.
func (s *Server) reportResponse(w http.ResponseWriter, r *http.Request, rep types.Report) {
	data, err := report.Export(rep)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(rep)))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck
}
