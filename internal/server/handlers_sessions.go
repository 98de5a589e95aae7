package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/skillbridge/internal/pipeline"
)

type createSessionResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type documentRequest struct {
	Text string `json:"text" validate:"required"`
}

type jobRequest struct {
	Text       string `json:"text" validate:"required_without=URL"`
	URL        string `json:"url" validate:"omitempty,http_url"`
	UseBrowser bool   `json:"use_browser"`
}

// session returns the session named by the {id} path value.
func (s *Server) session(r *http.Request) (*pipeline.Session, error) {
	id := r.PathValue("id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, &ErrSessionNotFound{ID: id}
	}
	return sess, nil
}

// handleCreateSession starts a session and issues its token.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	token, expiresAt, err := s.tokens.GenerateToken(sess.ID)
	if err != nil {
		s.sessions.Delete(sess.ID)
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, createSessionResponse{ID: sess.ID, Token: token, ExpiresAt: expiresAt})
}

// handleGetSession returns a snapshot of the session.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sess.State())
}

// handleDeleteSession ends the session.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.sessions.Delete(id) {
		s.errorResponse(w, r, &ErrSessionNotFound{ID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSessionDocument stores a resume, either uploaded as the multipart
// "file" part or pasted as JSON text.
func (s *Server) handleSessionDocument(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	var text string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
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
		text = doc.Text
	} else {
		var req documentRequest
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.errorResponse(w, r, err)
			return
		}
		if text, err = s.pipeline.NormalizeResumeText(req.Text); err != nil {
			s.errorResponse(w, r, err)
			return
		}
	}

	sess.SetDocument(text)
	s.jsonResponse(w, http.StatusOK, sess.State())
}

// handleSessionJob stores the job description.
func (s *Server) handleSessionJob(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	var req jobRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	text, err := s.jobText(r, req.Text, req.URL, req.UseBrowser)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	sess.SetJob(text)
	s.jsonResponse(w, http.StatusOK, sess.State())
}

// handleSessionAnalysis analyzes the stored resume and job.
func (s *Server) handleSessionAnalysis(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	gap, err := sess.Analyze(r.Context(), s.pipeline)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, analyzeResponse{SkillGap: gap})
}

// handleSessionRecommendations selects a missing skill and fetches its videos.
// A later selection makes this request fail with 409.
func (s *Server) handleSessionRecommendations(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	var req recommendRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	rec, err := sess.Select(r.Context(), s.pipeline, req.Skill)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleSessionReport downloads the report of the session's current state.
func (s *Server) handleSessionReport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	rep, err := sess.Report(time.Now())
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.reportResponse(w, r, rep)
}
