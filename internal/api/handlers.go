package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/khanhnv2901/nis2-assess/internal/compliance"
	"github.com/khanhnv2901/nis2-assess/internal/domain/assessment"
	"github.com/khanhnv2901/nis2-assess/internal/export"
	"github.com/khanhnv2901/nis2-assess/internal/report"
	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

const reportDateLayout = "2006-01-02"

type answerRequest struct {
	Value *int `json:"value"`
}

type commentRequest struct {
	Comment string `json:"comment"`
}

type reportRequest struct {
	Organization     string `json:"organization"`
	AssessmentPeriod string `json:"assessment_period"`
	PreparedBy       string `json:"prepared_by"`
	ApprovedBy       string `json:"approved_by"`
	ReportDate       string `json:"report_date"`
}

// AnswerView is the API shape of one answered-or-not question.
type AnswerView struct {
	QuestionID     string `json:"question_id"`
	SelectedAnswer *int   `json:"selected_answer"`
	Label          string `json:"label,omitempty"`
	Comments       string `json:"comments,omitempty"`
}

// AnswersView lists the recorded answers with overall progress.
type AnswersView struct {
	Answered  int                            `json:"answered"`
	Total     int                            `json:"total"`
	Responses map[string]assessment.Response `json:"responses"`
}

// ComplianceView is the per-requirement evaluation with its summary.
type ComplianceView struct {
	Requirements []compliance.RequirementStatus `json:"requirements"`
	Summary      compliance.Summary             `json:"summary"`
}

func newAnswerView(q assessment.AnsweredQuestion) AnswerView {
	v := AnswerView{QuestionID: q.ID, SelectedAnswer: q.SelectedAnswer, Comments: q.Comments}
	if q.SelectedAnswer != nil {
		v.Label, _ = q.LabelFor(*q.SelectedAnswer)
	}
	return v
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sections": s.cfg.Assessment.Catalog().Sections(),
	})
}

func (s *Server) handleRequirements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"framework":    s.cfg.Assessment.Framework(),
		"requirements": s.cfg.Assessment.Requirements(),
	})
}

func (s *Server) handleAnswers(w http.ResponseWriter, r *http.Request) {
	snap := s.cfg.Assessment.Snapshot()
	writeJSON(w, http.StatusOK, AnswersView{
		Answered:  snap.AnsweredCount(),
		Total:     snap.Catalog().QuestionCount(),
		Responses: snap.Responses(),
	})
}

func (s *Server) handleSetAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if req.Value == nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("value is required: %w", sharedErrors.ErrValidation))
		return
	}

	q, err := s.cfg.Assessment.SetAnswer(r.Context(), chi.URLParam(r, "questionID"), *req.Value)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAnswerView(q))
}

func (s *Server) handleClearAnswer(w http.ResponseWriter, r *http.Request) {
	q, err := s.cfg.Assessment.ClearAnswer(r.Context(), chi.URLParam(r, "questionID"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAnswerView(q))
}

func (s *Server) handleSetComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	q, err := s.cfg.Assessment.SetComment(r.Context(), chi.URLParam(r, "questionID"), req.Comment)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAnswerView(q))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Assessment.Reset(r.Context()); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg.Assessment.Scores())
}

func (s *Server) handleCompliance(w http.ResponseWriter, r *http.Request) {
	statuses, summary := s.cfg.Assessment.Compliance()
	writeJSON(w, http.StatusOK, ComplianceView{Requirements: statuses, Summary: summary})
}

// handleReport assembles a report from the posted metadata. Without a format
// query parameter the JSON record is returned; otherwise the rendered file.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	meta, err := req.metadata()
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	format := export.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		if format, err = export.ParseFormat(q); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}

	rep, err := s.cfg.Assessment.Report(meta)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if format == export.FormatJSON {
		writeJSON(w, http.StatusOK, rep)
		return
	}

	if s.cfg.Exporter == nil {
		s.writeError(w, r, http.StatusNotImplemented, errors.New("report export not available"))
		return
	}
	var buf bytes.Buffer
	if err := s.cfg.Exporter.Write(r.Context(), format, &buf, rep); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	name := export.FileName(format, rep.Metadata.ReportDate)
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.requestLogger(r).Error("failed to write response", zap.Error(err))
	}
}

func (req reportRequest) metadata() (report.Metadata, error) {
	meta := report.Metadata{
		Organization:     strings.TrimSpace(req.Organization),
		AssessmentPeriod: req.AssessmentPeriod,
		PreparedBy:       req.PreparedBy,
		ApprovedBy:       req.ApprovedBy,
	}
	if req.ReportDate != "" {
		date, err := time.Parse(reportDateLayout, req.ReportDate)
		if err != nil {
			return report.Metadata{}, fmt.Errorf("report_date must be YYYY-MM-DD: %w", sharedErrors.ErrValidation)
		}
		meta.ReportDate = date
	}
	return meta, nil
}
