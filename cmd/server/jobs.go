package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Simplici0/printcost/internal/jobs"
	"github.com/Simplici0/printcost/internal/margin"
	"github.com/Simplici0/printcost/internal/pricing"
	"github.com/Simplici0/printcost/internal/quote"
	"github.com/Simplici0/printcost/internal/reports"
)

type calculateRequest struct {
	Job   pricing.Job          `json:"job"`
	Chart pricing.ChartOptions `json:"chart"`
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	q, err := s.jobs.Quote(r.Context(), currentUser(r).ID, req.Job, req.Chart)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *server) handleQuoteDocument(w http.ResponseWriter, r *http.Request) {
	var req quote.Request
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validateQuoteRequest(&req); err != nil {
		s.fail(w, r, err)
		return
	}

	company, err := s.store.CompanySettings(r.Context(), currentUser(r).ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := quote.Render(&buf, quote.Build(req, company, s.now())); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

type marginResponse struct {
	Input   string      `json:"input"`
	Percent float64     `json:"percent"`
	Tier    margin.Tier `json:"tier"`
}

func (s *server) handleMargin(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("value")
	writeJSON(w, http.StatusOK, marginResponse{
		Input:   raw,
		Percent: margin.Normalize(margin.Parse(raw)),
		Tier:    margin.ClassifyString(raw),
	})
}

func (s *server) handleSaveJob(w http.ResponseWriter, r *http.Request) {
	var d jobs.Draft
	if err := decodeJSON(w, r, &d); err != nil {
		s.fail(w, r, err)
		return
	}
	d.Client = strings.TrimSpace(d.Client)
	d.Product = strings.TrimSpace(d.Product)

	owner := currentUser(r).ID
	rec, err := s.jobs.Save(r.Context(), owner, d)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	// Stock changed.
	s.forget(r, owner)
	writeJSON(w, http.StatusCreated, rec)
}

type historyResponse struct {
	Records []jobs.Record  `json:"records"`
	Totals  reports.Totals `json:"totals"`
}

func (s *server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	records, err := s.history(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Records: records, Totals: reports.Total(records)})
}

// history loads the caller's records filtered and sorted by the query string.
func (s *server) history(r *http.Request) ([]jobs.Record, error) {
	v := r.URL.Query()
	q, err := reports.ParseQuery(v.Get("category"), v.Get("sort"), v.Get("order"))
	if err != nil {
		return nil, badRequest{msg: err.Error()}
	}
	records, err := s.store.ListHistory(r.Context(), currentUser(r).ID)
	if err != nil {
		return nil, err
	}
	return reports.Apply(records, q), nil
}

func (s *server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.DeleteHistory(r.Context(), currentUser(r).ID, id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleSummary(w http.ResponseWriter, r *http.Request) {
	owner := currentUser(r).ID
	records, err := s.store.ListHistory(r.Context(), owner)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	categories, err := s.store.ListCategories(r.Context(), owner)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports.Summarize(records, categories))
}

func (s *server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "csv", "text/csv; charset=utf-8", reports.WriteCSV)
}

func (s *server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", reports.WriteXLSX)
}

// export renders into a buffer first so a failure can still produce a
// proper error response.
func (s *server) export(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(w io.Writer, records []jobs.Record) error) {
	records, err := s.history(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, records); err != nil {
		s.fail(w, r, err)
		return
	}

	name := fmt.Sprintf("history-%s.%s", s.now().Format("2006-01-02"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = buf.WriteTo(w)
}
