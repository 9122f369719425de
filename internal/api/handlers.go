package api

import (
	"net/http"

	"github.com/Veraticus/taxwise/internal/credit"
	"github.com/Veraticus/taxwise/internal/ingest"
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/Veraticus/taxwise/internal/tax"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req transactionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	txns, skipped, err := req.toModel()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	classified := s.classifier.ClassifyAll(txns)
	resp := classifyResponse{Transactions: make([]classifiedTransaction, 0, len(classified)), Skipped: skipped}
	for _, txn := range classified {
		resp.Transactions = append(resp.Transactions, newClassifiedTransaction(txn))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req transactionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	txns, skipped, err := req.toModel()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.optimize(w, r, txns, req.FinancialYear, skipped)
}

func (s *Server) handleOptimizeCSV(w http.ResponseWriter, r *http.Request) {
	batch, err := ingest.ReadCSV(http.MaxBytesReader(w, r.Body, maxBodyBytes), "upload")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.optimize(w, r, batch.Transactions, r.URL.Query().Get("financial_year"), batch.Skipped)
}

func (s *Server) optimize(w http.ResponseWriter, r *http.Request, txns []model.Transaction, fy string, skipped int) {
	classified := s.classifier.ClassifyAll(txns)
	if fy != "" {
		inYear, err := tax.FilterFinancialYear(classified, fy)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		skipped += len(classified) - len(inYear)
		classified = inYear
	}

	report, err := tax.Optimize(classified, s.classifier.Rules().Aggregation)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	now := s.now()
	if fy == "" {
		fy = tax.FinancialYearOf(classified, now)
	}

	calc := report.Record(fy, now)
	resp := optimizeResponse{
		Advice:  report.Recommendation.Advice,
		Skipped: skipped,
	}

	if s.store != nil {
		if err := s.store.SaveTaxCalculation(r.Context(), &calc); err != nil {
			s.logger.Warn("failed to save tax calculation", "error", err)
		} else {
			resp.Saved = true
		}
	}
	resp.Calculation = calc
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreditScore(w http.ResponseWriter, r *http.Request) {
	var in credit.Inputs
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	assessment, err := credit.Assess(in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleWhatIf(w http.ResponseWriter, r *http.Request) {
	var req whatIfRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	assessment, err := credit.Assess(req.Inputs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	delta, err := credit.Simulate(req.Inputs, req.Scenario)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, whatIfResponse{Assessment: assessment, Delta: delta})
}

func (s *Server) handleAdvisory(w http.ResponseWriter, r *http.Request) {
	var req advisoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	delta, err := req.toDelta()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.advisor.Advise(r.Context(), delta))
}
