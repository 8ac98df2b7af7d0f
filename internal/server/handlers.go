package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finview-dev/finview/internal/model"
	"github.com/finview-dev/finview/internal/parse"
	"github.com/finview-dev/finview/internal/plaid"
	"github.com/finview-dev/finview/internal/statement"
)

// transactionJSON is the wire shape of one table row.
type transactionJSON struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Balance     string `json:"balance,omitempty"`
	SourceFile  string `json:"source_file,omitempty"`
	Hash        string `json:"hash,omitempty"`
}

type tableResponse struct {
	UploadID     string            `json:"upload_id,omitempty"`
	Count        int               `json:"count"`
	Transactions []transactionJSON `json:"transactions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleUpload accepts a multipart statement upload (field "file",
// optional field "format") and answers with the parsed table.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	txns, err := parse.File(header.Filename, data, r.FormValue("format"))
	if err != nil {
		status, reason := classifyParseErr(err)
		s.metrics.ParseFailures.WithLabelValues(reason).Inc()
		s.writeError(w, status, err)
		return
	}

	format := r.FormValue("format")
	if format == "" {
		format = "auto"
	}
	s.metrics.StatementsParsed.WithLabelValues(format).Inc()

	writeJSON(w, http.StatusOK, tableResponse{
		UploadID:     uuid.NewString(),
		Count:        len(txns),
		Transactions: toJSON(txns),
	})
}

type plaidFetchRequest struct {
	AccessToken string `json:"access_token"`
	Days        int    `json:"days"`
}

// handlePlaidFetch pulls recent transactions for an access token.
func (s *Server) handlePlaidFetch(w http.ResponseWriter, r *http.Request) {
	if s.fetcher == nil {
		s.writeError(w, http.StatusServiceUnavailable, errors.New("plaid credentials not configured"))
		return
	}

	var req plaidFetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.AccessToken == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("access_token is required"))
		return
	}

	txns, err := s.fetcher.RecentTransactions(r.Context(), req.AccessToken, req.Days)
	if err != nil {
		s.metrics.PlaidFetches.WithLabelValues("error").Inc()
		s.writeError(w, http.StatusBadGateway, err)
		return
	}
	s.metrics.PlaidFetches.WithLabelValues("ok").Inc()

	writeJSON(w, http.StatusOK, tableResponse{
		Count:        len(txns),
		Transactions: toJSON(txns),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// classifyParseErr maps the parse error taxonomy onto HTTP statuses.
func classifyParseErr(err error) (int, string) {
	var unsupported *parse.UnsupportedFileTypeError
	if errors.As(err, &unsupported) {
		return http.StatusUnsupportedMediaType, "unsupported-type"
	}
	var mismatch *statement.FormatMismatchError
	if errors.As(err, &mismatch) {
		return http.StatusUnprocessableEntity, "format-mismatch"
	}
	var malformed *statement.MalformedLineError
	if errors.As(err, &malformed) {
		return http.StatusUnprocessableEntity, "malformed-line"
	}
	var external *plaid.ExternalServiceError
	if errors.As(err, &external) {
		return http.StatusBadGateway, "external"
	}
	return http.StatusUnprocessableEntity, "parse"
}

func toJSON(txns []model.Transaction) []transactionJSON {
	rows := make([]transactionJSON, 0, len(txns))
	for _, t := range txns {
		row := transactionJSON{
			Date:        t.Date.Format("2006-01-02"),
			Description: t.Description,
			Amount:      t.Amount.StringFixed(2),
			SourceFile:  t.SourceFile,
			Hash:        t.Hash,
		}
		if t.Balance != nil {
			row.Balance = t.Balance.StringFixed(2)
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", zap.Int("status", status), zap.Error(err))
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
