package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"fraudscreen/internal/export"
	"fraudscreen/internal/ingest"
	"fraudscreen/internal/screening"
	"fraudscreen/internal/screening/store"
	dErrors "fraudscreen/pkg/domain-errors"
	"fraudscreen/pkg/platform/httputil"
	"fraudscreen/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service is the screening service as seen by the HTTP layer.
type Service interface {
	Screen(ctx context.Context, raw []screening.RawRecord) (*screening.Report, error)
	Get(ctx context.Context, reportID string) (*screening.Report, error)
	Flags(ctx context.Context, reportID, flagType string) ([]screening.FraudFlag, error)
	List(ctx context.Context, limit int) ([]store.ReportSummary, error)
}

const (
	// ReportIDHeader carries the archived report id so the analyze body stays
	// exactly {summary, results}.
	ReportIDHeader    = "X-Report-ID"
	ProcessedAtHeader = "X-Processed-At"

	uploadField         = "file"
	multipartMemoryCap  = 32 << 20
	defaultMaxBodyBytes = 50 << 20
)

// Handler serves the screening API.
type Handler struct {
	service      Service
	logger       *slog.Logger
	maxBodyBytes int64
}

// New creates a screening Handler. maxBodyBytes <= 0 selects 50 MiB.
func New(service Service, logger *slog.Logger, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &Handler{
		service:      service,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}

// Register mounts the API routes on r. Callers add auth middleware to r first.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/analyze", h.handleAnalyze)
	r.Post("/api/analyze/upload", h.handleUpload)
	r.Get("/api/reports", h.handleListReports)
	r.Get("/api/reports/{id}", h.handleGetReport)
	r.Get("/api/reports/{id}/flags", h.handleReportFlags)
	r.Get("/api/reports/{id}/export", h.handleExportReport)
}

// HandleHealth reports liveness.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": requestcontext.Now(r.Context()).UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	raw, err := ingest.DecodeJSON(body)
	if err != nil {
		h.writeDecodeError(ctx, w, err)
		return
	}
	h.screen(ctx, w, raw)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	if err := r.ParseMultipartForm(multipartMemoryCap); err != nil {
		h.writeDecodeError(ctx, w, dErrors.Wrap(err, dErrors.CodeBadRequest, "expected a multipart upload"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "missing file field"))
		return
	}
	defer func() { _ = file.Close() }()

	format, err := ingest.DetectFormat(header.Filename)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	raw, err := ingest.Read(file, format)
	if err != nil {
		h.writeDecodeError(ctx, w, err)
		return
	}
	h.screen(ctx, w, raw)
}

func (h *Handler) screen(ctx context.Context, w http.ResponseWriter, raw []screening.RawRecord) {
	requestID := requestcontext.RequestID(ctx)
	h.logger.InfoContext(ctx, "received records for analysis",
		"count", len(raw),
		"request_id", requestID,
	)

	report, err := h.service.Screen(ctx, raw)
	if err != nil {
		h.logFailure(ctx, "failed to screen batch", err)
		httputil.WriteError(w, err)
		return
	}

	h.writeReportHeaders(w, report)
	httputil.WriteJSON(w, http.StatusOK, report.Outcome)
}

func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.logFailure(ctx, "failed to load report", err)
		httputil.WriteError(w, err)
		return
	}
	h.writeReportHeaders(w, report)
	httputil.WriteJSON(w, http.StatusOK, report.Outcome)
}

func (h *Handler) handleReportFlags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flagType := r.URL.Query().Get("type")
	if flagType == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "type query parameter is required"))
		return
	}
	flags, err := h.service.Flags(ctx, chi.URLParam(r, "id"), flagType)
	if err != nil {
		h.logFailure(ctx, "failed to load report flags", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, flags)
}

func (h *Handler) handleListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	list, err := h.service.List(ctx, limit)
	if err != nil {
		h.logFailure(ctx, "failed to list reports", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleExportReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := h.service.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.logFailure(ctx, "failed to load report for export", err)
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s.xlsx", report.ID))
	h.writeReportHeaders(w, report)
	if err := export.WriteXLSX(w, report.Outcome); err != nil {
		// Headers are gone; all that is left is to log.
		h.logFailure(ctx, "failed to write report export", err)
	}
}

func (h *Handler) writeReportHeaders(w http.ResponseWriter, report *screening.Report) {
	w.Header().Set(ReportIDHeader, report.ID.String())
	w.Header().Set(ProcessedAtHeader, report.ProcessedAt.UTC().Format(time.RFC3339))
}

// writeDecodeError maps body read failures to client errors, turning an
// exceeded body limit into payload_too_large.
func (h *Handler) writeDecodeError(ctx context.Context, w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.logger.WarnContext(ctx, "request body too large",
			"limit_bytes", tooLarge.Limit,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodePayloadTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))
		return
	}
	h.logger.WarnContext(ctx, "invalid analyze request",
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	level := slog.LevelWarn
	if de, ok := dErrors.As(err); !ok || de.Code == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
	)
}
