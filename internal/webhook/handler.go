package webhook

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/mattjoyce/hookscope/internal/payload"
	"github.com/mattjoyce/hookscope/internal/report"
	"github.com/mattjoyce/hookscope/internal/signature"
)

// Handler captures, renders and verifies every request it receives.
// It holds no per-request state and is safe for concurrent use.
type Handler struct {
	config    Config
	formatter *report.Formatter
	sink      report.Sink
	logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewHandler creates a handler writing one block per request to sink.
func NewHandler(config Config, formatter *report.Formatter, sink report.Sink, logger *slog.Logger) *Handler {
	return &Handler{
		config:    config.withDefaults(),
		formatter: formatter,
		sink:      sink,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// ServeHTTP handles a single webhook delivery. The response body is always
// empty; diagnostics go to the sink only.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	receivedAt := h.now()

	id := middleware.GetReqID(r.Context())
	if id == "" {
		id = h.newID()
	}
	logger := h.logger.With("request_id", id)

	body, err := readBody(r.Body, h.config.MaxBodySize)
	if errors.Is(err, ErrBodyTooLarge) {
		logger.Warn("webhook body exceeds limit",
			"path", r.URL.Path,
			"max_body_size", h.config.MaxBodySize,
		)
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}
	if err != nil {
		// The request is abandoned: nothing is verified or printed.
		logger.Warn("failed to read webhook body",
			"path", r.URL.Path,
			"error", err,
		)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	rendered := payload.Render(body, r.Header.Get("Content-Type"))

	value, present := signatureValue(r.Header, h.config.SignatureHeader)
	outcome := signature.Verify(h.config.Secret, body, value, present)

	block := h.formatter.Format(report.Entry{
		ID:         id,
		ReceivedAt: receivedAt,
		Method:     r.Method,
		Path:       r.URL.RequestURI(),
		Proto:      r.Proto,
		RemoteAddr: r.RemoteAddr,
		Headers:    collectHeaders(r),
		Payload:    rendered,
		Outcome:    outcome,
		Secret:     string(h.config.Secret),
	})
	if err := h.sink.Write(block); err != nil {
		logger.Error("failed to write request report", "error", err)
	}

	status := outcome.StatusCode()
	switch {
	case !outcome.Attempted():
		logger.Debug("signature header missing, verification skipped", "header", h.config.SignatureHeader)
	case outcome.Status == signature.Failed:
		logger.Warn("webhook signature verification failed",
			"path", r.URL.Path,
			"reason", outcome.Reason.String(),
			"status", status,
		)
	default:
		logger.Debug("webhook signature verified")
	}

	w.WriteHeader(status)
}
