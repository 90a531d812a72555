package transcribe

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/auditflow/auditflow/internal/platform/httpx"
)

const (
	defaultFilename    = "audio.m4a"
	defaultMaxBytes    = 25 << 20
	missingFileMessage = `No file part in the request or the field name is incorrect. The field name must be "file".`
	failureMessage     = "An error occurred during transcription"
)

// Handler serves the transcription endpoint.
type Handler struct {
	logger      *slog.Logger
	transcriber Transcriber
	model       string
	maxBytes    int64
}

// NewHandler constructs handler. A non-positive maxBytes selects 25 MiB.
func NewHandler(logger *slog.Logger, transcriber Transcriber, model string, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &Handler{logger: logger, transcriber: transcriber, model: model, maxBytes: maxBytes}
}

// MountRoutes registers routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.transcribe)
}

func (h *Handler) transcribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.Problem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", "audio upload exceeds the configured limit")
			return
		}
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", missingFileMessage)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	audio, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filename := header.Filename
	if filename == "" {
		filename = defaultFilename
	}
	text, err := h.transcriber.Transcribe(r.Context(), Request{
		Audio:    audio,
		Filename: filename,
		MIMEType: detectMIMEType(header.Header.Get("Content-Type"), filename),
		Model:    h.model,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"transcription": text})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if h.logger != nil {
		h.logger.Error("error during transcription",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Any("error", err),
		)
	}
	httpx.Problem(w, http.StatusInternalServerError, "Transcription Failed", failureMessage)
}
