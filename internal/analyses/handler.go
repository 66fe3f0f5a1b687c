package analyses

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/clausewise/pkg/formatting"
	"github.com/JaimeStill/clausewise/pkg/handlers"
	"github.com/JaimeStill/clausewise/pkg/identity"
	"github.com/JaimeStill/clausewise/pkg/pagination"
	"github.com/JaimeStill/clausewise/pkg/routes"
)

const (
	fileField = "contract"
	typeField = "contractType"
)

var pdfMagic = []byte("%PDF-")

// Handler provides HTTP endpoints for contract analyses.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// AnalyzeRequest is the JSON body of an analyze call that reuses a staged upload.
type AnalyzeRequest struct {
	UploadKey    string `json:"uploadKey"`
	ContractType string `json:"contractType"`
}

// NewHandler creates a Handler with the given system, logger, pagination config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "analyses"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for contract endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/contracts",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/detect", Handler: h.Detect},
			{Method: "POST", Pattern: "/analyze", Handler: h.Analyze},
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// Detect accepts a multipart PDF upload and returns its detected type along
// with the staged upload key.
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	data, err := h.readUpload(w, r)
	if err != nil {
		h.fail(w, err)
		return
	}

	result, err := h.sys.Detect(r.Context(), DetectCommand{OwnerID: owner, Data: data})
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Analyze accepts either a multipart upload with a contractType field or a
// JSON body naming a staged upload.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	cmd := AnalyzeCommand{OwnerID: owner}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		data, err := h.readUpload(w, r)
		if err != nil {
			h.fail(w, err)
			return
		}
		cmd.Data = data
		cmd.ContractType = r.FormValue(typeField)
	} else {
		var req AnalyzeRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}
		cmd.UploadKey = req.UploadKey
		cmd.ContractType = req.ContractType
	}

	analysis, err := h.sys.Analyze(r.Context(), cmd)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, analysis)
}

// List returns the caller's analyses, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), owner, page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single analysis owned by the caller.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.fail(w, ErrInvalidID)
		return
	}

	analysis, err := h.sys.Find(r.Context(), id, owner)
	if err != nil {
		h.fail(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, analysis)
}

// Delete removes an analysis owned by the caller.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.fail(w, ErrInvalidID)
		return
	}

	if err := h.sys.Delete(r.Context(), id, owner); err != nil {
		h.fail(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := identity.OwnerFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrMissingIdentity)
	}
	return owner, ok
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
}

// readUpload parses the multipart body and returns the contract file bytes.
// Files must be PDFs no larger than the configured limit.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+(1<<20))

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, h.tooLarge()
		}
		return nil, ErrMissingFile
	}

	file, header, err := r.FormFile(fileField)
	if err != nil {
		return nil, ErrMissingFile
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		return nil, h.tooLarge()
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > h.maxUploadSize {
		return nil, h.tooLarge()
	}

	if !isPDF(header.Header.Get("Content-Type"), data) {
		return nil, ErrInvalidFile
	}
	return data, nil
}

func (h *Handler) tooLarge() error {
	return fmt.Errorf("%w (limit %s)", ErrFileTooLarge, formatting.FormatBytes(h.maxUploadSize, 0))
}

func isPDF(contentType string, data []byte) bool {
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return false
		}
		if mediaType != "application/pdf" && mediaType != "application/octet-stream" {
			return false
		}
	}
	return bytes.HasPrefix(data, pdfMagic)
}
