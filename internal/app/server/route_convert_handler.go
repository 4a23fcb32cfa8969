package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/charmbracelet/log"

	"netcalc/internal/conversion"
	"netcalc/internal/netcalc"
	"netcalc/internal/support"
)

const maxMultipartMemory = 8 << 20

type handlers struct {
	svc  *conversion.Service
	opts Options
}

type convertResponse struct {
	Output string `json:"output"`
}

type errorResponse struct {
	Error    string `json:"error"`
	Kind     string `json:"kind,omitempty"`
	Token    string `json:"token,omitempty"`
	Position int    `json:"position,omitempty"`
}

type validateResponse struct {
	Valid  bool            `json:"valid"`
	Errors []errorResponse `json:"errors,omitempty"`
}

func (h *handlers) convert(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readRequest(w, r)
	if !ok {
		return
	}

	out, err := h.svc.Convert(r.Context(), req)
	if err != nil {
		writeConversionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{Output: out})
}

func (h *handlers) validate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readRequest(w, r)
	if !ok {
		return
	}

	err := h.svc.Validate(r.Context(), req)
	if err == nil {
		writeJSON(w, http.StatusOK, validateResponse{Valid: true})
		return
	}
	if errors.Is(err, conversion.ErrInputTooLarge) || errors.Is(err, netcalc.ErrUnknownFamily) {
		writeConversionError(w, err)
		return
	}

	resp := validateResponse{Valid: false}
	for _, e := range unwrapJoined(err) {
		resp.Errors = append(resp.Errors, toErrorResponse(e))
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}

func (h *handlers) summary(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readRequest(w, r)
	if !ok {
		return
	}

	summary, err := h.svc.Summarize(r.Context(), req)
	if err != nil {
		writeConversionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// readRequest accepts a JSON body, a form (fields family, separator, input and
// an optional file upload) or a plain text body with family and separator in
// the query string.
func (h *handlers) readRequest(w http.ResponseWriter, r *http.Request) (conversion.Request, bool) {
	if h.opts.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	}

	var req conversion.Request
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json", "":
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBodyError(w, err, "Invalid JSON body")
			return req, false
		}
	case "multipart/form-data", "application/x-www-form-urlencoded":
		input, err := readFormInput(r)
		if err != nil {
			writeBodyError(w, err, "Failed to read form")
			return req, false
		}
		req = conversion.Request{
			Family:    r.FormValue("family"),
			Separator: r.FormValue("separator"),
			Input:     input,
		}
	case "text/plain":
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeBodyError(w, err, "Failed to read body")
			return req, false
		}
		query := r.URL.Query()
		req = conversion.Request{
			Family:    query.Get("family"),
			Separator: query.Get("separator"),
			Input:     string(body),
		}
	default:
		writeError(w, "Unsupported content type", http.StatusUnsupportedMediaType)
		return req, false
	}

	if req.Family == "" {
		req.Family = h.opts.Defaults.Family
	}
	if req.Separator == "" {
		req.Separator = h.opts.Defaults.Separator
	}
	req.Separator = support.TranslateSeparator(req.Separator)
	return req, true
}

// readFormInput merges the textarea field with an uploaded file, as the
// browser front end may send either.
func readFormInput(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return "", err
	}

	input := r.FormValue("input")
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return input, nil
		}
		return "", err
	}
	defer file.Close()

	log.Debugf("Uploaded file: %s (%d bytes)", header.Filename, header.Size)
	content, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	if input == "" {
		return string(content), nil
	}
	return input + "\n" + string(content), nil
}

func writeBodyError(w http.ResponseWriter, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	writeError(w, msg, http.StatusBadRequest)
}

func writeConversionError(w http.ResponseWriter, err error) {
	if errors.Is(err, conversion.ErrInputTooLarge) {
		writeError(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	var convErr *netcalc.ConversionError
	if errors.As(err, &convErr) {
		writeJSON(w, http.StatusBadRequest, toErrorResponse(convErr))
		return
	}

	log.Error("Conversion failed", "error", err)
	writeError(w, "Conversion failed", http.StatusInternalServerError)
}

func toErrorResponse(err error) errorResponse {
	var convErr *netcalc.ConversionError
	if !errors.As(err, &convErr) {
		return errorResponse{Error: err.Error()}
	}
	return errorResponse{
		Error:    convErr.Error(),
		Kind:     convErr.Kind(),
		Token:    convErr.Token,
		Position: convErr.Position,
	}
}

func unwrapJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
