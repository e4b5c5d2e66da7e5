package docflow

import (
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// ErrorResponse is the JSON envelope every failed request returns
type ErrorResponse struct {
	Timestamp        string            `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Code             string            `json:"code"`
	Path             string            `json:"path"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// NewErrorResponse maps a rich error to the wire envelope
func NewErrorResponse(c router.Context, richErr *errors.Error) ErrorResponse {
	status := richErr.Code
	if status == 0 {
		status = http.StatusInternalServerError
	}

	code := richErr.TextCode
	if code == "" {
		code = textCodeInternalError
	}

	return ErrorResponse{
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		Status:           status,
		Error:            http.StatusText(status),
		Message:          richErr.Message,
		Code:             code,
		Path:             c.Path(),
		ValidationErrors: validationErrorsFromMetadata(richErr),
	}
}

// WriteError renders any error as the JSON envelope. Unknown errors are
// wrapped as internal failures so the raw message never leaks.
func WriteError(c router.Context, logger Logger, err error) error {
	if logger == nil {
		logger = defLogger{}
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "Une erreur interne est survenue").
			WithTextCode(textCodeInternalError).
			WithCode(errors.CodeInternal)
	}

	logger.Info(
		"request error",
		"error", richErr.Message,
		"category", richErr.Category,
		"text_code", richErr.TextCode,
		"path", c.Path(),
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	resp := NewErrorResponse(c, richErr)
	return c.JSON(resp.Status, resp)
}

// WrapValidationError converts an ozzo validation result into a rich
// error carrying the field map in its metadata.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}

	fields := FormatValidationErrorToMap(err)
	richErr := errors.Wrap(err, errors.CategoryValidation, "Les données fournies sont invalides").
		WithTextCode(textCodeValidation).
		WithCode(errors.CodeBadRequest)

	if len(fields) > 0 {
		meta := make(map[string]any, len(fields))
		for k, v := range fields {
			meta[k] = v
		}
		richErr = richErr.WithMetadata(map[string]any{"validationErrors": meta})
	}

	return richErr
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field to message map.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	verrs, ok := err.(validation.Errors)
	if !ok {
		return out
	}

	for field, ferr := range verrs {
		if ferr == nil {
			continue
		}
		out[field] = ferr.Error()
	}

	return out
}

func validationErrorsFromMetadata(richErr *errors.Error) map[string]string {
	if richErr.Metadata == nil {
		return nil
	}

	raw, ok := richErr.Metadata["validationErrors"]
	if !ok {
		return nil
	}

	meta, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	out := make(map[string]string, len(meta))
	for k, v := range meta {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}

	return out
}
