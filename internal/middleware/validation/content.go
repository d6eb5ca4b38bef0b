package validation

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type tooLargeError struct{ max int64 }

func (e *tooLargeError) Error() string {
	return fmt.Sprintf("request body çok büyük. Maksimum boyut: %d bytes", e.max)
}

type mediaTypeError struct{ msg string }

func (e *mediaTypeError) Error() string { return e.msg }

// ValidateContent content validation (JSON, Content-Type, Content-Length)
func ValidateContent(r *http.Request, config *Config) error {
	if r.ContentLength > config.MaxBodySize {
		return &tooLargeError{max: config.MaxBodySize}
	}

	// Content-Type sadece body taşıyan metodlarda
	if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
		if err := validateContentType(r, config.ContentTypes); err != nil {
			return err
		}
	}

	if config.JSONValidation && isJSONRequest(r) {
		if err := validateJSONBody(r, config); err != nil {
			return err
		}
	}

	return nil
}

// validateContentType content type'ı doğrular
func validateContentType(r *http.Request, allowedTypes []string) error {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return &mediaTypeError{msg: "Content-Type header gerekli"}
	}

	// charset parametresi olabilir
	for _, allowedType := range allowedTypes {
		if strings.HasPrefix(contentType, allowedType) {
			return nil
		}
	}

	return &mediaTypeError{msg: fmt.Sprintf("desteklenmeyen Content-Type: %s. İzin verilen tipler: %s",
		contentType, strings.Join(allowedTypes, ", "))}
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// validateJSONBody body'yi okuyup geri koyar. Webhook imzası ham byte'lar
// üzerinden doğrulandığı için body değiştirilmez.
func validateJSONBody(r *http.Request, config *Config) error {
	if r.Body == nil || r.Body == http.NoBody {
		if config.RequireNonEmptyJSON {
			return fmt.Errorf("JSON body gerekli")
		}
		return nil
	}

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return &tooLargeError{max: config.MaxBodySize}
		}
		return fmt.Errorf("request body okunamadı: %w", err)
	}
	r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		if config.RequireNonEmptyJSON {
			return fmt.Errorf("JSON body boş olamaz")
		}
		return nil
	}

	if !json.Valid(bodyBytes) {
		return fmt.Errorf("geçersiz JSON formatı")
	}
	return nil
}
