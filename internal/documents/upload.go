package documents

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/footprint/pkg/formatting"
)

const contentTypePDF = "application/pdf"

// ParseUpload parses a multipart body capped at limit bytes. Oversized
// bodies yield ErrFileTooLarge naming the limit. Other malformed bodies
// yield ErrInvalidFile.
func ParseUpload(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	err := r.ParseMultipartForm(limit)
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %s", ErrFileTooLarge, formatting.FormatBytes(limit, 0))
	}
	return fmt.Errorf("%w: %v", ErrInvalidFile, err)
}

// ReadUpload loads one multipart file into a CreateCommand. Anything that
// is not a non-empty PDF is rejected. A page count pdfcpu cannot read is
// left nil.
func ReadUpload(fh *multipart.FileHeader, logger *slog.Logger) (CreateCommand, error) {
	invalid := func(format string, args ...any) (CreateCommand, error) {
		return CreateCommand{}, fmt.Errorf("%w: %s: "+format, append([]any{ErrInvalidFile, fh.Filename}, args...)...)
	}

	f, err := fh.Open()
	if err != nil {
		return invalid("%v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	switch {
	case err != nil:
		return invalid("%v", err)
	case len(data) == 0:
		return invalid("empty file")
	}

	ct := contentType(fh.Header.Get("Content-Type"), data)
	if ct != contentTypePDF {
		return invalid("content type %s, want %s", ct, contentTypePDF)
	}

	cmd := CreateCommand{
		Data:        data,
		Filename:    fh.Filename,
		ContentType: ct,
	}
	if n, err := api.PageCount(bytes.NewReader(data), nil); err != nil {
		logger.Warn("pdf page count unavailable", "filename", fh.Filename, "error", err)
	} else {
		cmd.PageCount = &n
	}
	return cmd, nil
}

// contentType trusts the declared media type unless it is missing or
// generic, in which case the bytes are sniffed.
func contentType(declared string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
		return mt
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}
