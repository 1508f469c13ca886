package server

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/RaulQD/kontrak-backend-sub001/internal/ingest"
)

// maxUploadBytes bounds the in-memory multipart parse.
const maxUploadBytes = 32 << 20

// readUpload extracts the spreadsheet buffer and sheet options from a
// multipart request. Malformed uploads fail here, before validation begins.
func readUpload(r *http.Request) ([]byte, ingest.Options, error) {
	var opts ingest.Options

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, opts, &ErrUpload{Message: "invalid multipart upload: " + err.Error()}
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, opts, &ErrUpload{Message: "missing file field"}
	}
	defer func() { _ = file.Close() }()

	switch ext := strings.ToLower(filepath.Ext(header.Filename)); ext {
	case ".xlsx", ".xlsm":
	default:
		return nil, opts, &ErrUpload{Message: "unsupported file extension: expected .xlsx"}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, opts, &ErrUpload{Message: "unreadable upload: " + err.Error()}
	}
	if len(data) == 0 {
		return nil, opts, &ErrUpload{Message: "empty upload"}
	}

	opts.Sheet = r.FormValue("sheet")
	if v := r.FormValue("headerRow"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, opts, &ErrUpload{Message: "headerRow must be a positive integer"}
		}
		opts.HeaderRow = n
	}
	if v := r.FormValue("skipEmpty"); v != "" {
		opts.SkipEmpty = v == "1" || strings.EqualFold(v, "true")
	}
	return data, opts, nil
}
