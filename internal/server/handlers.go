package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/RaulQD/kontrak-backend-sub001/internal/ingest"
	"github.com/RaulQD/kontrak-backend-sub001/internal/pipeline"
	"github.com/RaulQD/kontrak-backend-sub001/internal/processors"
	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
)

// ingestUpload reads and validates the uploaded batch, writing the error
// response itself when something is wrong. The boolean reports success.
func (s *Server) ingestUpload(w http.ResponseWriter, r *http.Request) (*pipeline.Pipeline, ingest.Result, bool) {
	data, opts, err := readUpload(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return nil, ingest.Result{}, false
	}
	p, err := s.newPipeline()
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return nil, ingest.Result{}, false
	}
	rows, err := p.ReadRows(data, opts)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return nil, ingest.Result{}, false
	}
	return p, p.ValidateBatch(rows), true
}

// handleValidate runs schema validation only and returns the envelope the
// frontend consumes.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	_, batch, ok := s.ingestUpload(w, r)
	if !ok {
		return
	}
	if len(batch.Errors) > 0 {
		s.jsonResponse(w, http.StatusUnprocessableEntity, types.ValidationResponse{
			Success: false,
			Message: fmt.Sprintf("se encontraron errores en %d filas", batch.InvalidRows()),
			Errors:  batch.Errors,
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, types.ValidationResponse{
		Success: true,
		Message: "validación exitosa",
		Data: &types.ValidationData{
			TotalRecords: batch.TotalRows(),
			Employees:    batch.Records,
		},
	})
}

// handleArchive validates the batch and streams the generated bundle. Failed
// artifacts are skipped inside the archive and logged; the client still gets
// every artifact that did render.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	p, batch, ok := s.ingestUpload(w, r)
	if !ok {
		return
	}
	if len(batch.Records) == 0 {
		s.jsonResponse(w, http.StatusUnprocessableEntity, types.ValidationResponse{
			Success: false,
			Message: "el archivo no contiene registros válidos",
			Errors:  batch.Errors,
		})
		return
	}

	filename := fmt.Sprintf("contratos_%s.zip", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	cw := &countingWriter{w: w}
	summary, err := p.GenerateArchive(r.Context(), batch, cw)
	if err != nil {
		if cw.n == 0 {
			w.Header().Del("Content-Type")
			w.Header().Del("Content-Disposition")
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		// Headers are gone; the truncated stream is all we can signal with.
		log.Printf("[SERVER] archive stream aborted after %d bytes: %v", cw.n, err)
		return
	}
	if summary.Failed > 0 {
		log.Printf("[SERVER] run %s finished with %d failed artifacts", summary.RunID, summary.Failed)
	}
}

// countingWriter tracks whether the response body has started.
type countingWriter struct {
	w http.ResponseWriter
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// serveReport runs one batch report endpoint with its fixed download name.
func (s *Server) serveReport(w http.ResponseWriter, r *http.Request, doc types.DocumentCategory, filename, contentType string) {
	p, batch, ok := s.ingestUpload(w, r)
	if !ok {
		return
	}
	res, nonEmpty, err := p.Report(doc, batch.Records)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !nonEmpty {
		s.errorResponse(w, http.StatusUnprocessableEntity, "ningún registro aplica para este reporte")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Payload)))
	if _, err := w.Write(res.Payload); err != nil {
		log.Printf("[SERVER] error writing report body: %v", err)
	}
}

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvContentType  = "text/csv"
	pdfContentType  = "application/pdf"
)

func (s *Server) handleSctrReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, types.DocSctr, processors.SctrFilename, xlsxContentType)
}

func (s *Server) handleFotocheckReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, types.DocCardID, processors.CardIDFilename, csvContentType)
}

func (s *Server) handleVidaLeyReport(w http.ResponseWriter, r *http.Request) {
	s.serveReport(w, r, types.DocLawlife, processors.LawlifeFilename, xlsxContentType)
}

// handleSingleContract renders the primary contract PDF for one DNI from the
// uploaded batch.
func (s *Server) handleSingleContract(w http.ResponseWriter, r *http.Request) {
	dni := r.PathValue("dni")
	p, batch, ok := s.ingestUpload(w, r)
	if !ok {
		return
	}
	res, err := p.SingleContract(r.Context(), dni, batch.Records)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", pdfContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Payload)))
	if _, err := w.Write(res.Payload); err != nil {
		log.Printf("[SERVER] error writing contract body: %v", err)
	}
}
