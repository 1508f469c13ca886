// Package archive streams generated artifacts into a single compressed zip
// bundle with deterministic entry paths.
package archive

import (
	"archive/zip"
	"compress/flate"
	"fmt"
	"io"
	"log"
	"path"

	"github.com/RaulQD/kontrak-backend-sub001/internal/types"
)

// Assembler writes ContractResults into a zip stream as they arrive. Entries
// are compressed at the maximum level. Not safe for concurrent use; the
// scheduler already serializes emission.
type Assembler struct {
	zw      *zip.Writer
	verbose bool
	written int
	skipped int
}

// NewAssembler wraps the destination stream. The caller owns w; Close
// finalizes the zip directory but does not close w.
func NewAssembler(w io.Writer, verbose bool) *Assembler {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})
	return &Assembler{zw: zw, verbose: verbose}
}

// EntryPath builds the deterministic archive location for a result:
// {contractCategory}/{documentSubfolder}/{filename}. Batch reports that span
// categories drop the category segment.
func EntryPath(res types.ContractResult) string {
	if res.Category == "" {
		return path.Join(res.Document.Subfolder(), res.Filename)
	}
	return path.Join(res.Category.Folder(), res.Document.Subfolder(), res.Filename)
}

// Append writes one result into the bundle. Failed results are logged and
// skipped, never written.
func (a *Assembler) Append(res types.ContractResult) error {
	if !res.Success {
		a.skipped++
		log.Printf("[ARCHIVE] skipping failed artifact %s (%s): %s", res.Filename, res.Document, res.Error)
		return nil
	}
	entry, err := a.zw.Create(EntryPath(res))
	if err != nil {
		return fmt.Errorf("failed to create archive entry %s: %w", res.Filename, err)
	}
	if _, err := entry.Write(res.Payload); err != nil {
		return fmt.Errorf("failed to write archive entry %s: %w", res.Filename, err)
	}
	a.written++
	return nil
}

// Close finalizes the bundle. Call only after the scheduler has signalled
// completion of every group.
func (a *Assembler) Close() error {
	if err := a.zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	if a.verbose {
		log.Printf("[ARCHIVE] finalized: %d entries written, %d failures skipped", a.written, a.skipped)
	}
	return nil
}
