package delivery

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/terra-clan/closet-profile/internal/export"
)

// HTTPDownload writes the document as an attachment response
type HTTPDownload struct {
	W http.ResponseWriter
}

// Download implements Downloader
func (d HTTPDownload) Download(filename string, doc *export.Document) error {
	h := d.W.Header()
	h.Set("Content-Type", doc.ContentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	h.Set("Content-Length", strconv.Itoa(len(doc.Bytes)))
	h.Set("Cache-Control", "no-store")
	d.W.WriteHeader(http.StatusOK)

	if _, err := d.W.Write(doc.Bytes); err != nil {
		return fmt.Errorf("failed to write download: %w", err)
	}
	return nil
}
