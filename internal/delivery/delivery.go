package delivery

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/terra-clan/closet-profile/internal/export"
	"github.com/terra-clan/closet-profile/internal/metrics"
	"github.com/terra-clan/closet-profile/internal/models"
)

// ShareTitle accompanies a shared summary
const ShareTitle = "Design Vision Summary"

// Device is the coarse client class used to pick a delivery method
type Device string

const (
	DeviceMobile  Device = "mobile"
	DeviceDesktop Device = "desktop"
)

// Method is how a summary reached the client
type Method string

const (
	MethodShare    Method = "share"
	MethodDownload Method = "download"
)

var (
	mobilePattern = regexp.MustCompile(`(?i)Mobi|Android|iPhone|iPad|iPod`)
	unsafeChars   = regexp.MustCompile(`[\\/:*?"<>|']+`)
	spaceRuns     = regexp.MustCompile(`\s+`)
)

// ClassifyDevice maps a User-Agent to mobile or desktop
func ClassifyDevice(userAgent string) Device {
	if mobilePattern.MatchString(userAgent) {
		return DeviceMobile
	}
	return DeviceDesktop
}

// Filename derives "<name> - YYYY-MM-DD.pdf" from the contact name
func Filename(name string, date time.Time) string {
	clean := strings.TrimSpace(name)
	clean = unsafeChars.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(spaceRuns.ReplaceAllString(clean, " "))
	if clean == "" {
		clean = "client"
	}
	return clean + " - " + date.Format("2006-01-02") + ".pdf"
}

// Request is one summary to hand over
type Request struct {
	Document *export.Document
	Filename string
	Title    string
	Contact  models.Contact
}

// Sharer hands the document to a share surface
type Sharer interface {
	Share(ctx context.Context, req Request) error
}

// Downloader delivers the document as a direct download
type Downloader interface {
	Download(filename string, doc *export.Document) error
}

// Adapter chooses between sharing and downloading
type Adapter struct {
	sharer Sharer
}

// NewAdapter creates an adapter; a nil sharer means downloads only
func NewAdapter(sharer Sharer) *Adapter {
	return &Adapter{sharer: sharer}
}

// CanShare reports whether a share surface is configured
func (a *Adapter) CanShare() bool {
	return a.sharer != nil
}

// MethodFor is the method Deliver will try first for device
func (a *Adapter) MethodFor(device Device) Method {
	if device == DeviceMobile && a.CanShare() {
		return MethodShare
	}
	return MethodDownload
}

// Deliver shares on mobile when possible and downloads otherwise.
// A failed share is logged and falls back to download.
func (a *Adapter) Deliver(ctx context.Context, req Request, device Device, dl Downloader) (Method, error) {
	if req.Title == "" {
		req.Title = ShareTitle
	}

	if a.MethodFor(device) == MethodShare {
		err := a.sharer.Share(ctx, req)
		if err == nil {
			metrics.Deliveries.WithLabelValues(string(MethodShare)).Inc()
			slog.Info("summary shared", "filename", req.Filename)
			return MethodShare, nil
		}
		slog.Warn("share failed, falling back to download", "error", err, "filename", req.Filename)
	}

	if err := dl.Download(req.Filename, req.Document); err != nil {
		return MethodDownload, err
	}
	metrics.Deliveries.WithLabelValues(string(MethodDownload)).Inc()
	return MethodDownload, nil
}
