package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/terra-clan/closet-profile/internal/models"
)

// ErrEngineUnavailable is returned by every export once initialisation failed
var ErrEngineUnavailable = errors.New("pdf engine unavailable")

// ContentType of generated documents
const ContentType = "application/pdf"

// Font file names looked up in EngineConfig.FontDir
const (
	FontRegularFile = "Regular.ttf"
	FontBoldFile    = "Bold.ttf"
	FontItalicFile  = "Italic.ttf"
)

// Document is a generated summary
type Document struct {
	Bytes       []byte
	ContentType string
	GeneratedAt time.Time
}

// EngineConfig configures the PDF engine
type EngineConfig struct {
	FontDir   string // optional UTF-8 TrueType fonts; empty uses the core Helvetica
	LogoPath  string // optional PNG drawn in the header
	Signature string
	Hardware  [2]models.Category
}

type fontSet struct {
	family  string
	utf8    bool
	regular []byte
	bold    []byte
	italic  []byte
}

// Engine renders summaries to PDF. Initialisation runs once, on first use
// or via Init, and its outcome is kept for the life of the engine.
type Engine struct {
	cfg      EngineConfig
	readFile func(string) ([]byte, error)
	init     func() (*fontSet, error)
}

// NewEngine creates an engine; no files are read until first use
func NewEngine(cfg EngineConfig) *Engine {
	e := &Engine{cfg: cfg, readFile: os.ReadFile}
	e.init = sync.OnceValues(e.loadFonts)
	return e
}

// Init runs initialisation now and reports its cached result
func (e *Engine) Init() error {
	_, err := e.init()
	return err
}

func (e *Engine) loadFonts() (*fontSet, error) {
	if e.cfg.FontDir == "" {
		slog.Info("pdf engine ready", "fonts", "core")
		return &fontSet{family: "Helvetica"}, nil
	}

	fs := &fontSet{family: "body", utf8: true}
	for name, dst := range map[string]*[]byte{
		FontRegularFile: &fs.regular,
		FontBoldFile:    &fs.bold,
		FontItalicFile:  &fs.italic,
	} {
		data, err := e.readFile(filepath.Join(e.cfg.FontDir, name))
		if err != nil {
			slog.Error("pdf engine init failed", "error", err, "font_dir", e.cfg.FontDir)
			return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
		}
		*dst = data
	}

	slog.Info("pdf engine ready", "fonts", e.cfg.FontDir)
	return fs, nil
}

// Export renders form into a PDF dated now
func (e *Engine) Export(ctx context.Context, form *models.FormState, now time.Time) (*Document, error) {
	fonts, err := e.init()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := newPDFCanvas(fonts)
	c.pdf.SetTitle("Closet Profile", true)
	c.pdf.SetCreator("closet-profile", true)
	c.pdf.SetCreationDate(now)

	Layout(c, form, Options{
		Date:      now,
		Logo:      e.logo(),
		Signature: e.cfg.Signature,
		Hardware:  e.cfg.Hardware,
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	return &Document{
		Bytes:       buf.Bytes(),
		ContentType: ContentType,
		GeneratedAt: now,
	}, nil
}

// logo reads the header image; a missing file only costs the logo
func (e *Engine) logo() []byte {
	if e.cfg.LogoPath == "" {
		return nil
	}
	data, err := e.readFile(e.cfg.LogoPath)
	if err != nil {
		slog.Warn("logo not added to summary", "error", err, "path", e.cfg.LogoPath)
		return nil
	}
	return data
}
