// Package pdf provides a page extractor for PDF leaflets.
//
// Page geometry comes from pdfcpu. Page text comes from poppler's pdftotext,
// cropped to the page with a band of FooterPoints clipped from the bottom so
// running footers do not leak into the extracted sections.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// DefaultFooterPoints is the height clipped from the bottom of each page.
const DefaultFooterPoints = 80

const toolName = "pdftotext"

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		return nil, ErrPDFToolNotFound
	}
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor opens PDF files for per-page extraction.
type Extractor struct {
	runner   CommandRunner
	footer   float64
	pageDims func(path string) ([]types.Dim, error)
}

// New creates an extractor that runs the installed pdftotext.
func New(footerPoints float64) *Extractor {
	return NewWithRunner(execRunner{}, footerPoints)
}

// NewWithRunner creates an extractor with a custom command runner.
func NewWithRunner(runner CommandRunner, footerPoints float64) *Extractor {
	if footerPoints < 0 {
		footerPoints = DefaultFooterPoints
	}
	return &Extractor{
		runner:   runner,
		footer:   footerPoints,
		pageDims: readPageDims,
	}
}

// Extensions returns the handled file extensions.
func (e *Extractor) Extensions() []string {
	return []string{"pdf"}
}

// Open reads the page geometry of the file at path.
func (e *Extractor) Open(_ context.Context, path string) (driven.PageSource, error) {
	dims, err := e.pageDims(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", path, err)
	}
	return &pageSource{
		path:   path,
		dims:   dims,
		footer: e.footer,
		runner: e.runner,
	}, nil
}

func readPageDims(path string) ([]types.Dim, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.PageDims(f, conf)
}

type pageSource struct {
	path   string
	dims   []types.Dim
	footer float64
	runner CommandRunner
}

func (s *pageSource) PageCount() int {
	return len(s.dims)
}

// PageText runs pdftotext on a single page with the footer band cropped.
func (s *pageSource) PageText(ctx context.Context, page int) (string, error) {
	if page < 1 || page > len(s.dims) {
		return "", fmt.Errorf("%w: page %d of %d", domain.ErrInvalidInput, page, len(s.dims))
	}

	n := strconv.Itoa(page)
	out, err := s.runner.Run(ctx, toolName, cropArgs(n, s.dims[page-1], s.footer, s.path)...)
	if err != nil {
		if errors.Is(err, ErrPDFToolNotFound) {
			return "", fmt.Errorf("%w: %w", domain.ErrExtractorUnavailable, err)
		}
		return "", fmt.Errorf("pdftotext failed on page %d: %w", page, err)
	}
	return strings.TrimRight(strings.ToValidUTF8(string(out), ""), "\f"), nil
}

func cropArgs(page string, dim types.Dim, footer float64, path string) []string {
	height := math.Max(dim.Height-footer, 0)
	return []string{
		"-f", page, "-l", page,
		"-x", "0", "-y", "0",
		"-W", strconv.Itoa(int(math.Ceil(dim.Width))),
		"-H", strconv.Itoa(int(math.Floor(height))),
		"-enc", "UTF-8",
		path, "-",
	}
}

func (s *pageSource) Close() error {
	return nil
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath(toolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns how to install pdftotext on common platforms.
func InstallInstructions() string {
	return `pdftotext is required to read PDF leaflets. Install poppler:

  macOS:          brew install poppler
  Debian/Ubuntu:  sudo apt install poppler-utils
  Fedora:         sudo dnf install poppler-utils
  Windows:        choco install poppler`
}
