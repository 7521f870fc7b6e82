package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/logger"
	"alfredoptarigan/hiring-agent/internal/screening"
)

// PDFParserService reads resumes and job descriptions out of PDF files.
type PDFParserService interface {
	screening.PageExtractor
	ExtractTextWithMetaData(ctx context.Context, filePath string) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
	FilePath  string
}

type pdfParserService struct {
	logger *zap.Logger
}

func NewPDFParserService(log *zap.Logger) PDFParserService {
	return &pdfParserService{logger: logger.OrNop(log)}
}

// ExtractPages returns one entry per page, in order. Pages that cannot be
// decoded come back empty so page numbering is preserved.
func (p *pdfParserService) ExtractPages(ctx context.Context, filePath string) ([]string, error) {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file does not exist: %s", filePath)
		}
		return nil, fmt.Errorf("failed to stat PDF: %w", err)
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	totalPage := r.NumPage()
	pages := make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := r.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.Warn("skipping unreadable pdf page",
				zap.String("file", filePath),
				zap.Int("page", pageIndex),
				zap.Error(err),
			)
			pages = append(pages, "")
			continue
		}

		pages = append(pages, text)
	}

	return pages, nil
}

func (p *pdfParserService) ExtractTextWithMetaData(ctx context.Context, filePath string) (*PDFContent, error) {
	pages, err := p.ExtractPages(ctx, filePath)
	if err != nil {
		return nil, err
	}

	text := screening.JoinPages(pages)
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("no text content found in PDF")
	}

	return &PDFContent{
		Text:      text,
		PageCount: len(pages),
		FilePath:  filePath,
	}, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleanedLines := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
