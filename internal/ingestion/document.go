package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/skillbridge/internal/fetch"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Format is a supported document format.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatHTML    Format = "html"
	FormatText    Format = "text"
	FormatUnknown Format = "unknown"
)

// DefaultMaxBytes is the largest accepted upload.
const DefaultMaxBytes = 10 << 20

// Options controls document normalization.
type Options struct {
	// MaxChars caps the normalized text; longer text is truncated.
	MaxChars int
	// MaxJobChars caps job description text. Zero means MaxChars.
	MaxJobChars int
	// MaxBytes rejects larger documents. Zero means DefaultMaxBytes.
	MaxBytes int
	// MinChars rejects shorter texts. Zero means MinChars; negative disables the check.
	MinChars int
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{MaxChars: DefaultMaxChars, MaxJobChars: DefaultMaxChars, MaxBytes: DefaultMaxBytes, MinChars: MinChars}
}

// JobMaxChars returns the cap applied to job description text.
func (o Options) JobMaxChars() int {
	if o.MaxJobChars != 0 {
		return o.MaxJobChars
	}
	return o.MaxChars
}

// Document is the analysis-ready text of an uploaded resume.
type Document struct {
	Text      string
	Format    Format
	Pages     int
	Truncated bool
	Metadata  *Metadata
}

// DetectFormat identifies the document format from its content, falling back
// to the file extension of name when the content is ambiguous.
func DetectFormat(data []byte, name string) Format {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return FormatPDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		if bytes.Contains(data, []byte("word/document.xml")) {
			return FormatDOCX
		}
		return FormatUnknown
	}

	if strings.HasPrefix(http.DetectContentType(data), "text/html") {
		return FormatHTML
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		if utf8.Valid(data) {
			return FormatHTML
		}
	}

	if utf8.Valid(data) && printableRatio(data) >= 0.9 {
		return FormatText
	}
	return FormatUnknown
}

// ExtractDocument extracts, cleans and truncates the text of a resume
// document. Every page or section is concatenated into one block.
func ExtractDocument(data []byte, name string, opts Options) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &UnreadableDocumentError{Reason: ReasonEmpty}
	}

	maxBytes := opts.MaxBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxBytes
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, &UnreadableDocumentError{
			Reason: fmt.Sprintf("%s (%d bytes, limit %d)", ReasonTooLarge, len(data), maxBytes),
		}
	}

	format := DetectFormat(data, name)
	var (
		sections []string
		err      error
	)
	switch format {
	case FormatPDF:
		sections, err = extractPDF(data)
	case FormatDOCX:
		sections, err = extractDOCX(data)
	case FormatHTML:
		sections, err = extractHTML(data)
	case FormatText:
		sections = []string{string(data)}
	default:
		return nil, &UnreadableDocumentError{Reason: ReasonUnsupported, Format: format}
	}
	if err != nil {
		return nil, &UnreadableDocumentError{Reason: ReasonCorrupt, Format: format, Cause: err}
	}

	text, truncated, err := Normalize(strings.Join(sections, "\n\n"), opts)
	if err != nil {
		var unreadable *UnreadableDocumentError
		if errors.As(err, &unreadable) {
			unreadable.Format = format
		}
		return nil, err
	}

	if truncated {
		slog.Info("resume text truncated",
			slog.String("format", string(format)),
			slog.Int("max_chars", opts.MaxChars))
	}

	meta := NewMetadata(text, name, format)
	meta.Pages = len(sections)
	meta.Truncated = truncated

	return &Document{
		Text:      text,
		Format:    format,
		Pages:     len(sections),
		Truncated: truncated,
		Metadata:  meta,
	}, nil
}

// Normalize cleans raw resume text, truncates it to opts.MaxChars and
// flattens it to one line.
// It fails with UnreadableDocumentError when nothing usable remains.
func Normalize(raw string, opts Options) (string, bool, error) {
	cleaned := CleanText(raw)
	if cleaned == "" {
		return "", false, &UnreadableDocumentError{Reason: ReasonNoText}
	}

	minChars := opts.MinChars
	if minChars == 0 {
		minChars = MinChars
	}
	if minChars > 0 && utf8.RuneCountInString(cleaned) < minChars {
		return "", false, &UnreadableDocumentError{
			Reason: fmt.Sprintf("%s (%d characters, need %d)", ReasonTooShort, utf8.RuneCountInString(cleaned), minChars),
		}
	}
	if !hasLetters(cleaned) {
		return "", false, &UnreadableDocumentError{Reason: ReasonNoText}
	}

	// Line breaks are still cut points here; Flatten only shortens.
	text, truncated := Truncate(cleaned, opts.MaxChars)
	return Flatten(text), truncated, nil
}

func extractPDF(data []byte) (pages []string, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("pdf reader: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			slog.Debug("skipping unreadable pdf page", slog.Int("page", i), slog.Any("error", err))
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br/>|<w:cr/>`)
	docxTab          = regexp.MustCompile(`<w:tab/>`)
	xmlTag           = regexp.MustCompile(`<[^>]*>`)
)

func extractDOCX(data []byte) ([]string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	// GetContent returns the raw document.xml body.
	content := doc.Editable().GetContent()
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, " ")
	content = xmlTag.ReplaceAllString(content, "")
	return []string{html.UnescapeString(content)}, nil
}

func extractHTML(data []byte) ([]string, error) {
	text, err := fetch.DocumentText(string(data))
	if err != nil {
		return nil, err
	}
	return []string{text}, nil
}

func printableRatio(data []byte) float64 {
	total, printable := 0, 0
	for _, r := range string(data) {
		total++
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(printable) / float64(total)
}

func hasLetters(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
