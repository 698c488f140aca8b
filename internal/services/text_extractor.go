package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrNoTextContent       = errors.New("no text content found")
)

// SupportedExtensions lists the file types ExtractText understands.
var SupportedExtensions = []string{".pdf", ".docx", ".txt"}

const extractConcurrency = 4

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	docxTab          = regexp.MustCompile(`<w:tab/>|<w:br/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// FileInput is an in-memory upload.
type FileInput struct {
	Name string
	Data []byte
}

type TextExtractor interface {
	ExtractText(filename string, data []byte) (string, error)
	ExtractFile(path string) (string, error)
	ExtractMultiple(ctx context.Context, files []FileInput) map[string]*string
	IsSupported(filename string) bool
	ScanFolder(path string) ([]string, error)
	ExtractFolder(ctx context.Context, path string) (map[string]string, error)
}

type textExtractor struct {
	log *zap.Logger
}

func NewTextExtractor(log *zap.Logger) TextExtractor {
	return &textExtractor{log: log}
}

// ExtractText implements TextExtractor. The file type is taken from the
// extension of filename.
func (t *textExtractor) ExtractText(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = extractPDFText(data)
	case ".docx":
		text, err = extractDocxText(data)
	case ".txt":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%s is not valid UTF-8", filename)
		}
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(filename))
	}
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// ExtractFile implements TextExtractor.
func (t *textExtractor) ExtractFile(path string) (string, error) {
	if !t.IsSupported(path) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return t.ExtractText(filepath.Base(path), data)
}

// ExtractMultiple implements TextExtractor. A file that cannot be read maps to
// nil; the batch as a whole never fails.
func (t *textExtractor) ExtractMultiple(ctx context.Context, files []FileInput) map[string]*string {
	results := make(map[string]*string, len(files))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(extractConcurrency)

	for _, file := range files {
		g.Go(func() error {
			var value *string
			if gCtx.Err() == nil {
				text, err := t.ExtractText(file.Name, file.Data)
				if err != nil {
					t.log.Warn("⚠️ Failed to extract text", zap.String("file", file.Name), zap.Error(err))
				} else {
					value = &text
				}
			}

			mu.Lock()
			results[file.Name] = value
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()

	return results
}

// IsSupported implements TextExtractor.
func (t *textExtractor) IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// ScanFolder implements TextExtractor. Only the top level is listed; results
// are full paths sorted by name.
func (t *textExtractor) ScanFolder(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("folder not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !t.IsSupported(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	sort.Strings(files)

	return files, nil
}

// ExtractFolder implements TextExtractor. Results are keyed by file name;
// files that fail are logged and skipped.
func (t *textExtractor) ExtractFolder(ctx context.Context, path string) (map[string]string, error) {
	paths, err := t.ScanFolder(path)
	if err != nil {
		return nil, err
	}

	t.log.Info("📂 Extracting folder", zap.String("path", path), zap.Int("files", len(paths)))

	inputs := make([]FileInput, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.log.Warn("⚠️ Failed to read file", zap.String("file", p), zap.Error(err))
			continue
		}
		inputs = append(inputs, FileInput{Name: filepath.Base(p), Data: data})
	}

	texts := make(map[string]string, len(inputs))
	for name, text := range t.ExtractMultiple(ctx, inputs) {
		if text != nil && *text != "" {
			texts[name] = *text
		}
	}

	return texts, nil
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	text := normalizeLines(textBuilder.String())
	if text == "" {
		return "", fmt.Errorf("%w in PDF", ErrNoTextContent)
	}

	return text, nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	text := normalizeLines(docxXMLToText(doc.Editable().GetContent()))
	if text == "" {
		return "", fmt.Errorf("%w in docx", ErrNoTextContent)
	}

	return text, nil
}

// docxXMLToText turns WordprocessingML into plain text, one line per paragraph.
func docxXMLToText(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, " ")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}

// normalizeLines collapses runs of spaces and tabs inside each line and drops
// blank lines. Extracted PDF and DOCX text is full of both.
func normalizeLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		if fields := strings.Fields(line); len(fields) > 0 {
			kept = append(kept, strings.Join(fields, " "))
		}
	}

	return strings.Join(kept, "\n")
}
