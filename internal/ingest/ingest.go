// Package ingest parses admin article uploads. JSON, CSV and XLSX files are
// accepted; each row or object becomes one article.
package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jshaha/cognitive-load-annotation/internal/models"
)

// ArticleInput is one parsed upload row before validation.
type ArticleInput struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	PublishDate string `json:"publish_date"`
	FullText    string `json:"full_text"`
}

// Parse dispatches on the uploaded file's extension.
func Parse(filename string, r io.Reader) ([]models.Article, error) {
	var (
		inputs []ArticleInput
		err    error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		inputs, err = ParseJSON(r)
	case ".csv":
		inputs, err = ParseCSV(r)
	case ".xlsx":
		inputs, err = ParseXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file format %q: upload JSON, CSV or XLSX", filepath.Ext(filename))
	}
	if err != nil {
		return nil, err
	}
	return toArticles(inputs)
}

// ParseJSON accepts either a bare array of articles or an object with an
// "articles" key.
func ParseJSON(r io.Reader) ([]ArticleInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var list []ArticleInput
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Articles []ArticleInput `json:"articles"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Articles != nil {
		return wrapped.Articles, nil
	}
	return nil, fmt.Errorf("JSON must be an array of articles or an object with an \"articles\" key")
}

// ParseCSV reads a header-labelled CSV file.
func ParseCSV(r io.Reader) ([]ArticleInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	inputs := make([]ArticleInput, 0, len(records)-1)
	for _, row := range records[1:] {
		inputs = append(inputs, ArticleInput{
			Title:       field(row, "title"),
			Source:      field(row, "source"),
			URL:         field(row, "url"),
			PublishDate: field(row, "publish_date"),
			FullText:    field(row, "full_text"),
		})
	}
	return inputs, nil
}

// ParseXLSX reads the first sheet of a workbook, expecting the same header
// columns as the CSV form.
func ParseXLSX(r io.Reader) ([]ArticleInput, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheets[0])
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	inputs := make([]ArticleInput, 0, len(rows)-1)
	for _, row := range rows[1:] {
		inputs = append(inputs, ArticleInput{
			Title:       field(row, "title"),
			Source:      field(row, "source"),
			URL:         field(row, "url"),
			PublishDate: field(row, "publish_date"),
			FullText:    field(row, "full_text"),
		})
	}
	return inputs, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"January 2, 2006",
}

// ParseDate tries the accepted publish-date layouts in order. Empty and
// unparseable strings yield nil rather than an error: a missing date should
// not block an upload.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func toArticles(inputs []ArticleInput) ([]models.Article, error) {
	articles := make([]models.Article, 0, len(inputs))
	for i, in := range inputs {
		if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.FullText) == "" {
			return nil, fmt.Errorf("entry %d: title and full_text are required", i+1)
		}
		articles = append(articles, models.Article{
			Title:       in.Title,
			Source:      in.Source,
			URL:         in.URL,
			PublishDate: ParseDate(in.PublishDate),
			FullText:    in.FullText,
		})
	}
	return articles, nil
}
