package ingest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestParseJSONArray(t *testing.T) {
	input := `[
		{"title": "First", "full_text": "Body one", "source": "Reuters"},
		{"title": "Second", "full_text": "Body two", "publish_date": "2024-03-01"}
	]`

	articles, err := Parse("upload.json", strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "First" || articles[0].Source != "Reuters" {
		t.Errorf("unexpected first article: %+v", articles[0])
	}
	if articles[1].PublishDate == nil {
		t.Fatal("expected parsed publish date on second article")
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !articles[1].PublishDate.Equal(want) {
		t.Errorf("publish date = %v, want %v", articles[1].PublishDate, want)
	}
}

func TestParseJSONWrappedObject(t *testing.T) {
	input := `{"articles": [{"title": "Wrapped", "full_text": "Text"}]}`

	articles, err := Parse("upload.json", strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "Wrapped" {
		t.Errorf("unexpected articles: %+v", articles)
	}
}

func TestParseJSONRejectsOtherShapes(t *testing.T) {
	if _, err := Parse("upload.json", strings.NewReader(`{"rows": []}`)); err == nil {
		t.Error("expected error for object without articles key")
	}
	if _, err := Parse("upload.json", strings.NewReader(`"just a string"`)); err == nil {
		t.Error("expected error for non-array JSON")
	}
}

func TestParseCSVHeaderMapping(t *testing.T) {
	input := "full_text,Title,url\n" +
		"Body text,Headline,https://example.com/a\n" +
		"Other body,Second headline\n"

	articles, err := Parse("upload.csv", strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].Title != "Headline" || articles[0].FullText != "Body text" {
		t.Errorf("columns mapped wrong: %+v", articles[0])
	}
	if articles[0].URL != "https://example.com/a" {
		t.Errorf("url = %q", articles[0].URL)
	}
	// Short row: missing trailing columns read as empty.
	if articles[1].URL != "" {
		t.Errorf("expected empty url on short row, got %q", articles[1].URL)
	}
}

func TestParseCSVNoDataRows(t *testing.T) {
	if _, err := Parse("upload.csv", strings.NewReader("title,full_text\n")); err == nil {
		t.Error("expected error for header-only CSV")
	}
}

func TestParseXLSX(t *testing.T) {
	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	rows := [][]interface{}{
		{"title", "source", "full_text", "publish_date"},
		{"Sheet article", "AP", "Spreadsheet body", "01/15/2024"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		t.Fatal(err)
	}

	articles, err := Parse("upload.xlsx", &buf)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].Title != "Sheet article" || articles[0].FullText != "Spreadsheet body" {
		t.Errorf("unexpected article: %+v", articles[0])
	}
	if articles[0].PublishDate == nil || articles[0].PublishDate.Month() != time.January {
		t.Errorf("publish date = %v", articles[0].PublishDate)
	}
}

func TestParseRejectsUnknownExtension(t *testing.T) {
	if _, err := Parse("upload.pdf", strings.NewReader("")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestParseRequiresTitleAndFullText(t *testing.T) {
	input := `[{"title": "Has title only"}]`
	if _, err := Parse("upload.json", strings.NewReader(input)); err == nil {
		t.Error("expected validation error when full_text is missing")
	}
	input = `[{"full_text": "Has body only"}]`
	if _, err := Parse("upload.json", strings.NewReader(input)); err == nil {
		t.Error("expected validation error when title is missing")
	}
}

func TestParseDateLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want *time.Time
	}{
		{"2024-06-30", timePtr(2024, time.June, 30)},
		{"06/15/2024", timePtr(2024, time.June, 15)},
		{"June 3, 2024", timePtr(2024, time.June, 3)},
		{"  2024-01-02  ", timePtr(2024, time.January, 2)},
		{"", nil},
		{"not a date", nil},
	}

	for _, tc := range cases {
		got := ParseDate(tc.in)
		if tc.want == nil {
			if got != nil {
				t.Errorf("ParseDate(%q) = %v, want nil", tc.in, got)
			}
			continue
		}
		if got == nil || !got.Equal(*tc.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func timePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
