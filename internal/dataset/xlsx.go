package dataset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column headers of the spreadsheet. url_video identifies the row; the
// remaining columns are created with defaults when absent from the file.
const (
	colURL            = "url_video"
	colUsername       = "tiktok_username"
	colFollowers      = "followers_count"
	colLikes          = "video_likes"
	colViews          = "video_views"
	colDescription    = "video_description"
	colPublishDate    = "publish_date"
	colTranscript     = "transcription"
	colTranscriptLang = "transcript_language"
	colLastError      = "extraction_error"
)

var derivedColumns = []string{
	colUsername,
	colFollowers,
	colLikes,
	colViews,
	colDescription,
	colPublishDate,
	colTranscript,
	colTranscriptLang,
	colLastError,
}

// XLSXStore reads and writes the dataset as an Excel workbook. Save
// overwrites the file through a temp file + rename, so a crash mid-write
// leaves the previous full flush intact.
type XLSXStore struct {
	path  string
	sheet string
}

func NewXLSXStore(path string) *XLSXStore {
	return &XLSXStore{path: path}
}

// Load reads every row of the workbook's first sheet. Rows with a blank
// url_video cell are dropped and do not round-trip: the next Save rewrites
// the workbook from the loaded rows only, compacting them away.
func (s *XLSXStore) Load(ctx context.Context) ([]Row, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", s.path, err)
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	s.sheet = sheet

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("dataset %s has no header row", s.path)
	}

	colIdx := make(map[string]int, len(cells[0]))
	for i, name := range cells[0] {
		colIdx[strings.TrimSpace(name)] = i
	}
	if _, ok := colIdx[colURL]; !ok {
		return nil, fmt.Errorf("dataset %s is missing the %s column", s.path, colURL)
	}

	cell := func(record []string, name string) string {
		idx, ok := colIdx[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	ret := make([]Row, 0, len(cells)-1)
	for _, record := range cells[1:] {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		url := cell(record, colURL)
		if url == "" {
			// trailing blank lines are common in hand-edited workbooks
			continue
		}

		ret = append(ret, Row{
			URL:            url,
			Username:       cell(record, colUsername),
			Followers:      parseCount(cell(record, colFollowers)),
			Likes:          parseCount(cell(record, colLikes)),
			Views:          parseCount(cell(record, colViews)),
			Description:    cell(record, colDescription),
			PublishDate:    cell(record, colPublishDate),
			Transcript:     cell(record, colTranscript),
			TranscriptLang: cell(record, colTranscriptLang),
			LastError:      cell(record, colLastError),
		})
	}

	return ret, nil
}

func (s *XLSXStore) Save(ctx context.Context, rows []Row) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	sheet := s.sheet
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	header := append([]string{colURL}, derivedColumns...)
	for i, name := range header {
		cellName, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cellName, name); err != nil {
			return err
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.URL,
			row.Username,
			row.Followers,
			row.Likes,
			row.Views,
			row.Description,
			row.PublishDate,
			row.Transcript,
			row.TranscriptLang,
			row.LastError,
		}
		for j, v := range values {
			cellName, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cellName, v); err != nil {
				return err
			}
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".enricher-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := f.SaveAs(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write dataset: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace dataset %s: %w", s.path, err)
	}
	return nil
}

// parseCount accepts both integer and float renderings ("12300", "12300.0")
// of numeric cells. Anything unparseable defaults to zero.
func parseCount(s string) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		return int(fl)
	}
	return 0
}
