package sources

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"steeldex/internal/config"
	"steeldex/internal/domain/composition"
	"steeldex/internal/domain/grade"
	"steeldex/internal/infrastructure/monitoring/logging"
	"steeldex/pkg/errors"
)

// Reserved header names of the non-element columns.  Any other header that
// matches an element symbol becomes a composition cell; unknown headers are
// ignored so curated files may carry extra columns.
const (
	headerName         = "name"
	headerLink         = "link"
	headerStandard     = "standard"
	headerManufacturer = "manufacturer"
	headerAnalogues    = "analogues"
	headerCountry      = "country"
)

// analogueSeparator splits the analogues cell.
const analogueSeparator = ";"

// CSVAdapter reads one delimited file of curated grade records.
type CSVAdapter struct {
	cfg    config.SourceConfig
	logger logging.Logger
}

// NewCSVAdapter builds an adapter for one configured source file.
func NewCSVAdapter(cfg config.SourceConfig, logger logging.Logger) *CSVAdapter {
	return &CSVAdapter{cfg: cfg, logger: logger.Named("csv_source")}
}

var _ Adapter = (*CSVAdapter)(nil)

// Tag returns the configured source tag.
func (a *CSVAdapter) Tag() string {
	return a.cfg.Tag
}

// Fetch reads and maps the whole file.  The first row is the header; column
// order is free.  A file without a name column is unusable and fails the
// batch.
func (a *CSVAdapter) Fetch(ctx context.Context) ([]grade.GradeRecord, error) {
	f, err := os.Open(a.cfg.Path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSourceUnavailable, "failed to open source file").
			WithDetail("path=" + a.cfg.Path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = a.delimiter()
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSourceParse, "failed to read source header").
			WithDetail("path=" + a.cfg.Path)
	}
	columns := mapHeader(header)
	if _, ok := columns[headerName]; !ok {
		return nil, errors.New(errors.CodeSourceParse, "source file has no name column").
			WithDetail("path=" + a.cfg.Path)
	}

	var records []grade.GradeRecord
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.CodeSourceUnavailable, "source read cancelled")
		}
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeSourceParse, "malformed source row").
				WithDetailf("path=%s line=%d", a.cfg.Path, line)
		}
		records = append(records, a.mapRow(columns, row))
	}

	a.logger.Info("source fetched",
		logging.String("source", a.cfg.Tag),
		logging.Int("records", len(records)))
	return records, nil
}

func (a *CSVAdapter) delimiter() rune {
	if a.cfg.Comma == "" {
		return ','
	}
	return []rune(a.cfg.Comma)[0]
}

func (a *CSVAdapter) mapRow(columns map[string]int, row []string) grade.GradeRecord {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rec := grade.GradeRecord{
		Name:         cell(headerName),
		Link:         cell(headerLink),
		StandardText: cell(headerStandard),
		Manufacturer: cell(headerManufacturer),
		CountryHint:  cell(headerCountry),
		SourceTag:    a.cfg.Tag,
	}
	if rec.CountryHint == "" {
		rec.CountryHint = a.cfg.Country
	}

	if raw := cell(headerAnalogues); raw != "" {
		for _, part := range strings.Split(raw, analogueSeparator) {
			if name := strings.TrimSpace(part); name != "" {
				rec.Analogues = append(rec.Analogues, name)
			}
		}
	}

	for _, sym := range composition.Elements {
		if v := cell(sym); v != "" {
			if rec.Composition == nil {
				rec.Composition = make(map[string]string)
			}
			rec.Composition[sym] = v
		}
	}
	return rec
}

// mapHeader lowercases headers so curated files may use "Name" or "C".
func mapHeader(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, dup := m[key]; !dup {
			m[key] = i
		}
	}
	return m
}
