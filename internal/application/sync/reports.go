package sync

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"steeldex/internal/domain/grade"
	"steeldex/pkg/errors"
)

// Report file names inside the report directory.  Downstream review tooling
// depends on these names and on the column layout below; both are part of
// the contract.
const (
	updatesFileName    = "updates.csv"
	insertsFileName    = "inserts.csv"
	unresolvedFileName = "unresolved.csv"
)

// Unresolved reasons.  Closed vocabulary; reviewer scripts switch on it.
const (
	ReasonAmbiguous        = "ambiguous"
	ReasonLinkConflict     = "link_conflict"
	ReasonInsertConflict   = "insert_conflict"
	ReasonNotFoundInSource = "not_found_in_source"
)

var (
	updatesHeader    = []string{"name", "matched_name", "link", "updated_fields", "source", "match_kind"}
	insertsHeader    = []string{"name", "link", "standard", "manufacturer", "analogue_count", "source"}
	unresolvedHeader = []string{"name", "link", "country_hint", "reason", "source"}
)

// ReportSet owns the three per-run report files.  Rows are flushed on Close;
// every row is also counted so the run summary and the files always agree.
type ReportSet struct {
	dir    string
	closed bool

	updates    *reportFile
	inserts    *reportFile
	unresolved *reportFile
}

type reportFile struct {
	f    *os.File
	w    *csv.Writer
	rows int
}

// OpenReports creates (or truncates) the three report files.
func OpenReports(dir string) (*ReportSet, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.CodeReportWrite, "failed to create report directory").
			WithDetail("dir=" + dir)
	}

	rs := &ReportSet{dir: dir}
	var err error
	if rs.updates, err = openReportFile(filepath.Join(dir, updatesFileName), updatesHeader); err != nil {
		return nil, err
	}
	if rs.inserts, err = openReportFile(filepath.Join(dir, insertsFileName), insertsHeader); err != nil {
		rs.Close()
		return nil, err
	}
	if rs.unresolved, err = openReportFile(filepath.Join(dir, unresolvedFileName), unresolvedHeader); err != nil {
		rs.Close()
		return nil, err
	}
	return rs, nil
}

func openReportFile(path string, header []string) (*reportFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeReportWrite, "failed to create report file").
			WithDetail("path=" + path)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, errors.CodeReportWrite, "failed to write report header").
			WithDetail("path=" + path)
	}
	return &reportFile{f: f, w: w}, nil
}

func (rf *reportFile) write(row []string) error {
	if rf == nil {
		return nil
	}
	if err := rf.w.Write(row); err != nil {
		return errors.Wrap(err, errors.CodeReportWrite, "failed to write report row")
	}
	rf.rows++
	return nil
}

func (rf *reportFile) close() error {
	if rf == nil {
		return nil
	}
	rf.w.Flush()
	flushErr := rf.w.Error()
	closeErr := rf.f.Close()
	if flushErr != nil {
		return errors.Wrap(flushErr, errors.CodeReportWrite, "failed to flush report")
	}
	if closeErr != nil {
		return errors.Wrap(closeErr, errors.CodeReportWrite, "failed to close report")
	}
	return nil
}

// Update records one matched record and the fields its patch adopted.
func (rs *ReportSet) Update(rec grade.GradeRecord, matched *grade.CanonicalGrade, updatedFields []string, kind grade.OutcomeKind) error {
	return rs.updates.write([]string{
		rec.Name,
		matched.Name,
		rec.Link,
		strings.Join(updatedFields, ";"),
		rec.SourceTag,
		kind.String(),
	})
}

// Insert records one freshly created catalog entry.
func (rs *ReportSet) Insert(g *grade.CanonicalGrade, source string) error {
	return rs.inserts.write([]string{
		g.Name,
		g.Link,
		g.Standard,
		g.Manufacturer,
		strconv.Itoa(len(g.Analogues)),
		source,
	})
}

// Unresolved records one record needing manual review.
func (rs *ReportSet) Unresolved(rec grade.GradeRecord, reason string) error {
	return rs.unresolved.write([]string{
		rec.Name,
		rec.Link,
		rec.CountryHint,
		reason,
		rec.SourceTag,
	})
}

// Rows returns per-report written row counts (updates, inserts, unresolved).
func (rs *ReportSet) Rows() (int, int, int) {
	return rs.updates.rows, rs.inserts.rows, rs.unresolved.rows
}

// Close flushes and closes all three files, returning the first failure.
// Closing twice is a no-op.
func (rs *ReportSet) Close() error {
	if rs.closed {
		return nil
	}
	rs.closed = true
	var first error
	for _, rf := range []*reportFile{rs.updates, rs.inserts, rs.unresolved} {
		if err := rf.close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
