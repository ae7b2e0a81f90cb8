// Package sync orchestrates one catalog synchronization run: fetch raw
// records from each source, resolve every record against the canonical
// catalog, merge or insert, and account for every outcome in the run
// reports.  Records are processed strictly sequentially; a record may only
// resolve against entries created earlier in the same run if the index has
// already seen them.
package sync

import (
	"context"
	"time"

	"steeldex/internal/domain/grade"
	"steeldex/internal/infrastructure/lookup"
	"steeldex/internal/infrastructure/monitoring/logging"
	prom "steeldex/internal/infrastructure/monitoring/prometheus"
	"steeldex/internal/infrastructure/sources"
	"steeldex/pkg/errors"
)

// Summary aggregates one run's outcome counts.
type Summary struct {
	Processed  int            `json:"processed"`
	Outcomes   map[string]int `json:"outcomes"`
	Updates    int            `json:"updates"`
	Inserts    int            `json:"inserts"`
	Unresolved int            `json:"unresolved"`
	Duration   time.Duration  `json:"duration"`
}

// Pipeline wires the resolution core to the catalog store, the fallback
// lookup, and the report files.
type Pipeline struct {
	repo    grade.Repository
	lookup  lookup.Client
	logger  logging.Logger
	metrics *prom.Metrics
}

// NewPipeline builds the orchestrator.  lookup may be lookup.Disabled();
// metrics may be nil.
func NewPipeline(repo grade.Repository, lk lookup.Client, logger logging.Logger, metrics *prom.Metrics) *Pipeline {
	if lk == nil {
		lk = lookup.Disabled()
	}
	return &Pipeline{
		repo:    repo,
		lookup:  lk,
		logger:  logger.Named("sync"),
		metrics: metrics,
	}
}

// Run executes one synchronization over all adapters, writing reports into
// reportDir.  Data-quality problems become report rows; only contract
// violations and I/O failures abort the run.
func (p *Pipeline) Run(ctx context.Context, adapters []sources.Adapter, reportDir string) (*Summary, error) {
	start := time.Now()

	catalog, err := p.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := grade.NewIndex(catalog)

	reports, err := OpenReports(reportDir)
	if err != nil {
		return nil, err
	}
	defer reports.Close()

	summary := &Summary{Outcomes: make(map[string]int)}
	for _, adapter := range adapters {
		records, err := adapter.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		p.logger.Info("processing source",
			logging.String("source", adapter.Tag()),
			logging.Int("records", len(records)))

		for _, rec := range records {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrap(err, errors.CodeInternal, "sync cancelled")
			}
			if err := p.processRecord(ctx, rec, idx, reports, summary); err != nil {
				return nil, err
			}
			summary.Processed++
		}
	}

	if err := reports.Close(); err != nil {
		return nil, err
	}
	summary.Updates, summary.Inserts, summary.Unresolved = reports.Rows()
	summary.Duration = time.Since(start)

	p.observeRun(ctx, summary)
	p.logger.Info("sync finished",
		logging.Int("processed", summary.Processed),
		logging.Int("updates", summary.Updates),
		logging.Int("inserts", summary.Inserts),
		logging.Int("unresolved", summary.Unresolved),
		logging.Duration("duration", summary.Duration))
	return summary, nil
}

func (p *Pipeline) processRecord(ctx context.Context, rec grade.GradeRecord, idx *grade.Index, reports *ReportSet, summary *Summary) error {
	if err := rec.Validate(); err != nil {
		// A nameless record is an adapter bug, fatal to the run.
		return err
	}

	outcome := grade.Resolve(rec, idx)
	summary.Outcomes[outcome.Kind.String()]++
	p.countOutcome(rec.SourceTag, outcome.Kind)

	switch outcome.Kind {
	case grade.MatchedByLink, grade.MatchedByName:
		return p.mergeMatched(ctx, rec, outcome, idx, reports)
	case grade.Ambiguous:
		p.logger.Warn("ambiguous record",
			logging.String("name", rec.Name),
			logging.String("source", rec.SourceTag),
			logging.Strings("tried", outcome.Tried),
			logging.Int("candidates", len(outcome.Candidates)))
		return p.reportUnresolved(reports, rec, ReasonAmbiguous)
	case grade.NotFound:
		return p.insertNew(ctx, rec, idx, reports)
	default:
		return errors.New(errors.CodeInternal, "unknown resolution outcome").
			WithDetail("kind=" + outcome.Kind.String())
	}
}

// mergeMatched applies the gap-filling patch to the matched entry.  When the
// incoming spelling differs from the canonical name, the spelling itself is
// preserved as an analogue so the alias survives for future lookups.
func (p *Pipeline) mergeMatched(ctx context.Context, rec grade.GradeRecord, outcome grade.Outcome, idx *grade.Index, reports *ReportSet) error {
	matched := outcome.Grade

	if alias := grade.Normalize(rec.Name, rec.Script()).DisplayForm; alias != "" &&
		grade.ComparisonKey(alias) != matched.NameKey() {
		rec.Analogues = append(append([]string(nil), rec.Analogues...), alias)
	}

	patch := grade.ComputePatch(matched, rec, idx)

	for _, c := range patch.Conflicts {
		p.logger.Warn("field conflict kept stored value",
			logging.String("name", matched.Name),
			logging.String("field", c.Field),
			logging.String("existing", c.Existing),
			logging.String("incoming", c.Incoming),
			logging.String("source", rec.SourceTag))
	}
	for _, bad := range patch.Malformed {
		p.logger.Warn("rejected malformed element value",
			logging.String("name", matched.Name),
			logging.String("element", bad.Symbol),
			logging.String("value", bad.Raw),
			logging.String("source", rec.SourceTag))
	}
	if patch.LinkConflict {
		if err := p.reportUnresolved(reports, rec, ReasonLinkConflict); err != nil {
			return err
		}
	}

	if !patch.IsEmpty() {
		if err := p.repo.ApplyPatch(ctx, matched.ID, patch); err != nil {
			return err
		}
		hadLink := matched.Link != ""
		patch.Apply(matched)
		if !hadLink && matched.Link != "" {
			idx.AddLink(matched)
		}
	}

	if err := reports.Update(rec, matched, patch.UpdatedFields(), outcome.Kind); err != nil {
		return err
	}
	p.countReportRow("updates")
	return nil
}

// insertNew handles an unknown grade: consult the fallback lookup, then
// either create a catalog entry or account the record as not found.
func (p *Pipeline) insertNew(ctx context.Context, rec grade.GradeRecord, idx *grade.Index, reports *ReportSet) error {
	enriched, err := p.enrich(ctx, rec)
	if err != nil {
		return err
	}

	g, badCells := grade.NewFromRecord(enriched)
	for _, bad := range badCells {
		p.logger.Warn("rejected malformed element value",
			logging.String("name", rec.Name),
			logging.String("element", bad.Symbol),
			logging.String("value", bad.Raw),
			logging.String("source", rec.SourceTag))
	}

	// Nothing known beyond a bare name: park it for review instead of
	// polluting the catalog with an empty entry.
	if len(g.Composition) == 0 && g.Link == "" && g.Standard == "" && g.Manufacturer == "" {
		return p.reportUnresolved(reports, rec, ReasonNotFoundInSource)
	}

	if err := p.repo.Save(ctx, g); err != nil {
		if errors.IsCode(err, errors.CodeDuplicateGrade) {
			return p.reportUnresolved(reports, rec, ReasonInsertConflict)
		}
		return err
	}
	idx.Add(g)

	if err := reports.Insert(g, rec.SourceTag); err != nil {
		return err
	}
	p.countReportRow("inserts")
	return nil
}

// enrich fills the record's gaps from the fallback lookup.  Lookup failures
// degrade to the record as-is: a missing enrichment is a weaker record, not
// a broken run.
func (p *Pipeline) enrich(ctx context.Context, rec grade.GradeRecord) (grade.GradeRecord, error) {
	found, err := p.lookup.Lookup(ctx, rec.Name)
	if err != nil {
		p.logger.Warn("fallback lookup failed",
			logging.String("name", rec.Name),
			logging.Err(err))
		p.countLookup("error")
		return rec, nil
	}
	if found == nil {
		p.countLookup("miss")
		return rec, nil
	}
	p.countLookup("hit")

	if len(rec.Composition) == 0 {
		rec.Composition = found.Composition
	}
	if rec.Link == "" {
		rec.Link = found.Link
	}
	if rec.StandardText == "" {
		rec.StandardText = found.StandardText
	}
	if rec.Manufacturer == "" {
		rec.Manufacturer = found.Manufacturer
	}
	if rec.CountryHint == "" {
		rec.CountryHint = found.CountryHint
	}
	if len(found.Analogues) > 0 {
		rec.Analogues = append(append([]string(nil), rec.Analogues...), found.Analogues...)
	}
	return rec, nil
}

func (p *Pipeline) reportUnresolved(reports *ReportSet, rec grade.GradeRecord, reason string) error {
	if err := reports.Unresolved(rec, reason); err != nil {
		return err
	}
	p.countReportRow("unresolved")
	return nil
}

func (p *Pipeline) countOutcome(source string, kind grade.OutcomeKind) {
	if p.metrics == nil {
		return
	}
	p.metrics.SyncRecordsTotal.WithLabelValues(source, kind.String()).Inc()
}

func (p *Pipeline) countReportRow(report string) {
	if p.metrics == nil {
		return
	}
	p.metrics.SyncReportRowsTotal.WithLabelValues(report).Inc()
}

func (p *Pipeline) countLookup(result string) {
	if p.metrics == nil {
		return
	}
	p.metrics.LookupRequestsTotal.WithLabelValues(result).Inc()
}

func (p *Pipeline) observeRun(ctx context.Context, summary *Summary) {
	if p.metrics == nil {
		return
	}
	p.metrics.SyncRunDuration.Observe(summary.Duration.Seconds())
	if n, err := p.repo.Count(ctx); err == nil {
		p.metrics.CatalogSize.Set(float64(n))
	}
}
