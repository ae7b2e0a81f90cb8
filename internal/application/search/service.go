// Package search implements the public analogue-discovery use case: rank
// catalog entries by chemical similarity to a reference composition.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"steeldex/internal/domain/composition"
	"steeldex/internal/domain/grade"
	"steeldex/internal/infrastructure/monitoring/logging"
	prom "steeldex/internal/infrastructure/monitoring/prometheus"
	"steeldex/pkg/errors"
)

// DefaultMaxResults bounds a query that does not ask for a limit.
const DefaultMaxResults = 20

// Match is one ranked similarity hit.
type Match struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Score           float64  `json:"score"`
	MatchedElements []string `json:"matched_elements"`
}

// Service scans the catalog against a reference vector.
type Service struct {
	repo    grade.Repository
	logger  logging.Logger
	metrics *prom.Metrics
}

// NewService builds the search service; metrics may be nil.
func NewService(repo grade.Repository, logger logging.Logger, metrics *prom.Metrics) *Service {
	return &Service{repo: repo, logger: logger.Named("search"), metrics: metrics}
}

// Search ranks catalog entries by similarity to the reference composition.
// The reference is parsed strictly: any malformed cell rejects the whole
// query.  Results below the score floor are dropped; ranking is a stable
// descending sort with ties kept in catalog insertion order; the slice is
// bounded by maxResults.
func (s *Service) Search(ctx context.Context, ref map[string]string, tolerancePct float64, maxResults int) ([]Match, error) {
	if tolerancePct < 0 || tolerancePct > 100 {
		return nil, errors.New(errors.CodeInvalidParam, "tolerance must be within [0, 100]").
			WithDetailf("tolerance=%.1f", tolerancePct)
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	refVec, bad := composition.ParseVector(ref)
	if len(bad) > 0 {
		cells := make([]string, len(bad))
		for i, b := range bad {
			cells[i] = fmt.Sprintf("%s=%q", b.Symbol, b.Raw)
		}
		return nil, errors.New(errors.CodeMalformedComposition, "reference composition is malformed").
			WithDetail(strings.Join(cells, " "))
	}
	if _, ok := refVec[composition.AnchorElement]; !ok {
		return nil, errors.New(errors.CodeIncomparable, "reference composition lacks the anchor element").
			WithDetail("anchor=" + composition.AnchorElement)
	}

	catalog, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, g := range catalog {
		vec, fieldErrs := g.Vector()
		if len(fieldErrs) > 0 {
			// A stored malformed cell slipped past the merger; skip
			// the entry rather than poisoning the whole query.
			s.logger.Warn("skipping grade with malformed stored composition",
				logging.Int64("id", g.ID),
				logging.String("name", g.Name))
			continue
		}
		res, ok := composition.Match(refVec, vec, tolerancePct)
		if !ok || res.Score < composition.ScoreFloor {
			continue
		}
		matches = append(matches, Match{
			ID:              g.ID,
			Name:            g.Name,
			Score:           res.Score,
			MatchedElements: res.MatchedElements,
		})
	}

	// Catalog order is ID order, so a stable sort keeps ties in insertion
	// order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	s.observe(len(catalog))
	return matches, nil
}

func (s *Service) observe(candidates int) {
	if s.metrics == nil {
		return
	}
	s.metrics.SearchRequestsTotal.Inc()
	s.metrics.SearchCandidateCount.Observe(float64(candidates))
}
