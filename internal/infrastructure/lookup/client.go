// Package lookup provides the external fallback consulted when a grade is
// entirely unknown to the catalog and to the current source batch.  The
// fallback is optional; a disabled client answers every query with a miss.
package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"steeldex/internal/config"
	"steeldex/internal/domain/grade"
	"steeldex/internal/infrastructure/monitoring/logging"
	"steeldex/pkg/errors"
)

// Client answers "what do you know about this grade name".
type Client interface {
	// Lookup returns a record for the name, (nil, nil) on a clean miss,
	// or an error when the service itself failed.
	Lookup(ctx context.Context, name string) (*grade.GradeRecord, error)
}

// disabledClient is the no-endpoint stand-in: every query is a miss.
type disabledClient struct{}

func (disabledClient) Lookup(context.Context, string) (*grade.GradeRecord, error) {
	return nil, nil
}

// Disabled returns a client that never finds anything.
func Disabled() Client {
	return disabledClient{}
}

// HTTPClient posts lookup queries to a configured endpoint.
type HTTPClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
	logger   logging.Logger
}

// NewHTTPClient builds the HTTP fallback.  An empty endpoint yields the
// disabled client.
func NewHTTPClient(cfg config.LookupConfig, logger logging.Logger) Client {
	if cfg.Endpoint == "" {
		return Disabled()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: timeout},
		logger:   logger.Named("lookup"),
	}
}

type lookupRequest struct {
	Name string `json:"name"`
}

// Lookup posts the name and decodes the returned record.  A 404 from the
// service is a clean miss.
func (c *HTTPClient) Lookup(ctx context.Context, name string) (*grade.GradeRecord, error) {
	body, err := json.Marshal(lookupRequest{Name: name})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to encode lookup request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeLookupFailed, "failed to build lookup request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeLookupFailed, "lookup request failed").
			WithDetail("name=" + name)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.New(errors.CodeLookupFailed, "lookup service returned an error").
			WithDetailf("status=%d body=%s", resp.StatusCode, snippet)
	}

	var rec grade.GradeRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, errors.Wrap(err, errors.CodeLookupFailed, "failed to decode lookup response")
	}
	if rec.Name == "" {
		rec.Name = name
	}
	c.logger.Debug("lookup hit", logging.String("name", name))
	return &rec, nil
}
