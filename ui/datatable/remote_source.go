package datatable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"dataportal/domain/dataset"
	"dataportal/internal/errors"
)

// DatasetsPath is the content API resource holding the dataset list
const DatasetsPath = "/content/datasets/rs1"

// RemoteSource fetches the record array from the content API.
type RemoteSource struct {
	url    string
	client *http.Client
}

// NewRemoteSource returns a source reading <scriptRoot>/content/datasets/rs1
func NewRemoteSource(scriptRoot string, client *http.Client) *RemoteSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteSource{
		url:    strings.TrimRight(scriptRoot, "/") + DatasetsPath,
		client: client,
	}
}

// URL returns the resource the source reads
func (s *RemoteSource) URL() string {
	return s.url
}

// Fetch issues one GET and decodes the body as a bare JSON array of records.
func (s *RemoteSource) Fetch(ctx context.Context) ([]dataset.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build dataset request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.ExternalServiceError("content", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.ExternalServiceError("content", fmt.Errorf("GET %s: %s", s.url, resp.Status))
	}

	var records []dataset.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, errors.ExternalServiceError("content", fmt.Errorf("decode %s: %w", s.url, err))
	}
	return records, nil
}
