package legiscan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ezlaw/ezlaw/internal/config"
	"github.com/ezlaw/ezlaw/internal/progress"
)

// maxResponseBytes bounds a getDataset answer; archives are base64 in the body.
const maxResponseBytes = 512 << 20

// Client fetches a LegiScan dataset archive and extracts its JSON files.
type Client struct {
	cfg      config.LegiScanConfig
	http     *http.Client
	reporter progress.Reporter
}

// NewClient creates a client for the dataset described by cfg.
func NewClient(cfg config.LegiScanConfig) *Client {
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		reporter: progress.Nop{},
	}
}

// WithHTTPClient replaces the HTTP client used for API calls.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// WithReporter reports each extracted file to r.
func (c *Client) WithReporter(r progress.Reporter) *Client {
	if r == nil {
		r = progress.Nop{}
	}
	c.reporter = r
	return c
}

// DatasetID returns the configured dataset id.
func (c *Client) DatasetID() int {
	return c.cfg.DatasetID
}

// GetDataset downloads the configured dataset and returns its session
// metadata plus up to max_files parsed JSON documents. Failures are *Error.
func (c *Client) GetDataset(ctx context.Context) (*Result, error) {
	if c.cfg.APIKey == "" {
		return nil, internalError(ErrMissingKey)
	}

	resp, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if resp.Status != "OK" {
		log.Printf("legiscan: getDataset returned status %q", resp.Status)
		return nil, applicationError(msgErrorStatus)
	}
	if resp.Dataset.Zip == "" {
		return nil, applicationError(msgNoZip)
	}

	log.Printf("legiscan: processing zip data")
	archive, err := extract(resp.Dataset.Zip, c.cfg.Include, c.cfg.MaxFiles, c.reporter)
	if err != nil {
		return nil, internalError(err)
	}
	if archive.docs.Len() == 0 {
		return nil, applicationError(msgNoJSON)
	}

	log.Printf("legiscan: processed %d of %d files", archive.docs.Len(), archive.total)
	ds := resp.Dataset
	return &Result{
		Success: true,
		DatasetInfo: DatasetInfo{
			StateID:        ds.StateID,
			SessionTitle:   ds.SessionTitle,
			SessionName:    ds.SessionName,
			YearStart:      ds.YearStart,
			YearEnd:        ds.YearEnd,
			DatasetDate:    ds.DatasetDate,
			TotalFiles:     archive.total,
			ProcessedFiles: archive.docs.Len(),
		},
		SampleFiles: archive.names,
		Data:        archive.docs,
	}, nil
}

func (c *Client) datasetURL() (string, error) {
	u, err := url.Parse(c.cfg.APIURL)
	if err != nil {
		return "", fmt.Errorf("parsing api_url: %w", err)
	}
	q := u.Query()
	q.Set("key", c.cfg.APIKey)
	q.Set("op", "getDataset")
	q.Set("access_key", c.cfg.AccessKey)
	q.Set("id", strconv.Itoa(c.cfg.DatasetID))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) fetch(ctx context.Context) (*apiResponse, error) {
	endpoint, err := c.datasetURL()
	if err != nil {
		return nil, internalError(err)
	}

	log.Printf("legiscan: fetching dataset %d", c.cfg.DatasetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, internalError(err)
	}
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.http.Do(req)
	if err != nil {
		// Keep the keys in the query string out of the message.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = &url.Error{Op: uerr.Op, URL: c.cfg.APIURL, Err: uerr.Err}
		}
		return nil, upstreamError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, upstreamError(fmt.Errorf("unexpected status %s", httpResp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, upstreamError(fmt.Errorf("reading response: %w", err))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, upstreamError(fmt.Errorf("decoding response: %w", err))
	}
	return &apiResp, nil
}
