// Package upstream fetches inventory records from the field-data API.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"forestreport/models"
)

// Collection names, also used as metric and log labels.
const (
	CollectionTrees    = "arboles"
	CollectionSamples  = "muestras"
	CollectionClusters = "conglomerados"
)

// DefaultBaseURL is used when no upstream URL is configured.
const DefaultBaseURL = "http://localhost:5000"

// Options configure a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	JWTSecret string // signs a service token for the upstream auth middleware when set
	HTTP      *http.Client
}

// Client reads the three record collections. Every call hits the upstream;
// nothing is cached.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client
	now     func() time.Time
}

// FetchError is the failure to obtain one collection.
type FetchError struct {
	Collection string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Collection, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Snapshot holds whatever collections could be fetched. A collection that
// failed is left nil.
type Snapshot struct {
	Trees    []models.Tree
	Samples  []models.Sample
	Clusters []models.Cluster
}

func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" || base == "local" {
		base = DefaultBaseURL
	}
	hc := opts.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL: base,
		secret:  opts.JWTSecret,
		http:    hc,
		now:     time.Now,
	}
}

// FetchTrees calls GET {BaseURL}/api/arboles.
func (c *Client) FetchTrees(ctx context.Context) ([]models.Tree, error) {
	body, err := c.get(ctx, CollectionTrees)
	if err != nil {
		return nil, err
	}
	trees, err := decodeTrees(body)
	if err != nil {
		return nil, &FetchError{Collection: CollectionTrees, Err: err}
	}
	return trees, nil
}

// FetchSamples calls GET {BaseURL}/api/muestras.
func (c *Client) FetchSamples(ctx context.Context) ([]models.Sample, error) {
	body, err := c.get(ctx, CollectionSamples)
	if err != nil {
		return nil, err
	}
	samples, err := decodeSamples(body)
	if err != nil {
		return nil, &FetchError{Collection: CollectionSamples, Err: err}
	}
	return samples, nil
}

// FetchClusters calls GET {BaseURL}/api/conglomerados.
func (c *Client) FetchClusters(ctx context.Context) ([]models.Cluster, error) {
	body, err := c.get(ctx, CollectionClusters)
	if err != nil {
		return nil, err
	}
	clusters, err := decodeClusters(body)
	if err != nil {
		return nil, &FetchError{Collection: CollectionClusters, Err: err}
	}
	return clusters, nil
}

// FetchAll fetches the three collections one after another. A failing
// collection does not stop the others; the returned error aggregates every
// *FetchError and the snapshot keeps what succeeded.
func (c *Client) FetchAll(ctx context.Context) (Snapshot, error) {
	var (
		snap   Snapshot
		result *multierror.Error
		err    error
	)
	if snap.Trees, err = c.FetchTrees(ctx); err != nil {
		result = multierror.Append(result, err)
	}
	if snap.Samples, err = c.FetchSamples(ctx); err != nil {
		result = multierror.Append(result, err)
	}
	if snap.Clusters, err = c.FetchClusters(ctx); err != nil {
		result = multierror.Append(result, err)
	}
	return snap, result.ErrorOrNil()
}

func (c *Client) get(ctx context.Context, collection string) ([]byte, error) {
	fail := func(err error) error { return &FetchError{Collection: collection, Err: err} }

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/"+collection, nil)
	if err != nil {
		return nil, fail(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.secret != "" {
		tok, err := signServiceToken(c.secret, c.now())
		if err != nil {
			return nil, fail(fmt.Errorf("sign token: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fail(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail(fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fail(fmt.Errorf("upstream non-2xx: %s", resp.Status))
	}
	return data, nil
}
