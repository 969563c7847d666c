package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"

	"paddytrack/models"
)

// Processor fetches samples from the classification processor over HTTP:
// POST {BaseURL}/samples with the region id, the window and, for custom
// areas, the GeoJSON geometry to clip to.
type Processor struct {
	BaseURL string
	Client  *http.Client
}

type processorSamplesReq struct {
	RegionID string            `json:"regionId"`
	GeoJSON  *geojson.Geometry `json:"geojson,omitempty"` // custom areas only
	From     time.Time         `json:"from"`
	To       time.Time         `json:"to"`
}

type processorSamplesResp struct {
	Samples []models.Sample `json:"samples"`
}

// NewProcessor builds a client with sane timeouts.
func NewProcessor(baseURL string) *Processor {
	if baseURL == "" || baseURL == "local" {
		baseURL = "http://127.0.0.1:8000"
	}
	return &Processor{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 25 * time.Second},
	}
}

// Samples calls the processor for one region and window.
func (p *Processor) Samples(ctx context.Context, region models.Region, window models.TimeWindow) ([]models.Sample, error) {
	in := processorSamplesReq{
		RegionID: region.ID,
		From:     window.Start.UTC(),
		To:       window.End.UTC(),
	}
	if region.Custom() {
		in.GeoJSON = region.Geometry
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal processor req: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/samples", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("processor call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("processor non-2xx: %s, body: %s", resp.Status, string(data))
	}

	var out processorSamplesResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode processor resp: %w", err)
	}
	return Clean(out.Samples, region, window)
}
