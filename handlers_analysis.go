package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"paddytrack/analytics"
	"paddytrack/export"
	"paddytrack/models"
	"paddytrack/source"
)

// errSource marks failures of the sample source or baseline store.
var errSource = errors.New("data source unavailable")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResp{Error: msg})
}

// writeAnalysisError maps engine and source errors onto HTTP statuses.
func (a *App) writeAnalysisError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		unknown  *analytics.UnknownRegionError
		assembly *analytics.AssemblyError
	)
	switch {
	case errors.As(err, &unknown):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &assembly):
		writeJSON(w, http.StatusUnprocessableEntity, errorResp{Error: err.Error(), Failed: assembly.Sections()})
	case errors.Is(err, analytics.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, errSource):
		a.log.Error("source error", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusBadGateway, errSource.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "analysis timed out")
	default:
		a.log.Error("analysis error", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "source": a.cfg.SampleSource})
}

// handleListRegions returns the predefined and stored AOIs.
func (a *App) handleListRegions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	regions, err := a.regions.Regions(ctx)
	if err != nil {
		a.writeAnalysisError(w, r, fmt.Errorf("%w: %v", errSource, err))
		return
	}
	writeJSON(w, http.StatusOK, regionsResp{Regions: regions})
}

// handleAnalysis runs the engine and returns the report as JSON.
func (a *App) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	rep, ok := a.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// handleDownloadReport runs the engine and returns the report as an attachment.
func (a *App) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rep, ok := a.analyze(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, rep); err != nil {
		a.log.Error("export error", "format", format, "err", err)
		writeError(w, http.StatusInternalServerError, "export error")
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// analyze decodes the request, runs the pipeline and writes any error.
func (a *App) analyze(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	var req analysisReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return nil, false
	}
	p, err := req.validate(a.cfg.Bucket)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	rep, err := a.runAnalysis(ctx, p)
	if err != nil {
		a.writeAnalysisError(w, r, err)
		return nil, false
	}
	a.log.Info("analysis done",
		"region", rep.Region.ID,
		"samples", rep.Metrics.Total,
		"stage", rep.Phenology.Stage,
		"yield", rep.Yield.Estimate,
	)
	return rep, true
}

func (a *App) runAnalysis(ctx context.Context, p analysisParams) (*models.Report, error) {
	region, err := a.resolveRegion(ctx, p)
	if err != nil {
		return nil, err
	}

	samples, err := a.samples.Samples(ctx, region, p.Window)
	if err != nil {
		return nil, fmt.Errorf("%w: samples: %v", errSource, err)
	}

	baselines, err := a.baselineTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: baselines: %v", errSource, err)
	}
	if region.Custom() && a.cfg.CustomBaseline > 0 {
		baselines = analytics.FallbackBaselines{Table: baselines, Value: a.cfg.CustomBaseline}
	}

	return analytics.Run(ctx, analytics.Request{
		Region:          region,
		Window:          p.Window,
		Samples:         samples,
		ClassifierModel: p.Model,
		Bucket:          p.Bucket,
		Baselines:       baselines,
		RiskBases:       source.DefaultRiskBases,
		Model:           a.cfg.YieldModel,
		CropCategory:    a.cfg.CropCategory,
		ExtraCategories: []models.Category{a.cfg.CropCategory},
	})
}

// resolveRegion builds a custom AOI from the request geometry or looks up a
// predefined one. Unknown ids surface as *analytics.UnknownRegionError.
func (a *App) resolveRegion(ctx context.Context, p analysisParams) (models.Region, error) {
	if p.Geometry != nil {
		return models.NewCustomRegion(p.RegionID, p.Geometry), nil
	}
	region, err := a.regions.Region(ctx, p.RegionID)
	if err != nil {
		var unknown *analytics.UnknownRegionError
		if errors.As(err, &unknown) {
			return models.Region{}, err
		}
		return models.Region{}, fmt.Errorf("%w: region: %v", errSource, err)
	}
	return region, nil
}
