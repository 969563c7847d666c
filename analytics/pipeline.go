package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"paddytrack/models"
)

// Request is one analysis pass for a region and time window. Samples must
// already be loaded; the pipeline does no I/O.
type Request struct {
	Region          models.Region
	Window          models.TimeWindow
	Samples         []models.Sample
	ClassifierModel string

	Bucket       BucketRule
	Baselines    BaselineTable
	RiskBases    RiskTable // nil: DefaultBaseRisk everywhere
	Model        YieldModel
	CropCategory models.Category
	// Categories reported even when unobserved (e.g. the crop category).
	ExtraCategories []models.Category
}

// Run computes every report section. Metrics, NDVI and land cover run
// concurrently; crop health follows the NDVI phenology and yield runs after
// NDVI and land cover have succeeded.
func Run(ctx context.Context, req Request) (*models.Report, error) {
	cats := CategoriesOf(req.Samples, req.ExtraCategories...)
	bucket := req.Bucket
	if bucket.Unit == "" {
		bucket = DefaultBucketRule
	}

	parts := ReportParts{
		Region:          req.Region,
		Window:          req.Window,
		ClassifierModel: req.ClassifierModel,
	}

	// Each goroutine writes only its own fields of parts; errors are kept per
	// section instead of cancelling the group.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		parts.Metrics, parts.MetricsErr = ComputeMetrics(req.Samples, cats)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		parts.Series, parts.NDVIErr = TrackNDVI(req.Samples, bucket)
		if parts.NDVIErr == nil {
			parts.Phenology, parts.NDVIErr = DescribeSeason(parts.Series, req.Window)
		}
		if parts.NDVIErr == nil {
			parts.Health = AssessHealth(req.Region.ID, parts.Phenology, req.RiskBases)
		}
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		parts.LandCover, parts.LandCoverErr = AnalyzeLandCover(req.Samples, cats)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if parts.NDVIErr == nil && parts.LandCoverErr == nil {
		parts.Yield, parts.YieldErr = EstimateYield(YieldInput{
			RegionID:     req.Region.ID,
			LandCover:    parts.LandCover,
			Series:       parts.Series,
			Baselines:    req.Baselines,
			Model:        req.Model,
			CropCategory: req.CropCategory,
		})
	}

	return AssembleReport(parts)
}
