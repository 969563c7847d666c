package analytics

import "paddytrack/models"

// CategoriesOf derives the category universe for one computation: every
// predicted and reference label in samples plus any extra categories the
// caller wants reported even when unobserved.
func CategoriesOf(samples []models.Sample, extra ...models.Category) models.CategorySet {
	cats := make([]models.Category, 0, len(extra)+8)
	cats = append(cats, extra...)
	for _, s := range samples {
		cats = append(cats, s.Predicted)
		if s.Reference != nil {
			cats = append(cats, *s.Reference)
		}
	}
	return models.NewCategorySet(cats...)
}
