// Package classifier assigns spending categories to merchant descriptions.
//
// Classification is cache-first: merchant texts already present in the
// persistent merchant-category cache never reach the external service again.
// Uncached texts are sent in fixed-size batches; a malformed response is
// coerced, never an error.
package classifier

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/logger"
	"pennywise/internal/models"
)

// TextClassifier is the external free-text classification service. It
// receives one batch of merchant texts plus the category vocabulary and
// returns the service's raw response text.
type TextClassifier interface {
	ClassifyBatch(ctx context.Context, merchants []string, categories []string) (string, error)
}

// Servicer defines the contract for merchant classification.
type Servicer interface {
	Classify(ctx context.Context, descriptions []string) (map[string]string, error)
	ClearCache() error
}

// service implements Servicer over a gorm-backed cache and an external
// TextClassifier.
type service struct {
	db        *gorm.DB
	backend   TextClassifier
	batchSize int
}

// NewService creates a new classification service. batchSize values below 1
// fall back to 50.
func NewService(db *gorm.DB, backend TextClassifier, batchSize int) Servicer {
	if batchSize < 1 {
		batchSize = 50
	}
	return &service{db: db, backend: backend, batchSize: batchSize}
}

// Classify resolves a category for every description. Cached texts are looked
// up; the rest are classified in batches and the results upserted into the
// cache before the combined mapping is returned.
func (s *service) Classify(ctx context.Context, descriptions []string) (map[string]string, error) {
	result := make(map[string]string, len(descriptions))
	if len(descriptions) == 0 {
		return result, nil
	}

	unique := dedupe(descriptions)

	var cached []models.MerchantCategory
	if err := s.db.Where("merchant IN ?", unique).Find(&cached).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, entry := range cached {
		result[entry.Merchant] = entry.Category
	}

	var uncached []string
	for _, desc := range unique {
		if _, ok := result[desc]; !ok {
			uncached = append(uncached, desc)
		}
	}
	if len(uncached) == 0 {
		return result, nil
	}

	logger.Get().Infow("classifying new merchants", "count", len(uncached))

	resolved := make([]models.MerchantCategory, 0, len(uncached))
	for start := 0; start < len(uncached); start += s.batchSize {
		end := start + s.batchSize
		if end > len(uncached) {
			end = len(uncached)
		}
		batch := uncached[start:end]

		for i, category := range s.classifyBatch(ctx, batch) {
			result[batch[i]] = category
			resolved = append(resolved, models.MerchantCategory{Merchant: batch[i], Category: category})
		}
	}

	// Last write wins; concurrent imports may race on the same merchant
	// text and either outcome is acceptable.
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "merchant"}},
		DoUpdates: clause.AssignmentColumns([]string{"category", "updated_at"}),
	}).Create(&resolved).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return result, nil
}

// classifyBatch sends one batch to the external service and coerces whatever
// comes back into exactly len(batch) valid labels.
func (s *service) classifyBatch(ctx context.Context, batch []string) []string {
	raw, err := s.backend.ClassifyBatch(ctx, batch, models.Categories)
	if err != nil {
		logger.Get().Warnw("classification request failed, defaulting batch", "size", len(batch), "error", err)
		return defaultLabels(len(batch))
	}
	return parseLabels(raw, len(batch))
}

// parseLabels parses the service response as a JSON array of category labels.
// Invalid JSON defaults the whole batch; count mismatches are reconciled by
// padding or truncating; unknown labels are coerced to "other".
func parseLabels(raw string, expected int) []string {
	var labels []string
	if err := json.Unmarshal([]byte(stripFences(raw)), &labels); err != nil {
		logger.Get().Warnw("malformed classification response, defaulting batch", "size", expected, "error", err)
		return defaultLabels(expected)
	}

	if len(labels) != expected {
		logger.Get().Warnw("classification count mismatch", "expected", expected, "got", len(labels))
	}
	for len(labels) < expected {
		labels = append(labels, models.CategoryOther)
	}
	labels = labels[:expected]

	for i, label := range labels {
		if !models.IsValidCategory(label) {
			labels[i] = models.CategoryOther
		}
	}
	return labels
}

// stripFences removes Markdown code fences the model may wrap around its JSON
// despite instructions.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}

// ClearCache removes every cached merchant mapping.
func (s *service) ClearCache() error {
	if err := s.db.Where("1 = 1").Delete(&models.MerchantCategory{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func defaultLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = models.CategoryOther
	}
	return labels
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
