package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/storeport/backend/internal/domain"
	"github.com/storeport/backend/internal/rawpage"
)

// PageFetcher downloads and parses one product page. Implementations are
// expected to honor the context and to translate a missing page into
// domain.ErrPageNotFound.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*rawpage.Page, error)
}

// ExportResult bundles everything one export produces: the record, the
// classification that selected its category config, and the flattened CSV
// rows.
type ExportResult struct {
	Record         *domain.ProductRecord
	Classification Classification
	Rows           []domain.CsvRow
	FromCache      bool
}

// ExportService orchestrates the pipeline: store lookup, fetch, extraction,
// classification, persistence, serialization. It owns no policy of its own;
// each stage lives in its component.
type ExportService struct {
	store      domain.ProductStore
	fetcher    PageFetcher
	extractor  *ExtractService
	classifier *CategoryClassifier
	serializer *CsvSerializer
}

func NewExportService(
	store domain.ProductStore,
	fetcher PageFetcher,
	extractor *ExtractService,
	classifier *CategoryClassifier,
	serializer *CsvSerializer,
) *ExportService {
	return &ExportService{
		store:      store,
		fetcher:    fetcher,
		extractor:  extractor,
		classifier: classifier,
		serializer: serializer,
	}
}

// Export runs the pipeline for one product URL. With force unset a stored
// record short-circuits the fetch; classification and serialization always
// run fresh so taxonomy updates reach cached records too.
func (s *ExportService) Export(ctx context.Context, pageURL string, force bool) (*ExportResult, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return nil, fmt.Errorf("%w: empty product URL", domain.ErrInvalidRequest)
	}

	if !force {
		if rec, ok := s.lookup(ctx, pageURL); ok {
			log.Printf("[EXPORT] store hit for %s", pageURL)
			return s.finish(rec, true), nil
		}
	}

	log.Printf("[EXPORT] fetching %s", pageURL)
	page, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	rec, err := s.extractor.Extract(page)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.Save(ctx, rec); err != nil {
			// A dead store must not lose the export that already succeeded.
			log.Printf("[EXPORT] failed to save %s: %v", pageURL, err)
		}
	}

	return s.finish(rec, false), nil
}

// lookup returns a stored record when the store has a live entry.
func (s *ExportService) lookup(ctx context.Context, pageURL string) (*domain.ProductRecord, bool) {
	if s.store == nil {
		return nil, false
	}
	rec, err := s.store.Get(ctx, pageURL)
	if err != nil {
		if !errors.Is(err, domain.ErrStoreMiss) {
			log.Printf("[EXPORT] store lookup for %s failed: %v", pageURL, err)
		}
		return nil, false
	}
	return rec, true
}

func (s *ExportService) finish(rec *domain.ProductRecord, fromCache bool) *ExportResult {
	cls := s.classifier.Classify(rec.Categories)
	return &ExportResult{
		Record:         rec,
		Classification: cls,
		Rows:           s.serializer.Serialize(rec, cls.Config),
		FromCache:      fromCache,
	}
}

// History returns the recently exported URLs, most recent first.
func (s *ExportService) History(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.History(ctx)
}

// Reset clears the record store and its history.
func (s *ExportService) Reset(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Reset(ctx)
}
