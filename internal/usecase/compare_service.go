package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/trolleywatch/backend/internal/domain"
)

// CompareServiceConfig holds configuration for the comparison service
type CompareServiceConfig struct {
	Page     int
	PageSize int
}

// CompareService runs product searches across every supported store and
// reduces the merged results to the cheapest matches.
type CompareService struct {
	searcher domain.ProductSearcher
	page     int
	pageSize int
}

// NewCompareService creates a new comparison service with dependencies
func NewCompareService(searcher domain.ProductSearcher, config CompareServiceConfig) *CompareService {
	page := config.Page
	if page < 1 {
		page = 1
	}
	pageSize := config.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return &CompareService{
		searcher: searcher,
		page:     page,
		pageSize: pageSize,
	}
}

// SearchStore runs a single-provider search with the service's paging defaults.
func (s *CompareService) SearchStore(ctx context.Context, store domain.Store, query string) ([]domain.Product, error) {
	return s.searcher.Search(ctx, store, query, s.page, s.pageSize)
}

// Cheapest queries every supported store concurrently and reduces the
// merged results to the cheapest-by-item and cheapest-by-kg winners.
// If any provider call fails the whole comparison fails; a cheapest
// derived from one provider's partial view would silently misreport.
func (s *CompareService) Cheapest(ctx context.Context, query string) (*domain.Comparison, error) {
	byStore, err := s.fetchAll(ctx, query)
	if err != nil {
		return nil, err
	}

	comparison := Compare(byStore[domain.StoreColes], byStore[domain.StoreWoolworths])
	comparison.Query = query
	return &comparison, nil
}

// CheapestPerKgBatch runs the per-query comparison for each item,
// preserving input order. Failures are isolated per item: a failed lookup
// fills that slot with an error and a null result, and every other item
// still gets processed.
func (s *CompareService) CheapestPerKgBatch(ctx context.Context, items []string) []domain.BatchItem {
	report := make([]domain.BatchItem, 0, len(items))

	for _, name := range items {
		entry := domain.BatchItem{Name: name}

		comparison, err := s.Cheapest(ctx, name)
		if err != nil {
			log.Printf("[COMPARE] batch item %q failed: %v", name, err)
			entry.Error = "provider lookup failed"
		} else {
			entry.CheapestPerKg = comparison.CheapestByKg
		}

		report = append(report, entry)
	}

	return report
}

// fetchAll fans out one search per supported store and collects all
// results before returning. Results are keyed by store so callers can
// merge them in the fixed domain.Stores order regardless of which fetch
// finished first.
func (s *CompareService) fetchAll(ctx context.Context, query string) (map[domain.Store][]domain.Product, error) {
	type fetchResult struct {
		store    domain.Store
		products []domain.Product
		err      error
	}

	results := make(chan fetchResult, len(domain.Stores))
	for _, store := range domain.Stores {
		go func(store domain.Store) {
			products, err := s.searcher.Search(ctx, store, query, s.page, s.pageSize)
			results <- fetchResult{store: store, products: products, err: err}
		}(store)
	}

	byStore := make(map[domain.Store][]domain.Product, len(domain.Stores))
	var firstErr error
	for range domain.Stores {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", r.store, r.err)
			}
			continue
		}
		byStore[r.store] = r.products
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return byStore, nil
}

// Compare merges two providers' records and selects the cheapest by
// absolute price and by unit price. Records without a price cannot
// participate; the per-kg winner additionally requires a derived unit
// price. Ties go to the record encountered first in the merged order.
func Compare(recordsA, recordsB []domain.Product) domain.Comparison {
	merged := make([]domain.Product, 0, len(recordsA)+len(recordsB))
	merged = append(merged, recordsA...)
	merged = append(merged, recordsB...)

	var byItem, byKg *domain.Product
	for i := range merged {
		record := &merged[i]
		if record.Price == nil {
			continue
		}
		if byItem == nil || *record.Price < *byItem.Price {
			byItem = record
		}
		if record.PricePerKg != nil && (byKg == nil || *record.PricePerKg < *byKg.PricePerKg) {
			byKg = record
		}
	}

	return domain.Comparison{
		CheapestByItem: attribute(byItem),
		CheapestByKg:   attribute(byKg),
	}
}

// attribute labels a winner with the store whose name appears in its URL.
// The client knows which store it queried, but labeling is re-derived
// here from the URL to preserve the original lookup behavior; records
// without a recognizable URL stay unlabeled.
func attribute(record *domain.Product) *domain.Attributed {
	if record == nil {
		return nil
	}

	attributed := &domain.Attributed{Product: *record}
	lowered := strings.ToLower(record.URL)
	for _, store := range domain.Stores {
		if strings.Contains(lowered, store.String()) {
			attributed.Store = store.String()
			break
		}
	}
	return attributed
}
