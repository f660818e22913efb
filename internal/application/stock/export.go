package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/mfgerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrExportNotConfigured is returned when no exporter or store is wired
var ErrExportNotConfigured = shared.NewDomainError("EXPORT_NOT_CONFIGURED", "Ledger export is not configured")

// LedgerExporter renders ledger rows into a downloadable document
type LedgerExporter interface {
	Render(rows []LedgerEntryResponse) ([]byte, error)
	ContentType() string
	Extension() string
}

// ObjectStore persists export documents and returns where they can be fetched
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

const maxExportRows = 50000

// ExportLedger renders every ledger entry matching the filter and stores the document
func (s *Service) ExportLedger(ctx context.Context, filter LedgerListFilter) (*ExportResponse, error) {
	if s.exporter == nil || s.store == nil {
		return nil, ErrExportNotConfigured
	}

	rows := make([]LedgerEntryResponse, 0)
	filter.Page = 1
	filter.PageSize = 100
	for len(rows) < maxExportRows {
		page, total, err := s.ListLedger(ctx, filter)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)
		if int64(len(rows)) >= total || len(page) == 0 {
			break
		}
		filter.Page++
	}

	data, err := s.exporter.Render(rows)
	if err != nil {
		return nil, fmt.Errorf("render ledger export: %w", err)
	}

	key := fmt.Sprintf("exports/stock-ledger/%s.%s", time.Now().UTC().Format("20060102T150405Z"), s.exporter.Extension())
	location, err := s.store.Put(ctx, key, s.exporter.ContentType(), data)
	if err != nil {
		return nil, fmt.Errorf("store ledger export: %w", err)
	}

	s.logger.Info("Stock ledger exported", zap.String("key", key), zap.Int("rows", len(rows)))
	return &ExportResponse{Key: key, Location: location, Rows: len(rows)}, nil
}
