// Package ledger is the repository facade: the only component that
// talks to the external store. Every outbound write is shaped through
// the schema normalizer and derivation engine, and every inbound raw
// row is reinterpreted back into a typed transaction.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/depot-ledger/depot-ledger/internal/domain"
	"github.com/depot-ledger/depot-ledger/internal/schema"
	"github.com/depot-ledger/depot-ledger/internal/store"
)

// Service wraps a Store with the normalization and derivation rules.
// It holds no state between calls; the store is the single shared
// mutable resource, last write wins.
type Service struct {
	store store.Store
	log   zerolog.Logger
}

// New creates a ledger service over the given store.
func New(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// FetchAll reads every category partition and reconstructs typed
// transactions from the raw rows. The read path is fail-soft: a
// partition that cannot be fetched contributes nothing, a row that
// cannot be parsed is skipped, and the caller always gets a usable
// (possibly empty) list, never an error. Cancelling ctx stops the
// remaining partition fetches without side effects.
//
// A row's own type column wins over the partition it sits in; the
// partition is the fallback for rows that predate the type column.
func (s *Service) FetchAll(ctx context.Context) []domain.Transaction {
	txs := make([]domain.Transaction, 0, 64)
	for _, cat := range domain.Categories() {
		if ctx.Err() != nil {
			s.log.Debug().Str("category", string(cat)).Msg("fetch cancelled")
			return txs
		}

		rows, err := s.store.FetchAllRows(ctx, cat.PartitionTitle())
		if err != nil {
			s.log.Warn().Err(err).Str("category", string(cat)).Msg("skipping unreadable partition")
			continue
		}

		for _, row := range rows {
			tx, ok := schema.Reconstruct(row, schema.CategoryOfRow(row, cat))
			if !ok {
				s.log.Debug().Str("category", string(cat)).Msg("skipping row without id")
				continue
			}
			txs = append(txs, tx)
		}
	}
	return txs
}

// Insert normalizes a raw payload and appends it to its category
// partition, creating the partition and any missing canonical headers
// first. The acting operator always overwrites whatever the payload
// claimed. Returns the transaction as it was persisted.
func (s *Service) Insert(ctx context.Context, payload map[string]any, operator string) (domain.Transaction, error) {
	tx, err := s.write(ctx, payload, operator, false)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("insert: %w", err)
	}
	return tx, nil
}

// Update overwrites the row whose id matches the payload's, scanning
// the partition top to bottom. A missing target is a soft condition,
// not a failure: the record is appended instead (best-effort upsert).
func (s *Service) Update(ctx context.Context, payload map[string]any, operator string) (domain.Transaction, error) {
	tx, err := s.write(ctx, payload, operator, true)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("update: %w", err)
	}
	return tx, nil
}

// Delete removes every row whose id column exactly equals id, across
// all four category partitions. Each partition is scanned from the
// last row upward so earlier deletions cannot shift the index of rows
// still to be checked. Returns the number of rows removed.
//
// Partitions are created lazily on first write, so a category that was
// never written to simply has nothing to delete; the scan skips it the
// same way FetchAll skips an unreadable partition. Only a failed row
// removal counts as an error.
func (s *Service) Delete(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, errors.New("delete: missing id")
	}

	removed := 0
	var errs []error
	for _, cat := range domain.Categories() {
		partition := cat.PartitionTitle()
		rows, err := s.store.FetchAllRows(ctx, partition)
		if err != nil {
			s.log.Warn().Err(err).Str("category", string(cat)).Msg("skipping partition in delete scan")
			continue
		}

		for i := len(rows) - 1; i >= 0; i-- {
			if schema.RawID(rows[i]) != id {
				continue
			}
			if err := s.store.DeleteRow(ctx, partition, i); err != nil {
				errs = append(errs, fmt.Errorf("delete: removing row %d of %s: %w", i, cat, err))
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		s.log.Info().Str("id", id).Int("removed", removed).Msg("deleted transaction rows")
	}
	return removed, errors.Join(errs...)
}

// BatchInsert applies Insert once per payload. It is not transactional:
// items committed before a failure stay committed, and later items are
// still attempted. Returns the number of rows that landed alongside
// any accumulated errors.
func (s *Service) BatchInsert(ctx context.Context, payloads []map[string]any, operator string) (int, error) {
	inserted := 0
	var errs []error
	for i, payload := range payloads {
		if _, err := s.Insert(ctx, payload, operator); err != nil {
			errs = append(errs, fmt.Errorf("batch item %d: %w", i, err))
			continue
		}
		inserted++
	}
	return inserted, errors.Join(errs...)
}

// write is the shared insert/update path: resolve category and id,
// stamp the operator, enforce the scrap rule, accrete headers, project
// the row, and place it.
func (s *Service) write(ctx context.Context, payload map[string]any, operator string, locate bool) (domain.Transaction, error) {
	cat, ok := categoryOf(payload)
	if !ok {
		return domain.Transaction{}, errors.New("payload has no valid category")
	}

	id := schema.RawID(payload)
	if id == "" {
		id = domain.NewID()
	}

	if operator == "" {
		operator = domain.DefaultOperator
	}
	payload["operator"] = operator

	schema.ApplyScrap(cat, payload)

	partition := cat.PartitionTitle()
	headers, err := s.ensurePartition(ctx, cat)
	if err != nil {
		return domain.Transaction{}, err
	}

	values := schema.ProjectRow(headers, cat, payload, id)

	if locate {
		rows, err := s.store.FetchAllRows(ctx, partition)
		if err != nil {
			return domain.Transaction{}, fmt.Errorf("locating %s: %w", id, err)
		}
		for i, row := range rows {
			if schema.RawID(row) == id {
				if err := s.store.OverwriteRow(ctx, partition, i, values); err != nil {
					return domain.Transaction{}, err
				}
				return persisted(headers, values, cat)
			}
		}
		s.log.Info().Str("id", id).Str("category", string(cat)).Msg("update target not found, appending instead")
	}

	if err := s.store.AppendRow(ctx, partition, values); err != nil {
		return domain.Transaction{}, err
	}
	return persisted(headers, values, cat)
}

// ensurePartition guarantees the category partition exists and carries
// every canonical header, appending only what is missing. Existing
// columns, including ones headed by legacy aliases, keep their name
// and position.
func (s *Service) ensurePartition(ctx context.Context, cat domain.Category) ([]string, error) {
	partition := cat.PartitionTitle()

	headers, err := s.store.Headers(ctx, partition)
	if err != nil {
		if createErr := s.store.CreatePartition(ctx, partition); createErr != nil {
			return nil, fmt.Errorf("creating partition %s: %w", cat, createErr)
		}
		s.log.Info().Str("category", string(cat)).Msg("created missing partition")
		headers = nil
	}

	missing := schema.ResolveHeaders(headers, cat)
	if len(missing) > 0 {
		if err := s.store.AppendHeaders(ctx, partition, missing); err != nil {
			return nil, fmt.Errorf("appending headers to %s: %w", cat, err)
		}
		headers = append(headers, missing...)
	}
	return headers, nil
}

// persisted rebuilds the typed transaction from the exact values that
// were written, so callers see what a subsequent FetchAll would.
func persisted(headers []string, values []any, cat domain.Category) (domain.Transaction, error) {
	row := make(store.Row, len(headers))
	for i, h := range headers {
		if i < len(values) {
			row[h] = values[i]
		}
	}
	tx, ok := schema.Reconstruct(row, cat)
	if !ok {
		return domain.Transaction{}, errors.New("written row did not round-trip")
	}
	return tx, nil
}

func categoryOf(payload map[string]any) (domain.Category, bool) {
	for _, key := range []string{"type", "category", "類別", "分類"} {
		if v, ok := payload[key]; ok && v != nil {
			if cat, ok := domain.ParseCategory(fmt.Sprint(v)); ok {
				return cat, true
			}
		}
	}
	return "", false
}
