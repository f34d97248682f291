package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depot-ledger/depot-ledger/internal/domain"
	"github.com/depot-ledger/depot-ledger/internal/logger"
	"github.com/depot-ledger/depot-ledger/internal/store"
)

func newTestService() (*Service, *store.Memory) {
	mem := store.NewMemory()
	return New(mem, logger.New("error", "json")), mem
}

func TestInsertFetchAllRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	inserted, err := svc.Insert(ctx, map[string]any{
		"type":         "INBOUND",
		"date":         "2024-03-01",
		"materialName": "bearing",
		"quantity":     2,
		"unitPrice":    150.0,
		"isReceived":   true,
		"note":         "first shipment",
	}, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, inserted.ID)

	txs := svc.FetchAll(ctx)
	require.Len(t, txs, 1)
	assert.Equal(t, inserted, txs[0], "read-back must equal the persisted transaction on every canonical field")

	got := txs[0]
	assert.Equal(t, domain.CategoryInbound, got.Category)
	assert.Equal(t, "2024-03-01", got.Date)
	assert.Equal(t, "bearing", got.MaterialName)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, 150.0, got.UnitPrice)
	assert.Equal(t, 300.0, got.Total)
	assert.True(t, got.IsReceived)
	assert.Equal(t, "alice", got.Operator, "operator comes from the session, not the payload")
}

func TestInsertOverwritesOperatorAndTotal(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tx, err := svc.Insert(ctx, map[string]any{
		"type":      "USAGE",
		"operator":  "forged",
		"quantity":  4,
		"unitPrice": 5.0,
		"total":     999999.0,
	}, "bob")
	require.NoError(t, err)

	assert.Equal(t, "bob", tx.Operator)
	assert.Equal(t, 20.0, tx.Total, "caller-supplied total must be discarded")
}

func TestInsertWithoutCategoryFails(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Insert(context.Background(), map[string]any{"materialName": "x"}, "")
	require.Error(t, err)
}

func TestInsertGeneratesID(t *testing.T) {
	svc, _ := newTestService()
	tx, err := svc.Insert(context.Background(), map[string]any{"type": "工程"}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, domain.CategoryConstruction, tx.Category, "localized category value resolves")
	assert.Equal(t, domain.DefaultOperator, tx.Operator)
}

func TestInsertScrappedRepair(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tx, err := svc.Insert(ctx, map[string]any{
		"type":         "REPAIR",
		"materialName": "fan",
		"faultReason":  "dead",
		"isScrapped":   true,
		"unitPrice":    800.0,
		"repairDate":   "2024-05-01",
		"installDate":  "2024-05-03",
		"note":         "beyond saving",
	}, "carol")
	require.NoError(t, err)

	assert.Equal(t, 0.0, tx.UnitPrice)
	assert.Equal(t, 0.0, tx.Total)
	assert.Empty(t, tx.RepairDate)
	assert.Empty(t, tx.InstallDate)
	assert.Equal(t, domain.ScrapMarker+" beyond saving", tx.Note)
}

func TestUpdateOverwritesInPlace(t *testing.T) {
	svc, mem := newTestService()
	ctx := context.Background()

	first, err := svc.Insert(ctx, map[string]any{"type": "INBOUND", "materialName": "old", "id": "fixed-1"}, "")
	require.NoError(t, err)
	_, err = svc.Insert(ctx, map[string]any{"type": "INBOUND", "materialName": "other"}, "")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, map[string]any{"type": "INBOUND", "id": "fixed-1", "materialName": "new", "quantity": 9}, "dave")
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, "new", updated.MaterialName)

	rows, err := mem.FetchAllRows(ctx, domain.CategoryInbound.PartitionTitle())
	require.NoError(t, err)
	require.Len(t, rows, 2, "update must overwrite, not append")

	txs := svc.FetchAll(ctx)
	names := []string{txs[0].MaterialName, txs[1].MaterialName}
	assert.Contains(t, names, "new")
	assert.NotContains(t, names, "old")
}

func TestUpdateMissingTargetAppends(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Insert(ctx, map[string]any{"type": "USAGE", "materialName": "a"}, "")
	require.NoError(t, err)

	// Best-effort upsert: an unknown id degrades to insert.
	_, err = svc.Update(ctx, map[string]any{"type": "USAGE", "id": "ghost", "materialName": "b"}, "")
	require.NoError(t, err)

	txs := svc.FetchAll(ctx)
	assert.Len(t, txs, 2)
}

func TestDeleteScansEveryPartition(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// The same id in two partitions, plus near-miss ids that must stay.
	_, err := svc.Insert(ctx, map[string]any{"type": "INBOUND", "id": "dup", "materialName": "a"}, "")
	require.NoError(t, err)
	_, err = svc.Insert(ctx, map[string]any{"type": "REPAIR", "id": "dup", "materialName": "b"}, "")
	require.NoError(t, err)
	_, err = svc.Insert(ctx, map[string]any{"type": "USAGE", "id": "dup2", "materialName": "c"}, "")
	require.NoError(t, err)
	_, err = svc.Insert(ctx, map[string]any{"type": "USAGE", "id": "du", "materialName": "d"}, "")
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	var ids []string
	for _, tx := range svc.FetchAll(ctx) {
		ids = append(ids, tx.ID)
	}
	assert.ElementsMatch(t, []string{"dup2", "du"}, ids, "only exact id matches are removed")
}

func TestDeleteBottomUpWithinPartition(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, id := range []string{"dup", "keep", "dup"} {
		_, err := svc.Insert(ctx, map[string]any{"type": "INBOUND", "id": id, "materialName": id}, "")
		require.NoError(t, err)
	}

	removed, err := svc.Delete(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	txs := svc.FetchAll(ctx)
	require.Len(t, txs, 1)
	assert.Equal(t, "keep", txs[0].ID)
}

func TestDeleteSkipsUnwrittenPartitions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Partitions are created lazily, so only USAGE exists here; the
	// other three must not turn the delete into a failure.
	_, err := svc.Insert(ctx, map[string]any{"type": "USAGE", "id": "only", "materialName": "a"}, "")
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, "only")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = svc.Delete(ctx, "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, removed, "an id present nowhere removes nothing")
}

func TestDeleteMissingID(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Delete(context.Background(), "")
	require.Error(t, err)
}

func TestBatchInsertPartialFailure(t *testing.T) {
	mem := store.NewMemory()
	flaky := &flakyStore{Store: mem, failAfterAppends: 2}
	svc := New(flaky, logger.New("error", "json"))
	ctx := context.Background()

	payloads := []map[string]any{
		{"type": "INBOUND", "materialName": "one"},
		{"type": "INBOUND", "materialName": "two"},
		{"type": "INBOUND", "materialName": "three"},
	}
	inserted, err := svc.BatchInsert(ctx, payloads, "")
	require.Error(t, err, "a failed item must surface")
	assert.Equal(t, 2, inserted, "rows committed before the failure stay committed")

	txs := svc.FetchAll(ctx)
	assert.Len(t, txs, 2)
}

func TestFetchAllFailSoft(t *testing.T) {
	svc := New(&downStore{}, logger.New("error", "json"))
	txs := svc.FetchAll(context.Background())
	assert.NotNil(t, txs)
	assert.Empty(t, txs, "an unreachable store degrades to an empty result, never an error")
}

func TestFetchAllCancelled(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Insert(context.Background(), map[string]any{"type": "INBOUND"}, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, svc.FetchAll(ctx))
}

func TestFetchAllRowTypeOverridesPartition(t *testing.T) {
	mem := store.NewMemory()
	svc := New(mem, logger.New("error", "json"))
	ctx := context.Background()

	partition := domain.CategoryInbound.PartitionTitle()
	require.NoError(t, mem.CreatePartition(ctx, partition))
	require.NoError(t, mem.AppendHeaders(ctx, partition, []string{"id", "type", "materialName"}))
	// A row filed under the wrong tab but carrying its own type.
	require.NoError(t, mem.AppendRow(ctx, partition, []any{"m-1", "維修", "motor"}))
	// A row predating the type column falls back to the partition.
	require.NoError(t, mem.AppendRow(ctx, partition, []any{"m-2", "", "fan"}))

	txs := svc.FetchAll(ctx)
	require.Len(t, txs, 2)
	assert.Equal(t, domain.CategoryRepair, txs[0].Category)
	assert.Equal(t, domain.CategoryInbound, txs[1].Category)
}

func TestHeaderAccretionOnLegacyPartition(t *testing.T) {
	mem := store.NewMemory()
	svc := New(mem, logger.New("error", "json"))
	ctx := context.Background()

	// A partition created years ago with localized headers and one row.
	partition := domain.CategoryUsage.PartitionTitle()
	require.NoError(t, mem.CreatePartition(ctx, partition))
	require.NoError(t, mem.AppendHeaders(ctx, partition, []string{"id", "日期", "材料名稱", "數量", "單價"}))
	require.NoError(t, mem.AppendRow(ctx, partition, []any{"legacy-1", "2023/07/01", "皮帶", "2", "100"}))

	_, err := svc.Insert(ctx, map[string]any{"type": "USAGE", "materialName": "belt", "note": "kept"}, "")
	require.NoError(t, err)

	headers, err := mem.Headers(ctx, partition)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "日期", "材料名稱", "數量", "單價"}, headers[:5], "existing columns keep name and position")
	assert.Contains(t, headers, "note", "missing canonical headers are appended")
	assert.NotContains(t, headers, "date", "aliased columns are not duplicated")

	// Both the legacy row and the new one read back.
	txs := svc.FetchAll(ctx)
	require.Len(t, txs, 2)
	assert.Equal(t, "皮帶", txs[0].MaterialName)
	assert.Equal(t, "2023-07-01", txs[0].Date)
	assert.Equal(t, "kept", txs[1].Note)

	// A second insert must not grow the header row again.
	before := len(headers)
	_, err = svc.Insert(ctx, map[string]any{"type": "USAGE"}, "")
	require.NoError(t, err)
	headers, _ = mem.Headers(ctx, partition)
	assert.Len(t, headers, before)
}

// flakyStore fails AppendRow after a fixed number of successes.
type flakyStore struct {
	store.Store
	failAfterAppends int
	appends          int
}

func (f *flakyStore) AppendRow(ctx context.Context, name string, values []any) error {
	if f.appends >= f.failAfterAppends {
		return errors.New("store unavailable")
	}
	f.appends++
	return f.Store.AppendRow(ctx, name, values)
}

// downStore is completely unreachable.
type downStore struct{ store.Store }

func (d *downStore) FetchAllRows(ctx context.Context, name string) ([]store.Row, error) {
	return nil, errors.New("network down")
}
