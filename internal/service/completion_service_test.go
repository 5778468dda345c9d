package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocktrack-io/stocktrack/internal/models"
	"github.com/stocktrack-io/stocktrack/internal/repository"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func closedLog(orderNumber, itemNumber string, quantity *float64) *models.TimeLog {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	return &models.TimeLog{
		Type:                  models.TimeLogTypeProductionOrder,
		StartTime:             start,
		EndTime:               &end,
		ProductionOrderNumber: orderNumber,
		ProductionItemNumber:  itemNumber,
		ProductionQuantity:    quantity,
	}
}

func qty(v float64) *float64 { return &v }

func TestCheckAndMarkOrderFinished(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)

	orders := repository.NewMemoryProductionOrderRepository()
	logs := repository.NewMemoryTimeLogRepository()
	svc := NewCompletionService(orders, logs, fixedClock(now))

	orders.Add(models.ProductionOrder{OrderNumber: "PO-1001", ForTimeRegistration: true},
		models.ProductionOrderLine{ItemNumber: "ITEM-A", Quantity: 2},
		models.ProductionOrderLine{ItemNumber: "ITEM-B", Quantity: 1},
	)

	// One explicit 2-unit log on line A, one quantity-less log ("one unit")
	// on line B.
	require.NoError(t, logs.Create(ctx, closedLog("PO-1001", "ITEM-A", qty(2))))
	require.NoError(t, logs.Create(ctx, closedLog("PO-1001", "ITEM-B", nil)))

	finished, err := svc.CheckAndMarkOrderFinished(ctx, "PO-1001")
	require.NoError(t, err)
	assert.True(t, finished, "both lines satisfied exactly")

	order, err := orders.GetEligibleByNumber(ctx, "PO-1001")
	require.NoError(t, err)
	assert.Nil(t, order, "finished order must drop out of the eligibility filter")

	// Detecting the transition, not steady state: later calls are false.
	finished, err = svc.CheckAndMarkOrderFinished(ctx, "PO-1001")
	require.NoError(t, err)
	assert.False(t, finished)
}

func TestCheckAndMarkOrderFinishedShortCircuits(t *testing.T) {
	ctx := context.Background()

	orders := repository.NewMemoryProductionOrderRepository()
	logs := repository.NewMemoryTimeLogRepository()
	svc := NewCompletionService(orders, logs, nil)

	orders.Add(models.ProductionOrder{OrderNumber: "PO-1002", ForTimeRegistration: true},
		models.ProductionOrderLine{ItemNumber: "ITEM-A", Quantity: 1},
		models.ProductionOrderLine{ItemNumber: "ITEM-B", Quantity: 3},
	)

	// Line A has surplus, line B is one unit short.
	require.NoError(t, logs.Create(ctx, closedLog("PO-1002", "ITEM-A", qty(5))))
	require.NoError(t, logs.Create(ctx, closedLog("PO-1002", "ITEM-B", qty(2))))

	finished, err := svc.CheckAndMarkOrderFinished(ctx, "PO-1002")
	require.NoError(t, err)
	assert.False(t, finished, "surplus on one line never compensates another")
}

func TestCheckAndMarkOrderFinishedEligibility(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)

	orders := repository.NewMemoryProductionOrderRepository()
	logs := repository.NewMemoryTimeLogRepository()
	svc := NewCompletionService(orders, logs, fixedClock(now))

	orders.Add(models.ProductionOrder{OrderNumber: "PO-NOFLAG", ForTimeRegistration: false},
		models.ProductionOrderLine{ItemNumber: "X", Quantity: 1})
	done := now.Add(-time.Hour)
	orders.Add(models.ProductionOrder{OrderNumber: "PO-DONE", ForTimeRegistration: true, FinishedAt: &done},
		models.ProductionOrderLine{ItemNumber: "X", Quantity: 1})
	orders.Add(models.ProductionOrder{OrderNumber: "PO-EMPTY", ForTimeRegistration: true})

	for _, number := range []string{"", "   ", "PO-MISSING", "PO-NOFLAG", "PO-DONE", "PO-EMPTY"} {
		finished, err := svc.CheckAndMarkOrderFinished(ctx, number)
		require.NoError(t, err, "order %q", number)
		assert.False(t, finished, "order %q must resolve to a silent false", number)
	}
}

func TestCheckAndMarkOrderFinishedQuantityRules(t *testing.T) {
	ctx := context.Background()

	t.Run("zero quantity line still needs one unit", func(t *testing.T) {
		orders := repository.NewMemoryProductionOrderRepository()
		logs := repository.NewMemoryTimeLogRepository()
		svc := NewCompletionService(orders, logs, nil)

		orders.Add(models.ProductionOrder{OrderNumber: "PO-1003", ForTimeRegistration: true},
			models.ProductionOrderLine{ItemNumber: "ITEM-A", Quantity: 0})

		finished, err := svc.CheckAndMarkOrderFinished(ctx, "PO-1003")
		require.NoError(t, err)
		assert.False(t, finished, "malformed quantity must not trivially satisfy completion")

		require.NoError(t, logs.Create(ctx, closedLog("PO-1003", "ITEM-A", nil)))
		finished, err = svc.CheckAndMarkOrderFinished(ctx, "PO-1003")
		require.NoError(t, err)
		assert.True(t, finished)
	})

	t.Run("negative log quantity counts as zero", func(t *testing.T) {
		orders := repository.NewMemoryProductionOrderRepository()
		logs := repository.NewMemoryTimeLogRepository()
		svc := NewCompletionService(orders, logs, nil)

		orders.Add(models.ProductionOrder{OrderNumber: "PO-1004", ForTimeRegistration: true},
			models.ProductionOrderLine{ItemNumber: "ITEM-A", Quantity: 1})

		require.NoError(t, logs.Create(ctx, closedLog("PO-1004", "ITEM-A", qty(-4))))
		finished, err := svc.CheckAndMarkOrderFinished(ctx, "PO-1004")
		require.NoError(t, err)
		assert.False(t, finished)
	})

	t.Run("open logs never count", func(t *testing.T) {
		orders := repository.NewMemoryProductionOrderRepository()
		logs := repository.NewMemoryTimeLogRepository()
		svc := NewCompletionService(orders, logs, nil)

		orders.Add(models.ProductionOrder{OrderNumber: "PO-1005", ForTimeRegistration: true},
			models.ProductionOrderLine{ItemNumber: "ITEM-A", Quantity: 1})

		running := closedLog("PO-1005", "ITEM-A", qty(3))
		running.EndTime = nil
		require.NoError(t, logs.Create(ctx, running))

		finished, err := svc.CheckAndMarkOrderFinished(ctx, "PO-1005")
		require.NoError(t, err)
		assert.False(t, finished)
	})

	t.Run("blank item line matches blank item logs", func(t *testing.T) {
		orders := repository.NewMemoryProductionOrderRepository()
		logs := repository.NewMemoryTimeLogRepository()
		svc := NewCompletionService(orders, logs, nil)

		orders.Add(models.ProductionOrder{OrderNumber: "PO-1006", ForTimeRegistration: true},
			models.ProductionOrderLine{ItemNumber: "", Quantity: 1})

		require.NoError(t, logs.Create(ctx, closedLog("PO-1006", "", nil)))
		finished, err := svc.CheckAndMarkOrderFinished(ctx, "PO-1006")
		require.NoError(t, err)
		assert.True(t, finished)
	})
}

func TestCheckAndMarkOrderFinishedStampsInjectedClock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)

	orders := repository.NewMemoryProductionOrderRepository()
	logs := repository.NewMemoryTimeLogRepository()
	svc := NewCompletionService(orders, logs, fixedClock(now))

	orders.Add(models.ProductionOrder{OrderNumber: "PO-1007", ForTimeRegistration: true},
		models.ProductionOrderLine{ItemNumber: "ITEM-A", Quantity: 1})
	require.NoError(t, logs.Create(ctx, closedLog("PO-1007", "ITEM-A", nil)))

	finished, err := svc.CheckAndMarkOrderFinished(ctx, "PO-1007")
	require.NoError(t, err)
	require.True(t, finished)

	all, err := orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].FinishedAt)
	assert.True(t, all[0].FinishedAt.Equal(now))
}

// failingOrderRepository forces persistence failures at chosen points.
type failingOrderRepository struct {
	repository.ProductionOrderRepository
	failLines  bool
	failFinish bool
}

var errDatabaseDown = errors.New("database down")

func (f *failingOrderRepository) ListLines(ctx context.Context, orderID int) ([]*models.ProductionOrderLine, error) {
	if f.failLines {
		return nil, errDatabaseDown
	}
	return f.ProductionOrderRepository.ListLines(ctx, orderID)
}

func (f *failingOrderRepository) MarkFinished(ctx context.Context, orderID int, at time.Time) (bool, error) {
	if f.failFinish {
		return false, errDatabaseDown
	}
	return f.ProductionOrderRepository.MarkFinished(ctx, orderID, at)
}

func TestCheckAndMarkOrderFinishedCollaboratorFailure(t *testing.T) {
	ctx := context.Background()

	orders := repository.NewMemoryProductionOrderRepository()
	logs := repository.NewMemoryTimeLogRepository()

	orders.Add(models.ProductionOrder{OrderNumber: "PO-1008", ForTimeRegistration: true},
		models.ProductionOrderLine{ItemNumber: "ITEM-A", Quantity: 1})
	require.NoError(t, logs.Create(ctx, closedLog("PO-1008", "ITEM-A", nil)))

	failing := &failingOrderRepository{ProductionOrderRepository: orders, failLines: true}
	svc := NewCompletionService(failing, logs, nil)

	finished, err := svc.CheckAndMarkOrderFinished(ctx, "PO-1008")
	assert.False(t, finished)
	require.ErrorIs(t, err, errDatabaseDown)

	failing.failLines = false
	failing.failFinish = true
	finished, err = svc.CheckAndMarkOrderFinished(ctx, "PO-1008")
	assert.False(t, finished, "must not report success before persistence succeeds")
	require.ErrorIs(t, err, errDatabaseDown)

	// The failed write left the order eligible; the next call self-heals.
	failing.failFinish = false
	finished, err = svc.CheckAndMarkOrderFinished(ctx, "PO-1008")
	require.NoError(t, err)
	assert.True(t, finished)
}

func TestSweepEligibleOrders(t *testing.T) {
	ctx := context.Background()

	orders := repository.NewMemoryProductionOrderRepository()
	logs := repository.NewMemoryTimeLogRepository()
	svc := NewCompletionService(orders, logs, nil)

	orders.Add(models.ProductionOrder{OrderNumber: "PO-A", ForTimeRegistration: true},
		models.ProductionOrderLine{ItemNumber: "X", Quantity: 1})
	orders.Add(models.ProductionOrder{OrderNumber: "PO-B", ForTimeRegistration: true},
		models.ProductionOrderLine{ItemNumber: "Y", Quantity: 2})
	require.NoError(t, logs.Create(ctx, closedLog("PO-A", "X", nil)))

	finished, err := svc.SweepEligibleOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, finished, "only the satisfied order finishes")

	numbers, err := orders.ListEligibleNumbers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PO-B"}, numbers)
}
