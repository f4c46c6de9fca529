package orderstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opticore/lenscard-backend/internal/normalize"
	"github.com/opticore/lenscard-backend/pkg/enums"
	pkgerrors "github.com/opticore/lenscard-backend/pkg/errors"
)

func loadedState(t *testing.T) State {
	t.Helper()
	record := normalize.CanonicalRecord{
		Items: []normalize.ItemRecord{
			{EyeSide: enums.EyeSideRight, Quantity: 1, Rate: 700, DiscountPercent: 10},
			{EyeSide: enums.EyeSideLeft, Quantity: 1, Rate: 300},
		},
		Payment: normalize.PaymentRecord{
			PaymentTotal: 931.55,
			Estimate:     1001.55,
			Advance:      500,
			Balance:      431.55,
			CashAdvance:  500,
		},
	}
	state, decision, err := Reduce(NewState(), RecordLoaded{Record: record}, false)
	require.NoError(t, err)
	require.Equal(t, DecisionSkippedNoop, decision)
	return state
}

func TestRecordLoadedCopiesTotalsVerbatim(t *testing.T) {
	state := loadedState(t)

	// The stored totals are not reproducible from the items on purpose; the
	// load must keep them anyway.
	assert.Equal(t, enums.ProvenanceDatabaseValues, state.Provenance)
	assert.Equal(t, 931.55, state.FinalTotal)
	assert.Equal(t, 1001.55, state.Subtotal)
	assert.Equal(t, 431.55, state.Balance)
	assert.Equal(t, 500.0, state.TotalAdvance)
}

func TestRecordLoadedResolvesItemDiscounts(t *testing.T) {
	state := loadedState(t)

	require.Len(t, state.Items, 2)
	assert.Equal(t, 70.0, state.Items[0].DiscountAmount)
	assert.Equal(t, 630.0, state.Items[0].FinalAmount)
	assert.Equal(t, 300.0, state.Items[1].FinalAmount)
}

func TestRecordLoadedAllocatesOrderDiscount(t *testing.T) {
	record := normalize.CanonicalRecord{
		Items: []normalize.ItemRecord{
			{Quantity: 1, Rate: 700},
			{Quantity: 1, Rate: 300},
		},
		Payment: normalize.PaymentRecord{
			DiscountAmount: 100,
			PaymentTotal:   900,
		},
	}
	state, _, err := Reduce(NewState(), RecordLoaded{Record: record}, false)
	require.NoError(t, err)

	assert.Equal(t, 70.0, state.Items[0].DiscountAmount)
	assert.Equal(t, 30.0, state.Items[1].DiscountAmount)
	assert.Equal(t, 630.0, state.Items[0].FinalAmount)
	assert.Equal(t, 270.0, state.Items[1].FinalAmount)
}

func TestAggregateIdempotentUnderDatabaseValues(t *testing.T) {
	state := loadedState(t)

	for i := 0; i < 5; i++ {
		next, decision := Aggregate(state, false, false)
		assert.Equal(t, DecisionBlockedProvenance, decision)
		assert.Equal(t, state, next, "iteration %d must not drift the state", i)
		state = next
	}
}

func TestAggregateNoopGuardOnUserInput(t *testing.T) {
	state, _, err := Reduce(NewState(), ItemAdded{Item: LineItem{Quantity: 1, Rate: 250}}, false)
	require.NoError(t, err)
	require.Equal(t, 250.0, state.FinalTotal)

	next, decision := Aggregate(state, false, false)
	assert.Equal(t, DecisionSkippedNoop, decision)
	assert.Equal(t, state, next)
}

func TestItemAddedEscapesProvenanceGuard(t *testing.T) {
	state := loadedState(t)
	before := state.FinalTotal

	next, decision, err := Reduce(state, ItemAdded{Item: LineItem{Quantity: 1, Rate: 450}}, false)
	require.NoError(t, err)

	assert.Equal(t, DecisionPerformed, decision)
	assert.Equal(t, enums.ProvenanceUserInput, next.Provenance)
	assert.Len(t, next.Items, 3)
	assert.NotEqual(t, before, next.FinalTotal)
	// Recomputed from items: 630 + 300 + 450.
	assert.Equal(t, 1380.0, next.FinalTotal)
}

func TestFieldEditedRecomputesBalance(t *testing.T) {
	state, _, err := Reduce(NewState(), ItemAdded{Item: LineItem{Quantity: 2, Rate: 500}}, false)
	require.NoError(t, err)

	state, decision, err := Reduce(state, FieldEdited{Field: enums.PaymentFieldCashAdvance, Value: 400}, false)
	require.NoError(t, err)
	require.Equal(t, DecisionPerformed, decision)

	assert.Equal(t, 400.0, state.CashAdvance)
	assert.Equal(t, 400.0, state.TotalAdvance)
	assert.Equal(t, 600.0, state.Balance)
}

func TestBalanceNeverNegative(t *testing.T) {
	state, _, err := Reduce(NewState(), ItemAdded{Item: LineItem{Quantity: 1, Rate: 100}}, false)
	require.NoError(t, err)

	state, _, err = Reduce(state, FieldEdited{Field: enums.PaymentFieldCashAdvance, Value: 700}, false)
	require.NoError(t, err)

	assert.Equal(t, 0.0, state.Balance)
	assert.Equal(t, 700.0, state.TotalAdvance)
}

func TestFieldEditedRejectsNegativeValue(t *testing.T) {
	state := loadedState(t)
	next, _, err := Reduce(state, FieldEdited{Field: enums.PaymentFieldCashAdvance, Value: -1}, false)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Equal(t, state, next, "failed event leaves state untouched")
}

func TestFieldEditedRejectsUnknownField(t *testing.T) {
	_, _, err := Reduce(NewState(), FieldEdited{Field: "tip_jar", Value: 5}, false)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestLoadingFlagBlocksEveryMutation(t *testing.T) {
	state := loadedState(t)

	events := []Event{
		FieldEdited{Field: enums.PaymentFieldCashAdvance, Value: 10},
		ItemAdded{Item: LineItem{Quantity: 1, Rate: 10}},
		ItemsReplaced{Items: nil},
		DiscountApplied{Percent: 5, Confirmed: true},
	}
	for _, ev := range events {
		next, decision, err := Reduce(state, ev, true)
		require.Error(t, err, "event %s", Name(ev))
		assert.Equal(t, DecisionBlockedLoading, decision)
		assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
		assert.Equal(t, state, next)
	}
}

func TestDiscountAppliedRequiresConfirmationOnStoredValues(t *testing.T) {
	state := loadedState(t)

	next, decision, err := Reduce(state, DiscountApplied{Percent: 5}, false)
	require.Error(t, err)
	assert.Equal(t, DecisionBlockedProvenance, decision)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	assert.Equal(t, state, next)

	confirmed, decision, err := Reduce(state, DiscountApplied{Percent: 5, Confirmed: true}, false)
	require.NoError(t, err)
	assert.Equal(t, DecisionPerformed, decision)
	assert.Equal(t, enums.ProvenanceUserInput, confirmed.Provenance)
	// 700 and 300 bases at 5% each.
	assert.Equal(t, 50.0, confirmed.TotalDiscount)
	assert.Equal(t, 950.0, confirmed.FinalTotal)
}

func TestDiscountAppliedValidatesRange(t *testing.T) {
	for _, percent := range []float64{-1, 100.5} {
		_, _, err := Reduce(NewState(), DiscountApplied{Percent: percent}, false)
		require.Error(t, err, "percent %v", percent)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}
}

func TestPendingDiscountAppliedToNewItems(t *testing.T) {
	state, _, err := Reduce(NewState(), DiscountApplied{Percent: 10}, false)
	require.NoError(t, err)
	require.Equal(t, 10.0, state.PendingDiscountPercent)

	state, _, err = Reduce(state, ItemAdded{Item: LineItem{Quantity: 1, Rate: 200}}, false)
	require.NoError(t, err)

	require.Len(t, state.Items, 1)
	assert.Equal(t, 10.0, state.Items[0].DiscountPercent)
	assert.Equal(t, 20.0, state.Items[0].DiscountAmount)
	assert.Equal(t, 180.0, state.Items[0].FinalAmount)
}

func TestClearedResetsToInitial(t *testing.T) {
	state := loadedState(t)
	next, _, err := Reduce(state, Cleared{}, false)
	require.NoError(t, err)

	assert.Equal(t, NewState(), next)
	assert.Equal(t, enums.ProvenanceInitial, next.Provenance)
}

func TestZeroQuantityRepairFlowsThroughAggregate(t *testing.T) {
	state, _, err := Reduce(NewState(), ItemAdded{Item: LineItem{Quantity: 0, Rate: 500, DiscountPercent: 10}}, false)
	require.NoError(t, err)

	require.Len(t, state.Items, 1)
	assert.Equal(t, 1.0, state.Items[0].Quantity)
	assert.Equal(t, 50.0, state.Items[0].DiscountAmount)
	assert.Equal(t, 450.0, state.Items[0].FinalAmount)
	assert.Equal(t, 500.0, state.Subtotal)
	assert.Equal(t, 450.0, state.FinalTotal)
}

func TestReduceDoesNotMutatePrevious(t *testing.T) {
	state := loadedState(t)
	itemsBefore := make([]LineItem, len(state.Items))
	copy(itemsBefore, state.Items)

	_, _, err := Reduce(state, DiscountApplied{Percent: 20, Confirmed: true}, false)
	require.NoError(t, err)

	assert.Equal(t, itemsBefore, state.Items)
}
