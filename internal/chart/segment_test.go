package chart

import (
	"context"
	"errors"
	"testing"

	"github.com/cellplot/cellplot/internal/contract"
	"github.com/cellplot/cellplot/internal/store"
	"github.com/cellplot/cellplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func segmentRows() []schema.CycleSummary {
	return []schema.CycleSummary{
		{CycleIndex: 100, IR: schema.Float(0.0167), QDischarge: schema.Float(1.071)},
		{CycleIndex: 101, IR: nil, QDischarge: schema.Float(1.070)},
		{CycleIndex: 102, IR: schema.Float(0.0169), QDischarge: nil},
	}
}

func TestSegmentRequest(t *testing.T) {
	req := SegmentRequest("b1c0", 100, 102, segmentRows())

	assert.Equal(t, []any{100, 101, 102}, req.Data.Labels)
	require.Len(t, req.Data.Datasets, 2)
	assert.Equal(t, "IR", req.Data.Datasets[0].Label)
	assert.Equal(t, []any{0.0167, nil, 0.0169}, req.Data.Datasets[0].Data)
	assert.Equal(t, "Ω", *req.Data.Datasets[0].Unit)
	assert.Equal(t, "Qd", req.Data.Datasets[1].Label)
	assert.Equal(t, "Ah", *req.Data.Datasets[1].Unit)
	assert.Equal(t, "Cycle Index", req.XTitle())
	assert.Equal(t, "b1c0 cycles 100-102", req.Title())
}

func TestSegmentChart(t *testing.T) {
	rs := &store.MockRecordStore{}
	rs.On("GetCycleSummariesInRange", mock.Anything, "b1c0", 100, 102).Return(segmentRows(), nil)

	res, err := SegmentChart(context.Background(), rs, smallComposer(1), " b1c0 ", "100–102")
	require.NoError(t, err)
	rs.AssertExpectations(t)

	assert.Equal(t, "Ω", res.Axes.Primary)
	require.NotNil(t, res.Axes.Secondary)
	assert.Equal(t, "Ah", *res.Axes.Secondary)
	assert.Equal(t, schema.PrimaryAxis, res.LabelAxisMap["IR"])
	assert.Equal(t, schema.SecondaryAxis, res.LabelAxisMap["Qd"])
	assert.NotEmpty(t, res.Image)
}

func TestSegmentChartErrors(t *testing.T) {
	ctx := context.Background()
	c := smallComposer(1)

	_, err := SegmentChart(ctx, &store.MockRecordStore{}, c, "", "1-2")
	assert.ErrorIs(t, err, contract.ErrBadRequest)

	_, err = SegmentChart(ctx, &store.MockRecordStore{}, c, "b1c0", "")
	assert.ErrorIs(t, err, contract.ErrBadRequest)

	_, err = SegmentChart(ctx, &store.MockRecordStore{}, c, "b1c0", "a-b")
	assert.ErrorIs(t, err, contract.ErrBadRequest)

	empty := &store.MockRecordStore{}
	empty.On("GetCycleSummariesInRange", mock.Anything, "b1c0", 5, 9).Return([]schema.CycleSummary{}, nil)
	_, err = SegmentChart(ctx, empty, c, "b1c0", "5-9")
	assert.ErrorIs(t, err, contract.ErrNotFound)

	failing := &store.MockRecordStore{}
	failing.On("GetCycleSummariesInRange", mock.Anything, "b1c0", 1, 2).Return(nil, errors.New("db down"))
	_, err = SegmentChart(ctx, failing, c, "b1c0", "1-2")
	assert.EqualError(t, err, "db down")
}
