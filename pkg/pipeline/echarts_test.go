package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillVizConfig_BarSeries(t *testing.T) {
	option := map[string]any{
		"xAxis":  map[string]any{"type": "category", "data": []any{}},
		"yAxis":  map[string]any{"type": "value"},
		"series": []any{map[string]any{"type": "bar", "data": []any{}}},
	}
	columns := []string{"city", "c"}
	rows := [][]any{{"BJ", int64(3)}, {"SH", int64(2)}}

	filled := fillVizConfig(option, columns, rows)

	xAxis := filled["xAxis"].(map[string]any)
	assert.Equal(t, []any{"BJ", "SH"}, xAxis["data"])

	series := filled["series"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{int64(3), int64(2)}, series["data"])
	assert.Equal(t, "c", series["name"])
}

func TestFillVizConfig_PieSeries(t *testing.T) {
	option := map[string]any{
		"series": []any{map[string]any{"type": "pie", "data": []any{}}},
	}
	columns := []string{"city", "c"}
	rows := [][]any{{"BJ", int64(3)}, {"SH", int64(2)}}

	filled := fillVizConfig(option, columns, rows)

	series := filled["series"].([]any)[0].(map[string]any)
	require.Equal(t, []any{
		map[string]any{"name": "BJ", "value": int64(3)},
		map[string]any{"name": "SH", "value": int64(2)},
	}, series["data"])
}

func TestFillVizConfig_PieDropsNullValues(t *testing.T) {
	option := map[string]any{
		"series": []any{map[string]any{"type": "pie", "data": []any{}}},
	}
	columns := []string{"city", "c"}
	rows := [][]any{{"BJ", int64(3)}, {"SH", nil}}

	filled := fillVizConfig(option, columns, rows)

	series := filled["series"].([]any)[0].(map[string]any)
	assert.Len(t, series["data"], 1)
}

func TestFillVizConfig_XAxisAsList(t *testing.T) {
	option := map[string]any{
		"xAxis":  []any{map[string]any{"type": "category"}},
		"series": []any{map[string]any{"type": "bar"}},
	}
	rows := [][]any{{"BJ", int64(1)}}

	filled := fillVizConfig(option, []string{"city", "c"}, rows)

	xAxisList := filled["xAxis"].([]any)
	first := xAxisList[0].(map[string]any)
	assert.Equal(t, []any{"BJ"}, first["data"])
}

func TestFillVizConfig_NilOptionReturnsNil(t *testing.T) {
	assert.Nil(t, fillVizConfig(nil, nil, nil))
}
