package pipeline

import "fmt"

// fillVizConfig populates an LLM-produced ECharts option with the actual
// query result: the first column becomes the category axis, every
// remaining column becomes one series. A pie series is rewritten to
// {name, value} pairs built from the category column and that series'
// values, dropping entries whose value is null. option is mutated in place
// and returned; a nil option is returned unchanged.
func fillVizConfig(option map[string]any, columns []string, rows [][]any) map[string]any {
	if option == nil {
		return nil
	}

	categories := make([]any, len(rows))
	for i, row := range rows {
		if len(row) > 0 {
			categories[i] = stringifyCell(row[0])
		} else {
			categories[i] = ""
		}
	}

	switch xAxis := option["xAxis"].(type) {
	case map[string]any:
		xAxis["data"] = categories
	case []any:
		if len(xAxis) > 0 {
			if first, ok := xAxis[0].(map[string]any); ok {
				first["data"] = categories
			}
		}
	}

	seriesList, _ := option["series"].([]any)
	for i, raw := range seriesList {
		series, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		columnIndex := i + 1
		if columnIndex >= len(columns) {
			continue
		}
		if name, ok := series["name"].(string); !ok || name == "" {
			series["name"] = columns[columnIndex]
		}

		values := make([]any, 0, len(rows))
		for _, row := range rows {
			if columnIndex < len(row) {
				values = append(values, row[columnIndex])
			} else {
				values = append(values, nil)
			}
		}

		if seriesType, _ := series["type"].(string); seriesType == "pie" {
			series["data"] = pieData(categories, values)
		} else {
			series["data"] = values
		}
	}

	return option
}

func pieData(categories, values []any) []any {
	data := make([]any, 0, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		data = append(data, map[string]any{"name": categories[i], "value": v})
	}
	return data
}

func stringifyCell(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
