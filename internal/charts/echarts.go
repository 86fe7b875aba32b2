package charts

const fontFamily = `-apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif`

func linear(g Gradient) map[string]any {
	return map[string]any{
		"type": "linear",
		"x":    0,
		"y":    0,
		"x2":   0,
		"y2":   1,
		"colorStops": []map[string]any{
			{"offset": 0, "color": g.From},
			{"offset": 1, "color": g.To},
		},
	}
}

func tooltip(trigger string) map[string]any {
	return map[string]any{
		"trigger":         trigger,
		"backgroundColor": "rgba(255, 255, 255, 0.9)",
		"borderRadius":    8,
		"padding":         []int{8, 12},
		"textStyle":       map[string]any{"color": "#333", "fontFamily": fontFamily},
	}
}

// EChartsOption returns a doughnut chart option ready for json.Marshal.
func (p PieChart) EChartsOption() map[string]any {
	data := make([]map[string]any, 0, len(p.Slices))
	for _, s := range p.Slices {
		data = append(data, map[string]any{
			"name":      s.Name,
			"value":     s.Value,
			"itemStyle": map[string]any{"color": linear(s.Fill)},
		})
	}

	return map[string]any{
		"tooltip": tooltip("item"),
		"legend": map[string]any{
			"orient":     "vertical",
			"right":      "5%",
			"top":        "center",
			"itemGap":    16,
			"itemWidth":  12,
			"itemHeight": 12,
			"icon":       "circle",
			"textStyle":  map[string]any{"fontSize": 14, "fontFamily": fontFamily, "color": "#666"},
		},
		"series": []map[string]any{{
			"type":              "pie",
			"radius":            []string{"45%", "70%"},
			"avoidLabelOverlap": true,
			"itemStyle":         map[string]any{"borderRadius": 6, "borderColor": "#fff", "borderWidth": 2},
			"label":             map[string]any{"show": false},
			"emphasis": map[string]any{
				"label": map[string]any{"show": true, "fontSize": 14, "fontWeight": "bold"},
			},
			"data": data,
		}},
	}
}

// EChartsOption returns a bar chart option ready for json.Marshal.
func (b BarChart) EChartsOption() map[string]any {
	axisLabel := map[string]any{"color": "#666", "fontFamily": fontFamily}

	return map[string]any{
		"tooltip": tooltip("axis"),
		"grid":    map[string]any{"left": "3%", "right": "4%", "bottom": "3%", "containLabel": true},
		"xAxis": map[string]any{
			"type":      "category",
			"data":      b.Categories,
			"axisLine":  map[string]any{"lineStyle": map[string]any{"color": "#E0E0E0"}},
			"axisTick":  map[string]any{"show": false},
			"axisLabel": axisLabel,
		},
		"yAxis": map[string]any{
			"type":        "value",
			"minInterval": 1,
			"splitLine":   map[string]any{"lineStyle": map[string]any{"color": "#F0F0F0"}},
			"axisLine":    map[string]any{"show": false},
			"axisTick":    map[string]any{"show": false},
			"axisLabel":   axisLabel,
		},
		"series": []map[string]any{{
			"type":     "bar",
			"data":     b.Values,
			"barWidth": "60%",
			"itemStyle": map[string]any{
				"borderRadius": []int{4, 4, 0, 0},
				"color":        linear(BarGradient),
			},
			"emphasis": map[string]any{
				"itemStyle": map[string]any{"color": linear(BarEmphasisGradient)},
			},
		}},
	}
}
