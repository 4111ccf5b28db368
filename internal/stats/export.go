package stats

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"simplegp/internal/model"
)

var csvHeader = []string{
	"generation", "phase", "size", "invalid",
	"best", "mean", "stddev", "min", "max",
	"mean_depth", "mean_size", "distinct", "best_expression",
}

// WriteCSV writes one row per generation with a header row.
func WriteCSV(w io.Writer, history []model.GenerationStats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range history {
		row := []string{
			strconv.Itoa(s.Generation),
			s.Phase,
			strconv.Itoa(s.Size),
			strconv.Itoa(s.Invalid),
			formatFloat(s.BestScore),
			formatFloat(s.MeanScore),
			formatFloat(s.StdDevScore),
			formatFloat(s.MinScore),
			formatFloat(s.MaxScore),
			formatFloat(s.MeanDepth),
			formatFloat(s.MeanSize),
			strconv.Itoa(s.Distinct),
			s.BestExpression,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, history []model.GenerationStats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(history)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
