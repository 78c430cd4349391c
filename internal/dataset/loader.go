package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"coach-insights-go/internal/logger"
	"coach-insights-go/internal/types"
)

// Load reads call records from the first sheet of a workbook. Column
// positions are detected from the header row.
func Load(path string) ([]types.CallRecord, error) {
	log := logger.Component("dataset.loader").WithField("path", path)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	records := recordsFromRows(rows)
	log.WithField("rows", len(rows)-1).WithField("records", len(records)).Info("workbook loaded")
	return records, nil
}
