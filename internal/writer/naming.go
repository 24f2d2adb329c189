package writer

import "fmt"

// ExtentsName is the artifact basename for survey coverage extents.
const ExtentsName = "csb_survey_extents"

// RunSummaryName is the artifact basename for the JSON run report.
const RunSummaryName = "csb_run_summary"

// CellsName returns the artifact basename for one resolution's cell records,
// for example "csb_cells_r08".
func CellsName(res int) string {
	return fmt.Sprintf("csb_cells_r%02d", res)
}

// PeriodCellsName returns the artifact basename for one resolution and
// observation period, for example "csb_cells_r08_2021-01".
func PeriodCellsName(res int, period string) string {
	return fmt.Sprintf("%s_%s", CellsName(res), period)
}

// SummaryName returns the artifact basename for one resolution's aggregated
// cell summary.
func SummaryName(res int) string {
	return fmt.Sprintf("csb_summary_r%02d", res)
}
