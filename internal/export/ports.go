// Package export defines the outbound port for pushing monthly summaries
// to an external spreadsheet.
package export

import (
	"context"

	"profesorhub/internal/core"
)

// SummaryWriter appends one reconciled month for one profesor.
type SummaryWriter interface {
	AppendMonthSummary(ctx context.Context, profesor core.Profesor, summary core.MonthSummary) error
}
