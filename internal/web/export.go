package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
	"github.com/JonMunkholm/CollegeExplorer/internal/logging"
)

// exportPath is where the table view is served as CSV.
const exportPath = "/api/export.csv"

// exportFlushInterval is how many rows are written between flushes.
const exportFlushInterval = 1000

// handleExportCSV writes the table view for the query as a CSV download.
// Unlike the page it is not capped at MaxTableRows. Modes without a table
// are served the table of the default mode.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	_, res, err := s.pass(r, func(sel *core.Selection) {
		if !sel.Mode.ShowsTable() {
			sel.Mode = core.ModeTableScatter
		}
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	t := res.Plan.Table.Data

	filename := fmt.Sprintf("colleges_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return
	}
	for i := range t.Len() {
		if err := cw.Write(t.Row(i)); err != nil {
			break
		}
		if (i+1)%exportFlushInterval == 0 {
			cw.Flush()
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
	cw.Flush()

	// headers are already sent, so a failure can only be logged
	if err := cw.Error(); err != nil && r.Context().Err() == nil {
		logging.FromContext(r.Context()).Warn("export interrupted", "pass_id", res.PassID, "error", err)
	}
}
