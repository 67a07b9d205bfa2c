package requestshandler

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
)

func (h *Handler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	entries, err := h.Service.CalendarEntries(r.Context(), actorFrom(user))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "calendar_failed", "failed to load calendar", middleware.GetRequestID(r.Context()))
		return
	}

	events := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		events = append(events, map[string]any{
			"id":     entry.ID,
			"kind":   entry.Kind,
			"user":   entry.User,
			"start":  entry.StartDate.Format(dateLayout),
			"end":    entry.EndDate.Format(dateLayout),
			"status": entry.Status,
			"label":  entry.Label,
		})
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCalendarExport(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "csv"
	}

	entries, err := h.Service.CalendarEntries(r.Context(), actorFrom(user))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "calendar_failed", "failed to load calendar", middleware.GetRequestID(r.Context()))
		return
	}

	switch format {
	case "ics":
		w.Header().Set("Content-Type", "text/calendar")
		w.Header().Set("Content-Disposition", "attachment; filename=requests-calendar.ics")
		var builder strings.Builder
		builder.WriteString("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//Intranet//Request Calendar//EN\r\n")
		for _, entry := range entries {
			builder.WriteString("BEGIN:VEVENT\r\n")
			builder.WriteString(fmt.Sprintf("UID:%s\r\n", entry.ID))
			builder.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", entry.StartDate.Format("20060102")))
			builder.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", entry.EndDate.AddDate(0, 0, 1).Format("20060102")))
			builder.WriteString(fmt.Sprintf("SUMMARY:%s: %s (%s)\r\n", entry.Kind, entry.Label, entry.Status))
			builder.WriteString("END:VEVENT\r\n")
		}
		builder.WriteString("END:VCALENDAR\r\n")
		if _, err := w.Write([]byte(builder.String())); err != nil {
			slog.Warn("calendar export write failed", "err", err)
		}
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=requests-calendar.pdf")
		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.Cell(40, 10, "Request Calendar")
		pdf.Ln(12)
		pdf.SetFont("Helvetica", "", 11)
		for _, entry := range entries {
			span := entry.StartDate.Format(dateLayout)
			if !entry.EndDate.Equal(entry.StartDate) {
				span += " to " + entry.EndDate.Format(dateLayout)
			}
			pdf.Cell(0, 7, fmt.Sprintf("%s  %s  %s  [%s]", span, entry.Kind, entry.Label, entry.Status))
			pdf.Ln(6)
		}
		if err := pdf.Output(w); err != nil {
			slog.Warn("calendar export pdf write failed", "err", err)
		}
	default:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=requests-calendar.csv")
		writer := csv.NewWriter(w)
		if err := writer.Write([]string{"id", "kind", "user", "start_date", "end_date", "status", "label"}); err != nil {
			slog.Warn("calendar export csv header write failed", "err", err)
		}
		for _, entry := range entries {
			record := []string{entry.ID, string(entry.Kind), entry.User, entry.StartDate.Format(dateLayout), entry.EndDate.Format(dateLayout), entry.Status, entry.Label}
			if err := writer.Write(record); err != nil {
				slog.Warn("calendar export csv row write failed", "err", err)
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			slog.Warn("calendar export csv flush failed", "err", err)
		}
	}
}
