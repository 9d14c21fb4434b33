package api

import (
	"context"
	"net/http"

	"shareit/internal/export"
	"shareit/internal/models"
)

// BookingExporter supplies the full booking snapshot for the admin export.
type BookingExporter interface {
	GetAllBookings(ctx context.Context) ([]models.Booking, error)
}

// handleExportBookings streams every booking as an xlsx workbook. The
// endpoint is server-only; the gateway does not proxy it.
func (s *Server) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.exporter.GetAllBookings(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	if err := export.WriteBookingsXLSX(w, bookings); err != nil {
		s.logger.Error().Err(err).Msg("export bookings")
	}
}
