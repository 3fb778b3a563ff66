package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/dashboard/service"
	"library-backend/internal/shared/response"
	"library-backend/pkg/clock"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service service.ServiceInterface
	clock   clock.Clock
}

func NewHandler(service service.ServiceInterface, clk clock.Clock) *Handler {
	return &Handler{service: service, clock: clk}
}

// Summary - GET /v1/dashboard
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary)
}

// ExportOverdue - GET /v1/dashboard/overdue/export
func (h *Handler) ExportOverdue(c *gin.Context) {
	f, count, err := h.service.ExportOverdue(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("overdue-%s.xlsx", clock.Date(h.clock.Now()).Format(time.DateOnly))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		// header đã gửi, chỉ log được
		log.Error().Err(err).Str("file", filename).Msg("Failed to stream overdue export")
		return
	}

	log.Info().Int("records", count).Str("file", filename).Msg("Overdue export downloaded")
}
