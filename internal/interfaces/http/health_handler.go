package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/portal-imagenes/internal/application/dto"
)

// subscriberCounter expone el número de conexiones en tiempo real.
type subscriberCounter interface {
	Count() int
}

// Health godoc
// @Summary      Estado del servicio
// @Description  Incluye las conexiones /ws activas cuando el transporte es websocket.
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /api/health [get]
func Health(subs subscriberCounter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out := dto.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if subs != nil {
			n := subs.Count()
			out.Subscribers = &n
		}
		return c.JSON(out)
	}
}
