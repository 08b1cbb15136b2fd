package http

import (
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/portal-imagenes/internal/application/dto"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/realtime"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

// WSHandler transporte push del hub de notificaciones.
// El navegador no puede enviar headers en el handshake: el token viaja en ?token=.
type WSHandler struct {
	hub       *realtime.Hub
	jwtSecret string
	log       zerolog.Logger
}

// NewWSHandler construye el handler de /ws.
func NewWSHandler(hub *realtime.Hub, jwtSecret string, log zerolog.Logger) *WSHandler {
	return &WSHandler{hub: hub, jwtSecret: jwtSecret, log: log.With().Str("component", "ws").Logger()}
}

// Upgrade valida el handshake y el token antes de aceptar la conexión.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	token := c.Query("token")
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(c.Get("Authorization"), "Bearer "))
	}
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token requerido"})
	}
	return authenticate(c, h.jwtSecret, token)
}

// Serve registra la conexión en el hub y reenvía sus eventos hasta que el cliente cierre.
func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(LocalUserID).(string)
		role, _ := conn.Locals(LocalRole).(string)

		sub := h.hub.Register(userID, role)
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(realtime.Message{Type: "connected", Data: fiber.Map{"userId": userID, "role": role}}); err != nil {
			sub.Close()
			return
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			h.writeLoop(conn, sub)
		}()

		// Los mensajes entrantes se ignoran; la lectura solo detecta el cierre.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		sub.Close()
		<-done
		if n := sub.Dropped(); n > 0 {
			h.log.Warn().Str("user_id", userID).Uint64("dropped", n).Msg("conexión cerrada con eventos descartados")
		}
	})
}

// writeLoop es el único escritor de la conexión.
func (h *WSHandler) writeLoop(conn *websocket.Conn, sub *realtime.Subscription) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	// Cerrar la conexión desbloquea la lectura cuando el hub se apaga.
	defer conn.Close()

	for {
		select {
		case msg, ok := <-sub.Events():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug().Err(err).Str("type", msg.Type).Msg("escritura fallida")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
