package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 5 * time.Second
	maxInterval      = 60 * time.Second
	maxIntervalMilli = 60_000
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

type lowStockSnapshot struct {
	Count     int         `json:"count"`
	Filaments interface{} `json:"filaments"`
	At        time.Time   `json:"at"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Low stock feed
// @Description  WebSocket stream of low-stock snapshots. Browsers pass the token as ?token=.
// @Tags         filaments
// @Param        token        query  string  false  "bearer token when no Authorization header is sent"
// @Param        interval     query  string  false  "push interval, e.g. 10s"
// @Param        interval_ms  query  int     false  "push interval in milliseconds"
// @Success      101
// @Failure      401  {object}  map[string]string
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	accountID, ok := h.wsAccount(c)
	if !ok {
		return
	}
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	if err := h.sendLowStock(ctx, conn, accountID); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err, "account_id", accountID)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendLowStock(ctx, conn, accountID); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err, "account_id", accountID)
				}
				return
			}
		}
	}
}

// wsAccount authenticates before the upgrade; it writes 401 itself on failure.
func (h *Handler) wsAccount(c *gin.Context) (int, bool) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		token = c.Query("token")
	}
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return 0, false
	}
	id, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return 0, false
	}
	return id, true
}

// parseInterval reads ?interval=10s or ?interval_ms=10000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return defaultInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendLowStock writes the current low-stock list. A lookup failure is sent
// to the client as an error frame and keeps the connection open.
func (h *Handler) sendLowStock(ctx context.Context, conn *websocket.Conn, accountID int) error {
	env := wsEnvelope{Type: "low_stock"}
	list, err := h.services.LowStock(ctx, accountID)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_low_stock_failed", "err", err, "account_id", accountID)
		}
		env.Type, env.Error = "error", "failed to load low stock"
	} else {
		env.Data = lowStockSnapshot{Count: len(list), Filaments: list, At: time.Now().UTC()}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}
