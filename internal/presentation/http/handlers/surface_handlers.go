package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/StackForgeHQ/stackforge-go/internal/application/services"
	"github.com/StackForgeHQ/stackforge-go/internal/domain/entities/composer"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/messaging"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
)

// SurfaceHandlers owns the websocket endpoint that carries the editing
// surface bridge. One connection is one editing client; the session service
// only ever sees the EditingSurface interface.
type SurfaceHandlers struct {
	session *services.SurfaceSessionService
	logger  *logging.ChanneledLogger

	upgrader websocket.Upgrader
}

func NewSurfaceHandlers(session *services.SurfaceSessionService, logger *logging.ChanneledLogger) *SurfaceHandlers {
	return &SurfaceHandlers{
		session: session,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Cross-origin policy is enforced by the CORS middleware and
			// the auth token on this route.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Connect upgrades the request and serves the surface bridge until the
// client disconnects.
func (h *SurfaceHandlers) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Surface().Error("Websocket upgrade failed", "error", err.Error())
		return
	}

	bridge := messaging.NewSurfaceBridge(conn, h.logger)
	h.session.AttachNotifier(bridge)
	defer h.session.DetachNotifier()

	bridge.OnReady(func() {
		h.session.SurfaceReady(bridge)
	})

	bridge.OnEvent(func(method string, params json.RawMessage) {
		h.handleClientEvent(bridge, method, params)
	})

	h.logger.Surface().Info("Editing client connected", "remoteAddr", c.ClientIP())
	bridge.Run()
	h.logger.Surface().Info("Editing client disconnected", "remoteAddr", c.ClientIP())
}

func (h *SurfaceHandlers) handleClientEvent(bridge *messaging.SurfaceBridge, method string, params json.RawMessage) {
	switch method {
	case "openPage":
		var req struct {
			PageID string `json:"pageId"`
		}
		if err := json.Unmarshal(params, &req); err != nil {
			bridge.Error("malformed openPage request")
			return
		}
		if err := h.session.OpenPage(req.PageID, bridge); err != nil {
			h.logger.Surface().Error("Failed to open page", "pageId", req.PageID, "error", err.Error())
			bridge.Error(err.Error())
		}

	case "closePage":
		h.session.ClosePage()

	case "save":
		var req struct {
			PageID string               `json:"pageId"`
			Meta   services.PayloadMeta `json:"meta"`
		}
		if err := json.Unmarshal(params, &req); err != nil {
			bridge.Error("malformed save request")
			return
		}
		if _, err := h.session.Save(req.PageID, bridge, req.Meta); err != nil {
			h.logger.Surface().Error("Save failed", "pageId", req.PageID, "error", err.Error())
			bridge.Error(err.Error())
		}

	case "catalogOpen":
		// Errors already reach the client through the notifier.
		_ = h.session.OpenCatalog(bridge)

	case "assetObserved":
		var req struct {
			Asset composer.AssetRef `json:"asset"`
		}
		if err := json.Unmarshal(params, &req); err != nil {
			bridge.Error("malformed assetObserved request")
			return
		}
		h.session.AssetObserved(bridge, req.Asset)

	case "assetRemoved":
		var req struct {
			Asset composer.AssetRef `json:"asset"`
		}
		if err := json.Unmarshal(params, &req); err != nil {
			return
		}
		h.session.AssetRemoved(req.Asset)

	default:
		h.logger.Surface().Debug("Unknown surface event", "method", method)
	}
}
