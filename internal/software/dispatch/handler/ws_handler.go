package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/log"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/user"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/general/jwt"
)

var driverUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// same-origin policy is handled by the API gateway in front
	CheckOrigin: func(r *http.Request) bool { return true },
}

const wsAuthTimeout = 10 * time.Second

// ----- Handler: GET /ws/driver/{driver_id} -----

// handleDriverWS upgrades the connection, authenticates the first frame, and
// registers the driver in the hub so matching offers can reach them.
func (handler *DispatchHTTPHandler) handleDriverWS(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	driverID := strings.TrimSpace(r.PathValue("driver_id"))
	if driverID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "driver_id is required", nil)
		return
	}

	conn, err := driverUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error(ctx, handler.logger, "ws_upgrade_failed", "Failed to upgrade driver connection", err)
		return
	}

	// first frame must be the auth message
	_ = conn.SetReadDeadline(time.Now().Add(wsAuthTimeout))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return
	}
	res, err := jwt.ValidateWSAuth(frame, handler.auth, user.RoleDriver)
	if err != nil || strings.TrimSpace(res.Claims.Subject) != driverID {
		_ = conn.WriteJSON(map[string]string{"type": "auth_failed", "error": "unauthorized"})
		_ = conn.Close()
		log.Error(ctx, handler.logger, "ws_auth_failed", "Driver websocket auth rejected", err)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	handler.hub.Add(driverID, conn)
	defer handler.hub.Remove(driverID)

	_ = conn.WriteJSON(map[string]string{"type": "auth_ok", "driver_id": driverID})
	log.Info(ctx, handler.logger, "driver_ws_connected", "Driver websocket connected: "+driverID)

	// drain the connection; offers flow outward through the hub
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Info(ctx, handler.logger, "driver_ws_disconnected", "Driver websocket closed: "+driverID)
			return
		}
	}
}
