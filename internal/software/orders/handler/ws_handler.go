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

var customerUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// same-origin policy is handled by the API gateway in front
	CheckOrigin: func(r *http.Request) bool { return true },
}

const wsAuthTimeout = 10 * time.Second

// ----- Handler: GET /ws/customer/{customer_id} -----

// handleCustomerWS upgrades the connection, authenticates the first frame,
// and registers the customer in the hub so order status pushes can reach
// them.
func (handler *OrderHTTPHandler) handleCustomerWS(w http.ResponseWriter, r *http.Request) {
	ctx := handler.withReqID(r.Context(), r)

	customerID := strings.TrimSpace(r.PathValue("customer_id"))
	if customerID == "" {
		handler.httpError(ctx, w, http.StatusBadRequest, "customer_id is required", nil)
		return
	}

	conn, err := customerUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error(ctx, handler.logger, "ws_upgrade_failed", "Failed to upgrade customer connection", err)
		return
	}

	// first frame must be the auth message
	_ = conn.SetReadDeadline(time.Now().Add(wsAuthTimeout))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return
	}
	res, err := jwt.ValidateWSAuth(frame, handler.auth, user.RoleCustomer)
	if err != nil || strings.TrimSpace(res.Claims.Subject) != customerID {
		_ = conn.WriteJSON(map[string]string{"type": "auth_failed", "error": "unauthorized"})
		_ = conn.Close()
		log.Error(ctx, handler.logger, "ws_auth_failed", "Customer websocket auth rejected", err)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	handler.hub.Add(customerID, conn)
	defer handler.hub.Remove(customerID)

	_ = conn.WriteJSON(map[string]string{"type": "auth_ok", "customer_id": customerID})
	log.Info(ctx, handler.logger, "customer_ws_connected", "Customer websocket connected: "+customerID)

	// drain the connection; status pushes flow outward through the hub
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Info(ctx, handler.logger, "customer_ws_disconnected", "Customer websocket closed: "+customerID)
			return
		}
	}
}
