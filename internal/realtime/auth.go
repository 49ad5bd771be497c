package realtime

import (
	"errors"
	"net/http"
	"strings"

	"mediaflow/pkg"

	"github.com/gorilla/websocket"
)

var errMissingToken = errors.New("missing token")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// requestToken reads the JWT from the "token" query parameter, which browsers
// can set on a websocket URL, or from a bearer Authorization header.
func requestToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return bearer
	}
	return ""
}

func authenticate(r *http.Request, jwtSecret string) (*pkg.Claims, error) {
	token := requestToken(r)
	if token == "" {
		return nil, errMissingToken
	}
	return pkg.ValidateToken(token, jwtSecret)
}

// ServeWS authenticates the request and upgrades it to a progress subscription.
func ServeWS(hub *Hub, jwtSecret string, w http.ResponseWriter, r *http.Request) {
	claims, err := authenticate(r, jwtSecret)
	if err != nil {
		hub.logger.Debug().Err(err).Str("remote", r.RemoteAddr).Msg("websocket rejected")
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(hub, conn, claims.UserID)
	hub.logger.Debug().Str("clientId", client.id).Str("userId", claims.UserID).Msg("websocket connected")
	client.serve()
}
