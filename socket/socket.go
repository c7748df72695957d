package socket

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/helpers"
	"github.com/hsn8086/re-hcat-server/schemas"
)

const POLL_INTERVAL = 1 * time.Second
const MAX_WS_CONNECTION_TIME = 1 * time.Hour

type todoFrame struct {
	Op    string `json:"op"`
	Count int    `json:"count"`
}

// UpgradeGate authenticates the websocket upgrade via a stream token
func UpgradeGate(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	userID, err := helpers.ParseStreamJWT(c.Query("token"))
	if err != nil {
		return fiber.ErrUnauthorized
	}
	c.Locals("userid", userID)
	return c.Next()
}

// Stream pushes the caller's pending notification count whenever it changes
func Stream(ws *websocket.Conn) {
	defer ws.Close()

	userID := ws.Locals("userid").(string)
	deadline := time.Now().Add(MAX_WS_CONNECTION_TIME)
	last := -1

	for time.Now().Before(deadline) {
		count, ok := todoCount(userID)
		if ok && count != last {
			frame, err := jsoniter.Marshal(todoFrame{Op: "todo", Count: count})
			if err != nil {
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
			last = count
		}
		time.Sleep(POLL_INTERVAL)
	}
}

func todoCount(userID string) (int, bool) {
	guard, err := global.Accounts.Enter(userID)
	if err != nil {
		return 0, false
	}
	defer guard.Exit()

	user := new(schemas.User)
	found, err := guard.Load(user)
	if err != nil || !found {
		return 0, false
	}
	return len(user.TodoList), true
}
