package middlewares

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/gofiber/fiber/v2"

	"github.com/hsn8086/re-hcat-server/errors"
	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/helpers"
	"github.com/hsn8086/re-hcat-server/monitors"
	"github.com/hsn8086/re-hcat-server/schemas"
)

// TryAuthenticate decrypts the auth_data cookie and compares its token
// against the user record. The request proceeds either way; events that
// require auth are gated by the dispatcher. A valid credential resets the
// user's presence countdown.
func TryAuthenticate(c *fiber.Ctx) error {
	blob := c.Cookies("auth_data")
	if blob == "" {
		return c.Next()
	}

	plaintext, err := helpers.DecryptAuthData(blob)
	if err != nil {
		// forged or stale cookie, treated as anonymous
		return c.Next()
	}

	authData := new(schemas.AuthDataSchema)
	if err := jsoniter.Unmarshal(plaintext, authData); err != nil {
		return c.Next()
	}

	guard, err := global.Accounts.Enter(authData.UserID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return c.Next()
	}
	user := new(schemas.User)
	found, err := guard.Load(user)
	guard.Exit()
	if err != nil || !found {
		return c.Next()
	}

	if user.Token == "" || user.Token != authData.Token {
		return c.Next()
	}

	monitors.Touch(authData.UserID)
	c.Locals("userid", authData.UserID)
	return c.Next()
}
