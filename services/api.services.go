package services

import (
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/gofiber/fiber/v2"

	"github.com/hsn8086/re-hcat-server/events"
	"github.com/hsn8086/re-hcat-server/schemas"
)

// API is the single catch-all handler: it turns the request into a raw
// parameter map, dispatches the event and writes the ReturnData shape back.
// Transport always answers 200 with {status, message, ...payload}.
func API(c *fiber.Ctx) error {

	path := strings.Trim(c.Params("*"), "/")

	params := map[string]interface{}{}
	files := map[string][]byte{}

	if c.Method() == fiber.MethodGet {
		c.Context().QueryArgs().VisitAll(func(key, value []byte) {
			params[string(key)] = string(value)
		})
	} else {
		if form, err := c.MultipartForm(); err == nil && form != nil {
			for field, values := range form.Value {
				if len(values) > 0 {
					params[field] = values[0]
				}
			}
			for _, headers := range form.File {
				for _, header := range headers {
					f, err := header.Open()
					if err != nil {
						continue
					}
					content, err := io.ReadAll(f)
					f.Close()
					if err != nil {
						continue
					}
					files[header.Filename] = content
				}
			}
		} else if len(c.Body()) > 0 {
			if err := jsoniter.Unmarshal(c.Body(), &params); err != nil {
				return c.JSON(schemas.NewError("Invalid JSON body.").JSON())
			}
		}
	}

	ctx := &events.Context{Files: files}
	if userID, ok := c.Locals("userid").(string); ok {
		ctx.UserID = userID
	}

	rt := events.Dispatch(path, params, ctx)

	// cookie directives travel out-of-band of the payload
	if cookies, ok := rt.Data["_cookies"].(map[string]string); ok {
		for name, value := range cookies {
			c.Cookie(&fiber.Cookie{Name: name, Value: value})
		}
		delete(rt.Data, "_cookies")
	}

	return c.JSON(rt.JSON())
}
