package services

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"github.com/gofiber/fiber/v2"

	"github.com/hsn8086/re-hcat-server/events"
	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/middlewares"
	"github.com/hsn8086/re-hcat-server/storage"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	accounts, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	groups, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	eventStore, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	global.Accounts = accounts
	global.Groups = groups
	global.Events = eventStore
	global.InternalLogger = log.New(io.Discard, "", 0)
	global.MonitorLogger = log.New(io.Discard, "", 0)
	global.SecretKey = []byte("0123456789abcdef0123456789abcdef")
	events.SetEvents()

	app := fiber.New()
	api := app.Group("/api", middlewares.TryAuthenticate)
	api.Get("/*", API)
	api.Post("/*", API)
	return app
}

func call(t *testing.T, app *fiber.App, req *http.Request) (map[string]interface{}, *http.Response) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	out := map[string]interface{}{}
	if err := jsoniter.Unmarshal(body, &out); err != nil {
		t.Fatalf("response is not JSON: %q", body)
	}
	return out, resp
}

func postJSON(t *testing.T, app *fiber.App, path string, payload string, cookie string) (map[string]interface{}, *http.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "auth_data", Value: cookie})
	}
	return call(t, app, req)
}

func TestAPIAlwaysAnswers200(t *testing.T) {
	app := setupApp(t)

	out, resp := postJSON(t, app, "/api/no/such/event", `{}`, "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if out["status"] != "NULL" {
		t.Errorf("expected NULL status, got %v", out["status"])
	}

	out, _ = postJSON(t, app, "/api/account/register", `{not json`, "")
	if out["status"] != "ERROR" {
		t.Errorf("expected ERROR for invalid body, got %v", out["status"])
	}
}

func TestAPIQueryParameters(t *testing.T) {
	app := setupApp(t)

	postJSON(t, app, "/api/account/register",
		`{"user_id":"alice","password":"hunter2","username":"alice"}`, "")

	req := httptest.NewRequest(http.MethodGet, "/api/account/get_user_name?user_id=alice", nil)
	out, _ := call(t, app, req)
	if out["status"] != "OK" || out["data"] != "alice" {
		t.Errorf("unexpected response: %v", out)
	}
}

func TestLoginCookieAuthFlow(t *testing.T) {
	app := setupApp(t)

	out, _ := postJSON(t, app, "/api/account/register",
		`{"user_id":"alice","password":"hunter2","username":"alice"}`, "")
	if out["status"] != "OK" {
		t.Fatalf("register failed: %v", out)
	}
	postJSON(t, app, "/api/account/register",
		`{"user_id":"bob","password":"hunter2","username":"bob"}`, "")

	out, resp := postJSON(t, app, "/api/account/login",
		`{"user_id":"alice","password":"hunter2"}`, "")
	if out["status"] != "OK" {
		t.Fatalf("login failed: %v", out)
	}
	if _, ok := out["_cookies"]; ok {
		t.Error("cookie directive leaked into the payload")
	}
	var authCookie string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "auth_data" {
			authCookie = cookie.Value
		}
	}
	if authCookie == "" {
		t.Fatal("no auth_data cookie set on login")
	}

	// authenticated event succeeds with the cookie
	out, _ = postJSON(t, app, "/api/friend/add_friend",
		`{"user_id":"bob","add_info":"hi"}`, authCookie)
	if out["status"] != "OK" {
		t.Errorf("authenticated request rejected: %v", out)
	}

	// and is refused without it
	out, _ = postJSON(t, app, "/api/friend/get_friends_list", `{}`, "")
	if out["status"] != "ERROR" {
		t.Errorf("anonymous request not gated: %v", out)
	}

	// a forged cookie is treated as anonymous, not a server error
	out, _ = postJSON(t, app, "/api/friend/get_friends_list", `{}`, "Zm9yZ2Vk")
	if out["status"] != "ERROR" {
		t.Errorf("forged cookie not treated as anonymous: %v", out)
	}
}

func TestStaleCookieAfterRotation(t *testing.T) {
	app := setupApp(t)

	postJSON(t, app, "/api/account/register",
		`{"user_id":"alice","password":"hunter2","username":"alice"}`, "")

	_, resp := postJSON(t, app, "/api/account/login",
		`{"user_id":"alice","password":"hunter2"}`, "")
	var oldCookie string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "auth_data" {
			oldCookie = cookie.Value
		}
	}

	// second login rotates the token; the first cookie is now dead
	postJSON(t, app, "/api/account/login",
		`{"user_id":"alice","password":"hunter2"}`, "")

	out, _ := postJSON(t, app, "/api/friend/get_friends_list", `{}`, oldCookie)
	if out["status"] != "ERROR" {
		t.Errorf("stale cookie still authenticates: %v", out)
	}
}
