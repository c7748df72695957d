package events

import (
	"html"
	"regexp"

	jsoniter "github.com/json-iterator/go"

	"github.com/hsn8086/re-hcat-server/errors"
	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/helpers"
	"github.com/hsn8086/re-hcat-server/messages"
	"github.com/hsn8086/re-hcat-server/monitors"
	"github.com/hsn8086/re-hcat-server/schemas"
)

var validUserID = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Register creates a new account and queues the welcome notification
type RegisterEvent struct {
	params schemas.RegisterSchema
}

func (e *RegisterEvent) Auth() bool          { return false }
func (e *RegisterEvent) Params() interface{} { return &e.params }

func (e *RegisterEvent) Run(ctx *Context) schemas.ReturnData {
	if !validUserID.MatchString(e.params.UserID) {
		return schemas.NewError("User ID does not match ^[a-zA-Z0-9_]+$ .")
	}
	if len(e.params.Password) < 6 {
		return schemas.NewError("Password is too short.")
	}

	guard, user, err := openUser(e.params.UserID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	defer guard.Exit()

	if user != nil {
		return schemas.NewError("ID has been registered.")
	}

	user, err = schemas.NewUser(e.params.UserID, e.params.Password, html.EscapeString(e.params.UserName))
	if err != nil {
		errors.HandleInternalError("new_user", err.Error())
		return schemas.NewError("Internal error.")
	}

	ec, err := messages.NewEventContainer(global.Events)
	if err == nil {
		ec.
			Add("type", schemas.EventFriendMsg).
			Add("user_id", "Account_BOT").
			Add("username", "Account_BOT").
			Add("msg", "Welcome to HCAT!").
			Add("time", helpers.NowUnix())
		if err = ec.WriteIn(); err == nil {
			user.AddTodo(ec.Rid)
		}
	}
	if err != nil {
		errors.HandleBasicError(err)
	}

	if err := guard.Store(user); err != nil {
		errors.HandleInternalError("store_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	return schemas.NewOK()
}

// Login checks credentials, rotates the session token and hands back the
// encrypted auth_data cookie. Every successful login invalidates all
// previously issued credentials for the user.
type Login struct {
	params schemas.LoginSchema
}

func (e *Login) Auth() bool          { return false }
func (e *Login) Params() interface{} { return &e.params }

func (e *Login) Run(ctx *Context) schemas.ReturnData {
	guard, user, err := openUser(e.params.UserID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	defer guard.Exit()

	if user == nil {
		return schemas.NewNull("User does not exist.")
	}
	if !user.Auth(e.params.Password) {
		return schemas.NewError("Incorrect user ID or password.")
	}

	monitors.Touch(user.UserID)

	token, err := helpers.RandomTokenString(16)
	if err != nil {
		errors.HandleInternalError("token", "hex token error")
		return schemas.NewError("Internal error.")
	}
	salt, err := helpers.RandomTokenString(16)
	if err != nil {
		errors.HandleInternalError("salt", "hex token error")
		return schemas.NewError("Internal error.")
	}

	user.Status = schemas.StatusOnline
	user.Token = token
	if err := guard.Store(user); err != nil {
		errors.HandleInternalError("store_user", err.Error())
		return schemas.NewError("Internal error.")
	}

	authData, err := jsoniter.Marshal(schemas.AuthDataSchema{
		UserID: user.UserID,
		Token:  token,
		Salt:   salt,
	})
	if err != nil {
		errors.HandleInternalError("jsoniter_marshal", err.Error())
		return schemas.NewError("Internal error.")
	}
	blob, err := helpers.EncryptAuthData(authData)
	if err != nil {
		errors.HandleInternalError("encrypt_auth_data", err.Error())
		return schemas.NewError("Internal error.")
	}

	return schemas.NewOK().Add("_cookies", map[string]string{"auth_data": blob})
}

// Rename changes the caller's display name
type Rename struct {
	params schemas.RenameSchema
}

func (e *Rename) Auth() bool          { return true }
func (e *Rename) Params() interface{} { return &e.params }

func (e *Rename) Run(ctx *Context) schemas.ReturnData {
	guard, user, err := openUser(ctx.UserID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	defer guard.Exit()

	if user == nil {
		return schemas.NewNull("User does not exist.")
	}
	user.UserName = html.EscapeString(e.params.Name)
	if err := guard.Store(user); err != nil {
		errors.HandleInternalError("store_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	return schemas.NewOK()
}

// GetUserName returns a user's display name, plus the caller's nick for them
// when the caller is logged in and friends with the target
type GetUserName struct {
	params schemas.GetUserNameSchema
}

func (e *GetUserName) Auth() bool          { return false }
func (e *GetUserName) Params() interface{} { return &e.params }

func (e *GetUserName) Run(ctx *Context) schemas.ReturnData {
	nick := ""
	hasNick := false
	if ctx.UserID != "" {
		guard, user, err := openUser(ctx.UserID)
		if err != nil {
			errors.HandleInternalError("open_user", err.Error())
			return schemas.NewError("Internal error.")
		}
		if user != nil {
			if info, ok := user.FriendDict[e.params.UserID]; ok {
				nick = info.Nick
				hasNick = true
			}
		}
		guard.Exit()
	}

	guard, user, err := openUser(e.params.UserID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	defer guard.Exit()

	if user == nil {
		return schemas.NewNull("User does not exist.")
	}
	rt := schemas.NewOK().Add("data", user.UserName)
	if hasNick {
		rt = rt.Add("nick", nick)
	}
	return rt
}

// GetTodoList drains and returns the caller's pending notifications.
// References whose record already expired are silently skipped.
type GetTodoList struct{}

func (e *GetTodoList) Auth() bool          { return true }
func (e *GetTodoList) Params() interface{} { return nil }

func (e *GetTodoList) Run(ctx *Context) schemas.ReturnData {
	guard, user, err := openUser(ctx.UserID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	defer guard.Exit()

	if user == nil {
		return schemas.NewNull("User does not exist.")
	}

	records := make([]schemas.EventRecord, 0, len(user.TodoList))
	for _, ref := range user.TodoList {
		if record, ok := messages.Lookup(ref); ok {
			records = append(records, record)
		}
	}
	user.TodoList = []string{}
	if err := guard.Store(user); err != nil {
		errors.HandleInternalError("store_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	return schemas.NewOK().Add("data", records)
}

// Status returns whether a user is online or offline
type Status struct {
	params schemas.StatusSchema
}

func (e *Status) Auth() bool          { return false }
func (e *Status) Params() interface{} { return &e.params }

func (e *Status) Run(ctx *Context) schemas.ReturnData {
	guard, user, err := openUser(e.params.UserID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	defer guard.Exit()

	if user == nil {
		return schemas.NewNull("User does not exist.")
	}
	return schemas.NewOK().Add("data", user.Status)
}

// GetStreamToken issues a short-lived token for the websocket stream
type GetStreamToken struct{}

func (e *GetStreamToken) Auth() bool          { return true }
func (e *GetStreamToken) Params() interface{} { return nil }

func (e *GetStreamToken) Run(ctx *Context) schemas.ReturnData {
	token, err := helpers.GenerateStreamJWT(ctx.UserID)
	if err != nil {
		errors.HandleInternalError("stream_jwt", err.Error())
		return schemas.NewError("Internal error.")
	}
	return schemas.NewOK().Add("data", token)
}
