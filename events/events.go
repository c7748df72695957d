package events

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/hsn8086/re-hcat-server/errors"
	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/schemas"
)

// Context carries the resolved caller identity and request attachments into
// an event run. UserID is empty when the caller is unauthenticated.
type Context struct {
	UserID string
	Files  map[string][]byte
}

// Event is a single named unit of request-handling work. Params returns a
// pointer to the event's parameter schema, or nil when it takes none.
type Event interface {
	Auth() bool
	Params() interface{}
	Run(ctx *Context) schemas.ReturnData
}

// AuxiliaryFunc runs after a primary event with the same context; its
// failures are isolated from the primary response.
type AuxiliaryFunc func(ctx *Context, rt schemas.ReturnData)

var eventTable = map[string]func() Event{}
var auxiliaryTable = map[string][]AuxiliaryFunc{}

// Register adds an event constructor under a request path
func Register(path string, constructor func() Event) {
	eventTable[path] = constructor
}

// AddAuxiliary registers a callback invoked after the event at path completes
func AddAuxiliary(path string, fn AuxiliaryFunc) {
	auxiliaryTable[path] = append(auxiliaryTable[path], fn)
}

// Dispatch resolves a path to its registered event, gates authentication,
// binds parameters and runs the event. It never lets a failure escape to the
// transport layer.
func Dispatch(path string, params map[string]interface{}, ctx *Context) (rt schemas.ReturnData) {
	defer func() {
		if r := recover(); r != nil {
			errors.HandleInternalError("event_panic", fmt.Sprintf("path %s: %v", path, r))
			rt = schemas.NewError("Internal error.")
		}
	}()

	constructor, ok := eventTable[path]
	if !ok {
		return schemas.NewNull("Unknown event: " + path)
	}
	event := constructor()

	if event.Auth() && ctx.UserID == "" {
		return schemas.NewError("Authentication required.")
	}

	if schema := event.Params(); schema != nil {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           schema,
			WeaklyTypedInput: true,
		})
		if err != nil {
			errors.HandleInternalError("param_decoder", err.Error())
			return schemas.NewError("Internal error.")
		}
		if err := decoder.Decode(params); err != nil {
			return schemas.NewError("Invalid parameters: " + err.Error())
		}
		if err := global.Validator.Struct(schema); err != nil {
			return schemas.NewError("Missing or invalid parameter: " + errors.ValidatorField(err))
		}
	}

	rt = event.Run(ctx)

	for _, fn := range auxiliaryTable[path] {
		runAuxiliary(path, fn, ctx, rt)
	}
	return rt
}

func runAuxiliary(path string, fn AuxiliaryFunc, ctx *Context, rt schemas.ReturnData) {
	defer func() {
		if r := recover(); r != nil {
			errors.HandleInternalError("auxiliary_panic", fmt.Sprintf("path %s: %v", path, r))
		}
	}()
	fn(ctx, rt)
}

// SetEvents builds the full event table; adding an event means adding one
// registration here, the dispatcher itself never changes.
func SetEvents() {
	Register("account/register", func() Event { return new(RegisterEvent) })
	Register("account/login", func() Event { return new(Login) })
	Register("account/rename", func() Event { return new(Rename) })
	Register("account/get_user_name", func() Event { return new(GetUserName) })
	Register("account/get_todo_list", func() Event { return new(GetTodoList) })
	Register("account/status", func() Event { return new(Status) })
	Register("account/get_stream_token", func() Event { return new(GetStreamToken) })

	Register("friend/add_friend", func() Event { return new(AddFriend) })
	Register("friend/agree", func() Event { return new(AgreeFriend) })
	Register("friend/get_friends_list", func() Event { return new(GetFriendsList) })
	Register("friend/set_nick", func() Event { return new(SetNick) })

	Register("group/create_group", func() Event { return new(CreateGroup) })
	Register("group/join_group", func() Event { return new(JoinGroup) })
	Register("group/agree_join", func() Event { return new(AgreeJoin) })
	Register("group/add_admin", func() Event { return new(AddAdmin) })
	Register("group/rename", func() Event { return new(GroupRename) })
	Register("group/get_groups", func() Event { return new(GetGroups) })
	Register("group/set_verification", func() Event { return new(SetVerification) })

	Register("file/upload", func() Event { return new(Upload) })
	Register("file/check_file_exists", func() Event { return new(CheckFileExists) })
}
