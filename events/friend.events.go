package events

import (
	"github.com/hsn8086/re-hcat-server/errors"
	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/helpers"
	"github.com/hsn8086/re-hcat-server/messages"
	"github.com/hsn8086/re-hcat-server/schemas"
)

// AddFriend sends a friend request notification to the target user.
// Duplicate requests from client retries are tolerated; consumption of the
// todo list drains them.
type AddFriend struct {
	params schemas.AddFriendSchema
}

func (e *AddFriend) Auth() bool          { return true }
func (e *AddFriend) Params() interface{} { return &e.params }

func (e *AddFriend) Run(ctx *Context) schemas.ReturnData {
	if !isUserExist(e.params.UserID) {
		return schemas.NewNull("User does not exist.")
	}

	guard, user, err := openUser(ctx.UserID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	if user == nil {
		guard.Exit()
		return schemas.NewNull("User does not exist.")
	}
	_, alreadyFriends := user.FriendDict[e.params.UserID]
	guard.Exit()

	if alreadyFriends {
		return schemas.NewError("You are already friends with each other.")
	}

	ec, err := messages.NewEventContainer(global.Events)
	if err != nil {
		errors.HandleInternalError("event_container", err.Error())
		return schemas.NewError("Internal error.")
	}
	ec.
		Add("type", schemas.EventFriendRequest).
		Add("user_id", ctx.UserID).
		Add("req_user_id", e.params.UserID).
		Add("add_info", e.params.AddInfo).
		Add("time", helpers.NowUnix())
	if err := ec.WriteIn(); err != nil {
		errors.HandleInternalError("event_write", err.Error())
		return schemas.NewError("Internal error.")
	}

	shortID, err := messages.AssignShortID(ec.Rid)
	if err != nil {
		errors.HandleBasicError(err)
		shortID = ""
	}

	if err := messages.Deliver(e.params.UserID, ec.Rid); err != nil {
		errors.HandleInternalError("deliver", err.Error())
		return schemas.NewError("Internal error.")
	}

	rt := schemas.NewOK().Add("rid", ec.Rid)
	if shortID != "" {
		rt = rt.Add("short_id", shortID)
	}
	return rt
}

// AgreeFriend accepts a friend request by rid or short id and makes the
// friendship mutual
type AgreeFriend struct {
	params schemas.AgreeFriendSchema
}

func (e *AgreeFriend) Auth() bool          { return true }
func (e *AgreeFriend) Params() interface{} { return &e.params }

func (e *AgreeFriend) Run(ctx *Context) schemas.ReturnData {
	record, ok := messages.Lookup(e.params.Rid)
	if !ok {
		return schemas.NewNull("Event does not exist.")
	}
	if record.Type() != schemas.EventFriendRequest {
		return schemas.NewError("Event is not a friend request.")
	}
	if record.GetString("req_user_id") != ctx.UserID {
		return schemas.NewError("You are not the target of this request.")
	}
	requesterID := record.GetString("user_id")

	guard, requester, err := openUser(requesterID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	if requester == nil {
		guard.Exit()
		return schemas.NewNull("User does not exist.")
	}
	requesterName := requester.UserName
	guard.Exit()

	guard, user, err := openUser(ctx.UserID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	if user == nil {
		guard.Exit()
		return schemas.NewNull("User does not exist.")
	}
	userName := user.UserName
	user.FriendDict[requesterID] = schemas.FriendInfo{Nick: requesterName}
	if err := guard.Store(user); err != nil {
		guard.Exit()
		errors.HandleInternalError("store_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	guard.Exit()

	guard, requester, err = openUser(requesterID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	if requester != nil {
		requester.FriendDict[ctx.UserID] = schemas.FriendInfo{Nick: userName}
		if err := guard.Store(requester); err != nil {
			errors.HandleBasicError(err)
		}
	}
	guard.Exit()

	ec, err := messages.NewEventContainer(global.Events)
	if err == nil {
		ec.
			Add("type", schemas.EventFriendRequestAgreed).
			Add("user_id", ctx.UserID).
			Add("time", helpers.NowUnix())
		if err = ec.WriteIn(); err == nil {
			err = messages.Deliver(requesterID, ec.Rid)
		}
	}
	if err != nil {
		errors.HandleBasicError(err)
	}

	return schemas.NewOK()
}

// GetFriendsList returns the caller's friends with their nicks
type GetFriendsList struct{}

func (e *GetFriendsList) Auth() bool          { return true }
func (e *GetFriendsList) Params() interface{} { return nil }

func (e *GetFriendsList) Run(ctx *Context) schemas.ReturnData {
	guard, user, err := openUser(ctx.UserID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	defer guard.Exit()

	if user == nil {
		return schemas.NewNull("User does not exist.")
	}
	return schemas.NewOK().Add("data", user.FriendDict)
}

// SetNick changes the caller's nickname for one friend
type SetNick struct {
	params schemas.SetNickSchema
}

func (e *SetNick) Auth() bool          { return true }
func (e *SetNick) Params() interface{} { return &e.params }

func (e *SetNick) Run(ctx *Context) schemas.ReturnData {
	guard, user, err := openUser(ctx.UserID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	defer guard.Exit()

	if user == nil {
		return schemas.NewNull("User does not exist.")
	}
	if _, ok := user.FriendDict[e.params.UserID]; !ok {
		return schemas.NewNull("You are not friends with this user.")
	}
	user.FriendDict[e.params.UserID] = schemas.FriendInfo{Nick: e.params.Nick}
	if err := guard.Store(user); err != nil {
		errors.HandleInternalError("store_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	return schemas.NewOK()
}
