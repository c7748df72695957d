package events

import (
	"github.com/aidarkhanov/nanoid/v2"

	"github.com/hsn8086/re-hcat-server/errors"
	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/helpers"
	"github.com/hsn8086/re-hcat-server/messages"
	"github.com/hsn8086/re-hcat-server/schemas"
)

const VALID_NANOID_CHAR = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
const GROUP_ID_LENGTH = 10

// CreateGroup creates a group owned by the caller
type CreateGroup struct {
	params schemas.CreateGroupSchema
}

func (e *CreateGroup) Auth() bool          { return true }
func (e *CreateGroup) Params() interface{} { return &e.params }

func (e *CreateGroup) Run(ctx *Context) schemas.ReturnData {
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
	guard.Exit()

	var groupID string
	for {
		groupID, err = nanoid.GenerateString(VALID_NANOID_CHAR, GROUP_ID_LENGTH)
		if err != nil {
			errors.HandleInternalError("nanoid", err.Error())
			return schemas.NewError("Internal error.")
		}
		groupGuard, existing, err := openGroup(groupID)
		if err != nil {
			errors.HandleInternalError("open_group", err.Error())
			return schemas.NewError("Internal error.")
		}
		if existing != nil {
			groupGuard.Exit()
			continue
		}
		group := schemas.NewGroup(groupID, e.params.Name, ctx.UserID, userName)
		if err := groupGuard.Store(group); err != nil {
			groupGuard.Exit()
			errors.HandleInternalError("store_group", err.Error())
			return schemas.NewError("Internal error.")
		}
		groupGuard.Exit()
		break
	}

	guard, user, err = openUser(ctx.UserID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	defer guard.Exit()
	if user != nil {
		user.GroupsDict[groupID] = schemas.GroupInfo{Remark: e.params.Name, Time: helpers.NowUnix()}
		if err := guard.Store(user); err != nil {
			errors.HandleInternalError("store_user", err.Error())
			return schemas.NewError("Internal error.")
		}
	}
	return schemas.NewOK().Add("group_id", groupID)
}

// JoinGroup joins a group according to its verification method: free entry,
// answer check, admin approval or closed.
type JoinGroup struct {
	params schemas.JoinGroupSchema
}

func (e *JoinGroup) Auth() bool          { return true }
func (e *JoinGroup) Params() interface{} { return &e.params }

func (e *JoinGroup) Run(ctx *Context) schemas.ReturnData {
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
	_, alreadyIn := user.GroupsDict[e.params.GroupID]
	guard.Exit()

	if alreadyIn {
		return schemas.NewError("You're already in the group.")
	}

	groupGuard, group, err := openGroup(e.params.GroupID)
	if err != nil {
		errors.HandleInternalError("open_group", err.Error())
		return schemas.NewError("Internal error.")
	}
	if group == nil {
		groupGuard.Exit()
		return schemas.NewNull("Group does not exist.")
	}

	groupName := group.Name
	method := group.Settings.VerificationMethod
	answer := group.Settings.Answer
	adminIDs := group.AdminIDs()

	joined := false
	switch method {
	case schemas.VerifyFree:
		joined = true
	case schemas.VerifyAnswer:
		if e.params.AddInfo != answer {
			groupGuard.Exit()
			return schemas.NewError("Wrong answer.")
		}
		joined = true
	}

	if joined {
		group.MemberDict[ctx.UserID] = schemas.MemberInfo{Nick: userName}
		if err := groupGuard.Store(group); err != nil {
			groupGuard.Exit()
			errors.HandleInternalError("store_group", err.Error())
			return schemas.NewError("Internal error.")
		}
	}
	groupGuard.Exit()

	if joined {
		if err := e.finishJoin(ctx.UserID, groupName); err != nil {
			errors.HandleInternalError("finish_join", err.Error())
			return schemas.NewError("Internal error.")
		}
		return schemas.NewOK()
	}

	switch method {
	case schemas.VerifyClosed:
		return schemas.NewError("This group don't allow anyone join.")
	case schemas.VerifyAdmin:
		ec, err := messages.NewEventContainer(global.Events)
		if err != nil {
			errors.HandleInternalError("event_container", err.Error())
			return schemas.NewError("Internal error.")
		}
		ec.
			Add("type", schemas.EventGroupJoinRequest).
			Add("group_id", e.params.GroupID).
			Add("user_id", ctx.UserID).
			Add("add_info", e.params.AddInfo).
			Add("time", helpers.NowUnix())
		if err := ec.WriteIn(); err != nil {
			errors.HandleInternalError("event_write", err.Error())
			return schemas.NewError("Internal error.")
		}
		for _, adminID := range adminIDs {
			if err := messages.Deliver(adminID, ec.Rid); err != nil {
				errors.HandleBasicError(err)
			}
		}
		return schemas.NewOKMessage("Awaiting administrator review.")
	}
	return schemas.NewError("Unknown verification method.")
}

// finishJoin records the membership on the user side and queues the agreed
// notification
func (e *JoinGroup) finishJoin(userID string, groupName string) error {
	ec, err := messages.NewEventContainer(global.Events)
	if err != nil {
		return err
	}
	ec.
		Add("type", schemas.EventGroupJoinAgreed).
		Add("group_id", e.params.GroupID).
		Add("time", helpers.NowUnix())
	if err := ec.WriteIn(); err != nil {
		return err
	}

	guard, user, err := openUser(userID)
	if err != nil {
		return err
	}
	defer guard.Exit()
	if user == nil {
		return nil
	}
	user.GroupsDict[e.params.GroupID] = schemas.GroupInfo{Remark: groupName, Time: helpers.NowUnix()}
	user.AddTodo(ec.Rid)
	return guard.Store(user)
}

// AgreeJoin lets a group admin approve a pending join request
type AgreeJoin struct {
	params schemas.AgreeJoinSchema
}

func (e *AgreeJoin) Auth() bool          { return true }
func (e *AgreeJoin) Params() interface{} { return &e.params }

func (e *AgreeJoin) Run(ctx *Context) schemas.ReturnData {
	record, ok := messages.Lookup(e.params.Rid)
	if !ok {
		return schemas.NewNull("Event does not exist.")
	}
	if record.Type() != schemas.EventGroupJoinRequest {
		return schemas.NewError("Event is not a join request.")
	}
	groupID := record.GetString("group_id")
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

	groupGuard, group, err := openGroup(groupID)
	if err != nil {
		errors.HandleInternalError("open_group", err.Error())
		return schemas.NewError("Internal error.")
	}
	if group == nil {
		groupGuard.Exit()
		return schemas.NewNull("Group does not exist.")
	}
	if !group.IsAdmin(ctx.UserID) {
		groupGuard.Exit()
		return schemas.NewError("You don't have permission.")
	}
	if _, ok := group.MemberDict[requesterID]; ok {
		groupGuard.Exit()
		return schemas.NewError("The user is already a member.")
	}
	groupName := group.Name
	group.MemberDict[requesterID] = schemas.MemberInfo{Nick: requesterName}
	if err := groupGuard.Store(group); err != nil {
		groupGuard.Exit()
		errors.HandleInternalError("store_group", err.Error())
		return schemas.NewError("Internal error.")
	}
	groupGuard.Exit()

	ec, err := messages.NewEventContainer(global.Events)
	if err != nil {
		errors.HandleInternalError("event_container", err.Error())
		return schemas.NewError("Internal error.")
	}
	ec.
		Add("type", schemas.EventGroupJoinAgreed).
		Add("group_id", groupID).
		Add("time", helpers.NowUnix())
	if err := ec.WriteIn(); err != nil {
		errors.HandleInternalError("event_write", err.Error())
		return schemas.NewError("Internal error.")
	}

	guard, requester, err = openUser(requesterID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	defer guard.Exit()
	if requester != nil {
		requester.GroupsDict[groupID] = schemas.GroupInfo{Remark: groupName, Time: helpers.NowUnix()}
		requester.AddTodo(ec.Rid)
		if err := guard.Store(requester); err != nil {
			errors.HandleInternalError("store_user", err.Error())
			return schemas.NewError("Internal error.")
		}
	}
	return schemas.NewOK()
}

// AddAdmin promotes a member to admin and notifies every member. The group
// is mutated and released before the member records are opened one by one.
type AddAdmin struct {
	params schemas.AddAdminSchema
}

func (e *AddAdmin) Auth() bool          { return true }
func (e *AddAdmin) Params() interface{} { return &e.params }

func (e *AddAdmin) Run(ctx *Context) schemas.ReturnData {
	groupGuard, group, err := openGroup(e.params.GroupID)
	if err != nil {
		errors.HandleInternalError("open_group", err.Error())
		return schemas.NewError("Internal error.")
	}
	if group == nil {
		groupGuard.Exit()
		return schemas.NewNull("Group does not exist.")
	}
	if _, ok := group.MemberDict[e.params.MemberID]; !ok {
		groupGuard.Exit()
		return schemas.NewNull("No member with id:\"" + e.params.MemberID + "\"")
	}
	if ctx.UserID != group.Owner {
		groupGuard.Exit()
		return schemas.NewError("You are not the owner.")
	}
	if group.IsAdmin(e.params.MemberID) {
		groupGuard.Exit()
		return schemas.NewError("The member is already an admin.")
	}
	group.AdminList = append(group.AdminList, e.params.MemberID)
	memberIDs := make([]string, 0, len(group.MemberDict))
	for memberID := range group.MemberDict {
		memberIDs = append(memberIDs, memberID)
	}
	if err := groupGuard.Store(group); err != nil {
		groupGuard.Exit()
		errors.HandleInternalError("store_group", err.Error())
		return schemas.NewError("Internal error.")
	}
	groupGuard.Exit()

	ec, err := messages.NewEventContainer(global.Events)
	if err != nil {
		errors.HandleInternalError("event_container", err.Error())
		return schemas.NewError("Internal error.")
	}
	ec.
		Add("type", schemas.EventAdminAdded).
		Add("group_id", e.params.GroupID).
		Add("name", e.params.MemberID).
		Add("time", helpers.NowUnix())
	if err := ec.WriteIn(); err != nil {
		errors.HandleInternalError("event_write", err.Error())
		return schemas.NewError("Internal error.")
	}

	for _, memberID := range memberIDs {
		if err := messages.Deliver(memberID, ec.Rid); err != nil {
			errors.HandleBasicError(err)
		}
	}
	return schemas.NewOK()
}

// GroupRename changes a group's name, admins only
type GroupRename struct {
	params schemas.GroupRenameSchema
}

func (e *GroupRename) Auth() bool          { return true }
func (e *GroupRename) Params() interface{} { return &e.params }

func (e *GroupRename) Run(ctx *Context) schemas.ReturnData {
	groupGuard, group, err := openGroup(e.params.GroupID)
	if err != nil {
		errors.HandleInternalError("open_group", err.Error())
		return schemas.NewError("Internal error.")
	}
	defer groupGuard.Exit()

	if group == nil {
		return schemas.NewNull("Group does not exist.")
	}
	if !group.IsAdmin(ctx.UserID) {
		return schemas.NewError("You don't have permission.")
	}
	group.Name = e.params.Name
	if err := groupGuard.Store(group); err != nil {
		errors.HandleInternalError("store_group", err.Error())
		return schemas.NewError("Internal error.")
	}
	return schemas.NewOK()
}

// GetGroups lists the caller's groups with remark, current name and nick
type GetGroups struct{}

func (e *GetGroups) Auth() bool          { return true }
func (e *GetGroups) Params() interface{} { return nil }

func (e *GetGroups) Run(ctx *Context) schemas.ReturnData {
	guard, user, err := openUser(ctx.UserID)
	if err != nil {
		errors.HandleInternalError("open_user", err.Error())
		return schemas.NewError("Internal error.")
	}
	if user == nil {
		guard.Exit()
		return schemas.NewNull("User does not exist.")
	}
	groupsDict := make(map[string]schemas.GroupInfo, len(user.GroupsDict))
	for groupID, info := range user.GroupsDict {
		groupsDict[groupID] = info
	}
	guard.Exit()

	data := map[string]interface{}{}
	for groupID, info := range groupsDict {
		groupGuard, group, err := openGroup(groupID)
		if err != nil {
			errors.HandleInternalError("open_group", err.Error())
			continue
		}
		if group != nil {
			data[groupID] = map[string]interface{}{
				"remark":     info.Remark,
				"group_name": group.Name,
				"nick":       group.MemberDict[ctx.UserID].Nick,
			}
		}
		groupGuard.Exit()
	}
	return schemas.NewOK().Add("data", data)
}

// SetVerification changes a group's join verification method, admins only
type SetVerification struct {
	params schemas.SetVerificationSchema
}

func (e *SetVerification) Auth() bool          { return true }
func (e *SetVerification) Params() interface{} { return &e.params }

func (e *SetVerification) Run(ctx *Context) schemas.ReturnData {
	groupGuard, group, err := openGroup(e.params.GroupID)
	if err != nil {
		errors.HandleInternalError("open_group", err.Error())
		return schemas.NewError("Internal error.")
	}
	defer groupGuard.Exit()

	if group == nil {
		return schemas.NewNull("Group does not exist.")
	}
	if !group.IsAdmin(ctx.UserID) {
		return schemas.NewError("You don't have permission.")
	}
	group.Settings = schemas.GroupSettings{
		VerificationMethod: e.params.Method,
		Answer:             e.params.Answer,
	}
	if err := groupGuard.Store(group); err != nil {
		errors.HandleInternalError("store_group", err.Error())
		return schemas.NewError("Internal error.")
	}
	return schemas.NewOK()
}
