package events

import (
	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/schemas"
	"github.com/hsn8086/re-hcat-server/storage"
)

// openUser enters a user record exclusively; user is nil when the record is
// absent. The caller must Exit the guard either way.
func openUser(userID string) (*storage.Guard, *schemas.User, error) {
	guard, err := global.Accounts.Enter(userID)
	if err != nil {
		return nil, nil, err
	}
	user := new(schemas.User)
	found, err := guard.Load(user)
	if err != nil {
		guard.Exit()
		return nil, nil, err
	}
	if !found {
		return guard, nil, nil
	}
	return guard, user, nil
}

// openGroup enters a group record exclusively; group is nil when absent
func openGroup(groupID string) (*storage.Guard, *schemas.Group, error) {
	guard, err := global.Groups.Enter(groupID)
	if err != nil {
		return nil, nil, err
	}
	group := new(schemas.Group)
	found, err := guard.Load(group)
	if err != nil {
		guard.Exit()
		return nil, nil, err
	}
	if !found {
		return guard, nil, nil
	}
	return guard, group, nil
}

func isUserExist(userID string) bool {
	guard, user, err := openUser(userID)
	if err != nil {
		return false
	}
	guard.Exit()
	return user != nil
}
