package monitors

import (
	"sync"
	"time"

	"github.com/hsn8086/re-hcat-server/errors"
	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/schemas"
)

// activityTable counts down seconds of presence per user; shared between
// every request path and the decay loop, so all access goes through the lock.
var activityTable = map[string]int{}
var activityLock sync.Mutex

// Touch resets a user's presence countdown to the ceiling
func Touch(userID string) {
	activityLock.Lock()
	activityTable[userID] = global.ActivityCeiling
	activityLock.Unlock()
}

// Online reports whether the user currently has presence
func Online(userID string) bool {
	activityLock.Lock()
	_, ok := activityTable[userID]
	activityLock.Unlock()
	return ok
}

// SweepActivity runs one decay pass: decrement every counter, remove the
// expired entries inside the locked scan, then mark each expired user
// offline. A login between removal and the mark re-creates the entry, so the
// mark is skipped to not drop the fresh session.
func SweepActivity() []string {
	var expired []string

	activityLock.Lock()
	for userID := range activityTable {
		activityTable[userID]--
		if activityTable[userID] <= 0 {
			expired = append(expired, userID)
		}
	}
	for _, userID := range expired {
		delete(activityTable, userID)
	}
	activityLock.Unlock()

	for _, userID := range expired {
		if Online(userID) {
			continue
		}
		if err := markOffline(userID); err != nil {
			errors.HandleInternalError("mark_offline", err.Error())
		}
	}
	return expired
}

func markOffline(userID string) error {
	guard, err := global.Accounts.Enter(userID)
	if err != nil {
		return err
	}
	defer guard.Exit()

	user := new(schemas.User)
	found, err := guard.Load(user)
	if err != nil || !found {
		return err
	}
	if Online(userID) {
		// logged back in mid-sweep
		return nil
	}
	user.Status = schemas.StatusOffline
	return guard.Store(user)
}

// ActivityLoop decays presence once per second for the process lifetime
func ActivityLoop() {
	for {
		SweepActivity()
		time.Sleep(time.Second)
	}
}
