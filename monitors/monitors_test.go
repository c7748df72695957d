package monitors

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/helpers"
	"github.com/hsn8086/re-hcat-server/messages"
	"github.com/hsn8086/re-hcat-server/schemas"
	"github.com/hsn8086/re-hcat-server/storage"
)

func setupStores(t *testing.T) {
	t.Helper()
	accounts, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	events, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	global.Accounts = accounts
	global.Events = events
	global.InternalLogger = log.New(io.Discard, "", 0)
	global.MonitorLogger = log.New(io.Discard, "", 0)

	activityLock.Lock()
	activityTable = map[string]int{}
	activityLock.Unlock()
}

func writeUser(t *testing.T, userID string, status string) {
	t.Helper()
	user, err := schemas.NewUser(userID, "hunter2", userID)
	if err != nil {
		t.Fatal(err)
	}
	user.Status = status
	guard, err := global.Accounts.Enter(userID)
	if err != nil {
		t.Fatal(err)
	}
	if err := guard.Store(user); err != nil {
		t.Fatal(err)
	}
	guard.Exit()
}

func userStatus(t *testing.T, userID string) string {
	t.Helper()
	guard, err := global.Accounts.Enter(userID)
	if err != nil {
		t.Fatal(err)
	}
	defer guard.Exit()
	user := new(schemas.User)
	found, err := guard.Load(user)
	if err != nil || !found {
		t.Fatalf("user %s missing", userID)
	}
	return user.Status
}

func TestPresenceDecayToOffline(t *testing.T) {
	setupStores(t)
	writeUser(t, "alice", schemas.StatusOnline)

	Touch("alice")
	if !Online("alice") {
		t.Fatal("expected presence after touch")
	}

	for i := 0; i < global.ActivityCeiling; i++ {
		SweepActivity()
	}

	if Online("alice") {
		t.Error("expected presence gone after ceiling sweeps")
	}
	if userStatus(t, "alice") != schemas.StatusOffline {
		t.Error("expected user marked offline")
	}
}

func TestPresenceStaysWithActivity(t *testing.T) {
	setupStores(t)
	writeUser(t, "alice", schemas.StatusOnline)

	Touch("alice")
	for i := 0; i < global.ActivityCeiling*2; i++ {
		SweepActivity()
		Touch("alice") // authenticated request every tick
	}

	if !Online("alice") {
		t.Error("active user lost presence")
	}
	if userStatus(t, "alice") != schemas.StatusOnline {
		t.Error("active user marked offline")
	}
}

// A login racing the sweep re-creates the activity entry after the locked
// scan removed it; the offline mark must then be skipped.
func TestLoginDuringSweepNotMarkedOffline(t *testing.T) {
	setupStores(t)
	writeUser(t, "alice", schemas.StatusOnline)

	activityLock.Lock()
	activityTable["alice"] = 1
	activityLock.Unlock()

	// simulate the login landing between the scan and the mark
	Touch("alice")
	expired := SweepActivity()

	// the sweep decremented the fresh ceiling, not the stale counter
	if len(expired) != 0 {
		t.Fatalf("fresh presence expired: %v", expired)
	}
	if userStatus(t, "alice") != schemas.StatusOnline {
		t.Error("user marked offline despite fresh login")
	}
}

func TestMarkOfflineSkipsFreshLogin(t *testing.T) {
	setupStores(t)
	writeUser(t, "alice", schemas.StatusOnline)

	// presence re-acquired after the scan already collected alice
	Touch("alice")
	if err := markOffline("alice"); err != nil {
		t.Fatal(err)
	}
	if userStatus(t, "alice") != schemas.StatusOnline {
		t.Error("mark-offline ignored the fresh presence")
	}
}

func writeEvent(t *testing.T, age time.Duration) string {
	t.Helper()
	ec, err := messages.NewEventContainer(global.Events)
	if err != nil {
		t.Fatal(err)
	}
	ec.
		Add("type", schemas.EventFriendRequest).
		Add("time", helpers.NowUnix()-int64(age.Seconds()))
	if err := ec.WriteIn(); err != nil {
		t.Fatal(err)
	}
	return ec.Rid
}

func TestSweepEventsKeepsFresh(t *testing.T) {
	setupStores(t)

	fresh := writeEvent(t, 0)
	almostExpired := writeEvent(t, global.EventTimeout-time.Second)

	if n := SweepEvents(); n != 0 {
		t.Errorf("expected no deletions, got %d", n)
	}
	if _, ok := messages.Lookup(fresh); !ok {
		t.Error("fresh record swept")
	}
	if _, ok := messages.Lookup(almostExpired); !ok {
		t.Error("record swept before its TTL elapsed")
	}
}

func TestSweepEventsDeletesExpired(t *testing.T) {
	setupStores(t)

	expired := writeEvent(t, global.EventTimeout+time.Second)
	fresh := writeEvent(t, time.Hour)

	if n := SweepEvents(); n != 1 {
		t.Errorf("expected 1 deletion, got %d", n)
	}
	if _, ok := messages.Lookup(expired); ok {
		t.Error("expired record still retrievable after sweep")
	}
	if _, ok := messages.Lookup(fresh); !ok {
		t.Error("fresh record swept")
	}
}
