package messages

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/helpers"
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

	shortIDLock.Lock()
	shortIDTable = map[string]shortIDEntry{}
	shortIDLock.Unlock()
}

func writeUser(t *testing.T, userID string) {
	t.Helper()
	user, err := schemas.NewUser(userID, "hunter2", userID)
	if err != nil {
		t.Fatal(err)
	}
	guard, err := global.Accounts.Enter(userID)
	if err != nil {
		t.Fatal(err)
	}
	if err := guard.Store(user); err != nil {
		t.Fatal(err)
	}
	guard.Exit()
}

func TestCreateAndLookup(t *testing.T) {
	setupStores(t)

	ec, err := NewEventContainer(global.Events)
	if err != nil {
		t.Fatal(err)
	}
	if len(ec.Rid) != RID_BYTES*2 {
		t.Errorf("expected %d char rid, got %q", RID_BYTES*2, ec.Rid)
	}

	ec.
		Add("type", schemas.EventFriendRequest).
		Add("user_id", "alice").
		Add("req_user_id", "bob").
		Add("add_info", "hi")
	if err := ec.WriteIn(); err != nil {
		t.Fatal(err)
	}

	record, ok := Lookup(ec.Rid)
	if !ok {
		t.Fatal("expected record to be retrievable immediately after creation")
	}
	if record.Type() != schemas.EventFriendRequest {
		t.Errorf("type mismatch: %q", record.Type())
	}
	if record.GetString("add_info") != "hi" {
		t.Errorf("payload mismatch: %q", record.GetString("add_info"))
	}
	if record.Rid() != ec.Rid {
		t.Errorf("rid mismatch: %q != %q", record.Rid(), ec.Rid)
	}
	if record.Time() == 0 {
		t.Error("expected time to be set")
	}
}

func TestDeliverAppendsTodo(t *testing.T) {
	setupStores(t)
	writeUser(t, "bob")

	if err := Deliver("bob", "some-rid"); err != nil {
		t.Fatal(err)
	}
	if err := Deliver("bob", "other-rid"); err != nil {
		t.Fatal(err)
	}

	guard, _ := global.Accounts.Enter("bob")
	defer guard.Exit()
	user := new(schemas.User)
	guard.Load(user)
	if len(user.TodoList) != 2 || user.TodoList[0] != "some-rid" || user.TodoList[1] != "other-rid" {
		t.Errorf("todo list order broken: %v", user.TodoList)
	}
}

func TestDeliverToMissingUser(t *testing.T) {
	setupStores(t)
	if err := Deliver("ghost", "rid"); err == nil {
		t.Error("expected error delivering to missing user")
	}
}

func TestShortIDRoundTrip(t *testing.T) {
	setupStores(t)

	ec, _ := NewEventContainer(global.Events)
	ec.Add("type", schemas.EventFriendRequest)
	if err := ec.WriteIn(); err != nil {
		t.Fatal(err)
	}

	shortID, err := AssignShortID(ec.Rid)
	if err != nil {
		t.Fatal(err)
	}
	if len(shortID) != SHORT_ID_LENGTH {
		t.Errorf("expected %d char short id, got %q", SHORT_ID_LENGTH, shortID)
	}

	rid, ok := ResolveShortID(shortID)
	if !ok || rid != ec.Rid {
		t.Errorf("resolve failed: %q %v", rid, ok)
	}

	record, ok := Lookup(shortID)
	if !ok || record.Rid() != ec.Rid {
		t.Error("lookup by short id failed")
	}
}

func TestSweepShortIDsDropsDeadTargets(t *testing.T) {
	setupStores(t)

	ec, _ := NewEventContainer(global.Events)
	ec.Add("type", schemas.EventFriendRequest)
	ec.WriteIn()

	shortID, _ := AssignShortID(ec.Rid)

	if n := SweepShortIDs(); n != 0 {
		t.Errorf("expected live alias to survive sweep, dropped %d", n)
	}

	guard, _ := global.Events.Enter(ec.Rid)
	guard.Delete()
	guard.Exit()

	if n := SweepShortIDs(); n != 1 {
		t.Errorf("expected 1 dropped alias, got %d", n)
	}
	if _, ok := ResolveShortID(shortID); ok {
		t.Error("alias still resolvable after target deletion")
	}
}

func TestSweepShortIDsExpiresAliases(t *testing.T) {
	setupStores(t)

	ec, _ := NewEventContainer(global.Events)
	ec.Add("type", schemas.EventFriendRequest)
	ec.WriteIn()

	shortID, _ := AssignShortID(ec.Rid)

	// age the alias past its own timeout while the record stays live
	oldTimeout := global.ShortIDTimeout
	global.ShortIDTimeout = -time.Second
	defer func() { global.ShortIDTimeout = oldTimeout }()

	if n := SweepShortIDs(); n != 1 {
		t.Errorf("expected expired alias to be dropped, got %d", n)
	}
	if _, ok := ResolveShortID(shortID); ok {
		t.Error("expired alias still resolvable")
	}
	if _, ok := Lookup(ec.Rid); !ok {
		t.Error("record must outlive its alias")
	}
}

func TestLookupAbsent(t *testing.T) {
	setupStores(t)
	rid, err := helpers.RandomTokenString(RID_BYTES)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := Lookup(rid); ok {
		t.Error("expected absent record")
	}
}
