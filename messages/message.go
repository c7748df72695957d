package messages

import (
	Errors "errors"

	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/helpers"
	"github.com/hsn8086/re-hcat-server/schemas"
	"github.com/hsn8086/re-hcat-server/storage"
)

// RID_BYTES gives 128 bits of entropy, hex-encoded to 32 chars
const RID_BYTES = 16

// EventContainer builds an event record and writes it once
type EventContainer struct {
	store storage.Store
	Rid   string
	data  map[string]interface{}
}

// NewEventContainer creates a container with a fresh random rid
func NewEventContainer(store storage.Store) (*EventContainer, error) {
	rid, err := helpers.RandomTokenString(RID_BYTES)
	if err != nil {
		return nil, err
	}
	return &EventContainer{
		store: store,
		Rid:   rid,
		data:  map[string]interface{}{"rid": rid},
	}, nil
}

// Add sets a payload field and returns the container for chaining
func (ec *EventContainer) Add(key string, value interface{}) *EventContainer {
	ec.data[key] = value
	return ec
}

// WriteIn persists the record under its rid in a single atomic insert.
// The record is never mutated afterwards; only the cleaner deletes it.
func (ec *EventContainer) WriteIn() error {
	if _, ok := ec.data["time"]; !ok {
		ec.data["time"] = helpers.NowUnix()
	}
	guard, err := ec.store.Enter(ec.Rid)
	if err != nil {
		return err
	}
	defer guard.Exit()
	return guard.Store(ec.data)
}

// Deliver appends an event reference to the target user's pending list.
// Delivery to multiple users is multiple independent lock acquisitions, not
// one transaction; an undelivered record is reclaimed by the cleaner.
func Deliver(userID string, ref string) error {
	guard, err := global.Accounts.Enter(userID)
	if err != nil {
		return err
	}
	defer guard.Exit()

	user := new(schemas.User)
	found, err := guard.Load(user)
	if err != nil {
		return err
	}
	if !found {
		return Errors.New("user does not exist: " + userID)
	}
	user.AddTodo(ref)
	return guard.Store(user)
}

// Lookup resolves an event reference, trying the short-id table first when
// the reference has the short-id shape. Returns false when expired or absent.
func Lookup(ref string) (schemas.EventRecord, bool) {
	rid := ref
	if len(ref) == SHORT_ID_LENGTH {
		if full, ok := ResolveShortID(ref); ok {
			rid = full
		}
	}

	guard, err := global.Events.Enter(rid)
	if err != nil {
		return nil, false
	}
	defer guard.Exit()

	record := schemas.EventRecord{}
	found, err := guard.Load(&record)
	if err != nil || !found {
		return nil, false
	}
	return record, true
}
