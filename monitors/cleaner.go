package monitors

import (
	"time"

	"github.com/hsn8086/re-hcat-server/errors"
	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/helpers"
	"github.com/hsn8086/re-hcat-server/messages"
	"github.com/hsn8086/re-hcat-server/schemas"
)

// SweepEvents deletes event records older than EventTimeout. Records
// disappearing mid-sweep are treated as already removed.
func SweepEvents() int {
	keys, err := global.Events.Keys()
	if err != nil {
		errors.HandleInternalError("event_keys", err.Error())
		return 0
	}

	deleted := 0
	now := helpers.NowUnix()
	for _, key := range keys {
		guard, err := global.Events.Enter(key)
		if err != nil {
			errors.HandleInternalError("event_enter", err.Error())
			continue
		}
		record := schemas.EventRecord{}
		found, err := guard.Load(&record)
		if err == nil && found && now-record.Time() > int64(global.EventTimeout.Seconds()) {
			guard.Delete()
			deleted++
		}
		if err := guard.Exit(); err != nil {
			errors.HandleInternalError("event_exit", err.Error())
		}
	}
	return deleted
}

// CleanerLoop sweeps expired events and stale short ids every tick
func CleanerLoop() {
	for {
		delEvents := SweepEvents()
		delShortIDs := messages.SweepShortIDs()
		if delEvents > 0 || delShortIDs > 0 {
			global.MonitorLogger.Printf("Event cleaner: %d events deleted, %d short IDs deleted.", delEvents, delShortIDs)
		}
		time.Sleep(global.CleanerInterval)
	}
}
