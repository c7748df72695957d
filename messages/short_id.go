package messages

import (
	"sync"

	"github.com/aidarkhanov/nanoid/v2"

	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/helpers"
)

const VALID_NANOID_CHAR = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
const SHORT_ID_LENGTH = 8

type shortIDEntry struct {
	rid     string
	created int64
}

// process-wide alias table, rebuilt empty on restart
var shortIDTable = map[string]shortIDEntry{}
var shortIDLock sync.RWMutex

// AssignShortID creates a compact alias for a full rid
func AssignShortID(rid string) (string, error) {
	shortIDLock.Lock()
	defer shortIDLock.Unlock()

	for {
		shortID, err := nanoid.GenerateString(VALID_NANOID_CHAR, SHORT_ID_LENGTH)
		if err != nil {
			return "", err
		}
		if _, exists := shortIDTable[shortID]; exists {
			continue
		}
		shortIDTable[shortID] = shortIDEntry{rid: rid, created: helpers.NowUnix()}
		return shortID, nil
	}
}

// ResolveShortID looks up the alias table
func ResolveShortID(shortID string) (string, bool) {
	shortIDLock.RLock()
	defer shortIDLock.RUnlock()
	entry, ok := shortIDTable[shortID]
	return entry.rid, ok
}

// SweepShortIDs drops aliases whose target record is gone or that exceeded
// the alias-specific timeout. Aliases expire strictly faster than records.
func SweepShortIDs() int {
	type pair struct {
		shortID string
		entry   shortIDEntry
	}
	shortIDLock.RLock()
	snapshot := make([]pair, 0, len(shortIDTable))
	for shortID, entry := range shortIDTable {
		snapshot = append(snapshot, pair{shortID, entry})
	}
	shortIDLock.RUnlock()

	now := helpers.NowUnix()
	var marked []string
	for _, p := range snapshot {
		if now-p.entry.created > int64(global.ShortIDTimeout.Seconds()) {
			marked = append(marked, p.shortID)
			continue
		}
		if _, live := Lookup(p.entry.rid); !live {
			marked = append(marked, p.shortID)
		}
	}

	shortIDLock.Lock()
	for _, shortID := range marked {
		delete(shortIDTable, shortID)
	}
	shortIDLock.Unlock()
	return len(marked)
}
