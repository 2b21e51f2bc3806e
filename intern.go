package bencode

import "github.com/puzpuzpuz/xsync/v4"

// MaxInternedKeyLen bounds the keys that go into the intern table. Longer keys are
// unlikely to repeat and would only bloat it.
const MaxInternedKeyLen = 64

// keyTable holds dictionary keys shared by every decoder created WithKeyInterning.
// Torrent metainfo and DHT traffic repeat a small vocabulary ("info", "length",
// "path", "piece length") across millions of dictionaries.
var keyTable = xsync.NewMap[string, string]()

// internKey returns the canonical copy of the key spelled by b.
func internKey(b []byte) string {
	if len(b) > MaxInternedKeyLen {
		return string(b)
	}
	k := string(b)
	actual, _ := keyTable.LoadOrStore(k, k)
	return actual
}

// InternedKeys reports how many distinct keys the intern table holds.
func InternedKeys() int { return keyTable.Size() }

// ResetInternedKeys empties the intern table.
func ResetInternedKeys() { keyTable.Clear() }
