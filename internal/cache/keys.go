package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"
)

// SnapshotKey is the key of the collection snapshot fetched with token.
// Different users see different backend data, so the token is part of it.
func SnapshotKey(token string) string {
	return makeKey("snapshot", token)
}

// HistoryKey identifies a consumption history query. Absolute bounds are
// compared by instant, relative ones ("-24h") by text.
func HistoryKey(lampID, start, stop, window string) string {
	return makeKey(
		"history",
		strings.TrimSpace(lampID),
		canonicalTime(start),
		canonicalTime(stop),
		strings.TrimSpace(window),
	)
}

func canonicalTime(v string) string {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC().Format(time.RFC3339)
	}
	return v
}

func makeKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	h := sha1.Sum([]byte(joined))
	return hex.EncodeToString(h[:])
}
