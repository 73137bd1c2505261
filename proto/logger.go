package proto

// LogLinePayload encodes a MsgLogLine payload.
//
// Convention:
// - Payload is UTF-8 bytes without a trailing newline.
// - Lines longer than limit are cut at a rune boundary.
// - Delivery is best-effort; callers may drop on overflow.
func LogLinePayload(s string, limit int) []byte {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	if limit > 0 && len(s) > limit {
		cut := limit
		for cut > 0 && !runeStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return []byte(s)
}

func runeStart(b byte) bool { return b&0xC0 != 0x80 }
