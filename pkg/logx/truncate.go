package logx

const truncatedSuffix = "...(truncated)"

// Truncate renders b for a log field, cutting it at maxLen bytes. A
// non-positive maxLen keeps everything.
func Truncate(b []byte, maxLen int) string {
	if maxLen <= 0 || len(b) <= maxLen {
		return string(b)
	}

	return string(b[:maxLen]) + truncatedSuffix
}
