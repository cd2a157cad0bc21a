package lifecycle

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"

	"campusdesk/backend/internal/config"
)

const referenceCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewReferenceNumber builds the public tracking code for a complaint:
// institution tag, base36 timestamp, random suffix. Generated once at
// submission; lookups are case-insensitive so the stored form is uppercase.
func NewReferenceNumber(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return fmt.Sprintf("%s-%s-%s", config.ReferencePrefix, ts, randomSuffix(config.ReferenceRandomLength))
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to the clock rather than refuse the submission.
		return strings.ToUpper(strconv.FormatInt(time.Now().UnixNano()%1679616, 36))
	}
	for i, b := range buf {
		buf[i] = referenceCharset[int(b)%len(referenceCharset)]
	}
	return string(buf)
}
