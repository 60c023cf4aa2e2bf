// Package sourceid provides a deterministic source ID for a commentary page URL.
package sourceid

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

const prefix = "src:"

// FromURL returns a stable ID for the page at rawURL. Scheme and host are
// case-folded and the fragment is ignored, so "#x" anchors of the same page
// share one ID.
func FromURL(rawURL string) string {
	return prefix + hash(normalize(rawURL))
}

func normalize(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:16])
}
