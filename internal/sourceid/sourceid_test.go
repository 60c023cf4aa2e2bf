package sourceid

import (
	"strings"
	"testing"
)

func TestFromURL(t *testing.T) {
	id1 := FromURL("https://www.nta.go.jp/law/tsutatsu/kihon/sisan/sozoku2/01.htm")
	id2 := FromURL("https://www.nta.go.jp/law/tsutatsu/kihon/sisan/sozoku2/01.htm")
	if id1 != id2 {
		t.Errorf("same URL should give same ID: %q vs %q", id1, id2)
	}
	if !strings.HasPrefix(id1, prefix) {
		t.Errorf("ID should have prefix %q: got %q", prefix, id1)
	}
	if len(id1) != len(prefix)+32 {
		t.Errorf("unexpected ID length: %q", id1)
	}
}

func TestFromURL_differentURLs(t *testing.T) {
	if FromURL("https://site/kihon/a.htm") == FromURL("https://site/kihon/b.htm") {
		t.Error("different URLs should give different IDs")
	}
}

func TestFromURL_normalized(t *testing.T) {
	base := FromURL("https://site/kihon/a.htm")
	for _, u := range []string{
		"https://site/kihon/a.htm#x",
		"HTTPS://SITE/kihon/a.htm",
		"  https://site/kihon/a.htm\n",
	} {
		if got := FromURL(u); got != base {
			t.Errorf("%q should normalize to %q, got %q", u, base, got)
		}
	}
	if FromURL("https://site/KIHON/a.htm") == base {
		t.Error("path case must be preserved")
	}
}
