package feed

import (
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	created := time.Date(2024, 5, 20, 10, 30, 0, 123456000, time.UTC)
	cur := Cursor{CreatedAt: created, ID: "meme-1"}

	decoded, err := DecodeCursor(cur.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != "meme-1" {
		t.Fatalf("unexpected id %q", decoded.ID)
	}
	if !decoded.CreatedAt.Equal(created) {
		t.Fatalf("unexpected timestamp %v", decoded.CreatedAt)
	}
}

func TestDecodeCursorInvalid(t *testing.T) {
	cases := []string{
		"not base64 !!!",
		"",
		// base64 of "12345" - no separator
		"MTIzNDU",
		// base64 of "abc:x" - timestamp not numeric
		"YWJjOng",
		// base64 of "123:" - empty id
		"MTIzOg",
	}
	for _, c := range cases {
		if _, err := DecodeCursor(c); err == nil {
			t.Fatalf("expected error for %q", c)
		}
	}
}

func TestVisible(t *testing.T) {
	if Visible("u1", "u1") {
		t.Fatalf("owner must not see own post in feed")
	}
	if !Visible("u1", "u2") {
		t.Fatalf("other users' posts are visible")
	}
	if !Visible("", "u2") {
		t.Fatalf("anonymous viewer passes ownership check")
	}
}
