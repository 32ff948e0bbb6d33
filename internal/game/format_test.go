package game

import (
	"bytes"
	"go/format"
	"os"
	"testing"
)

// session.go holds the Settings struct the platform fills in.
func TestSessionFormatted(t *testing.T) {
	src, err := os.ReadFile("session.go")
	if err != nil {
		t.Fatal(err)
	}
	out, err := format.Source(src)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(src, out) {
		t.Error("session.go is not gofmt-formatted")
	}
}
