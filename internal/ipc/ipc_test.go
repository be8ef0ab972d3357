package ipc

import (
	"bytes"
	"testing"
)

func TestWriteReadFrameRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	req := Request{Cmd: CmdToggle}

	if err := writeFrame(&buf, req); err != nil {
		t.Fatalf("writeFrame: %v", err)
	}

	var got Request
	if err := readFrame(&buf, &got); err != nil {
		t.Fatalf("readFrame: %v", err)
	}
	if got.Cmd != CmdToggle {
		t.Errorf("got cmd %q, want %q", got.Cmd, CmdToggle)
	}
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xff, 0xff, 0xff})

	var resp Response
	if err := readFrame(&buf, &resp); err == nil {
		t.Fatal("expected error for oversized frame length")
	}
}

func TestReadFrameRejectsMalformedJSON(t *testing.T) {
	var buf bytes.Buffer
	_ = writeRawFrame(&buf, []byte("not json"))

	var resp Response
	if err := readFrame(&buf, &resp); err == nil {
		t.Fatal("expected decode error for malformed JSON")
	}
}

func writeRawFrame(w *bytes.Buffer, body []byte) error {
	var header [4]byte
	header[3] = byte(len(body))
	w.Write(header[:])
	w.Write(body)
	return nil
}

func TestSockPathFallsBackToTempDirWhenUnset(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")
	path := SockPath()
	if path == "" {
		t.Fatal("SockPath returned empty string")
	}
}

func TestSockPathUsesXDGRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	path := SockPath()
	if path != "/run/user/1000/scribe.sock" {
		t.Errorf("SockPath() = %q, want /run/user/1000/scribe.sock", path)
	}
}

func TestPingReturnsFalseWhenNothingListening(t *testing.T) {
	if Ping("/tmp/scribe-test-nonexistent.sock") {
		t.Error("Ping should return false for a socket path nothing is listening on")
	}
}
