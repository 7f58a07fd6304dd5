package http

import (
	"bufio"
	"bytes"
	"errors"
	"testing"
)

func TestRequestParse(t *testing.T) {
	var req Request

	reqMsg := []byte("GET /test HTTP/1.1\r\nAccept: text/css\r\nConnection: keep-alive\r\nContent-Length: 0\r\n\r\n")

	br := bufio.NewReader(bytes.NewBuffer(reqMsg))

	if err := req.Parse(br); err != nil {
		t.Error(err)
	}

	if req.Method != "GET" {
		t.Errorf("expected GET, got %q", req.Method)
	}
	if req.Path != "/test" {
		t.Errorf("expected /test, got %q", req.Path)
	}
	if req.Version != "HTTP/1.1" {
		t.Errorf("expected HTTP/1.1, got %q", req.Version)
	}

	// Headers are drained, so the reader must be at the end of the message.
	if br.Buffered() != 0 {
		t.Errorf("expected headers to be drained, %d bytes left", br.Buffered())
	}
}

func TestRequestParse_MissingVersion(t *testing.T) {
	var req Request

	br := bufio.NewReader(bytes.NewBufferString("GET /test\r\n\r\n"))

	if err := req.Parse(br); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Method != "GET" || req.Path != "/test" {
		t.Errorf("expected GET /test, got %q %q", req.Method, req.Path)
	}
	if req.Version != "" {
		t.Errorf("expected empty version, got %q", req.Version)
	}
}

func TestRequestParse_ExtraWhitespace(t *testing.T) {
	var req Request

	br := bufio.NewReader(bytes.NewBufferString("GET    /spaced   HTTP/1.1\r\n\r\n"))

	if err := req.Parse(br); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Path != "/spaced" {
		t.Errorf("expected /spaced, got %q", req.Path)
	}
}

func TestRequestParse_Malformed(t *testing.T) {
	for _, line := range []string{"GET\r\n\r\n", "\r\n\r\n", "   \r\n\r\n"} {
		var req Request

		err := req.Parse(bufio.NewReader(bytes.NewBufferString(line)))
		if !errors.Is(err, ErrMalformedRequestLine) {
			t.Errorf("line %q: expected ErrMalformedRequestLine, got %v", line, err)
		}
	}
}

func TestRequestParse_TruncatedHeaders(t *testing.T) {
	var req Request

	// The header block never ends, so parsing must fail instead of routing.
	br := bufio.NewReader(bytes.NewBufferString("GET /test HTTP/1.1\r\nAccept: text/css"))

	if err := req.Parse(br); err == nil {
		t.Error("expected an error for a truncated header block")
	}
}

func BenchmarkRequestParse(b *testing.B) {
	reqMsg := []byte("GET /test HTTP/1.1\r\nAccept: text/css\r\nConnection: keep-alive\r\nContent-Length: 0\r\n\r\n")
	var req Request

	reader := bytes.NewReader(reqMsg)
	br := bufio.NewReader(reader)

	for b.Loop() {
		reader.Reset(reqMsg) // Reset read position without allocation
		br.Reset(reader)     // Reset bufio.Reader to reuse buffer

		if err := req.Parse(br); err != nil {
			b.Error(err)
		}
	}
}
