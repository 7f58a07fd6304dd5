package http

import "strconv"

// DefaultContentType is used when a route does not set its own.
const DefaultContentType = "text/html"

var (
	statusLineOK        = []byte("HTTP/1.1 200 OK\r\n")
	headerContentLength = []byte("Content-Length: ")
	headerContentType   = []byte("Content-Type: ")
	crlf                = []byte("\r\n")

	// responseNotFound is the complete 404 message, sent as-is.
	responseNotFound = []byte("HTTP/1.1 404 Not Found\r\nContent-Length: 14\r\n\r\n404 Not Found!")
)

// RenderOK builds the complete 200 message for a body: status line,
// Content-Length, Content-Type, blank line, body. Content-Length counts body
// bytes only.
func RenderOK(body []byte, contentType string) []byte {
	if contentType == "" {
		contentType = DefaultContentType
	}

	rendered := make([]byte, 0, 64+len(contentType)+len(body))
	rendered = append(rendered, statusLineOK...)
	rendered = append(rendered, headerContentLength...)
	rendered = strconv.AppendInt(rendered, int64(len(body)), 10)
	rendered = append(rendered, crlf...)
	rendered = append(rendered, headerContentType...)
	rendered = append(rendered, contentType...)
	rendered = append(rendered, crlf...)
	rendered = append(rendered, crlf...)
	rendered = append(rendered, body...)

	return rendered
}

// RenderNotFound returns the fixed 404 message. Callers must not modify it.
func RenderNotFound() []byte {
	return responseNotFound
}
