package http

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedRequestLine = errors.New("http: malformed request line")

// Request is the routed part of one incoming message: the request line,
// split into its tokens. Header lines are read off the wire and discarded;
// bodies are never read.
type Request struct {
	Method  string
	Path    string
	Version string
}

// Parse reads one request off reader. The request line must carry at least a
// method and a path; a missing version token is tolerated and left empty.
// Header lines are drained up to the blank line ending the block.
func (request *Request) Parse(reader *bufio.Reader) error {
	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) < 2 {
		return fmt.Errorf("%w: %q", ErrMalformedRequestLine, strings.TrimSpace(line))
	}

	request.Method = fields[0]
	request.Path = fields[1]
	if len(fields) >= 3 {
		request.Version = fields[2]
	}

	// Drain headers; nothing in them affects routing.
	for {
		header, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		if strings.TrimSpace(header) == "" {
			return nil
		}
	}
}
