package http

import "fmt"

// Method is a request method the server routes. Only GET and POST exist;
// any other token on the request line routes nowhere.
type Method uint8

const (
	MethodGet Method = iota
	MethodPost
)

var methodNames = [...]string{
	MethodGet:  "GET",
	MethodPost: "POST",
}

func (method Method) String() string {
	if int(method) < len(methodNames) {
		return methodNames[method]
	}
	return fmt.Sprintf("Method(%d)", method)
}

// ParseMethod maps a request-line token to a Method. The match is exact and
// case-sensitive.
func ParseMethod(token string) (Method, bool) {
	switch token {
	case "GET":
		return MethodGet, true
	case "POST":
		return MethodPost, true
	}
	return 0, false
}
