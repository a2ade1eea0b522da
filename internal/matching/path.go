package matching

import (
	"regexp"
	"strconv"
)

// IDToken is the placeholder substituted for the numeric segment of a path.
const IDToken = ":id"

// idSegment matches the first run of digits immediately preceded by a slash.
var idSegment = regexp.MustCompile(`/(\d+)`)

// ParsePath extracts the numeric identifier from a request path and returns
// it together with the endpoint pattern used as the routing key.
//
// The first run of digits preceded by "/" is parsed as the id and replaced
// with IDToken:
//
//	ParsePath("/posts/1")        => 1, "/posts/:id"
//	ParsePath("/posts/1/author") => 1, "/posts/:id/author"
//	ParsePath("/profile")        => 0, "/profile"
//
// An id of 0 means the path carried no identifier; assigned identifiers are
// always strictly positive.
func ParsePath(path string) (int, string) {
	loc := idSegment.FindStringSubmatchIndex(path)
	if loc == nil {
		return 0, path
	}

	// loc[2]:loc[3] bounds the digit run inside the matched "/<digits>".
	id, err := strconv.Atoi(path[loc[2]:loc[3]])
	if err != nil {
		// Digit runs longer than an int; treat as unparseable.
		return 0, path
	}

	return id, path[:loc[2]] + IDToken + path[loc[3]:]
}
