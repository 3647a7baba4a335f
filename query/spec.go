// Package query turns the raw list-request parameters (where, sort, select,
// skip, limit, count) into a validated spec that the store can execute. The
// parser is pure: it never touches the database.
package query

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Default limits differ between the two collections: a task listing is capped
// at 100 documents unless the caller asks otherwise, a user listing is not
// capped at all.
const (
	TasksDefaultLimit int64 = 100
	UsersDefaultLimit int64 = 0
)

// Spec is the parsed representation of a list request. A zero Skip means no
// offset and a zero Limit means unbounded.
type Spec struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Skip       int64
	Limit      int64
	CountOnly  bool
}

// ParamError reports which request parameter failed to parse.
type ParamError struct {
	Param string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("Invalid %s parameter", e.Param)
}

// Parse builds a Spec from raw query parameters. where, sort and select are
// parsed strictly and the first malformed one rejects the request, naming that
// parameter. skip and limit are lenient: non-numeric or negative values fall
// back to the defaults instead of failing. defaultLimit applies when the
// caller supplies no usable limit; 0 means unbounded.
func Parse(params url.Values, defaultLimit int64) (*Spec, error) {
	spec := &Spec{Limit: defaultLimit}

	if raw := params.Get("where"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &spec.Filter); err != nil {
			return nil, &ParamError{Param: "where"}
		}
	}

	if raw := params.Get("sort"); raw != "" {
		sort, err := parseSort(raw)
		if err != nil {
			return nil, &ParamError{Param: "sort"}
		}
		spec.Sort = sort
	}

	if raw := params.Get("select"); raw != "" {
		projection, err := Projection(raw)
		if err != nil {
			return nil, err
		}
		spec.Projection = projection
	}

	if raw := params.Get("skip"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n >= 0 {
			spec.Skip = n
		}
	}

	if raw := params.Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n >= 0 {
			spec.Limit = n
		}
	}

	spec.CountOnly = params.Get("count") == "true"

	return spec, nil
}

// Projection parses a select expression such as {"name":1,"_id":0} into a
// projection document. Shared by list requests and single-document reads.
func Projection(raw string) (bson.M, error) {
	var projection bson.M
	if err := json.Unmarshal([]byte(raw), &projection); err != nil {
		return nil, &ParamError{Param: "select"}
	}
	return projection, nil
}

// parseSort decodes a sort expression such as {"deadline":1,"name":-1} into
// an ordered document. Key order is significant for compound sorts, so the
// object is walked token by token instead of through a map. Numeric values
// sort ascending unless negative; the strings "asc" and "desc" are accepted
// as well.
func parseSort(raw string) (bson.D, error) {
	dec := json.NewDecoder(strings.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("sort expression must be an object")
	}

	var sort bson.D
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("sort key must be a string")
		}

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}

		direction, err := sortDirection(value)
		if err != nil {
			return nil, err
		}
		sort = append(sort, bson.E{Key: key, Value: direction})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected trailing content in sort expression")
	}

	return sort, nil
}

func sortDirection(value interface{}) (int32, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return -1, nil
		}
		return 1, nil
	case string:
		switch v {
		case "asc", "ascending", "1":
			return 1, nil
		case "desc", "descending", "-1":
			return -1, nil
		}
		return 0, fmt.Errorf("unknown sort direction %q", v)
	default:
		return 0, fmt.Errorf("sort direction must be a number or string")
	}
}
