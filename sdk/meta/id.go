package meta

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// ID is an opaque identifier issued by the API server. Some servers emit
// identifiers as JSON numbers and others as strings; both decode to the same
// ID.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (i *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "error unmarshaling identifier")
		}
		*i = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrap(err, "error unmarshaling identifier")
	}
	*i = ID(n.String())
	return nil
}

func (i ID) String() string {
	return string(i)
}
