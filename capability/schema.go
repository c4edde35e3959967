package capability

import (
	"bytes"
	"encoding/json"
	"io"
)

// jsonMustReader adapts a json.RawMessage to an io.Reader for
// jsonschema.Compiler.AddResource, which wants a reader rather than bytes.
func jsonMustReader(raw json.RawMessage) io.Reader {
	return bytes.NewReader(raw)
}
