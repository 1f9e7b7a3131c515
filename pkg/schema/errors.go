// pkg/schema/errors.go
package schema

import (
	"errors"
	"fmt"
	"strings"
)

// SchemaError reports mandatory canonical fields that could not be bound to
// any input column. It is fatal to the request and is raised before any
// pipeline stage starts.
type SchemaError struct {
	Fields []string // Unresolved mandatory fields, in resolution order
}

// Error returns a message naming every unresolved field
func (e *SchemaError) Error() string {
	return fmt.Sprintf("column mapping failed: %s", strings.Join(e.Fields, ", "))
}

// IsSchemaError reports whether err is a schema resolution failure
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
