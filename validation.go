package swarmkit

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator checks tool-call arguments against the parameters of a FunctionSchema.
// It is safe for concurrent use.
type Validator struct {
	name   string
	schema *jsonschema.Schema
}

// Compile builds a Validator for fs. It fails when the parameters are not a valid JSON Schema.
func Compile(fs FunctionSchema) (*Validator, error) {
	loc := "swarmkit://tools/" + url.PathEscape(fs.Function.Name) + "/parameters.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(loc, fs.Function.Parameters.Map()); err != nil {
		return nil, fmt.Errorf("add schema of %s: %w", fs.Function.Name, err)
	}
	sch, err := c.Compile(loc)
	if err != nil {
		return nil, fmt.Errorf("compile schema of %s: %w", fs.Function.Name, err)
	}
	return &Validator{name: fs.Function.Name, schema: sch}, nil
}

// Validate parses argsJSON and checks it against the schema. Empty or blank arguments are
// treated as "{}", which models send for parameterless tools. Returns *ClientError wrapping
// ErrValidation so the caller can pass the message back to the model.
func (v *Validator) Validate(argsJSON []byte) error {
	if len(bytes.TrimSpace(argsJSON)) == 0 {
		argsJSON = []byte("{}")
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(argsJSON))
	if err != nil {
		return wrapJSONParseError(err)
	}
	if err := v.schema.Validate(inst); err != nil {
		return &ClientError{Reason: fmt.Sprintf("arguments of %s: %v", v.name, err), Err: ErrValidation}
	}
	return nil
}
