package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// VariableSet is the ordered live-variable table of one execution step.
// The tracer service emits it as a JSON object whose key order is the
// display order, so the default map decoding would lose the one piece of
// information the visualizer needs; the codec below walks the object
// token by token instead.
type VariableSet []VariableBinding

// Get returns the binding for name, if present.
func (v VariableSet) Get(name string) (VariableBinding, bool) {
	for _, b := range v {
		if b.Name == name {
			return b, true
		}
	}
	return VariableBinding{}, false
}

type variableInfo struct {
	Value any    `json:"value"`
	Type  string `json:"type"`
}

// UnmarshalJSON decodes `{"name": {"value": ..., "type": ...}, ...}`
// preserving key order. null and absent objects decode to an empty set.
func (v *VariableSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode variables: %w", err)
	}
	if tok == nil {
		*v = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode variables: expected object, got %v", tok)
	}

	out := VariableSet{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode variable name: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("decode variable name: unexpected token %v", keyTok)
		}
		var info variableInfo
		if err := dec.Decode(&info); err != nil {
			return fmt.Errorf("decode variable %q: %w", name, err)
		}
		out = append(out, VariableBinding{Name: name, Value: info.Value, Type: info.Type})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode variables close: %w", err)
	}
	*v = out
	return nil
}

// MarshalJSON writes the bindings back as an object in set order.
func (v VariableSet) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, b := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(b.Name)
		if err != nil {
			return nil, fmt.Errorf("encode variable name %q: %w", b.Name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		info, err := json.Marshal(variableInfo{Value: b.Value, Type: b.Type})
		if err != nil {
			return nil, fmt.Errorf("encode variable %q: %w", b.Name, err)
		}
		buf.Write(info)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
