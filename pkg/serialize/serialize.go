// Package serialize renders a fully-forced types.Value tree as strict JSON
// text: UTF-8, no trailing commas, no comments, object key order preserved
// from the source document. Undefined and Definition values are omitted
// from arrays and objects (Marshal itself errors if asked to serialize one
// at the top level, since there's no container to drop it from).
package serialize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"jsonpp/pkg/types"
)

// Marshal renders v as a single line of strict JSON.
func Marshal(v types.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := write(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent renders v as pretty-printed JSON, reusing encoding/json's
// indenter over the compact form produced by Marshal.
func MarshalIndent(v types.Value, prefix, indent string) ([]byte, error) {
	compact, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, prefix, indent); err != nil {
		return nil, fmt.Errorf("serialize: indenting output: %w", err)
	}
	return buf.Bytes(), nil
}

func write(buf *bytes.Buffer, v types.Value) error {
	switch v.Kind() {
	case types.KindNull:
		buf.WriteString("null")
	case types.KindUndefined, types.KindDefinition:
		return fmt.Errorf("serialize: cannot emit a top-level %s value", v.Kind())
	case types.KindBool:
		if v.AsBool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case types.KindInt:
		fmt.Fprintf(buf, "%d", v.AsInt())
	case types.KindFloat:
		f := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("serialize: float %v has no JSON representation", f)
		}
		b, err := json.Marshal(f)
		if err != nil {
			return fmt.Errorf("serialize: %w", err)
		}
		s := string(b)
		if !bytes.ContainsAny([]byte(s), ".eE") {
			s += ".0"
		}
		buf.WriteString(s)
	case types.KindString:
		b, err := json.Marshal(v.AsString())
		if err != nil {
			return fmt.Errorf("serialize: %w", err)
		}
		buf.Write(b)
	case types.KindArray:
		return writeArray(buf, v.AsArray())
	case types.KindObject:
		return writeObject(buf, v.AsObject())
	default:
		return fmt.Errorf("serialize: unhandled kind %s", v.Kind())
	}
	return nil
}

func writeArray(buf *bytes.Buffer, items []types.Value) error {
	buf.WriteByte('[')
	first := true
	for _, item := range items {
		if dropped(item) {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := write(buf, item); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeObject(buf *bytes.Buffer, obj *types.OrderedMap) error {
	buf.WriteByte('{')
	first := true
	for _, k := range obj.Keys() {
		val, _ := obj.Get(k)
		if dropped(val) {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return fmt.Errorf("serialize: %w", err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')
		if err := write(buf, val); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// dropped reports whether a container should silently omit this element,
// per the Undefined/Definition stripping rule.
func dropped(v types.Value) bool {
	return v.Kind() == types.KindUndefined || v.Kind() == types.KindDefinition
}
