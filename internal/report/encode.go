package report

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"fjacquet/ledger-analytics/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	decimalType       = reflect.TypeOf(decimal.Decimal{})
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// fixedAmount is a money value rendered with exactly two decimal places.
type fixedAmount decimal.Decimal

func (a fixedAmount) String() string {
	return decimal.Decimal(a).StringFixed(models.MoneyPlaces)
}

// MarshalJSON implements json.Marshaler.
func (a fixedAmount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// MarshalYAML implements yaml.Marshaler.
func (a fixedAmount) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: a.String()}, nil
}

type field struct {
	name  string
	value any
}

// object is a struct or map flattened into name/value pairs. Struct fields keep
// their declaration order, map keys are sorted.
type object []field

// MarshalJSON implements json.Marshaler.
func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler.
func (o object) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range o {
		var key, val yaml.Node
		if err := key.Encode(f.name); err != nil {
			return nil, err
		}
		if err := val.Encode(f.value); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.name, err)
		}
		node.Content = append(node.Content, &key, &val)
	}
	return node, nil
}

// encodable rewrites v so that every decimal.Decimal renders as two-place money.
// Field names and omitempty come from the json tags.
func encodable(v any) any {
	return normalize(reflect.ValueOf(v))
}

func normalize(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	t := v.Type()
	if t == decimalType {
		return fixedAmount(v.Interface().(decimal.Decimal))
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return normalize(v.Elem())
	}
	if t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType) {
		return v.Interface()
	}

	switch v.Kind() {
	case reflect.Struct:
		return structObject(v)
	case reflect.Map:
		obj := make(object, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			obj = append(obj, field{name: fmt.Sprint(iter.Key().Interface()), value: normalize(iter.Value())})
		}
		sort.Slice(obj, func(i, j int) bool { return obj[i].name < obj[j].name })
		return obj
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return v.Interface()
		}
		out := make([]any, v.Len())
		for i := range out {
			out[i] = normalize(v.Index(i))
		}
		return out
	}
	return v.Interface()
}

func structObject(v reflect.Value) object {
	t := v.Type()
	obj := make(object, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, omitEmpty, skip := tagName(sf)
		if skip {
			continue
		}
		fv := v.Field(i)
		if omitEmpty && isEmpty(fv) {
			continue
		}
		obj = append(obj, field{name: name, value: normalize(fv)})
	}
	return obj
}

func tagName(sf reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = sf.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Struct:
		return false
	}
	return v.IsZero()
}
