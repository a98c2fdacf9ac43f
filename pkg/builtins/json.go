package builtins

import (
	"encoding/json"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/conneroisu/gix/internal/errs"
	"github.com/conneroisu/gix/internal/value"
)

// registerJSON installs toJSON/fromJSON. toJSON builds its output
// incrementally with sjson.SetRaw so object keys land in the attribute
// set's insertion order (Nix's canonical choice, tested by the
// fromJSON(toJSON(x)) == x property); fromJSON walks with gjson.ForEach,
// which also preserves source object-key order.
func (r *registry) registerJSON() {
	r.fn("toJSON", 1, func(a []value.Value) (value.Value, error) {
		s, err := toJSONString(a[0])
		if err != nil {
			return nil, err
		}

		return value.String(s), nil
	})

	r.fn("fromJSON", 1, func(a []value.Value) (value.Value, error) {
		s, ok := a[0].(value.String)
		if !ok {
			return nil, errs.New(errs.KindTypeError, "fromJSON expects a string, got %v", a[0].Type())
		}
		if !gjson.Valid(string(s)) {
			return nil, errs.New(errs.KindTypeError, "fromJSON: invalid JSON")
		}

		return fromGJSON(gjson.Parse(string(s))), nil
	})
}

func toJSONString(v value.Value) (string, error) {
	forced, err := value.Force(v)
	if err != nil {
		return "", err
	}

	switch val := forced.(type) {
	case value.Null:
		return "null", nil
	case value.Bool:
		return strconv.FormatBool(bool(val)), nil
	case value.Int:
		return strconv.FormatInt(int64(val), 10), nil
	case value.Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64), nil
	case value.String:
		b, err := json.Marshal(string(val))

		return string(b), err
	case value.Path:
		b, err := json.Marshal(string(val))

		return string(b), err
	case *value.List:
		doc := "[]"
		for i, e := range val.Elements() {
			elemJSON, err := toJSONString(e)
			if err != nil {
				return "", err
			}
			if doc, err = sjson.SetRaw(doc, strconv.Itoa(i), elemJSON); err != nil {
				return "", errs.Wrap(errs.KindTypeError, err)
			}
		}

		return doc, nil
	case *value.Attrs:
		doc := "{}"
		for _, k := range val.Keys() {
			fv, _ := val.Get(k)
			fieldJSON, err := toJSONString(fv)
			if err != nil {
				return "", err
			}
			if doc, err = sjson.SetRaw(doc, escapeSJSONKey(k), fieldJSON); err != nil {
				return "", errs.Wrap(errs.KindTypeError, err)
			}
		}

		return doc, nil
	default:
		return "", errs.New(errs.KindTypeError, "cannot serialize %v to JSON", forced.Type())
	}
}

// escapeSJSONKey backslash-escapes the path metacharacters sjson.SetRaw
// would otherwise interpret as path structure within an attribute name.
func escapeSJSONKey(k string) string {
	var b []byte
	for i := 0; i < len(k); i++ {
		switch k[i] {
		case '.', '*', '?', '\\':
			b = append(b, '\\')
		}
		b = append(b, k[i])
	}

	return string(b)
}

func fromGJSON(r gjson.Result) value.Value {
	switch r.Type {
	case gjson.Null:
		return value.Null{}
	case gjson.True:
		return value.Bool(true)
	case gjson.False:
		return value.Bool(false)
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) {
			return value.Int(int64(r.Num))
		}

		return value.Float(r.Num)
	case gjson.String:
		return value.String(r.Str)
	default:
		if r.IsArray() {
			var elems []value.Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, fromGJSON(v))

				return true
			})

			return value.NewList(elems...)
		}
		if r.IsObject() {
			out := value.NewAttrs()
			r.ForEach(func(k, v gjson.Result) bool {
				out.Set(k.Str, fromGJSON(v))

				return true
			})

			return out
		}

		return value.Null{}
	}
}
