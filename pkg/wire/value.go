package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
	timeType    = reflect.TypeOf(time.Time{})
)

var nullRaw = json.RawMessage("null")

// EncodeValue encodes a single value for transport. Primitives marshal
// directly; nil pointers become an explicit null; slices encode element-wise;
// registered composites encode positionally when the format is ordinal and
// the type is Eligible, and as a (name, value) object otherwise.
func EncodeValue(v any, f Format) (json.RawMessage, error) {
	if v == nil {
		return nullRaw, nil
	}
	switch v.(type) {
	case string, bool, int, int32, int64, float64,
		decimal.Decimal, uuid.UUID, time.Time:
		return json.Marshal(v)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nullRaw, nil
		}
		return EncodeValue(rv.Elem().Interface(), f)
	case reflect.Slice, reflect.Array:
		return encodeSequence(rv, f)
	case reflect.Struct:
		return encodeComposite(rv, f)
	default:
		return nil, fmt.Errorf("wire: unsupported value type %T", v)
	}
}

// DecodeValue decodes raw wire data into a fresh value of the target type.
// The value is fully built before it is returned, so a malformed payload
// never leaves a half-assigned result behind.
func DecodeValue(raw json.RawMessage, target reflect.Type, f Format) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		switch target.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Interface:
			return reflect.Zero(target).Interface(), nil
		}
		return nil, fmt.Errorf("wire: null is not a valid %v", target)
	}

	switch {
	case target.Kind() == reflect.Pointer:
		inner, err := DecodeValue(trimmed, target.Elem(), f)
		if err != nil {
			return nil, err
		}
		pv := reflect.New(target.Elem())
		pv.Elem().Set(reflect.ValueOf(inner))
		return pv.Interface(), nil
	case isScalar(target):
		pv := reflect.New(target)
		if err := json.Unmarshal(trimmed, pv.Interface()); err != nil {
			return nil, fmt.Errorf("wire: decoding %v: %w", target, err)
		}
		return pv.Elem().Interface(), nil
	case target.Kind() == reflect.Slice:
		return decodeSequence(trimmed, target, f)
	case target.Kind() == reflect.Struct:
		return decodeComposite(trimmed, target, f)
	default:
		return nil, fmt.Errorf("wire: unsupported target type %v", target)
	}
}

func isScalar(t reflect.Type) bool {
	switch t {
	case decimalType, uuidType, timeType:
		return true
	}
	switch t.Kind() {
	case reflect.String, reflect.Bool, reflect.Int, reflect.Int32, reflect.Int64, reflect.Float64:
		return true
	}
	return false
}

func encodeSequence(rv reflect.Value, f Format) (json.RawMessage, error) {
	elems := make([]json.RawMessage, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		raw, err := EncodeValue(rv.Index(i).Interface(), f)
		if err != nil {
			return nil, err
		}
		elems[i] = raw
	}
	return json.Marshal(elems)
}

func decodeSequence(raw json.RawMessage, target reflect.Type, f Format) (any, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("wire: decoding sequence of %v: %w", target.Elem(), err)
	}
	out := reflect.MakeSlice(target, len(elems), len(elems))
	for i, e := range elems {
		v, err := DecodeValue(e, target.Elem(), f)
		if err != nil {
			return nil, err
		}
		out.Index(i).Set(reflect.ValueOf(v))
	}
	return out.Interface(), nil
}

// encodeComposite writes a registered struct value. Ordinal packing is used
// only when the active format is ordinal and the type is Eligible; an
// Ineligible type encodes named regardless of the configured default.
func encodeComposite(rv reflect.Value, f Format) (json.RawMessage, error) {
	info, ok := typeByReflect(rv.Type())
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrTypeNotRegistered, rv.Type())
	}
	if f == FormatOrdinal && info.eligibility == Eligible {
		elems := make([]json.RawMessage, len(info.fields))
		for i, fld := range info.fields {
			raw, err := EncodeValue(rv.FieldByIndex(fld.index).Interface(), f)
			if err != nil {
				return nil, fmt.Errorf("wire: %s.%s: %w", info.name, fld.name, err)
			}
			elems[i] = raw
		}
		return json.Marshal(elems)
	}
	obj := make(map[string]json.RawMessage, len(info.fields))
	for _, fld := range info.fields {
		raw, err := EncodeValue(rv.FieldByIndex(fld.index).Interface(), f)
		if err != nil {
			return nil, fmt.Errorf("wire: %s.%s: %w", info.name, fld.name, err)
		}
		obj[fld.name] = raw
	}
	return json.Marshal(obj)
}

// decodeComposite rebuilds a registered struct from either packing. The
// payload shape is self-describing (array vs object), so a peer configured
// with a different default still decodes correctly per message.
func decodeComposite(raw json.RawMessage, target reflect.Type, f Format) (any, error) {
	info, ok := typeByReflect(target)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrTypeNotRegistered, target)
	}
	fresh := reflect.New(target).Elem()
	switch raw[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, fmt.Errorf("wire: decoding %s: %w", info.name, err)
		}
		if len(elems) != len(info.fields) {
			return nil, fmt.Errorf("wire: %s: ordinal payload has %d values, type has %d fields", info.name, len(elems), len(info.fields))
		}
		for i, fld := range info.fields {
			v, err := DecodeValue(elems[i], fld.typ, f)
			if err != nil {
				return nil, fmt.Errorf("wire: %s.%s: %w", info.name, fld.name, err)
			}
			setField(fresh, fld, v)
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("wire: decoding %s: %w", info.name, err)
		}
		for _, fld := range info.fields {
			enc, present := obj[fld.name]
			if !present {
				continue
			}
			v, err := DecodeValue(enc, fld.typ, f)
			if err != nil {
				return nil, fmt.Errorf("wire: %s.%s: %w", info.name, fld.name, err)
			}
			setField(fresh, fld, v)
		}
	default:
		return nil, fmt.Errorf("wire: %s: payload is neither ordinal nor named", info.name)
	}
	return fresh.Interface(), nil
}

func setField(dst reflect.Value, fld field, v any) {
	fv := dst.FieldByIndex(fld.index)
	if v == nil {
		fv.Set(reflect.Zero(fld.typ))
		return
	}
	fv.Set(reflect.ValueOf(v))
}
