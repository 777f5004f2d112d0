package log

type FieldType int

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeBool
	FieldTypeString
	FieldTypeHex8
	FieldTypeHex16
	FieldTypeInt
	FieldTypeUint
	FieldTypeError
)

// A ZField is a typed field of an EntryZ. Only the member matching Type is
// set.
type ZField struct {
	Type FieldType
	Key  string

	String  string
	Integer uint64
	Error   error
	Boolean bool
}

const hexdigits = "0123456789ABCDEF"

func hexstr(v uint64, ndigits int) string {
	var buf [4]byte
	for i := ndigits - 1; i >= 0; i-- {
		buf[i] = hexdigits[v&0xF]
		v >>= 4
	}
	return string(buf[:ndigits])
}

// Value returns the field value as handed to logrus. Integers keep their
// type, addresses and bytes are rendered in hexadecimal.
func (f *ZField) Value() any {
	switch f.Type {
	case FieldTypeBool:
		return f.Boolean
	case FieldTypeString:
		return f.String
	case FieldTypeUint:
		return f.Integer
	case FieldTypeInt:
		return int64(f.Integer)
	case FieldTypeHex8:
		return hexstr(f.Integer, 2)
	case FieldTypeHex16:
		return hexstr(f.Integer, 4)
	case FieldTypeError:
		if f.Error == nil {
			return "<nil>"
		}
		return f.Error.Error()
	}
	return nil
}
