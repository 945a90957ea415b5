package sphinx

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

var pyStringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// pyLiteral renders v as a Python literal: strings, booleans, numbers, nil,
// pointers to those, slices as lists and string-keyed maps as dicts with
// sorted keys.
func pyLiteral(v any) string {
	if v == nil {
		return "None"
	}
	return pyValue(reflect.ValueOf(v))
}

func pyValue(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "None"
		}
		return pyValue(rv.Elem())
	case reflect.String:
		return "'" + pyStringEscaper.Replace(rv.String()) + "'"
	case reflect.Bool:
		if rv.Bool() {
			return "True"
		}
		return "False"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.Slice, reflect.Array:
		items := make([]string, rv.Len())
		for i := range items {
			items[i] = pyValue(rv.Index(i))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j]) })
		items := make([]string, len(keys))
		for i, k := range keys {
			items[i] = pyValue(k) + ": " + pyValue(rv.MapIndex(k))
		}
		return "{" + strings.Join(items, ", ") + "}"
	default:
		return pyValue(reflect.ValueOf(fmt.Sprint(rv.Interface())))
	}
}
