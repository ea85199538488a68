package httpjson

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Params is a flat request parameter mapping. Supported values are strings,
// integers, floats, booleans, pointers to those, and string slices. Nil
// values and nil pointers are omitted entirely.
type Params map[string]any

// BuildQuery encodes params as a query string. Slice values are serialized as
// repeated key[]=value entries. Keys are emitted in sorted order.
func BuildQuery(params Params) string {
	values := url.Values{}
	for key, raw := range params {
		switch v := raw.(type) {
		case nil:
			continue
		case []string:
			k := arrayKey(key)
			for _, item := range v {
				values.Add(k, item)
			}
		case fmt.Stringer:
			values.Set(key, v.String())
		default:
			s, ok := scalar(raw)
			if !ok {
				continue
			}
			values.Set(key, s)
		}
	}
	return values.Encode()
}

func arrayKey(key string) string {
	if strings.HasSuffix(key, "[]") {
		return key
	}
	return key + "[]"
}

func scalar(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	case int:
		return strconv.Itoa(v), true
	case *int:
		if v == nil {
			return "", false
		}
		return strconv.Itoa(*v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case *float64:
		if v == nil {
			return "", false
		}
		return strconv.FormatFloat(*v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case *bool:
		if v == nil {
			return "", false
		}
		return strconv.FormatBool(*v), true
	default:
		return fmt.Sprint(v), true
	}
}
