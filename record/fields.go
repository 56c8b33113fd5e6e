package record

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Field is a single attribute, stringified at capture time.
type Field struct {
	Key   string
	Value string
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: strconv.FormatInt(value, 10)}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: strconv.FormatUint(value, 10)}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: strconv.FormatBool(value)}
}

// Any formats value with %v.
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: fmt.Sprintf("%v", value)}
}

// Values holds the attributes of a span or event. Later writes to a key win.
type Values map[string]string

func NewValues(fields ...Field) Values {
	v := make(Values, len(fields))
	v.Merge(fields...)
	return v
}

func (v Values) Merge(fields ...Field) {
	for _, f := range fields {
		v[f.Key] = f.Value
	}
}

func (v Values) Get(key string) (string, bool) {
	value, ok := v[key]
	return value, ok
}

// Take removes key and returns its value.
func (v Values) Take(key string) (string, bool) {
	value, ok := v[key]
	if ok {
		delete(v, key)
	}
	return value, ok
}

func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v Values) Clone() Values {
	c := make(Values, len(v))
	for k, value := range v {
		c[k] = value
	}
	return c
}

// String renders "k=v" pairs in key order, joined by ", ".
func (v Values) String() string {
	pairs := make([]string, 0, len(v))
	for _, k := range v.Keys() {
		pairs = append(pairs, k+"="+v[k])
	}
	return strings.Join(pairs, ", ")
}
