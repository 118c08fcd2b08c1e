package utils

import (
	"fmt"
	"reflect"
)

// ColumnTag names the struct tag holding a field's column name.
const ColumnTag = "db"

// eachColumn calls fn for every exported top-level field of input carrying a
// column tag. Embedded structs are not descended into.
func eachColumn(input any, fn func(column string, value reflect.Value)) {
	v := reflect.Indirect(reflect.ValueOf(input))
	if v.Kind() != reflect.Struct {
		panic(fmt.Sprintf("utils: expected a struct or struct pointer, got %T", input))
	}

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		column, ok := field.Tag.Lookup(ColumnTag)
		if !ok || column == "" || column == "-" {
			continue
		}

		fn(column, v.Field(i))
	}
}

// StructTagValues lists the column names of input in field order.
func StructTagValues(input any) []string {
	columns := make([]string, 0)
	eachColumn(input, func(column string, _ reflect.Value) {
		columns = append(columns, column)
	})
	return columns
}

// StructToMap maps each column of input to its field value, ready for a
// squirrel SetMap.
func StructToMap(input any) map[string]any {
	values := make(map[string]any)
	eachColumn(input, func(column string, value reflect.Value) {
		values[column] = value.Interface()
	})
	return values
}

func ErrorWrapOrNil(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case msg == "":
		return err
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

// PrefixSliceOfStrings qualifies each column with a table alias, skipping
// the ignored ones.
func PrefixSliceOfStrings(prefix string, input []string, ignore ...string) []string {
	skip := make(map[string]struct{}, len(ignore))
	for _, column := range ignore {
		skip[column] = struct{}{}
	}

	out := make([]string, 0, len(input))
	for _, column := range input {
		if _, ok := skip[column]; ok {
			continue
		}
		out = append(out, prefix+"."+column)
	}
	return out
}
