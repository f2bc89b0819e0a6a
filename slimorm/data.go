package slimorm

import (
	"maps"
	"slices"
)

// Row is one result row keyed by column name.
type Row map[string]any

// Data is a set of column values that remembers the order columns were
// first set in. INSERT and UPDATE statements list columns in that order.
type Data struct {
	columns []string
	values  map[string]any
}

func NewData() *Data {
	return &Data{
		columns: []string{},
		values:  map[string]any{},
	}
}

// DataOf copies values, ordering the columns alphabetically.
func DataOf(values map[string]any) *Data {
	data := NewData()
	for _, column := range slices.Sorted(maps.Keys(values)) {
		data.Set(column, values[column])
	}

	return data
}

// Set assigns a value. Overwriting a column keeps its original position.
func (data *Data) Set(column string, value any) *Data {
	if _, found := data.values[column]; !found {
		data.columns = append(data.columns, column)
	}

	data.values[column] = value

	return data
}

func (data *Data) Get(column string) (any, bool) {
	value, found := data.values[column]
	return value, found
}

func (data *Data) Has(column string) bool {
	_, found := data.values[column]
	return found
}

func (data *Data) Remove(column string) *Data {
	if !data.Has(column) {
		return data
	}

	delete(data.values, column)
	data.columns = slices.DeleteFunc(data.columns, func(existing string) bool {
		return existing == column
	})

	return data
}

func (data *Data) Columns() []string {
	if data == nil {
		return []string{}
	}

	return slices.Clone(data.columns)
}

func (data *Data) Len() int {
	if data == nil {
		return 0
	}

	return len(data.columns)
}

// Map returns a copy of the values.
func (data *Data) Map() map[string]any {
	if data == nil {
		return map[string]any{}
	}

	return maps.Clone(data.values)
}

func (data *Data) clone() *Data {
	return &Data{
		columns: slices.Clone(data.columns),
		values:  maps.Clone(data.values),
	}
}
