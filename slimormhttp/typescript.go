package slimormhttp

import (
	"io"
	"maps"
	"reflect"

	"github.com/lunagic/slimorm/slimorm"
	"github.com/lunagic/typescript-go/typescript"
)

// WriteTypeScript writes declarations for the JSON PaginateHandler sends.
// Extra types, such as the row struct a frontend expects in Data, are
// declared alongside.
func WriteTypeScript(writer io.Writer, namespace string, types map[string]reflect.Type) error {
	typesMap := map[string]reflect.Type{
		"Page":        reflect.TypeFor[slimorm.Page[map[string]any]](),
		"ChangeEvent": reflect.TypeFor[slimorm.ChangeEvent](),
	}

	maps.Copy(typesMap, types)

	return typescript.New(
		typescript.WithCustomNamespace(namespace),
		typescript.WithTypes(typesMap),
	).Generate(writer)
}
