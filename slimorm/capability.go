package slimorm

import "slices"

// CallerKind is the entry point a builder method is reached through.
type CallerKind string

const (
	CallerConnection CallerKind = "DB"
	CallerModel      CallerKind = "Model"
)

func (caller CallerKind) String() string {
	return string(caller)
}

// Builder methods only reachable on a builder someone already holds.
var builderOnlyMethods = []string{
	"Bindings",
	"Clone",
	"Err",
	"RenderDelete",
	"RenderInsert",
	"RenderSelect",
	"RenderUpdate",
	"WithoutWhereGuard",
}

// Builder methods that run a statement. A DB only starts chains.
var modelOnlyMethods = []string{
	"Count",
	"Delete",
	"First",
	"Get",
	"Insert",
	"Max",
	"Min",
	"Paginate",
	"Update",
}

var chainMethods = []string{
	"GroupBy",
	"Join",
	"JoinOfType",
	"LeftJoin",
	"Limit",
	"Offset",
	"OrWhere",
	"OrWhereGroup",
	"OrWhereNull",
	"OrderBy",
	"OrderByAsc",
	"OrderByDesc",
	"RightJoin",
	"Select",
	"Table",
	"Where",
	"WhereGroup",
	"WhereGroupWith",
	"WhereNull",
	"WhereNullWith",
	"WhereRaw",
	"WhereWith",
}

// MethodIsCallable reports whether the builder method can be started from
// caller.
func MethodIsCallable(method string, caller CallerKind) bool {
	if slices.Contains(chainMethods, method) {
		return caller == CallerConnection || caller == CallerModel
	}

	if slices.Contains(modelOnlyMethods, method) {
		return caller == CallerModel
	}

	return false
}

// CheckCallable is MethodIsCallable as an ErrUnknownOperation.
func CheckCallable(caller CallerKind, method string) error {
	if !MethodIsCallable(method, caller) {
		return ErrUnknownOperation{
			Caller: caller,
			Method: method,
		}
	}

	return nil
}
