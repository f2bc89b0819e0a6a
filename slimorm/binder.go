package slimorm

import "fmt"

// bind stores value under the next <n>_sql_data name. The sequence only
// grows, so names stay unique even if bindings are dropped later.
func (b *Builder[T]) bind(value any) string {
	if b.bindings == nil {
		b.bindings = map[string]any{}
	}

	b.sequence++
	placeholder := fmt.Sprintf("%d_sql_data", b.sequence)
	b.bindings[placeholder] = value

	return placeholder
}
