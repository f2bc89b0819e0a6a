package slimorm_test

import (
	"fmt"
	"testing"

	"github.com/lunagic/slimorm/slimorm"
	"github.com/lunagic/slimorm/slimormtest"
	"gotest.tools/v3/assert"
)

// Matches user 2 by name, user 3 by age and user 4 through the group.
func genericUsersQuery(db *slimorm.DB) *slimorm.Builder[slimorm.Row] {
	return db.
		Table("users").
		Where("name", "=", "Test 2").
		OrWhere("age", "=", 30).
		OrWhereGroup(func(query *slimorm.Builder[slimorm.Row]) {
			query.Where("name", "=", "Test 4").Where("age", "=", 40)
		})
}

func user(id int64) slimorm.Row {
	return slimorm.Row{
		"id":   id,
		"name": fmt.Sprintf("Test %d", id),
		"age":  id * 10,
	}
}

func TestGet(t *testing.T) {
	ctx := t.Context()
	db, service := slimormtest.NewUsersDB(t)

	{ // Empty table
		rows, err := db.Table("users").Get(ctx)
		assert.NilError(t, err)
		assert.DeepEqual(t, rows, []slimorm.Row{})
	}

	slimormtest.CreateUsers(t, service, 5)

	{ // All rows
		rows, err := db.Table("users").OrderByAsc("id").Get(ctx)
		assert.NilError(t, err)
		assert.DeepEqual(t, rows, []slimorm.Row{user(1), user(2), user(3), user(4), user(5)})
	}

	{ // Filtered
		rows, err := db.Table("users").Where("age", ">", 15).Where("age", "<", "35").OrderByAsc("id").Get(ctx)
		assert.NilError(t, err)
		assert.DeepEqual(t, rows, []slimorm.Row{user(2), user(3)})
	}

	{ // Grouped, ordered and limited
		rows, err := genericUsersQuery(db).OrderBy("id", "DESC").Limit(2).Get(ctx)
		assert.NilError(t, err)
		assert.DeepEqual(t, rows, []slimorm.Row{user(4), user(3)})
	}

	{ // IN expansion of slice values
		rows, err := db.Table("users").WhereRaw("`id` IN (:ids)", map[string]any{"ids": []int{1, 5}}).OrderByAsc("id").Get(ctx)
		assert.NilError(t, err)
		assert.DeepEqual(t, rows, []slimorm.Row{user(1), user(5)})
	}

	{ // Colons inside string literals are not placeholders
		rows, err := db.Table("users").WhereRaw("`name` != 'Test 1:old'", nil).Where("age", ">", 35).OrderByAsc("id").Get(ctx)
		assert.NilError(t, err)
		assert.DeepEqual(t, rows, []slimorm.Row{user(4), user(5)})
	}

	{ // Engine errors
		_, err := db.Query().Get(ctx)
		assert.Assert(t, err != nil)

		_, err = db.Table("table_that_does_not_exist").Get(ctx)
		assert.ErrorContains(t, err, "no such table")
	}
}

func TestFirst(t *testing.T) {
	ctx := t.Context()
	db, service := slimormtest.NewUsersDB(t)

	{ // Empty table
		row, err := db.Table("users").First(ctx)
		assert.NilError(t, err)
		assert.Assert(t, row == nil)
	}

	slimormtest.CreateUsers(t, service, 5)

	{ // Found
		row, err := genericUsersQuery(db).OrderBy("id", "DESC").First(ctx)
		assert.NilError(t, err)
		assert.DeepEqual(t, row, user(4))
	}

	{ // Engine errors
		_, err := db.Table("table_that_does_not_exist").First(ctx)
		assert.ErrorContains(t, err, "no such table")
	}
}

func TestAggregates(t *testing.T) {
	ctx := t.Context()
	db, service := slimormtest.NewUsersDB(t)

	{ // Empty table
		count, err := db.Table("users").Count(ctx)
		assert.NilError(t, err)
		assert.Equal(t, count, int64(0))

		maximum, err := db.Table("users").Max(ctx, "id")
		assert.NilError(t, err)
		assert.Assert(t, maximum == nil)

		minimum, err := db.Table("users").Min(ctx, "id")
		assert.NilError(t, err)
		assert.Assert(t, minimum == nil)
	}

	slimormtest.CreateUsers(t, service, 5)

	{ // Filtered
		count, err := genericUsersQuery(db).Count(ctx)
		assert.NilError(t, err)
		assert.Equal(t, count, int64(3))

		maximum, err := genericUsersQuery(db).Max(ctx, "id")
		assert.NilError(t, err)
		assert.Equal(t, maximum, any(int64(4)))

		minimum, err := genericUsersQuery(db).Min(ctx, "id")
		assert.NilError(t, err)
		assert.Equal(t, minimum, any(int64(2)))
	}

	{ // Engine errors
		_, err := db.Table("table_that_does_not_exist").Count(ctx)
		assert.ErrorContains(t, err, "no such table")

		_, err = db.Table("table_that_does_not_exist").Max(ctx, "id")
		assert.ErrorContains(t, err, "no such table")

		_, err = db.Table("table_that_does_not_exist").Min(ctx, "id")
		assert.ErrorContains(t, err, "no such table")
	}
}

func TestInsert(t *testing.T) {
	ctx := t.Context()
	db, _ := slimormtest.NewUsersDB(t)

	id, err := db.Table("users").Insert(ctx, slimorm.NewData().Set("name", "Test 1").Set("age", 99))
	assert.NilError(t, err)
	assert.Equal(t, id, int64(1))

	id, err = db.Table("users").Insert(ctx, slimorm.NewData().Set("name", "Test 2").Set("age", 88))
	assert.NilError(t, err)
	assert.Equal(t, id, int64(2))

	count, err := db.Table("users").Count(ctx)
	assert.NilError(t, err)
	assert.Equal(t, count, int64(2))

	count, err = db.Table("users").Where("name", "Test 1").Count(ctx)
	assert.NilError(t, err)
	assert.Equal(t, count, int64(1))

	_, err = db.Table("table_that_does_not_exist").Insert(ctx, slimorm.NewData().Set("name", "Test 3"))
	assert.ErrorContains(t, err, "no such table")
}

func TestUpdate(t *testing.T) {
	ctx := t.Context()
	db, _ := slimormtest.NewUsersDB(t)

	for _, data := range []*slimorm.Data{
		slimorm.NewData().Set("name", "Mark").Set("age", 20),
		slimorm.NewData().Set("name", "John").Set("age", 30),
		slimorm.NewData().Set("name", "Mary").Set("age", 40),
	} {
		_, err := db.Table("users").Insert(ctx, data)
		assert.NilError(t, err)
	}

	countWhere := func(column string, args ...any) int64 {
		count, err := db.Table("users").Where(column, args...).Count(ctx)
		assert.NilError(t, err)
		return count
	}

	{ // Matching rows only
		result, err := db.Table("users").
			Where("age", ">=", 30).
			Update(ctx, slimorm.NewData().Set("name", "Test").Set("age", 10))
		assert.NilError(t, err)

		affected, err := result.RowsAffected()
		assert.NilError(t, err)
		assert.Equal(t, affected, int64(2))

		assert.Equal(t, countWhere("age", "<=", 10), int64(2))
		assert.Equal(t, countWhere("name", "=", "Test"), int64(2))
		assert.Equal(t, countWhere("name", "=", "Mark"), int64(1))
	}

	{ // A where clause is mandatory
		_, err := db.Table("users").Update(ctx, slimorm.NewData().Set("name", "Everyone"))
		assert.Error(t, err, "the where clause is mandatory in the UPDATE statement")

		var precondition slimorm.ErrPrecondition
		assert.ErrorType(t, err, precondition)
		assert.Equal(t, countWhere("name", "=", "Everyone"), int64(0))
	}

	{ // Unless the guard is lifted
		result, err := db.Table("users").WithoutWhereGuard().Update(ctx, slimorm.NewData().Set("name", "Everyone"))
		assert.NilError(t, err)

		affected, err := result.RowsAffected()
		assert.NilError(t, err)
		assert.Equal(t, affected, int64(3))
		assert.Equal(t, countWhere("name", "=", "Everyone"), int64(3))
	}
}

func TestDelete(t *testing.T) {
	ctx := t.Context()
	db, _ := slimormtest.NewUsersDB(t)

	count := func() int64 {
		count, err := db.Table("users").Count(ctx)
		assert.NilError(t, err)
		return count
	}

	for i, age := range []int{10, 20, 30} {
		_, err := db.Table("users").Insert(ctx, slimorm.NewData().Set("name", user(int64(i + 1))["name"]).Set("age", age))
		assert.NilError(t, err)
	}
	assert.Equal(t, count(), int64(3))

	{ // Matching rows only
		_, err := db.Table("users").Where("age", ">", 15).Delete(ctx)
		assert.NilError(t, err)
		assert.Equal(t, count(), int64(1))
	}

	{ // No guard on delete
		_, err := db.Table("users").Insert(ctx, slimorm.NewData().Set("name", "Test 4").Set("age", 40))
		assert.NilError(t, err)
		assert.Equal(t, count(), int64(2))

		result, err := db.Table("users").Delete(ctx)
		assert.NilError(t, err)

		affected, err := result.RowsAffected()
		assert.NilError(t, err)
		assert.Equal(t, affected, int64(2))
		assert.Equal(t, count(), int64(0))
	}
}

func TestUninitializedConnection(t *testing.T) {
	ctx := t.Context()
	users := offline.Model("users")

	_, err := offline.Table("users").Get(ctx)
	assert.ErrorIs(t, err, slimorm.ErrUninitializedConnection)

	_, err = users.Count(ctx)
	assert.ErrorIs(t, err, slimorm.ErrUninitializedConnection)

	_, err = users.Find(ctx, 1)
	assert.ErrorIs(t, err, slimorm.ErrUninitializedConnection)

	_, err = users.Where("id", 1).Update(ctx, slimorm.NewData().Set("name", "Mark"))
	assert.ErrorIs(t, err, slimorm.ErrUninitializedConnection)

	_, err = slimorm.New(nil)
	assert.ErrorIs(t, err, slimorm.ErrUninitializedConnection)
}
