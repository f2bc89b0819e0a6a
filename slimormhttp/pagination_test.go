package slimormhttp_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/lunagic/slimorm/slimorm"
	"github.com/lunagic/slimorm/slimormhttp"
	"github.com/lunagic/slimorm/slimormtest"
	"gotest.tools/v3/assert"
)

const (
	mockUsername             = "slimorm"
	mockPassword             = "hunter2"
	mockUnauthorizedResponse = "unauthorized"
)

func basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actualUsername, actualPassword, ok := r.BasicAuth()
		if !ok || actualUsername != mockUsername || actualPassword != mockPassword {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(mockUnauthorizedResponse))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func TestCurrentPage(t *testing.T) {
	testCases := map[string]int{
		"/users":           1,
		"/users?page=":     1,
		"/users?page=3":    3,
		"/users?page=0":    1,
		"/users?page=-4":   1,
		"/users?page=five": 1,
	}

	for target, expected := range testCases {
		t.Run(target, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, target, nil)
			assert.Equal(t, expected, slimormhttp.CurrentPage(request))
		})
	}
}

func TestPaginateHandler(t *testing.T) {
	db, service := slimormtest.NewUsersDB(t)
	slimormtest.CreateUsers(t, service, 100)

	users := db.Model("users")

	handler := slimormhttp.PaginateHandler(
		5,
		func(r *http.Request) *slimorm.Builder[*slimorm.Record] {
			return users.
				Where("age", ">=", 50).
				Where("age", "<=", 450).
				OrderByDesc("id")
		},
	)

	expectedRecords := func(ids ...int64) []map[string]any {
		records := []map[string]any{}
		for _, id := range ids {
			records = append(records, map[string]any{
				"age":  id * 10,
				"id":   id,
				"name": fmt.Sprintf("Test %d", id),
			})
		}

		return records
	}

	// Default page
	{
		slimormtest.TestRequest(t, handler, slimormtest.HTTPTestCase{
			Request: slimormtest.HTTPTestCaseRequest{
				Method: http.MethodGet,
				Path:   "/users",
			},
			Expected: slimormtest.HTTPTestCaseResponse{
				Status: http.StatusOK,
				Body: slimorm.Page[map[string]any]{
					Total:       41,
					PerPage:     5,
					CurrentPage: 1,
					LastPage:    9,
					From:        1,
					To:          5,
					Data:        expectedRecords(45, 44, 43, 42, 41),
				},
			},
		})
	}

	// Third page
	{
		slimormtest.TestRequest(t, handler, slimormtest.HTTPTestCase{
			Request: slimormtest.HTTPTestCaseRequest{
				Method: http.MethodGet,
				Path:   "/users",
				Query:  url.Values{"page": []string{"3"}},
			},
			Expected: slimormtest.HTTPTestCaseResponse{
				Status: http.StatusOK,
				Body: slimorm.Page[map[string]any]{
					Total:       41,
					PerPage:     5,
					CurrentPage: 3,
					LastPage:    9,
					From:        11,
					To:          15,
					Data:        expectedRecords(35, 34, 33, 32, 31),
				},
			},
		})
	}
}

func TestPaginateHandlerErrors(t *testing.T) {
	db, _ := slimormtest.NewUsersDB(t)

	handler := slimormhttp.PaginateHandler(
		5,
		func(r *http.Request) *slimorm.Builder[slimorm.Row] {
			return db.Where("age", ">=", "=", 50)
		},
	)

	slimormtest.TestRequest(t, handler, slimormtest.HTTPTestCase{
		Request: slimormtest.HTTPTestCaseRequest{
			Path: "/users",
		},
		Expected: slimormtest.HTTPTestCaseResponse{
			Status: http.StatusInternalServerError,
			Body:   "\"where age: invalid argument: expected a value or an operator and a value, got 3 arguments\"",
		},
	})
}

func TestPaginateHandlerMiddleware(t *testing.T) {
	db, service := slimormtest.NewUsersDB(t)
	slimormtest.CreateUsers(t, service, 2)

	handler := slimormhttp.PaginateHandler(
		0,
		func(r *http.Request) *slimorm.Builder[slimorm.Row] {
			return db.Table("users").OrderByAsc("id")
		},
		basicAuthMiddleware,
	)

	// Rejected
	{
		slimormtest.TestRequest(t, handler, slimormtest.HTTPTestCase{
			Request: slimormtest.HTTPTestCaseRequest{
				Path: "/users",
			},
			Expected: slimormtest.HTTPTestCaseResponse{
				Status: http.StatusUnauthorized,
				Body:   mockUnauthorizedResponse,
			},
		})
	}

	// Accepted
	{
		slimormtest.TestRequest(t, handler, slimormtest.HTTPTestCase{
			Request: slimormtest.HTTPTestCaseRequest{
				Path: "/users",
				Modifier: func(request *http.Request) {
					request.SetBasicAuth(mockUsername, mockPassword)
				},
			},
			Expected: slimormtest.HTTPTestCaseResponse{
				Status: http.StatusOK,
				Body: slimorm.Page[map[string]any]{
					Total:       2,
					PerPage:     slimorm.DefaultPerPage,
					CurrentPage: 1,
					LastPage:    1,
					From:        1,
					To:          2,
					Data: []map[string]any{
						{"age": 10, "id": 1, "name": "Test 1"},
						{"age": 20, "id": 2, "name": "Test 2"},
					},
				},
			},
		})
	}
}
