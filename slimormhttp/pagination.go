package slimormhttp

import (
	"net/http"
	"strconv"

	"github.com/lunagic/poseidon/poseidon"
	"github.com/lunagic/slimorm/slimorm"
)

const PageQueryParameter = "page"

// CurrentPage reads ?page=. Missing, malformed and non-positive values all
// mean the first page.
func CurrentPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get(PageQueryParameter))
	if err != nil || page <= 0 {
		return 1
	}

	return page
}

// PaginateHandler answers every request with one page of the query built by
// query, as JSON. Query errors become a 500 carrying the error text.
func PaginateHandler[T any](
	perPage int,
	query func(r *http.Request) *slimorm.Builder[T],
	middlewares ...poseidon.Middleware,
) http.Handler {
	return poseidon.Middlewares(middlewares).Apply(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			page, err := query(r).Paginate(r.Context(), CurrentPage(r), perPage)
			if err != nil {
				poseidon.RespondJSON(w, http.StatusInternalServerError, err.Error())
				return
			}

			poseidon.RespondJSON(w, http.StatusOK, page)
		}),
	)
}
