package helper

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseQuery(t *testing.T, query string, opt Options) Params {
	t.Helper()
	var got Params
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParseFiber(c, "name", "asc", opt)
		return nil
	})
	_, err := app.Test(httptest.NewRequest("GET", "/"+query, nil))
	require.NoError(t, err)
	return got
}

func TestParseFiber(t *testing.T) {
	p := parseQuery(t, "", DefaultOpts)
	assert.Equal(t, Params{Page: 1, PerPage: 25, SortBy: "name", SortOrder: "asc"}, p)

	p = parseQuery(t, "?page=3&perPage=10&sort=createdAt&order=DESC", DefaultOpts)
	assert.Equal(t, Params{Page: 3, PerPage: 10, SortBy: "createdAt", SortOrder: "desc"}, p)
	assert.Equal(t, 20, p.Offset())

	p = parseQuery(t, "?page=-1&limit=100000&order=sideways", DefaultOpts)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 200, p.PerPage)
	assert.Equal(t, "asc", p.SortOrder)

	p = parseQuery(t, "?per_page=abc", AdminOpts)
	assert.Equal(t, 50, p.PerPage)
}

func TestSafeOrderClause(t *testing.T) {
	allowed := map[string]string{"name": "school_name", "createdAt": "school_created_at"}

	p := Params{SortBy: "createdAt", SortOrder: "desc"}
	assert.Equal(t, "school_created_at DESC", p.SafeOrderClause(allowed, "name"))

	p = Params{SortBy: "name; DROP TABLE schools", SortOrder: "asc"}
	assert.Equal(t, "school_name ASC", p.SafeOrderClause(allowed, "name"))
}

func TestBuildMeta(t *testing.T) {
	m := BuildMeta(51, Params{Page: 2, PerPage: 25})
	assert.Equal(t, 3, m.TotalPages)
	assert.True(t, m.HasNext)
	assert.True(t, m.HasPrev)

	m = BuildMeta(0, Params{Page: 1, PerPage: 25})
	assert.Equal(t, 1, m.TotalPages)
	assert.False(t, m.HasNext)
	assert.False(t, m.HasPrev)
}
