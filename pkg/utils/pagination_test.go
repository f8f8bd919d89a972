package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetPaginationParams(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=10", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	p := GetPaginationParams(c, 50)
	assert.Equal(t, PaginationParams{Page: 3, PageSize: 10, Offset: 20}, p)

	req = httptest.NewRequest(http.MethodGet, "/?page=-1&limit=1000", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	p = GetPaginationParams(c, 50)
	assert.Equal(t, PaginationParams{Page: 1, PageSize: 50, Offset: 0}, p)
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{3, 4}, Page(items, PaginationParams{PageSize: 2, Offset: 2}))
	assert.Equal(t, []int{5}, Page(items, PaginationParams{PageSize: 2, Offset: 4}))
	assert.Empty(t, Page(items, PaginationParams{PageSize: 2, Offset: 10}))
}
