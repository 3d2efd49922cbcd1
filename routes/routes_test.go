package routes

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"product-catalog/apperrors"
	"product-catalog/controllers"
	"product-catalog/models"
	"product-catalog/repository"
	"product-catalog/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryAdapter()
	_, err := repository.Seed(context.Background(), repo)
	require.NoError(t, err)

	svc := services.NewProductService(repo, nil, services.Options{})

	r := gin.New()
	r.Use(apperrors.ErrorMiddleware())
	RegisterRoutes(r,
		controllers.NewProductController(svc, nil),
		controllers.NewCategoryController(),
		controllers.NewEventsController(svc.Bus()),
		5*time.Second,
	)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCatalogRoundTrip(t *testing.T) {
	r := newTestEngine(t)

	w := do(r, http.MethodPost, "/products", `{"name":"Walnut Bookshelf","price":210,"stock":3,"category":"home","vendor":"HomeNest"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(r, http.MethodGet, "/products?search=walnut", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page models.PaginatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Products, 1)
	assert.Equal(t, created.ID, page.Products[0].ID)

	w = do(r, http.MethodPatch, "/products/"+created.ID, `{"id":"999","stock":0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/products/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var product models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
	assert.Equal(t, created.ID, product.ID)
	assert.Equal(t, 0, product.Stock)
	assert.Equal(t, "Walnut Bookshelf", product.Name)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/products/999", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/products/"+created.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/products/"+created.ID, "").Code)
}

func TestUnknownCategoryMatchesNothing(t *testing.T) {
	r := newTestEngine(t)

	w := do(r, http.MethodGet, "/products?category=garden", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"products":[],"totalCount":0,"currentPage":1,"totalPages":0,"hasNextPage":false,"hasPreviousPage":false}`, w.Body.String())
}

func TestCategoriesAndHealth(t *testing.T) {
	r := newTestEngine(t)

	w := do(r, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Categories []models.Category `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.AllCategories(), body.Categories)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "").Code)
}

func TestEventStreamAnnouncesMutations(t *testing.T) {
	srv := httptest.NewServer(newTestEngine(t))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/products/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	lines := bufio.NewScanner(resp.Body)
	waitFor := func(prefix string) string {
		for lines.Scan() {
			if strings.HasPrefix(lines.Text(), prefix) {
				return lines.Text()
			}
		}
		t.Fatalf("stream ended before %q: %v", prefix, lines.Err())
		return ""
	}
	waitFor("event:ready")

	post, err := http.Post(srv.URL+"/products", "application/json",
		bytes.NewBufferString(`{"name":"Trail Shoes","price":80,"category":"sports","vendor":"Peak"}`))
	require.NoError(t, err)
	post.Body.Close()
	require.Equal(t, http.StatusCreated, post.StatusCode)

	waitFor("event:product.created")
	data := waitFor("data:")
	assert.Contains(t, data, `"product_id":"15"`)
}
