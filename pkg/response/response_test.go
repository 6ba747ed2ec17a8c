package response

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/Sharruk/TravelGuard/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func run(h gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		body   string
	}{
		{apperrors.NotFound("Tourist not found"), http.StatusNotFound, `{"error":"Tourist not found"}`},
		{apperrors.Unauthorized("Invalid credentials"), http.StatusUnauthorized, `{"error":"Invalid credentials"}`},
		{apperrors.Wrap(stderrors.New("constraint failed"), "create"), http.StatusInternalServerError, `{"error":"Internal server error"}`},
		{stderrors.New("boom"), http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}
	for _, tc := range cases {
		w := run(func(c *gin.Context) { Error(c, tc.err) }, "")
		assert.Equal(t, tc.status, w.Code)
		assert.JSONEq(t, tc.body, w.Body.String())
	}
}

func TestInvalidRequest(t *testing.T) {
	type form struct {
		Name string `json:"name" binding:"required"`
	}
	h := func(c *gin.Context) {
		var f form
		if err := c.ShouldBindJSON(&f); err != nil {
			InvalidRequest(c, err)
			return
		}
		Success(c, f)
	}

	w := run(h, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request"}`, w.Body.String())

	w = run(h, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = run(h, `{"name":"zone-1"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"zone-1"}`, w.Body.String())
}
