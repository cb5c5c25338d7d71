package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrQuizNotFound, http.StatusNotFound},
		{fmt.Errorf("load course: %w", ErrCourseNotFound), http.StatusNotFound},
		{ErrInvalidScore, http.StatusBadRequest},
		{ErrAttemptNumberTaken, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), tt.err.Error())
	}
}

func TestFail_HidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/known", func(c *gin.Context) { Fail(c, ErrQuizNotPublished) })
	r.GET("/unknown", func(c *gin.Context) { Fail(c, errors.New("dial tcp 10.0.0.3:3306")) })

	for path, want := range map[string]Response{
		"/known":   {Code: http.StatusBadRequest, Message: ErrQuizNotPublished.Error()},
		"/unknown": {Code: http.StatusInternalServerError, Message: "Internal server error"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		var got Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, want.Code, w.Code, path)
		assert.Equal(t, want, got, path)
	}
}
