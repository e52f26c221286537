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

func TestKindOfFollowsWrapping(t *testing.T) {
	err := fmt.Errorf("enroll: %w", ErrAlreadyEnrolled)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, errors.Is(err, ErrAlreadyEnrolled))

	down := Unavailable("users.get", errors.New("dial tcp: refused"))
	assert.True(t, IsKind(down, KindBackendUnavailable))
	assert.Equal(t, "users.get: dial tcp: refused", down.Error())

	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Nil(t, Unavailable("noop", nil))
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		Invalid("x", "bad"):                     http.StatusBadRequest,
		ErrInvalidCredentials:                   http.StatusUnauthorized,
		ErrPermissionDenied:                     http.StatusForbidden,
		ErrCourseNotFound:                       http.StatusNotFound,
		ErrEmailRegistered:                      http.StatusConflict,
		Unavailable("x", errors.New("down")):    http.StatusServiceUnavailable,
		PartialWrite("x", errors.New("orphan")): http.StatusInternalServerError,
		errors.New("unclassified"):              http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusFor(err), err.Error())
	}
}

func TestHandleErrorHidesBackendDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleError(c, Unavailable("courses.list", errors.New("mysql: connection refused")))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "backend unavailable", body.Message)
	assert.Equal(t, KindBackendUnavailable, body.Kind)
}

func TestHandleErrorPassesClientErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleError(c, Invalid("course.create", "title is required"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "course.create: title is required", body.Message)
}

func TestErrorJSONWritesStatusAndMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorJSON(c, http.StatusServiceUnavailable, "under maintenance")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusServiceUnavailable, body.Code)
	assert.Equal(t, "under maintenance", body.Message)

	var typed error = &Error{Kind: KindConflict, Op: "enroll", Err: errors.New("dup")}
	assert.Equal(t, KindConflict, KindOf(typed))
}
