package test_utils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type Response struct {
	Code int
	Body []byte
}

func MakeRequest(
	t *testing.T,
	router *gin.Engine,
	method string,
	url string,
	authHeader string,
	body any,
	expectedStatus int,
) *Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, expectedStatus, recorder.Code, "unexpected status, body: %s", recorder.Body.String())

	return &Response{
		Code: recorder.Code,
		Body: recorder.Body.Bytes(),
	}
}

func MakeGetRequest(
	t *testing.T,
	router *gin.Engine,
	url string,
	authHeader string,
	expectedStatus int,
) *Response {
	t.Helper()
	return MakeRequest(t, router, http.MethodGet, url, authHeader, nil, expectedStatus)
}

func MakeGetRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url string,
	authHeader string,
	expectedStatus int,
	out any,
) {
	t.Helper()

	resp := MakeGetRequest(t, router, url, authHeader, expectedStatus)
	require.NoError(t, json.Unmarshal(resp.Body, out))
}

func MakePostRequest(
	t *testing.T,
	router *gin.Engine,
	url string,
	authHeader string,
	body any,
	expectedStatus int,
) *Response {
	t.Helper()
	return MakeRequest(t, router, http.MethodPost, url, authHeader, body, expectedStatus)
}

func MakePostRequestAndUnmarshal(
	t *testing.T,
	router *gin.Engine,
	url string,
	authHeader string,
	body any,
	expectedStatus int,
	out any,
) {
	t.Helper()

	resp := MakePostRequest(t, router, url, authHeader, body, expectedStatus)
	require.NoError(t, json.Unmarshal(resp.Body, out))
}

func MakePutRequest(
	t *testing.T,
	router *gin.Engine,
	url string,
	authHeader string,
	body any,
	expectedStatus int,
) *Response {
	t.Helper()
	return MakeRequest(t, router, http.MethodPut, url, authHeader, body, expectedStatus)
}

func MakeDeleteRequest(
	t *testing.T,
	router *gin.Engine,
	url string,
	authHeader string,
	expectedStatus int,
) *Response {
	t.Helper()
	return MakeRequest(t, router, http.MethodDelete, url, authHeader, nil, expectedStatus)
}
