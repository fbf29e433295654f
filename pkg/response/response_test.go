package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"intent-router/pkg/response"
)

func record(fn func(c *gin.Context)) (*httptest.ResponseRecorder, *gin.Context, response.Resp) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var resp response.Resp
	json.Unmarshal(w.Body.Bytes(), &resp)
	return w, c, resp
}

func TestOK(t *testing.T) {
	w, _, resp := record(func(c *gin.Context) {
		response.OK(c, map[string]string{"route": "faq"})
	})

	if w.Code != http.StatusOK || resp.ErrorCode != 0 || resp.Message != response.MessageSuccess {
		t.Fatalf("unexpected response %d %+v", w.Code, resp)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok || data["route"] != "faq" {
		t.Errorf("unexpected data payload: %v", resp.Data)
	}
}

func TestError(t *testing.T) {
	t.Run("With Data", func(t *testing.T) {
		w, _, resp := record(func(c *gin.Context) {
			response.Error(c, errors.New("query must not be empty"), map[string]interface{}{"field": "query"})
		})
		if w.Code != http.StatusBadRequest || resp.ErrorCode != 1 {
			t.Fatalf("unexpected response %d %+v", w.Code, resp)
		}
		if resp.Message != "query must not be empty" {
			t.Errorf("unexpected message %q", resp.Message)
		}
	})

	t.Run("Nil Data", func(t *testing.T) {
		_, _, resp := record(func(c *gin.Context) {
			response.Error(c, errors.New("bad"), nil)
		})
		if resp.Data == nil {
			t.Error("expected empty map for nil data, got nil")
		}
	})
}

func TestStatusHelpers(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(c *gin.Context)
		status  int
		code    int
		message string
		aborted bool
	}{
		{
			name:    "InternalError Hides Cause",
			fn:      func(c *gin.Context) { response.InternalError(c, errors.New("qdrant: connection reset")) },
			status:  http.StatusInternalServerError,
			code:    response.InternalServerErrorCode,
			message: response.DefaultErrorMessage,
		},
		{
			name:    "ServiceUnavailable",
			fn:      func(c *gin.Context) { response.ServiceUnavailable(c, "encoder unavailable") },
			status:  http.StatusServiceUnavailable,
			code:    response.ServiceUnavailableCode,
			message: "encoder unavailable",
		},
		{
			name:    "Conflict",
			fn:      func(c *gin.Context) { response.Conflict(c, "busy") },
			status:  http.StatusConflict,
			code:    response.ConflictCode,
			message: "busy",
		},
		{
			name:    "BadGateway",
			fn:      func(c *gin.Context) { response.BadGateway(c, "upstream failed") },
			status:  http.StatusBadGateway,
			code:    response.BadGatewayCode,
			message: "upstream failed",
		},
		{
			name:    "TooManyRequests",
			fn:      response.TooManyRequests,
			status:  http.StatusTooManyRequests,
			code:    response.TooManyRequestsCode,
			message: "Too many requests",
			aborted: true,
		},
		{
			name:    "Unauthorized",
			fn:      response.Unauthorized,
			status:  http.StatusUnauthorized,
			code:    http.StatusUnauthorized,
			message: "Unauthorized",
			aborted: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, c, resp := record(tt.fn)
			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
			if resp.ErrorCode != tt.code || resp.Message != tt.message {
				t.Errorf("unexpected body %+v", resp)
			}
			if c.IsAborted() != tt.aborted {
				t.Errorf("expected aborted=%v", tt.aborted)
			}
		})
	}
}
