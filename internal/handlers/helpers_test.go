package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "spendlog/internal/errors"
	"spendlog/internal/logger"
	"spendlog/internal/uuid"
	"spendlog/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func TestRespondWithError(t *testing.T) {
	r := gin.New()
	r.GET("/app", func(c *gin.Context) {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, errors.New("db down")))
	})
	r.GET("/plain", func(c *gin.Context) {
		respondWithError(c, errors.New("secret detail"))
	})
	r.GET("/items/:id", func(c *gin.Context) {
		id, err := parsePathID(c)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.String(http.StatusOK, id)
	})

	t.Run("renders app error status and code", func(t *testing.T) {
		rec := doRequest(r, "GET", "/app", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "db down") {
			t.Errorf("expected internal error hidden, got %s", rec.Body.String())
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})

	t.Run("hides unexpected errors", func(t *testing.T) {
		rec := doRequest(r, "GET", "/plain", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "secret detail") {
			t.Errorf("expected detail hidden, got %s", rec.Body.String())
		}
	})

	t.Run("rejects non-uuid path id", func(t *testing.T) {
		rec := doRequest(r, "GET", "/items/42", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("accepts uuid path id", func(t *testing.T) {
		id := uuid.New()
		rec := doRequest(r, "GET", "/items/"+id, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
