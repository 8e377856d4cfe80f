package jwtmw

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"booking_backend/internal/feature/auth/domain/entity"
)

// TestMain sets Gin to test mode before running tests.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func assertJSONError(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantMessage string) {
	t.Helper()
	if w.Code != wantStatus {
		t.Errorf("expected status %d, got %d", wantStatus, w.Code)
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", w.Body.String(), err)
	}
	if body.Success {
		t.Error("expected success=false")
	}
	if body.Message != wantMessage {
		t.Errorf("expected message %q, got %q", wantMessage, body.Message)
	}
}

// TestAuthenticate_Rejects verifies that every failure mode yields the same 401 response.
func TestAuthenticate_Rejects(t *testing.T) {
	const secret = "test-secret-key-for-invalid"
	iss := newTestIssuer(t, secret, time.Hour)

	expiredIssuer := newTestIssuer(t, secret, time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredIssuer.Issue(1, "test@example.com", entity.RoleCustomer)

	wrong, _ := newTestIssuer(t, "wrong-secret", time.Hour).Issue(1, "test@example.com", entity.RoleCustomer)
	valid, _ := iss.Issue(1, "test@example.com", entity.RoleCustomer)

	tests := []struct {
		name       string
		authHeader string
	}{
		{"no header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"bearer lowercase", "bearer " + valid},
		{"no space after Bearer", "Bearer" + valid},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer garbage"},
		{"malformed token", "Bearer not.a.valid.token"},
		{"wrong secret", "Bearer " + wrong},
		{"expired token", "Bearer " + expired},
		{"altered signature", "Bearer " + alterSignature(valid)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				c.Request.Header.Set("Authorization", tt.authHeader)
			}

			Authenticate(iss)(c)

			assertJSONError(t, w, http.StatusUnauthorized, "Not authorized to access this route")
			if !c.IsAborted() {
				t.Error("expected request to be aborted")
			}
			if _, ok := IdentityFrom(c.Request.Context()); ok {
				t.Error("expected no identity to be attached")
			}
		})
	}
}

// TestAuthenticate_ValidToken verifies the identity is threaded through the request context.
func TestAuthenticate_ValidToken(t *testing.T) {
	iss := newTestIssuer(t, "test-secret-key-for-valid", time.Hour)

	tests := []struct {
		name   string
		userID uint
		role   entity.Role
	}{
		{"customer id 1", 1, entity.RoleCustomer},
		{"agent id 42", 42, entity.RoleAgent},
		{"admin id 999", 999, entity.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := iss.Issue(tt.userID, "test@example.com", tt.role)
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.Header.Set("Authorization", "Bearer "+token)

			Authenticate(iss)(c)

			if c.IsAborted() {
				t.Fatalf("expected request not to be aborted, response: %s", w.Body.String())
			}
			id, ok := IdentityFrom(c.Request.Context())
			if !ok {
				t.Fatal("expected identity in request context")
			}
			if id.UserID != tt.userID || id.Role != tt.role || id.Email != "test@example.com" {
				t.Errorf("unexpected identity %+v", id)
			}
		})
	}
}

// TestAuthorize checks the role predicate behind a full Authenticate chain.
func TestAuthorize(t *testing.T) {
	iss := newTestIssuer(t, "test-secret-key-for-roles", time.Hour)

	router := gin.New()
	router.GET("/staff", Authenticate(iss), Authorize(entity.RoleAgent, entity.RoleAdmin), func(c *gin.Context) {
		id, _ := IdentityFrom(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"success": true, "role": id.Role})
	})

	tests := []struct {
		name       string
		role       entity.Role
		wantStatus int
	}{
		{"customer is forbidden", entity.RoleCustomer, http.StatusForbidden},
		{"agent is accepted", entity.RoleAgent, http.StatusOK},
		{"admin is accepted", entity.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := iss.Issue(5, "staff@example.com", tt.role)
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}

			req := httptest.NewRequest(http.MethodGet, "/staff", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if tt.wantStatus == http.StatusForbidden {
				assertJSONError(t, w, http.StatusForbidden, "User role customer is not authorized to access this route")
				return
			}
			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

// TestAuthorize_WithoutAuthenticate verifies that the role guard refuses to run on its own.
func TestAuthorize_WithoutAuthenticate(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Authorize(entity.RoleCustomer, entity.RoleAgent, entity.RoleAdmin)(c)

	assertJSONError(t, w, http.StatusUnauthorized, "Not authorized to access this route")
	if !c.IsAborted() {
		t.Error("expected request to be aborted")
	}
}

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := IdentityFrom(req.Context()); ok {
		t.Fatal("expected empty context to carry no identity")
	}

	want := Identity{UserID: 3, Email: "ctx@example.com", Role: entity.RoleAgent}
	got, ok := IdentityFrom(WithIdentity(req.Context(), want))
	if !ok || got != want {
		t.Errorf("expected %+v, got %+v (ok=%v)", want, got, ok)
	}
}
