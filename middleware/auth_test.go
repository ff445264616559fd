package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yardanz/tutor-site/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "middleware-test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestAdminRequiredExposesIdentity(t *testing.T) {
	token, err := utils.GenerateSessionToken(7, "owner@example.com")
	require.NoError(t, err)

	r := gin.New()
	r.Use(AdminRequired())
	r.GET("/api/admin/whoami", func(ctx *gin.Context) {
		id, ok := AdminID(ctx)
		require.True(t, ok)
		ctx.JSON(http.StatusOK, gin.H{"id": id})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":7`)
}

func TestAdminIDAbsentWithoutGate(t *testing.T) {
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := AdminID(ctx)
	assert.False(t, ok)
}
