package middleware

import (
	"bitbybit_backend/internal/config"
	"bitbybit_backend/internal/model"
	"bitbybit_backend/internal/repository"
	"bitbybit_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testSetup(t *testing.T) (*gin.Engine, *repository.UserRepository, *config.Config, *model.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:mw_test?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.Unscoped().Where("1 = 1").Delete(&model.User{})

	repo := repository.NewUserRepository(db)
	user := &model.User{Name: "S", Email: "s@example.com", Role: model.Student}
	if err := repo.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	cfg := &config.Config{JWT: config.JWTConfig{Secret: "mw-test-secret", ExpireTime: time.Hour}}

	router := gin.New()
	router.GET("/protected", AuthMiddleware(cfg, repo), func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	router.GET("/admin", AuthMiddleware(cfg, repo), RoleMiddleware(model.Admin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router, repo, cfg, user
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func freshToken(t *testing.T, repo *repository.UserRepository, cfg *config.Config, user *model.User) string {
	t.Helper()
	version, err := repo.BumpTokenVersion(user.ID)
	if err != nil {
		t.Fatalf("bump version: %v", err)
	}
	user.TokenVersion = version
	token, err := util.GenerateJWT(user, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	router, repo, cfg, user := testSetup(t)

	if w := get(router, "/protected", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", w.Code)
	}
	if w := get(router, "/protected", "garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status %d, want 401", w.Code)
	}

	token := freshToken(t, repo, cfg, user)
	if w := get(router, "/protected", token); w.Code != http.StatusOK {
		t.Errorf("fresh token: status %d, want 200 (%s)", w.Code, w.Body)
	}

	// A later login strands the earlier token.
	newer := freshToken(t, repo, cfg, user)
	if w := get(router, "/protected", token); w.Code != http.StatusUnauthorized {
		t.Errorf("stale token: status %d, want 401", w.Code)
	}
	if w := get(router, "/protected", newer); w.Code != http.StatusOK {
		t.Errorf("latest token: status %d, want 200", w.Code)
	}
}

func TestRoleMiddleware(t *testing.T) {
	router, repo, cfg, user := testSetup(t)

	student := freshToken(t, repo, cfg, user)
	if w := get(router, "/admin", student); w.Code != http.StatusForbidden {
		t.Errorf("student on admin route: status %d, want 403", w.Code)
	}

	if err := repo.DB.Model(user).Update("role", model.Admin).Error; err != nil {
		t.Fatalf("promote user: %v", err)
	}
	user.Role = model.Admin
	admin := freshToken(t, repo, cfg, user)
	if w := get(router, "/admin", admin); w.Code != http.StatusOK {
		t.Errorf("admin on admin route: status %d, want 200", w.Code)
	}
}
