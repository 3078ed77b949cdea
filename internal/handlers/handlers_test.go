package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"hermanar_app/internal/middleware"
	"hermanar_app/internal/repository"
	"hermanar_app/internal/services"
)

// newTestServer wires the full HTTP surface over an in-memory database,
// statistics served without a cache.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, services.EnsureSchema(db))

	store := repository.NewStore(db)
	members := repository.NewMemberRepository(store)
	families := repository.NewFamilyRepository(store)
	dues := repository.NewDueRepository(store)

	memberService := services.NewMemberService(members, families, zap.NewNop())
	statsService := services.NewStatsService(dues, nil)

	memberHandler := NewMemberHandler(members, memberService)
	familyHandler := NewFamilyHandler(families, members)
	dueHandler := NewDueHandler(dues, statsService)

	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler

	api := e.Group("/api")
	api.GET("/hermanos", memberHandler.List)
	api.POST("/hermanos", memberHandler.Create)
	api.POST("/hermanos/con-familia", memberHandler.CreateWithFamily)
	api.GET("/hermanos/:id", memberHandler.Get)
	api.PUT("/hermanos/:id", memberHandler.Update)
	api.DELETE("/hermanos/:id", memberHandler.Delete)
	api.POST("/hermanos/:id/baja", memberHandler.Deactivate)
	api.PUT("/hermanos/:id/familia", memberHandler.UpdateFamily)
	api.GET("/familias", familyHandler.List)
	api.POST("/familias", familyHandler.Create)
	api.GET("/familias/:id", familyHandler.Get)
	api.DELETE("/familias/:id", familyHandler.Delete)
	api.GET("/familias/:id/direccion", familyHandler.WithAddress)
	api.GET("/cuotas", dueHandler.List)
	api.POST("/cuotas", dueHandler.Create)
	api.POST("/cuotas/:id/pagar", dueHandler.MarkPaid)
	api.POST("/cuotas/generar", dueHandler.Generate)
	api.GET("/estadisticas", dueHandler.Statistics)

	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const memberJSON = `{"first_name":"Juan","first_surname":"García","registration_date":"2025-01-15","active":true}`

func TestMemberEndpointsRoundTrip(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/hermanos", memberJSON)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created IDResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/api/hermanos/%d", created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Juan", got["first_name"])
	assert.Equal(t, "00001", got["member_number"])
}

func TestMemberNotFound(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/hermanos/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/hermanos/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMemberValidationErrorsAreBadRequest(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/hermanos",
		`{"first_name":"","first_surname":"García","registration_date":"2025-01-15"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/hermanos",
		`{"first_name":"Juan","first_surname":"García","registration_date":"2025-01-15","member_number":"42"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateMemberWithNewFamily(t *testing.T) {
	e := newTestServer(t)

	body := fmt.Sprintf(`{"member":%s,"new_family_name":"García"}`, memberJSON)
	rec := doJSON(e, http.MethodPost, "/api/hermanos/con-familia", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created IDResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(e, http.MethodGet, "/api/familias", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var families []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &families))
	require.Len(t, families, 1)
	assert.Equal(t, "García", families[0]["family_name"])
	assert.Equal(t, float64(created.ID), families[0]["primary_address_member_id"])
}

func TestFamilyDeleteConflict(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/familias", `{"family_name":"García"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var family IDResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &family))

	memberBody := fmt.Sprintf(
		`{"first_name":"Juan","first_surname":"García","registration_date":"2025-01-15","active":true,"family_id":%d}`,
		family.ID)
	rec = doJSON(e, http.MethodPost, "/api/hermanos", memberBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	var member IDResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &member))

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/familias/%d", family.ID), "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/api/hermanos/%d/baja", member.ID), "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/api/familias/%d", family.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGenerateAndStatistics(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/api/hermanos", memberJSON)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/cuotas/generar", `{"year":2025,"quarter":1,"amount":25.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var generated CreatedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &generated))
	assert.Equal(t, 1, generated.Created)

	// A repeated run generates nothing new.
	rec = doJSON(e, http.MethodPost, "/api/cuotas/generar", `{"year":2025,"quarter":1,"amount":25.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &generated))
	assert.Equal(t, 0, generated.Created)

	rec = doJSON(e, http.MethodGet, "/api/estadisticas?year=2025", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, float64(0), stats["total_collected"])
	assert.Equal(t, float64(1), stats["pending_count"])

	rec = doJSON(e, http.MethodPost, "/api/cuotas/1/pagar",
		`{"payment_date":"2025-02-01","payment_method":"transferencia"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/estadisticas", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 25.5, stats["total_collected"])
	assert.Equal(t, float64(1), stats["paid_count"])
	assert.Equal(t, float64(0), stats["pending_count"])
}
