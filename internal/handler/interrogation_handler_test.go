package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/davideferri/interro-risk-api/internal/dto"
	"github.com/davideferri/interro-risk-api/internal/models"
	appErrors "github.com/davideferri/interro-risk-api/pkg/errors"
)

type fakeInterrogationSrv struct {
	items      []models.Interrogation
	total      int
	created    *models.Interrogation
	err        error
	lastFilter models.InterrogationFilter
	lastCreate dto.CreateInterrogationRequest
}

func (f *fakeInterrogationSrv) List(_ context.Context, filter models.InterrogationFilter) ([]models.Interrogation, int, error) {
	f.lastFilter = filter
	return f.items, f.total, f.err
}

func (f *fakeInterrogationSrv) Create(_ context.Context, _ string, req dto.CreateInterrogationRequest) (*models.Interrogation, error) {
	f.lastCreate = req
	return f.created, f.err
}

func (f *fakeInterrogationSrv) UpdateGrade(_ context.Context, _, _ string, _ dto.UpdateGradeRequest) (*models.Interrogation, error) {
	return f.created, f.err
}

func (f *fakeInterrogationSrv) Delete(context.Context, string, string) error {
	return f.err
}

func TestInterrogationHandlerListPassesFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeInterrogationSrv{total: 3}
	handler := NewInterrogationHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "classId", Value: "cls-1"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/interrogations?student_id=stu-1&from=2026-03-01&page=2&page_size=10", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cls-1", srv.lastFilter.ClassID)
	assert.Equal(t, "stu-1", srv.lastFilter.StudentID)
	assert.Equal(t, "2026-03-01", srv.lastFilter.DateFrom)
	assert.Equal(t, 2, srv.lastFilter.Page)
	assert.Equal(t, 10, srv.lastFilter.PageSize)

	var envelope struct {
		Pagination *models.Pagination `json:"pagination"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotNil(t, envelope.Pagination)
	assert.Equal(t, 3, envelope.Pagination.TotalCount)
}

func TestInterrogationHandlerCreateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeInterrogationSrv{created: &models.Interrogation{ID: "int-1"}}
	handler := NewInterrogationHandler(srv)

	body := `{"student_id":"stu-1","subject_id":"sub-1","date":"2026-03-02"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "classId", Value: "cls-1"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/interrogations", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "stu-1", srv.lastCreate.StudentID)
	assert.Equal(t, "2026-03-02", srv.lastCreate.Date)
}

func TestInterrogationHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInterrogationHandler(&fakeInterrogationSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "classId", Value: "cls-1"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/interrogations", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInterrogationHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeInterrogationSrv{err: appErrors.ErrDuplicateInterrogation}
	handler := NewInterrogationHandler(srv)

	body := `{"student_id":"stu-1","subject_id":"sub-1","date":"2026-03-02"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "classId", Value: "cls-1"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/interrogations", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var envelope responseEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "DUPLICATE_INTERROGATION", envelope.Error["code"])
}

func TestInterrogationHandlerDeleteNoContent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewInterrogationHandler(&fakeInterrogationSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{
		{Key: "classId", Value: "cls-1"},
		{Key: "id", Value: "int-1"},
	}
	c.Request = httptest.NewRequest(http.MethodDelete, "/interrogations/int-1", nil)

	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
