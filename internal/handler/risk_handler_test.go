package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/davideferri/interro-risk-api/internal/dto"
	"github.com/davideferri/interro-risk-api/internal/middleware"
	"github.com/davideferri/interro-risk-api/internal/models"
	"github.com/davideferri/interro-risk-api/internal/risk"
	appErrors "github.com/davideferri/interro-risk-api/pkg/errors"
)

type fakeRiskSrv struct {
	dashboard *dto.DashboardResponse
	stats     *dto.ClassStatsResponse
	err       error
	last      struct {
		classID   string
		studentID string
		subjectID string
		date      string
	}
}

func (f *fakeRiskSrv) Dashboard(_ context.Context, classID, studentID, date string) (*dto.DashboardResponse, error) {
	f.last.classID = classID
	f.last.studentID = studentID
	f.last.date = date
	return f.dashboard, f.err
}

func (f *fakeRiskSrv) AllRisks(_ context.Context, classID, studentID, date string) ([]risk.SubjectRisk, error) {
	f.last.classID = classID
	f.last.studentID = studentID
	f.last.date = date
	return nil, f.err
}

func (f *fakeRiskSrv) Weekly(_ context.Context, classID, studentID, date string) (*dto.WeeklyResponse, error) {
	f.last.classID = classID
	f.last.studentID = studentID
	f.last.date = date
	return &dto.WeeklyResponse{}, f.err
}

func (f *fakeRiskSrv) ClassStats(_ context.Context, classID, subjectID, date string) (*dto.ClassStatsResponse, error) {
	f.last.classID = classID
	f.last.subjectID = subjectID
	f.last.date = date
	return f.stats, f.err
}

func (f *fakeRiskSrv) History(_ context.Context, classID, studentID, subjectID string) (*dto.HistoryResponse, error) {
	f.last.classID = classID
	f.last.studentID = studentID
	f.last.subjectID = subjectID
	return &dto.HistoryResponse{}, f.err
}

func (f *fakeRiskSrv) NextSchoolDay(_ context.Context, classID, date string) (*dto.NextSchoolDayResponse, error) {
	f.last.classID = classID
	f.last.date = date
	return &dto.NextSchoolDayResponse{}, f.err
}

func TestRiskHandlerDashboardSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeRiskSrv{dashboard: &dto.DashboardResponse{Date: "2026-03-02"}}
	handler := NewRiskHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "classId", Value: "cls-1"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/risk/dashboard?date=2026-03-02", nil)

	handler.Dashboard(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cls-1", srv.last.classID)
	assert.Equal(t, "2026-03-02", srv.last.date)

	var envelope responseEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "2026-03-02", envelope.Data["date"])
}

func TestRiskHandlerDashboardStudentQueryWinsOverClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeRiskSrv{dashboard: &dto.DashboardResponse{}}
	handler := NewRiskHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "classId", Value: "cls-1"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/risk/dashboard?student_id=stu-9", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", StudentID: "stu-1"})

	handler.Dashboard(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-9", srv.last.studentID)
}

func TestRiskHandlerDashboardStudentClaimsFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeRiskSrv{dashboard: &dto.DashboardResponse{}}
	handler := NewRiskHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "classId", Value: "cls-1"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/risk/dashboard", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", StudentID: "stu-1"})

	handler.Dashboard(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stu-1", srv.last.studentID)
}

func TestRiskHandlerClassStatsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeRiskSrv{err: appErrors.ErrNotFound}
	handler := NewRiskHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{
		{Key: "classId", Value: "cls-1"},
		{Key: "subjectId", Value: "sub-missing"},
	}
	c.Request = httptest.NewRequest(http.MethodGet, "/risk/subjects/sub-missing/stats", nil)

	handler.ClassStats(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var envelope responseEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error["code"])
}

func TestRiskHandlerHistoryPassesStudentFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeRiskSrv{}
	handler := NewRiskHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{
		{Key: "classId", Value: "cls-1"},
		{Key: "subjectId", Value: "sub-1"},
	}
	c.Request = httptest.NewRequest(http.MethodGet, "/risk/subjects/sub-1/history?student_id=stu-3", nil)

	handler.History(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sub-1", srv.last.subjectID)
	assert.Equal(t, "stu-3", srv.last.studentID)
}

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}
