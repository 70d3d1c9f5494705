package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/LMS-FacilityService/internal/api/middleware"
	"github.com/m04kA/LMS-FacilityService/internal/service/bookings"
	"github.com/m04kA/LMS-FacilityService/internal/service/bookings/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubService struct {
	resp *models.BookingResponse
	err  error

	gotReq *models.CancelBookingRequest
}

func (s *stubService) Cancel(_ context.Context, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.gotReq = req
	return s.resp, s.err
}

func newServer(svc BookingService) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/api/v1/bookings/{bookingId}/cancel", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPatch)
	return r
}

func doRequest(t *testing.T, router *mux.Router, userID, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, path, nil)
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Cancelled(t *testing.T) {
	svc := &stubService{resp: &models.BookingResponse{ID: 7, Status: "cancelled"}}

	rec := doRequest(t, newServer(svc), "student-1", "/api/v1/bookings/7/cancel")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)

	require.NotNil(t, svc.gotReq)
	assert.Equal(t, int64(7), svc.gotReq.BookingID)
	assert.Equal(t, "student-1", svc.gotReq.UserID)
}

func TestHandle_InvalidBookingID(t *testing.T) {
	svc := &stubService{}

	rec := doRequest(t, newServer(svc), "student-1", "/api/v1/bookings/abc/cancel")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.gotReq)
}

func TestHandle_MissingUserHeader(t *testing.T) {
	svc := &stubService{}

	rec := doRequest(t, newServer(svc), "", "/api/v1/bookings/7/cancel")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, svc.gotReq)
}

func TestHandle_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"access denied", bookings.ErrAccessDenied, http.StatusForbidden},
		{"already terminal", bookings.ErrAlreadyTerminal, http.StatusConflict},
		{"too late", bookings.ErrCancellationTooLate, http.StatusUnprocessableEntity},
		{"internal", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{err: tc.err}
			rec := doRequest(t, newServer(svc), "student-1", "/api/v1/bookings/7/cancel")
			assert.Equal(t, tc.code, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}
