package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"equipment-system/internal/dto"
	apperrors "equipment-system/pkg/errors"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestEnvelope(t *testing.T) {
	ctx, rec := newTestContext(t)

	err := Envelope(ctx, map[string]string{"name": "Монитор"}, nil, dto.RetMsgOk)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, float64(0), body["retCode"])
	assert.Equal(t, "Ok", body["retMsg"])
	assert.Equal(t, map[string]interface{}{"name": "Монитор"}, body["result"])
	// Без дополнительной информации retExtInfo — пустая строка
	assert.Equal(t, "", body["retExtInfo"])
	assert.NotZero(t, body["retTime"])
}

func TestEnvelopeWithExtInfo(t *testing.T) {
	ctx, rec := newTestContext(t)

	info := dto.CreateEquipmentInfoDTO{Count: 3, Saved: 2, Failed: 1, Errors: []dto.CreateEquipmentErrorDTO{}}
	err := Envelope(ctx, []string{}, info, dto.RetMsgBatchErrors)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "There are some errors", body["retMsg"])
	ext, ok := body["retExtInfo"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), ext["count"])
	assert.Equal(t, float64(2), ext["saved"])
	assert.Equal(t, float64(1), ext["failed"])
}

func TestErrorResponseHttpError(t *testing.T) {
	ctx, rec := newTestContext(t)

	err := ErrorResponse(ctx, apperrors.NewHttpError(http.StatusNotFound, "Equipment with id='5' was not found", nil, nil), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["status"])
	assert.Equal(t, "Equipment with id='5' was not found", body["message"])
}

func TestErrorResponseInvalidInput(t *testing.T) {
	ctx, rec := newTestContext(t)

	err := ErrorResponse(ctx, apperrors.NewInvalidInputError("Equipment type with name='%s' is already exist (id=%d)", "Монитор", 3), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Equipment type with name='Монитор' is already exist (id=3)", body["message"])
}

func TestErrorResponseSentinels(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperrors.ErrNotFound, http.StatusNotFound},
		{apperrors.ErrForbidden, http.StatusForbidden},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperrors.ErrTokenRevoked, http.StatusUnauthorized},
		{apperrors.ErrTokenIsNotRefresh, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		ctx, rec := newTestContext(t)
		require.NoError(t, ErrorResponse(ctx, tc.err, zap.NewNop()))
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}
}

func TestErrorResponseUnknownErrorIs500(t *testing.T) {
	ctx, rec := newTestContext(t)

	require.NoError(t, ErrorResponse(ctx, assert.AnError, zap.NewNop()))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Внутренняя ошибка сервера", body["message"])
}
