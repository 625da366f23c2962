// internal/handlers/partner_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/handlers"
	"github.com/mvolkova/warehouse-be/test/helpers"
	"github.com/mvolkova/warehouse-be/test/mocks"
)

func TestPartnerHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockPartnerService)
		expectedStatus int
	}{
		{
			name: "successfully_creates_partner",
			body: `{"name": "Northwind Traders", "requisites": "NW-001-2026", "address": "12 Harbor St"}`,
			setupMocks: func(m *mocks.MockPartnerService) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, p *domain.Partner) error {
						assert.Equal(t, "Northwind Traders", p.Name)
						assert.Equal(t, "NW-001-2026", p.Requisites)
						p.ID = 3
						return nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "duplicate_name_maps_to_409",
			body: `{"name": "Northwind Traders", "requisites": "NW-001-2026"}`,
			setupMocks: func(m *mocks.MockPartnerService) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(domain.NewAlreadyExists("partner", "name = Northwind Traders"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "malformed_body",
			body:           `{"name": `,
			setupMocks:     func(m *mocks.MockPartnerService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockPartnerService(ctrl)
			tt.setupMocks(mockService)

			handler := handlers.NewPartnerHandler(mockService, helpers.TestLogger())

			req := httptest.NewRequest("POST", "/api/v1/partners", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Result().StatusCode)
		})
	}
}

func TestPartnerHandler_List(t *testing.T) {
	t.Run("lists_all_partners", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockPartnerService(ctrl)
		mockService.EXPECT().
			List(gomock.Any()).
			Return([]domain.Partner{*helpers.CreateTestPartner()}, nil)

		handler := handlers.NewPartnerHandler(mockService, helpers.TestLogger())

		req := httptest.NewRequest("GET", "/api/v1/partners", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	})

	t.Run("name_query_narrows_to_single_partner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockPartnerService(ctrl)
		mockService.EXPECT().
			GetByName(gomock.Any(), "Northwind Traders").
			Return(helpers.CreateTestPartner(), nil)

		handler := handlers.NewPartnerHandler(mockService, helpers.TestLogger())

		req := httptest.NewRequest("GET", "/api/v1/partners?name=Northwind+Traders", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)

		var response []domain.Partner
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response, 1)
		assert.Equal(t, "Northwind Traders", response[0].Name)
	})

	t.Run("address_query_matches_substring", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockPartnerService(ctrl)
		mockService.EXPECT().
			ListByAddress(gomock.Any(), "Harbor").
			Return([]domain.Partner{*helpers.CreateTestPartner()}, nil)

		handler := handlers.NewPartnerHandler(mockService, helpers.TestLogger())

		req := httptest.NewRequest("GET", "/api/v1/partners?address=Harbor", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)

		var response []domain.Partner
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response, 1)
	})

	t.Run("email_query_miss_is_empty_array", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockPartnerService(ctrl)
		mockService.EXPECT().
			ListByEmail(gomock.Any(), "nobody").
			Return([]domain.Partner{}, nil)

		handler := handlers.NewPartnerHandler(mockService, helpers.TestLogger())

		req := httptest.NewRequest("GET", "/api/v1/partners?email=nobody", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("requisites_query_miss_is_404", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockPartnerService(ctrl)
		mockService.EXPECT().
			GetByRequisites(gomock.Any(), "UNKNOWN").
			Return(nil, domain.NewNotFound("partner", "requisites = UNKNOWN"))

		handler := handlers.NewPartnerHandler(mockService, helpers.TestLogger())

		req := httptest.NewRequest("GET", "/api/v1/partners?requisites=UNKNOWN", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
	})
}
