// internal/core/services/partner_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/services"
	"github.com/mvolkova/warehouse-be/test/helpers"
	"github.com/mvolkova/warehouse-be/test/mocks"
)

func TestPartnerService_Create(t *testing.T) {
	tests := []struct {
		name          string
		partner       *domain.Partner
		setupMocks    func(*mocks.MockPartnerRepository)
		expectedError bool
		errorContains string
		checkError    func(t *testing.T, err error)
	}{
		{
			name:    "successfully_creates_partner",
			partner: helpers.CreateTestPartner(),
			setupMocks: func(m *mocks.MockPartnerRepository) {
				m.EXPECT().
					FindByName(gomock.Any(), "Northwind Traders").
					Return(nil, nil)
				m.EXPECT().
					FindByRequisites(gomock.Any(), "NW-001-2026").
					Return(nil, nil)
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "duplicate_name_already_exists",
			partner: helpers.CreateTestPartner(func(p *domain.Partner) {
				p.ID = 0
				p.Requisites = "NW-002-2026"
			}),
			setupMocks: func(m *mocks.MockPartnerRepository) {
				m.EXPECT().
					FindByName(gomock.Any(), "Northwind Traders").
					Return(helpers.CreateTestPartner(), nil)
			},
			expectedError: true,
			errorContains: "already exists",
			checkError: func(t *testing.T, err error) {
				assert.True(t, domain.IsAlreadyExists(err))
			},
		},
		{
			name: "duplicate_requisites_already_exists",
			partner: helpers.CreateTestPartner(func(p *domain.Partner) {
				p.ID = 0
				p.Name = "Southwind Traders"
			}),
			setupMocks: func(m *mocks.MockPartnerRepository) {
				m.EXPECT().
					FindByName(gomock.Any(), "Southwind Traders").
					Return(nil, nil)
				m.EXPECT().
					FindByRequisites(gomock.Any(), "NW-001-2026").
					Return(helpers.CreateTestPartner(), nil)
			},
			expectedError: true,
			errorContains: "already exists",
			checkError: func(t *testing.T, err error) {
				assert.True(t, domain.IsAlreadyExists(err))
			},
		},
		{
			name: "validation_fails_for_missing_name",
			partner: helpers.CreateTestPartner(func(p *domain.Partner) {
				p.Name = ""
			}),
			setupMocks:    func(m *mocks.MockPartnerRepository) {},
			expectedError: true,
			errorContains: "name",
			checkError: func(t *testing.T, err error) {
				assert.True(t, domain.IsValidation(err))
			},
		},
		{
			name:    "repository_save_error",
			partner: helpers.CreateTestPartner(),
			setupMocks: func(m *mocks.MockPartnerRepository) {
				m.EXPECT().
					FindByName(gomock.Any(), gomock.Any()).
					Return(nil, nil)
				m.EXPECT().
					FindByRequisites(gomock.Any(), gomock.Any()).
					Return(nil, nil)
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(errors.New("database connection failed"))
			},
			expectedError: true,
			errorContains: "database connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockPartnerRepository(ctrl)
			tt.setupMocks(mockRepo)

			service := services.NewPartnerService(mockRepo, helpers.TestLogger())

			err := service.Create(context.Background(), tt.partner)

			if tt.expectedError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				if tt.checkError != nil {
					tt.checkError(t, err)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPartnerService_Update(t *testing.T) {
	tests := []struct {
		name          string
		partner       *domain.Partner
		setupMocks    func(*mocks.MockPartnerRepository)
		expectedError bool
		errorContains string
	}{
		{
			name:    "successfully_updates_partner",
			partner: helpers.CreateTestPartner(),
			setupMocks: func(m *mocks.MockPartnerRepository) {
				m.EXPECT().
					FindByName(gomock.Any(), "Northwind Traders").
					Return(helpers.CreateTestPartner(), nil)
				m.EXPECT().
					FindByRequisites(gomock.Any(), "NW-001-2026").
					Return(helpers.CreateTestPartner(), nil)
				m.EXPECT().
					Update(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "rename_collides_with_another_partner",
			partner: helpers.CreateTestPartner(func(p *domain.Partner) {
				p.ID = 2
			}),
			setupMocks: func(m *mocks.MockPartnerRepository) {
				m.EXPECT().
					FindByName(gomock.Any(), "Northwind Traders").
					Return(helpers.CreateTestPartner(), nil)
			},
			expectedError: true,
			errorContains: "already exists",
		},
		{
			name: "requisites_collide_with_another_partner",
			partner: helpers.CreateTestPartner(func(p *domain.Partner) {
				p.ID = 2
				p.Name = "Southwind Traders"
			}),
			setupMocks: func(m *mocks.MockPartnerRepository) {
				m.EXPECT().
					FindByName(gomock.Any(), "Southwind Traders").
					Return(nil, nil)
				m.EXPECT().
					FindByRequisites(gomock.Any(), "NW-001-2026").
					Return(helpers.CreateTestPartner(), nil)
			},
			expectedError: true,
			errorContains: "already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockPartnerRepository(ctrl)
			tt.setupMocks(mockRepo)

			service := services.NewPartnerService(mockRepo, helpers.TestLogger())

			err := service.Update(context.Background(), tt.partner)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestPartnerService_GetByID(t *testing.T) {
	testPartner := helpers.CreateTestPartner()

	tests := []struct {
		name          string
		id            int64
		setupMocks    func(*mocks.MockPartnerRepository)
		expectedError bool
		errorContains string
	}{
		{
			name: "successfully_retrieves_partner",
			id:   testPartner.ID,
			setupMocks: func(m *mocks.MockPartnerRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), testPartner.ID).
					Return(testPartner, nil)
			},
		},
		{
			name: "partner_not_found",
			id:   99,
			setupMocks: func(m *mocks.MockPartnerRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), int64(99)).
					Return(nil, nil)
			},
			expectedError: true,
			errorContains: "partner not found",
		},
		{
			name: "repository_error",
			id:   testPartner.ID,
			setupMocks: func(m *mocks.MockPartnerRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), testPartner.ID).
					Return(nil, errors.New("database error"))
			},
			expectedError: true,
			errorContains: "database error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := mocks.NewMockPartnerRepository(ctrl)
			tt.setupMocks(mockRepo)

			service := services.NewPartnerService(mockRepo, helpers.TestLogger())

			result, err := service.GetByID(context.Background(), tt.id)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, testPartner.Name, result.Name)
		})
	}
}

func TestPartnerService_List(t *testing.T) {
	t.Run("returns_all_partners", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockPartnerRepository(ctrl)
		mockRepo.EXPECT().
			FindAll(gomock.Any()).
			Return([]domain.Partner{*helpers.CreateTestPartner()}, nil)

		service := services.NewPartnerService(mockRepo, helpers.TestLogger())

		result, err := service.List(context.Background())
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("filters_by_address_substring", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockPartnerRepository(ctrl)
		mockRepo.EXPECT().
			FindByAddressLike(gomock.Any(), "Tallinn").
			Return([]domain.Partner{*helpers.CreateTestPartner()}, nil)

		service := services.NewPartnerService(mockRepo, helpers.TestLogger())

		result, err := service.ListByAddress(context.Background(), "Tallinn")
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("no_address_match_yields_empty_slice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockPartnerRepository(ctrl)
		mockRepo.EXPECT().
			FindByAddressLike(gomock.Any(), "Nowhere").
			Return(nil, nil)

		service := services.NewPartnerService(mockRepo, helpers.TestLogger())

		result, err := service.ListByAddress(context.Background(), "Nowhere")
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Empty(t, result)
	})

	t.Run("filters_by_email_substring", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockPartnerRepository(ctrl)
		mockRepo.EXPECT().
			FindByEmailLike(gomock.Any(), "northwind").
			Return([]domain.Partner{*helpers.CreateTestPartner()}, nil)

		service := services.NewPartnerService(mockRepo, helpers.TestLogger())

		result, err := service.ListByEmail(context.Background(), "northwind")
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("empty_catalog_yields_empty_slice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockPartnerRepository(ctrl)
		mockRepo.EXPECT().
			FindAll(gomock.Any()).
			Return(nil, nil)

		service := services.NewPartnerService(mockRepo, helpers.TestLogger())

		result, err := service.List(context.Background())
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Empty(t, result)
	})
}

func TestPartnerService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockPartnerRepository(ctrl)
	mockRepo.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)

	service := services.NewPartnerService(mockRepo, helpers.TestLogger())

	require.NoError(t, service.Delete(context.Background(), 1))
}
