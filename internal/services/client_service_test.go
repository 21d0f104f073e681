package services

import (
	"context"
	"testing"

	"relancer/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ClientServiceTestSuite struct {
	suite.Suite
	mockClientRepo *MockClientRepository
	service        ClientService
	client         *models.Client
}

func (suite *ClientServiceTestSuite) SetupTest() {
	suite.mockClientRepo = &MockClientRepository{}
	suite.service = NewClientService(suite.mockClientRepo)
	suite.client = &models.Client{
		ID:       uuid.New(),
		Name:     "Acme Corp",
		Email:    "accounts@acme.example",
		IsActive: true,
	}
}

func (suite *ClientServiceTestSuite) TearDownTest() {
	suite.mockClientRepo.AssertExpectations(suite.T())
}

func TestClientServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClientServiceTestSuite))
}

func (suite *ClientServiceTestSuite) TestCreate_Success() {
	suite.mockClientRepo.On("GetByEmail", mock.Anything, "accounts@acme.example").Return(nil, nil)
	suite.mockClientRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Client")).Return(nil)

	client, err := suite.service.Create(context.Background(), &CreateClientRequest{
		Name:  "Acme Corp",
		Email: "accounts@acme.example",
	})
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), client.IsActive)
}

func (suite *ClientServiceTestSuite) TestCreate_DuplicateEmail() {
	suite.mockClientRepo.On("GetByEmail", mock.Anything, "accounts@acme.example").Return(suite.client, nil)

	client, err := suite.service.Create(context.Background(), &CreateClientRequest{
		Name:  "Acme Clone",
		Email: "accounts@acme.example",
	})
	assert.ErrorIs(suite.T(), err, ErrDuplicateEmail)
	assert.Nil(suite.T(), client)
}

func (suite *ClientServiceTestSuite) TestCreate_MissingFields() {
	client, err := suite.service.Create(context.Background(), &CreateClientRequest{Name: "No Email"})
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), client)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *ClientServiceTestSuite) TestUpdate_EmailChangeChecksUniqueness() {
	newEmail := "billing@acme.example"
	taken := &models.Client{ID: uuid.New(), Email: newEmail}

	suite.mockClientRepo.On("GetByID", mock.Anything, suite.client.ID).Return(suite.client, nil)
	suite.mockClientRepo.On("GetByEmail", mock.Anything, newEmail).Return(taken, nil)

	client, err := suite.service.Update(context.Background(), suite.client.ID, &UpdateClientRequest{Email: &newEmail})
	assert.ErrorIs(suite.T(), err, ErrDuplicateEmail)
	assert.Nil(suite.T(), client)
}

func (suite *ClientServiceTestSuite) TestDeactivate_UnknownClient() {
	id := uuid.New()
	suite.mockClientRepo.On("GetByID", mock.Anything, id).Return(nil, pgx.ErrNoRows)

	err := suite.service.Deactivate(context.Background(), id)
	assert.ErrorIs(suite.T(), err, ErrClientNotFound)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "Deactivate")
}

func (suite *ClientServiceTestSuite) TestPurge_RefusedWhenRemindersWereSent() {
	suite.mockClientRepo.On("GetByID", mock.Anything, suite.client.ID).Return(suite.client, nil)
	suite.mockClientRepo.On("HasSentReminders", mock.Anything, suite.client.ID).Return(true, nil)

	err := suite.service.Purge(context.Background(), suite.client.ID)
	assert.ErrorIs(suite.T(), err, ErrClientHasSentReminders)
	suite.mockClientRepo.AssertNotCalled(suite.T(), "DeleteCascade")
}

func (suite *ClientServiceTestSuite) TestPurge_CascadesWhenNothingSent() {
	suite.mockClientRepo.On("GetByID", mock.Anything, suite.client.ID).Return(suite.client, nil)
	suite.mockClientRepo.On("HasSentReminders", mock.Anything, suite.client.ID).Return(false, nil)
	suite.mockClientRepo.On("DeleteCascade", mock.Anything, suite.client.ID).Return(nil)

	err := suite.service.Purge(context.Background(), suite.client.ID)
	assert.NoError(suite.T(), err)
}
