package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"relancer/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReminderPlannerTestSuite struct {
	suite.Suite
	mockSequenceRepo *MockSequenceRepository
	mockReminderRepo *MockReminderRepository
	planner          ReminderPlanner
	invoice          *models.Invoice
}

func (suite *ReminderPlannerTestSuite) SetupTest() {
	suite.mockSequenceRepo = &MockSequenceRepository{}
	suite.mockReminderRepo = &MockReminderRepository{}
	suite.planner = NewReminderPlanner(NewSequenceService(suite.mockSequenceRepo, nil), suite.mockReminderRepo)
	suite.invoice = &models.Invoice{
		ID:            uuid.New(),
		ClientID:      uuid.New(),
		InvoiceNumber: "INV-2024-001",
		Amount:        decimal.NewFromFloat(1500.00),
		Currency:      "EUR",
		IssueDate:     time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:        models.InvoiceStatusPending,
	}
}

func (suite *ReminderPlannerTestSuite) TearDownTest() {
	suite.mockSequenceRepo.AssertExpectations(suite.T())
	suite.mockReminderRepo.AssertExpectations(suite.T())
}

func TestReminderPlannerTestSuite(t *testing.T) {
	suite.Run(t, new(ReminderPlannerTestSuite))
}

func fourStepSequence() *models.ReminderSequence {
	sequence := &models.ReminderSequence{
		ID:        uuid.New(),
		Name:      "Standard Sequence",
		IsDefault: true,
		IsActive:  true,
	}
	for i, days := range []int{1, 7, 15, 30} {
		sequence.Steps = append(sequence.Steps, &models.ReminderStep{
			ID:              uuid.New(),
			SequenceID:      sequence.ID,
			StepNumber:      i + 1,
			DaysAfterDue:    days,
			SubjectTemplate: "Reminder {invoice_number}",
			BodyTemplate:    "Hello {client_name}",
		})
	}
	return sequence
}

func (suite *ReminderPlannerTestSuite) TestPlanForInvoice_OneReminderPerStep() {
	sequence := fourStepSequence()
	suite.mockSequenceRepo.On("GetDefault", mock.Anything).Return(sequence, nil)
	suite.mockReminderRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Reminder")).Return(nil).Times(4)

	reminders, err := suite.planner.PlanForInvoice(context.Background(), suite.invoice)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), reminders, 4)

	expectedDates := []time.Time{
		time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 22, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 14, 0, 0, 0, 0, time.UTC),
	}
	for i, reminder := range reminders {
		assert.Equal(suite.T(), suite.invoice.ID, reminder.InvoiceID)
		assert.Equal(suite.T(), sequence.ID, reminder.SequenceID)
		assert.Equal(suite.T(), i+1, reminder.StepNumber)
		assert.Equal(suite.T(), expectedDates[i], reminder.ScheduledDate)
		assert.Equal(suite.T(), models.ReminderStatusPending, reminder.Status)
	}
}

func (suite *ReminderPlannerTestSuite) TestPlanForInvoice_NoDefaultSequencePlansNothing() {
	suite.mockSequenceRepo.On("GetDefault", mock.Anything).Return(nil, nil)

	reminders, err := suite.planner.PlanForInvoice(context.Background(), suite.invoice)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), reminders)
	suite.mockReminderRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *ReminderPlannerTestSuite) TestPlanForInvoice_EmptySequencePlansNothing() {
	sequence := &models.ReminderSequence{ID: uuid.New(), Name: "Empty", IsDefault: true, IsActive: true}
	suite.mockSequenceRepo.On("GetDefault", mock.Anything).Return(sequence, nil)

	reminders, err := suite.planner.PlanForInvoice(context.Background(), suite.invoice)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), reminders)
	suite.mockReminderRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *ReminderPlannerTestSuite) TestPlanForInvoice_CreateFailureStopsPlanning() {
	sequence := fourStepSequence()
	suite.mockSequenceRepo.On("GetDefault", mock.Anything).Return(sequence, nil)
	suite.mockReminderRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Reminder")).Return(nil).Once()
	suite.mockReminderRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Reminder")).Return(errors.New("insert failed")).Once()

	reminders, err := suite.planner.PlanForInvoice(context.Background(), suite.invoice)
	assert.Error(suite.T(), err)
	assert.Len(suite.T(), reminders, 1)
}
