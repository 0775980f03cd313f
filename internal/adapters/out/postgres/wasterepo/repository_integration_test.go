package wasterepo_test

import (
	"context"
	"testing"
	"time"

	"wastetrack/internal/adapters/out/postgres/wasterepo"
	"wastetrack/internal/core/domain/model/kernel"
	"wastetrack/internal/core/domain/model/waste"
	"wastetrack/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// WasteRepositoryIntegrationTestSuite provides integration tests for WasteRepository
// using PostgreSQL containers to verify database persistence behavior.
type WasteRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *wasterepo.GormWasteRepository
	tracker    *MockAggregateTracker
}

func (suite *WasteRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&wasterepo.WasteRecordDTO{}))
}

func (suite *WasteRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE waste_records").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = wasterepo.NewGormWasteRepository(suite.db, suite.tracker)
}

func (suite *WasteRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *WasteRepositoryIntegrationTestSuite) TestAdd_ValidRecord_Success() {
	ctx := context.Background()

	record := suite.createTestRecord("WL-001")
	suite.tracker.On("TrackAggregate", record.ID(), record).Once()

	err := suite.repository.Add(ctx, record)
	suite.Require().NoError(err)

	suite.assertRecordCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WasteRepositoryIntegrationTestSuite) TestGet_ExistingRecord_RoundTripsAllFields() {
	ctx := context.Background()

	record := suite.createTestRecord("WL-002")
	suite.tracker.On("TrackAggregate", record.ID(), record).Once()
	suite.Require().NoError(suite.repository.Add(ctx, record))

	retrieved, err := suite.repository.Get(ctx, record.ID())
	suite.Require().NoError(err)

	suite.Equal(record.ID(), retrieved.ID())
	suite.Equal("WL-002", retrieved.Code())
	suite.Equal(record.MaterialClassID(), retrieved.MaterialClassID())
	suite.True(record.Quantity().IsEqual(retrieved.Quantity()))
	suite.Equal(waste.Kilogram, retrieved.Unit())
	suite.Equal(waste.Generated, retrieved.Status())
	suite.Equal(record.GeneratorID(), retrieved.GeneratorID())
	suite.Equal(record.CurrentOwnerID(), retrieved.CurrentOwnerID())
	suite.Equal(record.CurrentLocationID(), retrieved.CurrentLocationID())
	suite.Equal(record.CurrentFacilityID(), retrieved.CurrentFacilityID())
	suite.False(retrieved.IsHazardous())
	suite.False(retrieved.IsAvailableForSale())
	suite.Nil(retrieved.SourceWasteID())
	suite.Nil(retrieved.OriginOperationID())
	suite.Equal(1, retrieved.Version())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WasteRepositoryIntegrationTestSuite) TestGet_NonExistentRecord_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WasteRepositoryIntegrationTestSuite) TestUpdate_LifecycleTransition_PersistsAndBumpsVersion() {
	ctx := context.Background()

	record := suite.createTestRecord("WL-003")
	suite.tracker.On("TrackAggregate", record.ID(), record).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, record))

	suite.Require().NoError(record.Collect())
	suite.Require().NoError(suite.repository.Update(ctx, record))

	retrieved, err := suite.repository.Get(ctx, record.ID())
	suite.Require().NoError(err)
	suite.Equal(waste.InTransit, retrieved.Status())
	suite.Equal(2, retrieved.Version())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WasteRepositoryIntegrationTestSuite) TestUpdate_StaleVersion_ReturnsConcurrencyConflict() {
	ctx := context.Background()

	record := suite.createTestRecord("WL-004")
	suite.tracker.On("TrackAggregate", record.ID(), mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, record))

	// Two readers load the same version and race to update.
	first, err := suite.repository.Get(ctx, record.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, record.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.Collect())
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.Collect())
	err = suite.repository.Update(ctx, second)
	suite.Require().Error(err)

	var conflictErr *errs.ConcurrencyConflictError
	suite.Require().ErrorAs(err, &conflictErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WasteRepositoryIntegrationTestSuite) TestUpdate_NonExistentRecord_ReturnsConcurrencyConflict() {
	ctx := context.Background()

	record := suite.createTestRecord("WL-005")
	err := suite.repository.Update(ctx, record)

	suite.Require().Error(err)

	var conflictErr *errs.ConcurrencyConflictError
	suite.Require().ErrorAs(err, &conflictErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WasteRepositoryIntegrationTestSuite) TestGetAllListedForSale_ReturnsOnlyListedRecords() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(4)

	listed := suite.createStoredRecord("WL-101")
	suite.Require().NoError(listed.ListForSale(decimal.NewFromInt(250)))
	suite.Require().NoError(suite.repository.Add(ctx, listed))

	alsoListed := suite.createStoredRecord("WL-100")
	suite.Require().NoError(alsoListed.ListForSale(decimal.NewFromInt(90)))
	suite.Require().NoError(suite.repository.Add(ctx, alsoListed))

	unlisted := suite.createStoredRecord("WL-102")
	suite.Require().NoError(suite.repository.Add(ctx, unlisted))

	generated := suite.createTestRecord("WL-103")
	suite.Require().NoError(suite.repository.Add(ctx, generated))

	listings, err := suite.repository.GetAllListedForSale(ctx)
	suite.Require().NoError(err)

	suite.Require().Len(listings, 2)
	suite.Equal("WL-100", listings[0].Code())
	suite.Equal("WL-101", listings[1].Code())
	suite.True(listings[1].ListPrice().Equal(decimal.NewFromInt(250)))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *WasteRepositoryIntegrationTestSuite) TestGetDescendants_ReturnsDerivedRecords() {
	ctx := context.Background()

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)

	source := suite.createStoredRecord("WL-200")
	suite.Require().NoError(suite.repository.Add(ctx, source))

	operationID := kernel.NewUUID()
	for i, code := range []string{"WL-200-A", "WL-200-B"} {
		quantity, err := kernel.NewQuantityFromString("25")
		suite.Require().NoError(err)

		derived, err := waste.NewDerivedRecord(
			kernel.NewUUID(),
			code,
			kernel.NewUUID(),
			quantity,
			waste.Kilogram,
			source,
			operationID,
			i == 0,
			time.Now().UTC(),
		)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repository.Add(ctx, derived))
	}

	descendants, err := suite.repository.GetDescendants(ctx, source.ID())
	suite.Require().NoError(err)

	suite.Require().Len(descendants, 2)
	suite.Equal("WL-200-A", descendants[0].Code())
	suite.Equal("WL-200-B", descendants[1].Code())
	for _, descendant := range descendants {
		suite.Require().NotNil(descendant.SourceWasteID())
		suite.Equal(source.ID(), *descendant.SourceWasteID())
		suite.Require().NotNil(descendant.OriginOperationID())
		suite.Equal(operationID, *descendant.OriginOperationID())
	}

	suite.tracker.AssertExpectations(suite.T())
}

// createTestRecord creates a freshly generated lot with default values.
func (suite *WasteRepositoryIntegrationTestSuite) createTestRecord(code string) *waste.WasteRecord {
	quantity, err := kernel.NewQuantityFromString("50")
	suite.Require().NoError(err)

	record, err := waste.NewWasteRecord(
		kernel.NewUUID(),
		code,
		kernel.NewUUID(),
		quantity,
		waste.Kilogram,
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		false,
		time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return record
}

// createStoredRecord creates a lot walked through collection and reception
// so it sits in Stored status.
func (suite *WasteRepositoryIntegrationTestSuite) createStoredRecord(code string) *waste.WasteRecord {
	record := suite.createTestRecord(code)
	suite.Require().NoError(record.Collect())
	suite.Require().NoError(record.Receive(kernel.NewUUID(), kernel.NewUUID()))
	return record
}

// assertRecordCount verifies the number of records in the database.
func (suite *WasteRepositoryIntegrationTestSuite) assertRecordCount(expected int) {
	var count int64
	err := suite.db.Model(&wasterepo.WasteRecordDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestWasteRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(WasteRepositoryIntegrationTestSuite))
}
