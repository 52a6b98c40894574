package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"market/constants"
	"market/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// fixedClock is a settable clock for services.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *fixedClock { return &fixedClock{t: t} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func createUser(t *testing.T, db *gorm.DB, role int, name string) models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@example.com", Role: role, Status: constants.UserStatusActive}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func createService(t *testing.T, db *gorm.DB, provider models.User, name string) models.Service {
	t.Helper()
	s := models.Service{
		ProviderID: provider.ID,
		Name:       name,
		Slug:       Slugify(name),
		Category:   "beauty",
		Price:      decimal.NewFromInt(200),
		Duration:   60,
		Status:     constants.ServiceStatusPublished,
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

// createDiscount opens the interest window one day before testNow and
// closes it two days after.
func createDiscount(t *testing.T, db *gorm.DB, svc models.Service, required int) models.Discount {
	t.Helper()
	d := models.Discount{
		ServiceID:             svc.ID,
		ProviderID:            svc.ProviderID,
		Name:                  "Group deal",
		Percentage:            20,
		RequiredInterestCount: required,
		InterestFromDate:      testNow.AddDate(0, 0, -1),
		InterestToDate:        testNow.AddDate(0, 0, 2),
		DiscountStartDate:     testNow.AddDate(0, 0, 3),
		DiscountEndDate:       testNow.AddDate(0, 0, 10),
	}
	require.NoError(t, db.Create(&d).Error)
	return d
}

// fakeNotifier records mails and fails for the addresses in failFor.
type fakeNotifier struct {
	mu      sync.Mutex
	calls   map[string][]string
	codes   map[string]string
	failFor map[string]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: map[string][]string{}, codes: map[string]string{}, failFor: map[string]bool{}}
}

func (n *fakeNotifier) record(kind, email string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failFor[email] {
		return fmt.Errorf("smtp refused %s", email)
	}
	n.calls[kind] = append(n.calls[kind], email)
	return nil
}

func (n *fakeNotifier) count(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls[kind])
}

func (n *fakeNotifier) setFail(email string, fail bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failFor[email] = fail
}

func (n *fakeNotifier) InterestConfirmed(_ context.Context, c models.User, _ models.Discount) error {
	return n.record("interest", c.Email)
}

func (n *fakeNotifier) GoalReachedCustomer(_ context.Context, c models.User, _ models.Discount, code string) error {
	if err := n.record("goal_customer", c.Email); err != nil {
		return err
	}
	n.mu.Lock()
	n.codes[c.Email] = code
	n.mu.Unlock()
	return nil
}

func (n *fakeNotifier) GoalReachedProvider(_ context.Context, p models.User, _ models.Discount, _ int) error {
	return n.record("goal_provider", p.Email)
}

func (n *fakeNotifier) DiscountCancelled(_ context.Context, c models.User, _ models.Discount) error {
	return n.record("cancelled", c.Email)
}

func (n *fakeNotifier) BookingApproved(_ context.Context, c models.User, _ string, _ time.Time, _ string) error {
	return n.record("booking_approved", c.Email)
}

func (n *fakeNotifier) SlotSuggested(_ context.Context, c models.User, _ string, _ time.Time, _ string) error {
	return n.record("slot_suggested", c.Email)
}
