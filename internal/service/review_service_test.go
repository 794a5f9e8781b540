package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"go-hradmin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	day time.Time
}

func (c fixedClock) Today() time.Time { return c.day }

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type fakeReviewRepo struct {
	rows        []model.PendingReviewRow
	alreadySent bool
	loggedDays  []time.Time
	exists      bool
	created     []*model.Review
}

func (f *fakeReviewRepo) Create(review *model.Review) error {
	f.created = append(f.created, review)
	return nil
}

func (f *fakeReviewRepo) ExistsForYearAndQuarter(*model.Review) (bool, error) {
	return f.exists, nil
}

func (f *fakeReviewRepo) GetReviews(uint) ([]model.EmployeeReviewItem, error) {
	return nil, nil
}

func (f *fakeReviewRepo) MarkAsRead(uint) error { return nil }

func (f *fakeReviewRepo) GetPendingEmployeesForReview(*uint, time.Time) ([]model.PendingReviewRow, error) {
	return f.rows, nil
}

func (f *fakeReviewRepo) GetPendingReviewsForReminder(time.Time) ([]model.PendingReviewRow, error) {
	return f.rows, nil
}

func (f *fakeReviewRepo) HasSentReminderOn(time.Time) (bool, error) {
	return f.alreadySent, nil
}

func (f *fakeReviewRepo) LogReminder(day time.Time) error {
	f.loggedDays = append(f.loggedDays, day)
	return nil
}

type fakeEmployeeRepo struct {
	department []model.Employee
}

func (f *fakeEmployeeRepo) FindByID(uint) (*model.Employee, error) { return nil, nil }

func (f *fakeEmployeeRepo) FindByEmail(string) (*model.Employee, error) { return nil, nil }

func (f *fakeEmployeeRepo) FindByDepartment(uint) ([]model.Employee, error) {
	return f.department, nil
}

func pendingRow(supID uint, supEmail string, empID uint, first, last string, outstanding bool) model.PendingReviewRow {
	return model.PendingReviewRow{
		Year:              2026,
		Quarter:           3,
		SupervisorID:      supID,
		SupervisorEmail:   supEmail,
		SupervisorName:    fmt.Sprintf("Supervisor %d", supID),
		EmployeeID:        empID,
		EmployeeFirstName: first,
		EmployeeLastName:  last,
		IsOutstanding:     outstanding,
	}
}

func newReviewTestService(repo *fakeReviewRepo, empRepo *fakeEmployeeRepo, sender *fakeSender, day time.Time) ReviewService {
	return NewReviewService(repo, empRepo, sender, fixedClock{day: day}, 2, quietLogger())
}

func TestSendReminderSkipsQuarterEndDays(t *testing.T) {
	for _, day := range []time.Time{
		date(2026, time.March, 31),
		date(2026, time.June, 30),
		date(2026, time.September, 30),
		date(2026, time.December, 31),
	} {
		repo := &fakeReviewRepo{rows: []model.PendingReviewRow{
			pendingRow(1, "sup@example.com", 10, "Ann", "Lee", false),
		}}
		sender := &fakeSender{}
		svc := newReviewTestService(repo, &fakeEmployeeRepo{}, sender, day)

		require.NoError(t, svc.SendReminder())
		assert.Empty(t, sender.sent, "expected no sends on %s", day.Format("Jan 2"))
		assert.Empty(t, repo.loggedDays)
	}
}

func TestSendReminderNotSkippedOnOtherMonthEnds(t *testing.T) {
	repo := &fakeReviewRepo{rows: []model.PendingReviewRow{
		pendingRow(1, "sup@example.com", 10, "Ann", "Lee", false),
	}}
	sender := &fakeSender{}
	svc := newReviewTestService(repo, &fakeEmployeeRepo{}, sender, date(2026, time.January, 31))

	require.NoError(t, svc.SendReminder())
	assert.Len(t, sender.sent, 1)
}

func TestSendReminderIdempotentPerDay(t *testing.T) {
	repo := &fakeReviewRepo{
		alreadySent: true,
		rows: []model.PendingReviewRow{
			pendingRow(1, "sup@example.com", 10, "Ann", "Lee", false),
		},
	}
	sender := &fakeSender{}
	svc := newReviewTestService(repo, &fakeEmployeeRepo{}, sender, date(2026, time.August, 10))

	require.NoError(t, svc.SendReminder())
	assert.Empty(t, sender.sent)
}

func TestSendReminderGroupsAndSortsPerSupervisor(t *testing.T) {
	repo := &fakeReviewRepo{rows: []model.PendingReviewRow{
		pendingRow(1, "sup1@example.com", 11, "Zoe", "Young", false),
		pendingRow(1, "sup1@example.com", 12, "Ann", "Baker", false),
		pendingRow(1, "sup1@example.com", 13, "Bob", "Baker", false),
		pendingRow(2, "sup2@example.com", 14, "Carl", "Mason", false),
	}}
	sender := &fakeSender{}
	svc := newReviewTestService(repo, &fakeEmployeeRepo{}, sender, date(2026, time.August, 10))

	require.NoError(t, svc.SendReminder())
	require.Len(t, sender.sent, 2)

	first := sender.sent[0]
	assert.Equal(t, []string{"sup1@example.com"}, first.To)
	assert.Equal(t, "Reminder: Pending Employee Reviews", first.Subject)
	body := first.Body
	assert.Contains(t, body, "Dear Supervisor,")
	posBaker := indexOf(t, body, "- Baker, Ann")
	posBakerB := indexOf(t, body, "- Baker, Bob")
	posYoung := indexOf(t, body, "- Young, Zoe")
	assert.Less(t, posBaker, posBakerB)
	assert.Less(t, posBakerB, posYoung)

	assert.Equal(t, []string{"sup2@example.com"}, sender.sent[1].To)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "missing %q", needle)
	return idx
}

func TestSendReminderDeduplicatesEmployeeAcrossQuarters(t *testing.T) {
	row1 := pendingRow(1, "sup@example.com", 10, "Ann", "Lee", true)
	row2 := pendingRow(1, "sup@example.com", 10, "Ann", "Lee", true)
	row2.Quarter = 1
	repo := &fakeReviewRepo{rows: []model.PendingReviewRow{row1, row2}}
	sender := &fakeSender{}
	svc := newReviewTestService(repo, &fakeEmployeeRepo{}, sender, date(2026, time.August, 10))

	require.NoError(t, svc.SendReminder())
	require.Len(t, sender.sent, 1)

	assert.Equal(t, 1, strings.Count(sender.sent[0].Body, "- Lee, Ann"))
}

func TestSendReminderOutstandingCopiesDepartmentExceptSupervisor(t *testing.T) {
	repo := &fakeReviewRepo{rows: []model.PendingReviewRow{
		pendingRow(1, "Sup@Example.com", 10, "Ann", "Lee", true),
	}}
	empRepo := &fakeEmployeeRepo{department: []model.Employee{
		{Email: "hr1@example.com"},
		{Email: "sup@example.com"},
		{Email: "hr2@example.com"},
	}}
	sender := &fakeSender{}
	svc := newReviewTestService(repo, empRepo, sender, date(2026, time.August, 10))

	require.NoError(t, svc.SendReminder())
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "Reminder: Outstanding Employee Reviews", msg.Subject)
	assert.Contains(t, msg.Body, "remain outstanding")
	assert.Equal(t, []string{"hr1@example.com", "hr2@example.com"}, msg.CC)
}

func TestSendReminderLogsDayAfterSending(t *testing.T) {
	repo := &fakeReviewRepo{rows: []model.PendingReviewRow{
		pendingRow(1, "sup@example.com", 10, "Ann", "Lee", false),
	}}
	svc := newReviewTestService(repo, &fakeEmployeeRepo{}, &fakeSender{}, date(2026, time.August, 10))

	require.NoError(t, svc.SendReminder())
	require.Len(t, repo.loggedDays, 1)
	assert.Equal(t, date(2026, time.August, 10), repo.loggedDays[0])
}

func TestSendReminderNothingPendingLogsNothing(t *testing.T) {
	repo := &fakeReviewRepo{}
	sender := &fakeSender{}
	svc := newReviewTestService(repo, &fakeEmployeeRepo{}, sender, date(2026, time.August, 10))

	require.NoError(t, svc.SendReminder())
	assert.Empty(t, sender.sent)
	assert.Empty(t, repo.loggedDays)
}

func TestSendReminderAllSendsFailLogsNothing(t *testing.T) {
	repo := &fakeReviewRepo{rows: []model.PendingReviewRow{
		pendingRow(1, "sup@example.com", 10, "Ann", "Lee", false),
	}}
	sender := &fakeSender{sendErr: fmt.Errorf("smtp unavailable")}
	svc := newReviewTestService(repo, &fakeEmployeeRepo{}, sender, date(2026, time.August, 10))

	require.NoError(t, svc.SendReminder())
	assert.Empty(t, repo.loggedDays)
}

func validReview() *model.Review {
	return &model.Review{
		EmployeeID:   10,
		SupervisorID: 1,
		Year:         2026,
		Quarter:      2,
		RatingID:     4,
		Comment:      "Consistently strong quarter.",
		ReviewDate:   date(2026, time.May, 15),
	}
}

func TestCreateReviewValid(t *testing.T) {
	repo := &fakeReviewRepo{}
	svc := newReviewTestService(repo, &fakeEmployeeRepo{}, &fakeSender{}, date(2026, time.August, 10))

	review, err := svc.Create(validReview())

	require.NoError(t, err)
	assert.Empty(t, review.Errors)
	assert.Len(t, repo.created, 1)
}

func TestCreateReviewDuplicateQuarter(t *testing.T) {
	repo := &fakeReviewRepo{exists: true}
	svc := newReviewTestService(repo, &fakeEmployeeRepo{}, &fakeSender{}, date(2026, time.August, 10))

	review, err := svc.Create(validReview())

	require.NoError(t, err)
	require.Len(t, review.Errors, 1)
	assert.Equal(t, model.ErrorTypeBusiness, review.Errors[0].Type)
	assert.Empty(t, repo.created)
}

func TestCreateReviewDateOutsideQuarter(t *testing.T) {
	repo := &fakeReviewRepo{}
	svc := newReviewTestService(repo, &fakeEmployeeRepo{}, &fakeSender{}, date(2026, time.August, 10))

	bad := validReview()
	bad.ReviewDate = date(2026, time.July, 2)

	review, err := svc.Create(bad)

	require.NoError(t, err)
	require.NotEmpty(t, review.Errors)
	assert.Equal(t, "ReviewDate", review.Errors[0].Field)
	assert.Empty(t, repo.created)
}

func TestCreateReviewFutureDateCurrentQuarter(t *testing.T) {
	repo := &fakeReviewRepo{}
	svc := newReviewTestService(repo, &fakeEmployeeRepo{}, &fakeSender{}, date(2026, time.August, 10))

	bad := validReview()
	bad.Quarter = 3
	bad.ReviewDate = date(2026, time.August, 20)

	review, err := svc.Create(bad)

	require.NoError(t, err)
	require.NotEmpty(t, review.Errors)
	assert.Empty(t, repo.created)
}

func TestCreateReviewInvalidQuarter(t *testing.T) {
	repo := &fakeReviewRepo{}
	svc := newReviewTestService(repo, &fakeEmployeeRepo{}, &fakeSender{}, date(2026, time.August, 10))

	bad := validReview()
	bad.Quarter = 5

	review, err := svc.Create(bad)

	require.NoError(t, err)
	assert.NotEmpty(t, review.Errors)
	assert.Empty(t, repo.created)
}

func TestGetPendingEmployeesGroupsByQuarter(t *testing.T) {
	old := pendingRow(1, "sup@example.com", 10, "Ann", "Lee", true)
	old.Year, old.Quarter = 2025, 4
	cur := pendingRow(1, "sup@example.com", 11, "Bob", "Kim", false)
	repo := &fakeReviewRepo{rows: []model.PendingReviewRow{old, cur}}
	svc := newReviewTestService(repo, &fakeEmployeeRepo{}, &fakeSender{}, date(2026, time.August, 10))

	groups, err := svc.GetPendingEmployeesForReview(nil)

	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, 2026, groups[0].Year)
	assert.Equal(t, 3, groups[0].Quarter)
	assert.Equal(t, 2025, groups[1].Year)
	assert.Equal(t, 4, groups[1].Quarter)
	require.Len(t, groups[0].Employees, 1)
	assert.Equal(t, "Kim", groups[0].Employees[0].LastName)
}
