package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/app/models/dto"
	"github.com/tmusoke/shulepoint/internal/pkg/apperrors"
)

// fakeStore is an in-memory stand-in for every repository view the fee
// engine reads. A single instance backs all seven interfaces.
type fakeStore struct {
	schoolID int64

	terms      map[int64]*models.Term
	firstTerms map[int64]*models.Term // academicYearID -> first term
	classes    map[int64]*models.Class
	students   map[int64]*models.Student

	enrollments map[int64]*models.StudentAcademicEnrollment // studentID -> open enrollment
	assignments map[int64]*models.StudentClassHistory       // studentID -> current assignment
	clubLinks   map[int64][]int64                           // studentID -> club activity ids

	termScoped map[int64][]*models.FeeStructure // classID -> junction rows, newest first
	yearScoped map[int64]*models.FeeStructure
	legacy     map[int64]*models.FeeStructure
	lineItems  map[int64][]*models.FeeLineItem // feeStructureID -> items
	classLinks [][2]int64                      // backfilled (feeStructureID, classID) pairs

	clubs  map[int64]*models.ClubActivity
	routes map[int64]*models.TransportRoute

	discounts   []*models.GlobalDiscount
	adjustments []*models.FeeAdjustment

	satisfied map[string]bool // studentID/lineItemID/yearID
	upserts   []upsertRecord
}

type upsertRecord struct {
	studentID int64
	termID    int64
	amount    decimal.Decimal
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		schoolID:    1,
		terms:       make(map[int64]*models.Term),
		firstTerms:  make(map[int64]*models.Term),
		classes:     make(map[int64]*models.Class),
		students:    make(map[int64]*models.Student),
		enrollments: make(map[int64]*models.StudentAcademicEnrollment),
		assignments: make(map[int64]*models.StudentClassHistory),
		clubLinks:   make(map[int64][]int64),
		termScoped:  make(map[int64][]*models.FeeStructure),
		yearScoped:  make(map[int64]*models.FeeStructure),
		legacy:      make(map[int64]*models.FeeStructure),
		lineItems:   make(map[int64][]*models.FeeLineItem),
		clubs:       make(map[int64]*models.ClubActivity),
		routes:      make(map[int64]*models.TransportRoute),
		satisfied:   make(map[string]bool),
	}
}

func satisfiedKey(studentID, lineItemID, yearID int64) string {
	return fmt.Sprintf("%d/%d/%d", studentID, lineItemID, yearID)
}

// academicReader

func (f *fakeStore) GetTermByID(_ context.Context, schoolID, id int64) (*models.Term, error) {
	term, ok := f.terms[id]
	if !ok || schoolID != f.schoolID {
		return nil, apperrors.ErrTermNotFound
	}
	return term, nil
}

func (f *fakeStore) GetFirstTermOfYear(_ context.Context, academicYearID int64) (*models.Term, error) {
	term, ok := f.firstTerms[academicYearID]
	if !ok {
		return nil, apperrors.ErrTermNotFound
	}
	return term, nil
}

func (f *fakeStore) GetClassByID(_ context.Context, schoolID, id int64) (*models.Class, error) {
	class, ok := f.classes[id]
	if !ok || schoolID != f.schoolID {
		return nil, apperrors.ErrClassNotFound
	}
	return class, nil
}

// studentReader

func (f *fakeStore) GetByID(_ context.Context, schoolID, id int64) (*models.Student, error) {
	student, ok := f.students[id]
	if !ok || schoolID != f.schoolID {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (f *fakeStore) GetOpenEnrollment(_ context.Context, studentID, academicYearID int64) (*models.StudentAcademicEnrollment, error) {
	enrollment, ok := f.enrollments[studentID]
	if !ok || enrollment.AcademicYearID != academicYearID {
		return nil, nil
	}
	return enrollment, nil
}

func (f *fakeStore) GetCurrentClassAssignment(_ context.Context, studentID int64) (*models.StudentClassHistory, error) {
	return f.assignments[studentID], nil
}

func (f *fakeStore) GetClubActivityIDs(_ context.Context, studentID, termID int64) ([]int64, error) {
	var ids []int64
	for _, id := range f.clubLinks[studentID] {
		if activity, ok := f.clubs[id]; ok && activity.TermID == termID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// structureFinder

func (f *fakeStore) FindTermScoped(_ context.Context, schoolID, classID, termID int64) (*models.FeeStructure, error) {
	if schoolID != f.schoolID {
		return nil, nil
	}
	for _, fs := range f.termScoped[classID] {
		if fs.StructureScope == models.ScopeTerm && fs.TermID != nil && *fs.TermID == termID {
			return fs, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindYearScoped(_ context.Context, schoolID, classID, academicYearID, termID int64) (*models.FeeStructure, error) {
	fs := f.yearScoped[classID]
	if fs == nil || schoolID != f.schoolID || fs.AcademicYearID != academicYearID {
		return nil, nil
	}
	return fs, nil
}

func (f *fakeStore) FindLegacyByClassColumn(_ context.Context, schoolID, classID, termID int64) (*models.FeeStructure, error) {
	fs := f.legacy[classID]
	if fs == nil || schoolID != f.schoolID {
		return nil, nil
	}
	return fs, nil
}

func (f *fakeStore) InsertClassLink(_ context.Context, feeStructureID, classID int64) error {
	f.classLinks = append(f.classLinks, [2]int64{feeStructureID, classID})
	return nil
}

func (f *fakeStore) GetLineItems(_ context.Context, feeStructureID int64) ([]*models.FeeLineItem, error) {
	return f.lineItems[feeStructureID], nil
}

// clubReader

func (f *fakeStore) GetByIDs(_ context.Context, schoolID int64, ids []int64) ([]*models.ClubActivity, error) {
	var out []*models.ClubActivity
	for _, id := range ids {
		if activity, ok := f.clubs[id]; ok && activity.SchoolID == schoolID {
			out = append(out, activity)
		}
	}
	return out, nil
}

// transportReader

func (f *fakeStore) GetRouteByID(_ context.Context, schoolID, id int64) (*models.TransportRoute, error) {
	route, ok := f.routes[id]
	if !ok || route.SchoolID != schoolID {
		return nil, apperrors.ErrTransportRouteNotFound
	}
	return route, nil
}

// reductionReader

func (f *fakeStore) GetActiveByTerm(_ context.Context, schoolID, termID int64) ([]*models.GlobalDiscount, error) {
	var out []*models.GlobalDiscount
	for _, d := range f.discounts {
		if d.SchoolID == schoolID && d.TermID == termID && d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAdjustmentsByStudentAndTerm(_ context.Context, schoolID, studentID, termID int64) ([]*models.FeeAdjustment, error) {
	var out []*models.FeeAdjustment
	for _, a := range f.adjustments {
		if a.SchoolID == schoolID && a.StudentID == studentID && a.TermID == termID {
			out = append(out, a)
		}
	}
	return out, nil
}

// feeWriter

func (f *fakeStore) UpsertExpected(_ context.Context, studentID, termID int64, expectedAmount decimal.Decimal) error {
	f.upserts = append(f.upserts, upsertRecord{studentID: studentID, termID: termID, amount: expectedAmount})
	return nil
}

func (f *fakeStore) IsOneOffSatisfied(_ context.Context, studentID, feeLineItemID, academicYearID int64) (bool, error) {
	return f.satisfied[satisfiedKey(studentID, feeLineItemID, academicYearID)], nil
}

// routeView adapts fakeStore's GetRouteByID to the transport reader's
// GetByID without colliding with the student reader's GetByID.
type routeView struct{ f *fakeStore }

func (v routeView) GetByID(ctx context.Context, schoolID, id int64) (*models.TransportRoute, error) {
	return v.f.GetRouteByID(ctx, schoolID, id)
}

func newEngine(f *fakeStore) FeeCalculationService {
	return NewFeeCalculationService(f, f, f, f, routeView{f}, f, f)
}

const (
	testSchool  = int64(1)
	testYear    = int64(10)
	testTerm1   = int64(101)
	testTerm2   = int64(102)
	testTerm3   = int64(103)
	testCampus  = int64(301)
	testClass   = int64(201)
	testStudent = int64(401)
)

func date(month time.Month, day int) time.Time {
	return time.Date(2026, month, day, 0, 0, 0, 0, time.UTC)
}

// standardWorld builds a school with one year of three terms, one class and
// one active student enrolled since term 1.
func standardWorld() *fakeStore {
	f := newFakeStore()

	t1 := &models.Term{ID: testTerm1, AcademicYearID: testYear, Name: "Term 1", StartDate: date(time.February, 1), EndDate: date(time.April, 30)}
	t2 := &models.Term{ID: testTerm2, AcademicYearID: testYear, Name: "Term 2", StartDate: date(time.May, 15), EndDate: date(time.August, 15)}
	t3 := &models.Term{ID: testTerm3, AcademicYearID: testYear, Name: "Term 3", StartDate: date(time.September, 1), EndDate: date(time.November, 30)}
	f.terms[testTerm1] = t1
	f.terms[testTerm2] = t2
	f.terms[testTerm3] = t3
	f.firstTerms[testYear] = t1

	f.classes[testClass] = &models.Class{ID: testClass, CampusID: testCampus, AcademicYearID: testYear, Name: "P5 East"}
	f.students[testStudent] = &models.Student{ID: testStudent, SchoolID: testSchool, CampusID: testCampus, FirstName: "Amina", LastName: "Okello", Status: models.StudentActive}
	f.enrollments[testStudent] = &models.StudentAcademicEnrollment{ID: 1, StudentID: testStudent, AcademicYearID: testYear, TermID: testTerm1, StartDate: t1.StartDate}

	return f
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func baseInput(termID int64) ComputeFeeInput {
	return ComputeFeeInput{
		SchoolID:  testSchool,
		StudentID: testStudent,
		ClassID:   testClass,
		TermID:    termID,
	}
}

func termStructure(f *fakeStore, termID int64, items ...*models.FeeLineItem) *models.FeeStructure {
	fs := &models.FeeStructure{
		ID:             900,
		SchoolID:       testSchool,
		CampusID:       testCampus,
		AcademicYearID: testYear,
		TermID:         &termID,
		StructureName:  "Standard",
		StructureScope: models.ScopeTerm,
		Version:        1,
		Status:         models.StructureActive,
	}
	f.termScoped[testClass] = append([]*models.FeeStructure{fs}, f.termScoped[testClass]...)
	f.lineItems[fs.ID] = items
	return fs
}

func TestComputeFee_TermlyLineItems(t *testing.T) {
	f := standardWorld()
	termStructure(f, testTerm2,
		&models.FeeLineItem{ID: 1, ItemName: "Tuition", Amount: money("500000")},
		&models.FeeLineItem{ID: 2, ItemName: "Lunch", Amount: money("150000")},
	)

	total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm2))
	require.NoError(t, err)
	require.True(t, total.Equal(money("650000")), "got %s", total)

	require.Len(t, f.upserts, 1)
	require.Equal(t, testStudent, f.upserts[0].studentID)
	require.Equal(t, testTerm2, f.upserts[0].termID)
	require.True(t, f.upserts[0].amount.Equal(money("650000")))
}

func TestComputeFee_TermlyBeforeEnrollmentTermNotCharged(t *testing.T) {
	f := standardWorld()
	// Student joined in term 2; term 1 predates the enrollment.
	f.enrollments[testStudent].TermID = testTerm2
	f.enrollments[testStudent].StartDate = f.terms[testTerm2].StartDate
	termStructure(f, testTerm1, &models.FeeLineItem{ID: 1, ItemName: "Tuition", Amount: money("500000")})

	total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm1))
	require.NoError(t, err)
	require.True(t, total.IsZero(), "got %s", total)
}

func TestComputeFee_NoEnrollmentDefaultsToCharged(t *testing.T) {
	f := standardWorld()
	delete(f.enrollments, testStudent)
	termStructure(f, testTerm2, &models.FeeLineItem{ID: 1, ItemName: "Tuition", Amount: money("500000")})

	total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm2))
	require.NoError(t, err)
	require.True(t, total.Equal(money("500000")))
}

func TestComputeFee_OneOffChargedOnlyForNewStudents(t *testing.T) {
	admission := &models.FeeLineItem{ID: 7, ItemName: "Admission", Amount: money("75000"), IsOneOff: true}

	t.Run("new student in enrollment term", func(t *testing.T) {
		f := standardWorld()
		termStructure(f, testTerm1, admission)

		total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm1))
		require.NoError(t, err)
		require.True(t, total.Equal(money("75000")))
	})

	t.Run("returning student later term", func(t *testing.T) {
		f := standardWorld()
		termStructure(f, testTerm2, admission)

		total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm2))
		require.NoError(t, err)
		require.True(t, total.IsZero())
	})

	t.Run("already satisfied", func(t *testing.T) {
		f := standardWorld()
		termStructure(f, testTerm1, admission)
		f.satisfied[satisfiedKey(testStudent, admission.ID, testYear)] = true

		total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm1))
		require.NoError(t, err)
		require.True(t, total.IsZero())
	})
}

func TestComputeFee_AnnualChargeTerm(t *testing.T) {
	development := &models.FeeLineItem{ID: 8, ItemName: "Development", Amount: money("120000"), IsAnnual: true}

	t.Run("returning student charged in first term of year", func(t *testing.T) {
		f := standardWorld()
		termStructure(f, testTerm1, development)

		total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm1))
		require.NoError(t, err)
		require.True(t, total.Equal(money("120000")))
	})

	t.Run("returning student not charged in later term", func(t *testing.T) {
		f := standardWorld()
		termStructure(f, testTerm2, development)

		total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm2))
		require.NoError(t, err)
		require.True(t, total.IsZero())
	})

	t.Run("mid-year joiner charged in enrollment term", func(t *testing.T) {
		f := standardWorld()
		f.enrollments[testStudent].TermID = testTerm2
		f.enrollments[testStudent].StartDate = f.terms[testTerm2].StartDate
		termStructure(f, testTerm2, development)

		total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm2))
		require.NoError(t, err)
		require.True(t, total.Equal(money("120000")))
	})

	t.Run("satisfied in year never charged again", func(t *testing.T) {
		f := standardWorld()
		termStructure(f, testTerm1, development)
		f.satisfied[satisfiedKey(testStudent, development.ID, testYear)] = true

		total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm1))
		require.NoError(t, err)
		require.True(t, total.IsZero())
	})
}

func TestComputeFee_FlagConflictChargesOnceAsOneOff(t *testing.T) {
	dirty := &models.FeeLineItem{ID: 9, ItemName: "Caution", Amount: money("50000"), IsOneOff: true, IsAnnual: true}

	f := standardWorld()
	termStructure(f, testTerm1, dirty)

	total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm1))
	require.NoError(t, err)
	require.True(t, total.Equal(money("50000")))

	// Returning students hit the one-off rule, not the annual one.
	f2 := standardWorld()
	termStructure(f2, testTerm2, dirty)

	total, err = newEngine(f2).ComputeFee(context.Background(), baseInput(testTerm2))
	require.NoError(t, err)
	require.True(t, total.IsZero())
}

func TestComputeFee_NoStructureYieldsZero(t *testing.T) {
	f := standardWorld()

	total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm2))
	require.NoError(t, err)
	require.True(t, total.IsZero())

	// The zero is still reconciled into the fee record.
	require.Len(t, f.upserts, 1)
	require.True(t, f.upserts[0].amount.IsZero())
}

func TestComputeFee_EmptyStructureFallsBackToBaseFee(t *testing.T) {
	f := standardWorld()
	fs := termStructure(f, testTerm2)
	fs.BaseFee = money("300000")

	total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm2))
	require.NoError(t, err)
	require.True(t, total.Equal(money("300000")))
}

func TestComputeFee_ClubCharges(t *testing.T) {
	f := standardWorld()
	f.clubs[601] = &models.ClubActivity{ID: 601, SchoolID: testSchool, ServiceName: "Chess", ActivityType: models.ActivityClub, CostPerTerm: money("20000"), AcademicYearID: testYear, TermID: testTerm2}
	f.clubs[602] = &models.ClubActivity{ID: 602, SchoolID: testSchool, ServiceName: "Swimming", ActivityType: models.ActivityExtraCurricular, CostPerTerm: money("45000"), AcademicYearID: testYear, TermID: testTerm1}

	input := baseInput(testTerm2)
	// 601 twice to exercise dedupe; 602 belongs to another term and adds
	// nothing.
	input.ClubActivityIDs = []int64{601, 601, 602}

	total, err := newEngine(f).ComputeFee(context.Background(), input)
	require.NoError(t, err)
	require.True(t, total.Equal(money("20000")), "got %s", total)
}

func TestComputeFee_UnknownClubRejected(t *testing.T) {
	f := standardWorld()
	input := baseInput(testTerm2)
	input.ClubActivityIDs = []int64{999}

	_, err := newEngine(f).ComputeFee(context.Background(), input)
	require.ErrorIs(t, err, apperrors.ErrClubActivityNotFound)
	require.Empty(t, f.upserts)
}

func TestComputeFee_TransportCharges(t *testing.T) {
	routeID := int64(701)

	cases := []struct {
		name          string
		transportType *models.TransportType
		want          string
	}{
		{"one way", transportTypePtr(models.TransportOneWay), "60000"},
		{"two way", transportTypePtr(models.TransportTwoWay), "100000"},
		{"unset defaults to two way", nil, "100000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := standardWorld()
			f.routes[routeID] = &models.TransportRoute{
				ID:                routeID,
				SchoolID:          testSchool,
				RouteName:         "Ntinda",
				OneWayCostPerTerm: money("60000"),
				TwoWayCostPerTerm: money("100000"),
			}
			f.students[testStudent].TransportType = tc.transportType

			input := baseInput(testTerm2)
			input.TransportRouteID = &routeID

			total, err := newEngine(f).ComputeFee(context.Background(), input)
			require.NoError(t, err)
			require.True(t, total.Equal(money(tc.want)), "got %s", total)
		})
	}
}

func transportTypePtr(t models.TransportType) *models.TransportType {
	return &t
}

func TestComputeFee_ReductionsSequentialWithZeroFloor(t *testing.T) {
	f := standardWorld()
	termStructure(f, testTerm2, &models.FeeLineItem{ID: 1, ItemName: "Tuition", Amount: money("1000")})

	f.discounts = append(f.discounts, &models.GlobalDiscount{
		ID: 1, SchoolID: testSchool, TermID: testTerm2,
		Name: "Covid relief", DiscountType: models.AmountPercentage,
		DiscountValue: money("10"), AppliesTo: models.DiscountAllStudents, IsActive: true,
	})
	f.adjustments = append(f.adjustments, &models.FeeAdjustment{
		ID: 1, SchoolID: testSchool, StudentID: testStudent, TermID: testTerm2,
		AdjustmentType: models.AmountFixed, AdjustmentValue: money("400"),
		Reason: "bursary",
	})

	input := baseInput(testTerm2)
	input.IncludeDiscounts = true
	input.IncludeAdjustments = true

	// 1000 -> 900 after 10%, -> 500 after the fixed 400.
	total, err := newEngine(f).ComputeFee(context.Background(), input)
	require.NoError(t, err)
	require.True(t, total.Equal(money("500")), "got %s", total)

	// A second oversized adjustment floors the total at zero.
	f.adjustments = append(f.adjustments, &models.FeeAdjustment{
		ID: 2, SchoolID: testSchool, StudentID: testStudent, TermID: testTerm2,
		AdjustmentType: models.AmountFixed, AdjustmentValue: money("9999"),
		Reason: "full waiver",
	})

	total, err = newEngine(f).ComputeFee(context.Background(), input)
	require.NoError(t, err)
	require.True(t, total.IsZero())
}

func TestComputeFee_DiscountScopeFiltering(t *testing.T) {
	f := standardWorld()
	termStructure(f, testTerm2, &models.FeeLineItem{ID: 1, ItemName: "Tuition", Amount: money("1000")})

	f.discounts = append(f.discounts,
		&models.GlobalDiscount{
			ID: 1, SchoolID: testSchool, TermID: testTerm2,
			Name: "Other campus only", DiscountType: models.AmountFixed, DiscountValue: money("500"),
			AppliesTo: models.DiscountSelectedCampuses, IsActive: true, CampusIDs: []int64{999},
		},
		&models.GlobalDiscount{
			ID: 2, SchoolID: testSchool, TermID: testTerm2,
			Name: "This class", DiscountType: models.AmountFixed, DiscountValue: money("100"),
			AppliesTo: models.DiscountSelectedClasses, IsActive: true, ClassIDs: []int64{testClass},
		},
		&models.GlobalDiscount{
			ID: 3, SchoolID: testSchool, TermID: testTerm2,
			Name: "Inactive", DiscountType: models.AmountFixed, DiscountValue: money("100"),
			AppliesTo: models.DiscountAllStudents, IsActive: false,
		},
	)

	input := baseInput(testTerm2)
	input.IncludeDiscounts = true

	// Only the class-scoped active discount applies.
	total, err := newEngine(f).ComputeFee(context.Background(), input)
	require.NoError(t, err)
	require.True(t, total.Equal(money("900")), "got %s", total)
}

func TestComputeFee_ReductionFlagsOptOut(t *testing.T) {
	world := func() *fakeStore {
		f := standardWorld()
		termStructure(f, testTerm2, &models.FeeLineItem{ID: 1, ItemName: "Tuition", Amount: money("1000")})
		f.discounts = append(f.discounts, &models.GlobalDiscount{
			ID: 1, SchoolID: testSchool, TermID: testTerm2,
			Name: "All", DiscountType: models.AmountFixed, DiscountValue: money("100"),
			AppliesTo: models.DiscountAllStudents, IsActive: true,
		})
		f.adjustments = append(f.adjustments, &models.FeeAdjustment{
			ID: 1, SchoolID: testSchool, StudentID: testStudent, TermID: testTerm2,
			AdjustmentType: models.AmountFixed, AdjustmentValue: money("100"), Reason: "x",
		})
		return f
	}

	t.Run("flags on apply discounts and adjustments", func(t *testing.T) {
		input := baseInput(testTerm2)
		input.IncludeDiscounts = true
		input.IncludeAdjustments = true

		total, err := newEngine(world()).ComputeFee(context.Background(), input)
		require.NoError(t, err)
		require.True(t, total.Equal(money("800")), "got %s", total)
	})

	t.Run("opting out skips both", func(t *testing.T) {
		input := baseInput(testTerm2)
		input.IncludeDiscounts = false
		input.IncludeAdjustments = false

		total, err := newEngine(world()).ComputeFee(context.Background(), input)
		require.NoError(t, err)
		require.True(t, total.Equal(money("1000")), "got %s", total)
	})
}

func TestComputeFee_RequestFlagsDefaultToIncluded(t *testing.T) {
	world := func() *fakeStore {
		f := standardWorld()
		termStructure(f, testTerm2, &models.FeeLineItem{ID: 1, ItemName: "Tuition", Amount: money("1000")})
		f.discounts = append(f.discounts, &models.GlobalDiscount{
			ID: 1, SchoolID: testSchool, TermID: testTerm2,
			Name: "Early bird", DiscountType: models.AmountPercentage, DiscountValue: money("10"),
			AppliesTo: models.DiscountAllStudents, IsActive: true,
		})
		return f
	}

	inputFrom := func(t *testing.T, body string) ComputeFeeInput {
		t.Helper()
		var req dto.ComputeFeeRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req))
		return ComputeFeeInput{
			SchoolID:           testSchool,
			StudentID:          req.StudentID,
			ClassID:            req.ClassID,
			TermID:             req.TermID,
			ClubActivityIDs:    req.ClubActivityIDs,
			TransportRouteID:   req.TransportRouteID,
			IncludeDiscounts:   req.DiscountsIncluded(),
			IncludeAdjustments: req.AdjustmentsIncluded(),
		}
	}

	t.Run("omitted flags include discounts", func(t *testing.T) {
		input := inputFrom(t, `{"studentId":401,"termId":102,"classId":201}`)

		total, err := newEngine(world()).ComputeFee(context.Background(), input)
		require.NoError(t, err)
		require.True(t, total.Equal(money("900")), "got %s", total)
	})

	t.Run("explicit false opts out", func(t *testing.T) {
		input := inputFrom(t, `{"studentId":401,"termId":102,"classId":201,"includeDiscounts":false,"includeAdjustments":false}`)

		total, err := newEngine(world()).ComputeFee(context.Background(), input)
		require.NoError(t, err)
		require.True(t, total.Equal(money("1000")), "got %s", total)
	})
}

func TestComputeFee_RoundsToTwoDecimals(t *testing.T) {
	f := standardWorld()
	termStructure(f, testTerm2, &models.FeeLineItem{ID: 1, ItemName: "Tuition", Amount: money("1000")})
	f.discounts = append(f.discounts, &models.GlobalDiscount{
		ID: 1, SchoolID: testSchool, TermID: testTerm2,
		Name: "Odd rate", DiscountType: models.AmountPercentage, DiscountValue: money("33.333"),
		AppliesTo: models.DiscountAllStudents, IsActive: true,
	})

	input := baseInput(testTerm2)
	input.IncludeDiscounts = true

	total, err := newEngine(f).ComputeFee(context.Background(), input)
	require.NoError(t, err)
	require.True(t, total.Equal(money("666.67")), "got %s", total)
}

func TestComputeFee_CrossTenantTermRejected(t *testing.T) {
	f := standardWorld()
	termStructure(f, testTerm2, &models.FeeLineItem{ID: 1, ItemName: "Tuition", Amount: money("1000")})

	input := baseInput(testTerm2)
	input.SchoolID = 2

	_, err := newEngine(f).ComputeFee(context.Background(), input)
	require.ErrorIs(t, err, apperrors.ErrTermNotFound)
	require.Empty(t, f.upserts)
}

func TestComputeFee_IdempotentRecompute(t *testing.T) {
	f := standardWorld()
	termStructure(f, testTerm2, &models.FeeLineItem{ID: 1, ItemName: "Tuition", Amount: money("500000")})

	engine := newEngine(f)
	first, err := engine.ComputeFee(context.Background(), baseInput(testTerm2))
	require.NoError(t, err)
	second, err := engine.ComputeFee(context.Background(), baseInput(testTerm2))
	require.NoError(t, err)

	require.True(t, first.Equal(second))
	require.Len(t, f.upserts, 2)
	require.True(t, f.upserts[0].amount.Equal(f.upserts[1].amount))
}

func TestSelectStructure_StrategyPrecedence(t *testing.T) {
	t.Run("year scoped used when no term match", func(t *testing.T) {
		f := standardWorld()
		fs := &models.FeeStructure{
			ID: 910, SchoolID: testSchool, CampusID: testCampus, AcademicYearID: testYear,
			StructureScope: models.ScopeYear, Status: models.StructureActive,
		}
		f.yearScoped[testClass] = fs
		f.lineItems[fs.ID] = []*models.FeeLineItem{{ID: 1, ItemName: "Tuition", Amount: money("250000")}}

		total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm2))
		require.NoError(t, err)
		require.True(t, total.Equal(money("250000")))
	})

	t.Run("term scoped wins over newer year scoped on same term", func(t *testing.T) {
		f := standardWorld()
		termStructure(f, testTerm2, &models.FeeLineItem{ID: 1, ItemName: "Tuition", Amount: money("300000")})

		termID := int64(testTerm2)
		year := &models.FeeStructure{
			ID: 930, SchoolID: testSchool, CampusID: testCampus, AcademicYearID: testYear,
			TermID: &termID, StructureScope: models.ScopeYear, Status: models.StructureActive,
		}
		// Linked to the same class and term, created after the TERM row.
		f.termScoped[testClass] = append([]*models.FeeStructure{year}, f.termScoped[testClass]...)
		f.yearScoped[testClass] = year
		f.lineItems[year.ID] = []*models.FeeLineItem{{ID: 1, ItemName: "Tuition", Amount: money("999000")}}

		total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm2))
		require.NoError(t, err)
		require.True(t, total.Equal(money("300000")), "got %s", total)
	})

	t.Run("legacy column match backfills class link", func(t *testing.T) {
		f := standardWorld()
		fs := &models.FeeStructure{
			ID: 920, SchoolID: testSchool, CampusID: testCampus, AcademicYearID: testYear,
			StructureScope: models.ScopeTerm, Status: models.StructureActive,
		}
		f.legacy[testClass] = fs
		f.lineItems[fs.ID] = []*models.FeeLineItem{{ID: 1, ItemName: "Tuition", Amount: money("410000")}}

		total, err := newEngine(f).ComputeFee(context.Background(), baseInput(testTerm2))
		require.NoError(t, err)
		require.True(t, total.Equal(money("410000")))
		require.Equal(t, [][2]int64{{920, testClass}}, f.classLinks)
	})
}

func TestComputeFee_FullPipeline(t *testing.T) {
	f := standardWorld()
	termStructure(f, testTerm2, &models.FeeLineItem{ID: 1, ItemName: "Tuition", Amount: money("5000")})

	f.clubs[601] = &models.ClubActivity{ID: 601, SchoolID: testSchool, ServiceName: "Drama", ActivityType: models.ActivityClub, CostPerTerm: money("1500"), AcademicYearID: testYear, TermID: testTerm2}
	routeID := int64(701)
	f.routes[routeID] = &models.TransportRoute{ID: routeID, SchoolID: testSchool, RouteName: "Kira Road", OneWayCostPerTerm: money("500"), TwoWayCostPerTerm: money("800")}

	input := baseInput(testTerm2)
	input.ClubActivityIDs = []int64{601}
	input.TransportRouteID = &routeID

	// 5000 tuition + 1500 club + 800 two-way transport.
	total, err := newEngine(f).ComputeFee(context.Background(), input)
	require.NoError(t, err)
	require.True(t, total.Equal(money("7300")), "got %s", total)

	// Layer on a 10% tenant-wide discount and a 500 fixed adjustment:
	// 7300 -> 6570 -> 6070.
	f.discounts = append(f.discounts, &models.GlobalDiscount{
		ID: 1, SchoolID: testSchool, TermID: testTerm2,
		Name: "Early payment", DiscountType: models.AmountPercentage, DiscountValue: money("10"),
		AppliesTo: models.DiscountAllStudents, IsActive: true,
	})
	f.adjustments = append(f.adjustments, &models.FeeAdjustment{
		ID: 1, SchoolID: testSchool, StudentID: testStudent, TermID: testTerm2,
		AdjustmentType: models.AmountFixed, AdjustmentValue: money("500"), Reason: "sibling rebate",
	})
	input.IncludeDiscounts = true
	input.IncludeAdjustments = true

	total, err = newEngine(f).ComputeFee(context.Background(), input)
	require.NoError(t, err)
	require.True(t, total.Equal(money("6070")), "got %s", total)
}

func TestComputeFee_SupplementsApplyWithoutStructure(t *testing.T) {
	f := standardWorld()
	f.clubs[601] = &models.ClubActivity{ID: 601, SchoolID: testSchool, ServiceName: "Drama", ActivityType: models.ActivityClub, CostPerTerm: money("1500"), AcademicYearID: testYear, TermID: testTerm2}
	routeID := int64(701)
	f.routes[routeID] = &models.TransportRoute{ID: routeID, SchoolID: testSchool, RouteName: "Kira Road", OneWayCostPerTerm: money("500"), TwoWayCostPerTerm: money("800")}

	input := baseInput(testTerm2)
	input.ClubActivityIDs = []int64{601}
	input.TransportRouteID = &routeID

	total, err := newEngine(f).ComputeFee(context.Background(), input)
	require.NoError(t, err)
	require.True(t, total.Equal(money("2300")), "got %s", total)
}

func TestComputeFeeForStudent(t *testing.T) {
	t.Run("derives inputs from student state", func(t *testing.T) {
		f := standardWorld()
		termStructure(f, testTerm2, &models.FeeLineItem{ID: 1, ItemName: "Tuition", Amount: money("500000")})
		f.assignments[testStudent] = &models.StudentClassHistory{ID: 1, StudentID: testStudent, ClassID: testClass, StartDate: date(time.February, 1)}

		routeID := int64(701)
		f.routes[routeID] = &models.TransportRoute{ID: routeID, SchoolID: testSchool, RouteName: "Ntinda", OneWayCostPerTerm: money("60000"), TwoWayCostPerTerm: money("100000")}
		f.students[testStudent].TransportRouteID = &routeID
		f.students[testStudent].TransportType = transportTypePtr(models.TransportOneWay)

		f.clubs[601] = &models.ClubActivity{ID: 601, SchoolID: testSchool, ServiceName: "Chess", ActivityType: models.ActivityClub, CostPerTerm: money("20000"), AcademicYearID: testYear, TermID: testTerm2}
		f.clubLinks[testStudent] = []int64{601}

		total, err := newEngine(f).ComputeFeeForStudent(context.Background(), testSchool, testStudent, testTerm2)
		require.NoError(t, err)
		require.True(t, total.Equal(money("580000")), "got %s", total)
	})

	t.Run("no class assignment yields zero without reconciling", func(t *testing.T) {
		f := standardWorld()
		termStructure(f, testTerm2, &models.FeeLineItem{ID: 1, ItemName: "Tuition", Amount: money("500000")})

		total, err := newEngine(f).ComputeFeeForStudent(context.Background(), testSchool, testStudent, testTerm2)
		require.NoError(t, err)
		require.True(t, total.IsZero())
		require.Empty(t, f.upserts)
	})
}
