package models

// StudentStatus defines the lifecycle state of a student record
type StudentStatus string

const (
	StudentInactive       StudentStatus = "INACTIVE"
	StudentActive         StudentStatus = "ACTIVE"
	StudentCompleted      StudentStatus = "COMPLETED"
	StudentTransferredOut StudentStatus = "TRANSFERRED_OUT"
)

// TransportType defines how a student uses their transport route
type TransportType string

const (
	TransportOneWay TransportType = "ONE_WAY"
	TransportTwoWay TransportType = "TWO_WAY"
)

// StructureScope defines whether a fee structure is authored per term or
// intended to span a whole academic year
type StructureScope string

const (
	ScopeTerm StructureScope = "TERM"
	ScopeYear StructureScope = "YEAR"
)

// StructureStatus defines whether a fee structure version is selectable
type StructureStatus string

const (
	StructureActive   StructureStatus = "ACTIVE"
	StructureInactive StructureStatus = "INACTIVE"
)

// AmountType defines how a discount or adjustment value reduces a total
type AmountType string

const (
	AmountFixed      AmountType = "FIXED_AMOUNT"
	AmountPercentage AmountType = "PERCENTAGE"
)

// DiscountScope defines which students a global discount applies to
type DiscountScope string

const (
	DiscountAllStudents      DiscountScope = "ALL_STUDENTS"
	DiscountSelectedCampuses DiscountScope = "SELECTED_CAMPUSES"
	DiscountSelectedClasses  DiscountScope = "SELECTED_CLASSES"
)

// ActivityType distinguishes clubs from other extra-curricular services.
// Billing does not differentiate between them.
type ActivityType string

const (
	ActivityClub            ActivityType = "CLUB"
	ActivityExtraCurricular ActivityType = "EXTRA_CURRICULAR"
)

// AcademicStatus is derived from date ranges, never stored
type AcademicStatus string

const (
	AcademicActive   AcademicStatus = "ACTIVE"
	AcademicArchived AcademicStatus = "ARCHIVED"
)

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleBursar  RoleType = "BURSAR"
	RoleTeacher RoleType = "TEACHER"
)
