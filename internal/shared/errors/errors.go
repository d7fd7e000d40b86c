package errors

import "errors"

// Domain errors
var (
	// Catalog errors
	ErrEmptyCatalog         = errors.New("catalog has no sections")
	ErrEmptySectionID       = errors.New("section ID cannot be empty")
	ErrDuplicateSection     = errors.New("section already defined")
	ErrEmptyQuestionID      = errors.New("question ID cannot be empty")
	ErrDuplicateQuestion    = errors.New("question already defined")
	ErrInvalidWeight        = errors.New("question weight must be positive")
	ErrNoAnswers            = errors.New("question has no answers")
	ErrNegativeAnswerValue  = errors.New("answer value cannot be negative")
	ErrAnswerExceedsMax     = errors.New("answer value exceeds question maximum")
	ErrEmptyRequirementID   = errors.New("requirement ID cannot be empty")
	ErrDuplicateRequirement = errors.New("requirement already defined")
	ErrInvalidCategory      = errors.New("invalid requirement category")

	// Answer store errors
	ErrQuestionNotFound   = errors.New("question not found")
	ErrInvalidAnswerValue = errors.New("answer value not allowed for question")

	// Classification errors
	ErrOutOfRange       = errors.New("percentage out of range [0,100]")
	ErrInvalidRiskTiers = errors.New("risk tiers do not partition [0,100]")

	// Report errors
	ErrMissingOrganization = errors.New("organization name is required")
	ErrUnknownFormat       = errors.New("unknown export format")

	// Repository errors
	ErrRepositoryOperation   = errors.New("repository operation failed")
	ErrEmptyStoreKey         = errors.New("store key cannot be empty")
	ErrSerializationFailed   = errors.New("serialization failed")
	ErrDeserializationFailed = errors.New("deserialization failed")

	// Validation errors
	ErrValidation   = errors.New("validation error")
	ErrInvalidInput = errors.New("invalid input")
)
