package domain

// OutcomeKind classifies a processed purchase for the caller.
type OutcomeKind string

const (
	OutcomeNewAccountEnrolled      OutcomeKind = "new_account_enrolled"
	OutcomeExistingAccountEnrolled OutcomeKind = "existing_account_enrolled"
	OutcomeAlreadyEnrolled         OutcomeKind = "already_enrolled"
	OutcomeAlreadyProcessed        OutcomeKind = "already_processed"
)

// ClassifyOutcome maps the three outcome flags to one of the four
// mutually exclusive cases. AlreadyProcessed wins over the other flags, and a
// new account without a new enrollment counts as already enrolled.
func ClassifyOutcome(isNewUser, isNewEnrollment, alreadyProcessed bool) OutcomeKind {
	switch {
	case alreadyProcessed:
		return OutcomeAlreadyProcessed
	case isNewUser && isNewEnrollment:
		return OutcomeNewAccountEnrolled
	case isNewEnrollment:
		return OutcomeExistingAccountEnrolled
	default:
		return OutcomeAlreadyEnrolled
	}
}
