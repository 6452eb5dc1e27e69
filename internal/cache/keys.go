package cache

import "fmt"

// PrefixSubmission namespaces submission-report cache keys.
const PrefixSubmission = "submission"

// SubmissionKey returns the cache key for a single submission, scoped by
// owner so a cache hit can never leak another user's report.
func SubmissionKey(userID, submissionID int64) string {
	return fmt.Sprintf("%s:%d:%d", PrefixSubmission, userID, submissionID)
}
