package app

// User-facing notices.
const (
	NoticeLoginFailedPrefix = "Login failed: "
	NoticeLoginGeneric      = "An error occurred while trying to log in."
	NoticeNotLoggedIn       = "You must be logged in to submit a review."
	NoticeReviewSubmitted   = "Review submitted successfully!"
	NoticeReviewFailed      = "Failed to submit review."

	UnknownHost = "Unknown"
	NoAmenities = "No amenities available"
)
