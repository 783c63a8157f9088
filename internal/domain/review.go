package domain

// Review is the read shape. Older backends send user_id instead of user.
type Review struct {
	User   string `json:"user,omitempty"`
	UserID string `json:"user_id,omitempty"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

func (r Review) Author() string {
	if r.User != "" {
		return r.User
	}
	if r.UserID != "" {
		return r.UserID
	}
	return "Anonymous"
}

// ReviewInput is the write shape posted to the backend.
type ReviewInput struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}
