package buildclub

// Event mirrors the BuildClub API's event record. The server passes event
// JSON through verbatim; this type exists for consumers that want to decode
// it.
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	StartDate   string   `json:"startDate"`
	EndDate     *string  `json:"endDate"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	EventType   string   `json:"eventType"`
	FocusAreas  []string `json:"focusAreas"`
	Capacity    *int     `json:"capacity"`
	IsPublished bool     `json:"isPublished"`
	HubID       string   `json:"hubId"`
	HubEventID  string   `json:"hubEventId"`
	CreatedAt   string   `json:"createdAt"`
}

// EventRegistration is the backend's registration record.
type EventRegistration struct {
	ID            string   `json:"id"`
	HubEventID    string   `json:"hubEventId"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	Email         string   `json:"email"`
	InterestAreas []string `json:"interestAreas"`
	IsGuest       bool     `json:"isGuest"`
	Notes         string   `json:"notes"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// RegistrationRequest is the outbound POST body for /events/register.
// Optional fields are omitted entirely when unset. IsGuest is always forced
// to true by the client regardless of what the caller sets.
type RegistrationRequest struct {
	HubEventID    string   `json:"hubEventId"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	Email         string   `json:"email"`
	InterestAreas []string `json:"interestAreas,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	IsGuest       bool     `json:"isGuest"`
}
