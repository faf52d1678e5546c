package public

import (
	"time"

	exhibitordomain "github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/workflow"
	organizerdomain "github.com/shutten-navi/shutten-navi-services/api/internal/organizer/domain"
)

type eventResponse struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	Prefecture          string `json:"prefecture"`
	Venue               string `json:"venue,omitempty"`
	Description         string `json:"description,omitempty"`
	StartsAt            string `json:"startsAt"`
	EndsAt              string `json:"endsAt,omitempty"`
	VendorCapacity      int    `json:"vendorCapacity,omitempty"`
	ApplicationDeadline string `json:"applicationDeadline,omitempty"`
	Accepting           bool   `json:"accepting"`
}

type eventListResponse struct {
	Events []eventResponse `json:"events"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

type updateFieldsRequest struct {
	Fields exhibitordomain.Fields `json:"fields"`
}

type attachDocumentRequest struct {
	URL string `json:"url"`
}

type updateTermsRequest struct {
	Accepted bool `json:"accepted"`
}

type uploadURLRequest struct {
	DocumentSlot string `json:"documentSlot"`
}

type uploadURLResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
	ExpiresIn int    `json:"expiresInSeconds"`
}

type stateResponse struct {
	Status string        `json:"status"`
	State  workflow.View `json:"state"`
}

type stepResponse struct {
	Status     string                `json:"status"`
	Step       int                   `json:"step"`
	ScrollTop  bool                  `json:"scrollTop,omitempty"`
	FocusField string                `json:"focusField,omitempty"`
	Errors     []workflow.FieldError `json:"errors,omitempty"`
	State      *workflow.View        `json:"state,omitempty"`
}

type submitResponse struct {
	Status           string `json:"status"`
	Step             int    `json:"step"`
	LicenseExpiresOn string `json:"licenseExpiresOn,omitempty"`
}

func mapEventResponse(event organizerdomain.Event, now time.Time) eventResponse {
	res := eventResponse{
		ID:             event.ID,
		Title:          event.Title,
		Prefecture:     event.Prefecture,
		Venue:          event.Venue,
		Description:    event.Description,
		StartsAt:       event.StartsAt.Format(time.RFC3339),
		VendorCapacity: event.VendorCapacity,
		Accepting:      event.AcceptingApplications(now),
	}
	if !event.EndsAt.IsZero() {
		res.EndsAt = event.EndsAt.Format(time.RFC3339)
	}
	if !event.ApplicationDeadline.IsZero() {
		res.ApplicationDeadline = event.ApplicationDeadline.Format(time.RFC3339)
	}
	return res
}
