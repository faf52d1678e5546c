package organizer

import (
	"time"

	exhibitordomain "github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
	organizerapp "github.com/shutten-navi/shutten-navi-services/api/internal/organizer/application"
	organizerdomain "github.com/shutten-navi/shutten-navi-services/api/internal/organizer/domain"
)

type upsertEventRequest struct {
	Title               string `json:"title"`
	Prefecture          string `json:"prefecture"`
	Venue               string `json:"venue"`
	Description         string `json:"description"`
	StartsAt            string `json:"startsAt"`
	EndsAt              string `json:"endsAt"`
	VendorCapacity      int    `json:"vendorCapacity"`
	ApplicationDeadline string `json:"applicationDeadline"`
	Published           bool   `json:"published"`
}

func (r upsertEventRequest) toCommand() organizerapp.UpsertEventCommand {
	return organizerapp.UpsertEventCommand{
		Title:               r.Title,
		Prefecture:          r.Prefecture,
		Venue:               r.Venue,
		Description:         r.Description,
		StartsAt:            r.StartsAt,
		EndsAt:              r.EndsAt,
		VendorCapacity:      r.VendorCapacity,
		ApplicationDeadline: r.ApplicationDeadline,
		Published:           r.Published,
	}
}

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
	Published           bool   `json:"published"`
	CreatedAt           string `json:"createdAt,omitempty"`
	UpdatedAt           string `json:"updatedAt,omitempty"`
}

type eventListResponse struct {
	Events []eventResponse `json:"events"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

type registrationResponse struct {
	UserID           string            `json:"userId"`
	Name             string            `json:"name"`
	Gender           string            `json:"gender"`
	Age              *int              `json:"age,omitempty"`
	Phone            string            `json:"phone"`
	Email            string            `json:"email"`
	Category         string            `json:"category"`
	Genre            string            `json:"genre"`
	Documents        map[string]string `json:"documents"`
	LicenseExpiresOn string            `json:"licenseExpiresOn,omitempty"`
	TermsAcceptedAt  string            `json:"termsAcceptedAt"`
	CreatedAt        string            `json:"createdAt"`
}

type registrationListResponse struct {
	Registrations []registrationResponse `json:"registrations"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
}

func mapEventResponse(event organizerdomain.Event) eventResponse {
	res := eventResponse{
		ID:             event.ID,
		Title:          event.Title,
		Prefecture:     event.Prefecture,
		Venue:          event.Venue,
		Description:    event.Description,
		StartsAt:       event.StartsAt.Format(time.RFC3339),
		VendorCapacity: event.VendorCapacity,
		Published:      event.Published,
	}
	if !event.EndsAt.IsZero() {
		res.EndsAt = event.EndsAt.Format(time.RFC3339)
	}
	if !event.ApplicationDeadline.IsZero() {
		res.ApplicationDeadline = event.ApplicationDeadline.Format(time.RFC3339)
	}
	if !event.CreatedAt.IsZero() {
		res.CreatedAt = event.CreatedAt.Format(time.RFC3339)
	}
	if !event.UpdatedAt.IsZero() {
		res.UpdatedAt = event.UpdatedAt.Format(time.RFC3339)
	}
	return res
}

func mapRegistrationResponse(reg exhibitordomain.Registration) registrationResponse {
	documents := make(map[string]string, len(exhibitordomain.DocumentSlots))
	for _, slot := range exhibitordomain.DocumentSlots {
		if url := reg.Documents.Get(slot); url != "" {
			documents[string(slot)] = url
		}
	}
	return registrationResponse{
		UserID:           reg.UserID,
		Name:             reg.Name,
		Gender:           string(reg.Gender),
		Age:              reg.Age,
		Phone:            reg.Phone,
		Email:            reg.Email,
		Category:         reg.Category,
		Genre:            reg.Genre,
		Documents:        documents,
		LicenseExpiresOn: reg.LicenseExpiresOn,
		TermsAcceptedAt:  reg.TermsAcceptedAt.Format(time.RFC3339),
		CreatedAt:        reg.CreatedAt.Format(time.RFC3339),
	}
}
