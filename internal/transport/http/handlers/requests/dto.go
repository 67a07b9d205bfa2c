package requestshandler

import (
	"time"

	"intranet/internal/domain/requests"
)

// requestDTO is the flat wire shape shared by all three request kinds.
// Kind-specific fields are omitted when empty.
type requestDTO struct {
	ID           string   `json:"id"`
	Kind         string   `json:"kind"`
	Status       string   `json:"status"`
	ReviewedBy   string   `json:"reviewed_by,omitempty"`
	ReviewReason string   `json:"review_reason,omitempty"`
	HiddenBy     []string `json:"hidden_by"`
	CreatedAt    string   `json:"created_at"`

	User      string `json:"user,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Period    string `json:"period,omitempty"`
	Requester string `json:"requester,omitempty"`
	Acceptor  string `json:"acceptor,omitempty"`
	Date      string `json:"date,omitempty"`
}

const dateLayout = "2006-01-02"

func toDTO(req requests.Request) requestDTO {
	out := requestDTO{
		ID:           req.ID,
		Kind:         string(req.Kind),
		Status:       req.Status,
		ReviewedBy:   req.ReviewedBy,
		ReviewReason: req.ReviewReason,
		HiddenBy:     req.HiddenBy,
		CreatedAt:    req.CreatedAt.UTC().Format(time.RFC3339),
	}
	if out.HiddenBy == nil {
		out.HiddenBy = []string{}
	}

	switch {
	case req.Permission != nil:
		out.User = req.Permission.User
		out.StartDate = req.Permission.StartDate.Format(dateLayout)
		out.EndDate = req.Permission.EndDate.Format(dateLayout)
		out.Reason = req.Permission.Reason
	case req.Vacation != nil:
		out.User = req.Vacation.User
		out.StartDate = req.Vacation.StartDate.Format(dateLayout)
		out.EndDate = req.Vacation.EndDate.Format(dateLayout)
		out.Period = req.Vacation.Period
	case req.ShiftChange != nil:
		out.Requester = req.ShiftChange.Requester
		out.Acceptor = req.ShiftChange.Acceptor
		out.Date = req.ShiftChange.Date.Format(dateLayout)
		out.Reason = req.ShiftChange.Reason
	}
	return out
}

func toDTOs(records []requests.Request, viewer string) []requestDTO {
	out := make([]requestDTO, 0, len(records))
	for _, req := range records {
		if req.HiddenFor(viewer) {
			continue
		}
		out = append(out, toDTO(req))
	}
	return out
}
