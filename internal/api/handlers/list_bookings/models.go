package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/VenueBookingService/internal/domain"
	"github.com/m04kA/VenueBookingService/internal/service/bookings/models"
)

const maxLimit = 200

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задает один день, startDate/endDate период; date имеет приоритет
func ToServiceRequest(adminID int64, query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		UserID: adminID,
	}

	if v := query.Get("status"); v != "" {
		req.Status = &v
	}
	if v := query.Get("paymentStatus"); v != "" {
		req.PaymentStatus = &v
	}

	// Парсим venueId если указан
	if v := query.Get("venueId"); v != "" {
		venueID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || venueID <= 0 {
			return nil, fmt.Errorf("invalid venueId %q", v)
		}
		req.VenueID = &venueID
	}

	if v := query.Get("date"); v != "" {
		date, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %w", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	} else {
		if v := query.Get("startDate"); v != "" {
			start, err := time.Parse(domain.DateFormat, v)
			if err != nil {
				return nil, fmt.Errorf("invalid startDate: %w", err)
			}
			req.StartDate = &start
		}
		if v := query.Get("endDate"); v != "" {
			end, err := time.Parse(domain.DateFormat, v)
			if err != nil {
				return nil, fmt.Errorf("invalid endDate: %w", err)
			}
			req.EndDate = &end
		}
	}

	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 || limit > maxLimit {
			return nil, fmt.Errorf("limit must be between 0 and %d", maxLimit)
		}
		req.Limit = limit
	}
	if v := query.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return nil, fmt.Errorf("invalid offset %q", v)
		}
		req.Offset = offset
	}

	return req, nil
}
