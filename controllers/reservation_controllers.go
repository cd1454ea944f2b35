package controllers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/floor"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
)

type ReservationController struct {
	Service *services.ReservationService
	Events  floor.Publisher
}

func NewReservationController(service *services.ReservationService, events floor.Publisher) *ReservationController {
	return &ReservationController{Service: service, Events: events}
}

type reservationRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	MobileNumber    string `json:"mobile_number"`
	ReservationDate string `json:"reservation_date"`
	ReservationTime string `json:"reservation_time"`
	People          *int   `json:"people"`
	Status          string `json:"status"`
}

func (r reservationRequest) input() services.ReservationInput {
	return services.ReservationInput{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		MobileNumber:    r.MobileNumber,
		ReservationDate: r.ReservationDate,
		ReservationTime: r.ReservationTime,
		People:          r.People,
		Status:          r.Status,
	}
}

// ListReservations -> search by mobile_number when given, otherwise the day's open reservations
func (rc *ReservationController) ListReservations(c *gin.Context) {
	if mobile, ok := c.GetQuery("mobile_number"); ok {
		reservations, err := rc.Service.SearchByMobile(c.Request.Context(), mobile)
		if err != nil {
			utils.RespondServiceError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, reservations)
		return
	}

	reservations, err := rc.Service.ListByDate(c.Request.Context(), rc.dateParam(c))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservations)
}

// CreateReservation -> books a new party
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req reservationRequest
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	reservation, err := rc.Service.Create(c.Request.Context(), req.input())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	publish(c, rc.Events, floor.NewEvent(floor.EventReservationCreated, reservation, nil))
	utils.InfoLogger.Printf("Reservation %d created for %s at %s %s (%d people)",
		reservation.ID, reservation.FullName(), reservation.ReservationDate, reservation.ReservationTime, reservation.People)
	utils.RespondJSON(c, http.StatusCreated, reservation)
}

func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, err := services.ParseID("reservation", c.Param("reservation_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	reservation, err := rc.Service.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, reservation)
}

// UpdateReservation -> edits the details of a booked reservation
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, err := services.ParseID("reservation", c.Param("reservation_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	var req reservationRequest
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	reservation, err := rc.Service.Update(c.Request.Context(), id, req.input())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	publish(c, rc.Events, floor.NewEvent(floor.EventReservationUpdated, reservation, nil))
	utils.InfoLogger.Printf("Reservation %d updated", reservation.ID)
	utils.RespondJSON(c, http.StatusOK, reservation)
}

// UpdateReservationStatus -> moves a reservation through booked/seated/finished/cancelled
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	id, err := services.ParseID("reservation", c.Param("reservation_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		utils.RespondServiceError(c, services.NewValidationError("status is required"))
		return
	}

	change, err := rc.Service.SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	if !change.Changed() {
		utils.RespondJSON(c, http.StatusOK, change.Reservation)
		return
	}

	event := floor.NewEvent(floor.EventReservationStatus, change.Reservation, nil)
	event.PreviousStatus = string(change.Previous)
	publish(c, rc.Events, event)
	for i := range change.FreedTables {
		publish(c, rc.Events, floor.NewEvent(floor.EventTableFinished, change.Reservation, &change.FreedTables[i]))
	}

	utils.InfoLogger.Printf("Reservation %d status changed from %s to %s", id, change.Previous, change.Reservation.Status)
	utils.RespondJSON(c, http.StatusOK, change.Reservation)
}

// DailySheet -> printable PDF of the open reservations for a date
func (rc *ReservationController) DailySheet(c *gin.Context) {
	date := rc.dateParam(c)
	reservations, err := rc.Service.ListByDate(c.Request.Context(), date)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.RenderDailySheet(&buf, date, reservations); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="reservations-`+date+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (rc *ReservationController) dateParam(c *gin.Context) string {
	if date := strings.TrimSpace(c.Query("date")); date != "" {
		return date
	}
	return rc.Service.Policy.Today()
}
