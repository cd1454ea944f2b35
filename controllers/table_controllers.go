package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/floor"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
)

type TableController struct {
	Service *services.TableService
	Events  floor.Publisher
}

func NewTableController(service *services.TableService, events floor.Publisher) *TableController {
	return &TableController{Service: service, Events: events}
}

// CreateTable -> adds a table to the floor
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableName string `json:"table_name"`
		Capacity  *int   `json:"capacity"`
	}
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	table, err := tc.Service.Create(c.Request.Context(), services.TableInput{TableName: req.TableName, Capacity: req.Capacity})
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	publish(c, tc.Events, floor.NewEvent(floor.EventTableCreated, nil, table))
	utils.InfoLogger.Printf("New table created: %s (capacity=%d)", table.TableName, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, table)
}

// GetAllTables -> every table ordered by name
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Service.List(c.Request.Context())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, tables)
}

func (tc *TableController) GetTable(c *gin.Context) {
	id, err := services.ParseID("table", c.Param("table_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	table, err := tc.Service.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, table)
}

// SeatTable -> assigns a booked reservation to the table
func (tc *TableController) SeatTable(c *gin.Context) {
	id, err := services.ParseID("table", c.Param("table_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	var req struct {
		ReservationID flexibleID `json:"reservation_id"`
	}
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	seating, err := tc.Service.Seat(c.Request.Context(), id, uint(req.ReservationID))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	publish(c, tc.Events, floor.NewEvent(floor.EventTableSeated, seating.Reservation, seating.Table))
	utils.InfoLogger.Printf("Reservation %d seated at table %s", seating.Reservation.ID, seating.Table.TableName)
	utils.RespondJSON(c, http.StatusOK, seating.Table)
}

// FinishTable -> frees the table and finishes its reservation
func (tc *TableController) FinishTable(c *gin.Context) {
	id, err := services.ParseID("table", c.Param("table_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	seating, err := tc.Service.Finish(c.Request.Context(), id)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	publish(c, tc.Events, floor.NewEvent(floor.EventTableFinished, seating.Reservation, seating.Table))
	utils.InfoLogger.Printf("Table %s finished reservation %d", seating.Table.TableName, seating.Reservation.ID)
	utils.RespondJSON(c, http.StatusOK, seating.Table)
}
