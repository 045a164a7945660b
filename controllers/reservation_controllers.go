package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"github.com/yeremiapane/reservation-app/validation"
)

type ReservationController struct {
	*Pages
	Service *services.ReservationService
}

func NewReservationController(svc *services.ReservationService, pages *Pages) *ReservationController {
	return &ReservationController{Pages: pages, Service: svc}
}

// parseID accepts only positive integers.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidReservationID
	}
	return uint(id), nil
}

// ListReservations -> halaman utama, urut tanggal & jam terbaru dulu
func (rc *ReservationController) ListReservations(c *gin.Context) {
	list := rc.Service.List(c.Request.Context())
	rc.Render(c, http.StatusOK, "list.html", gin.H{
		"Title":        "",
		"Reservations": list,
	})
}

// ShowReservation -> detail satu reservasi
func (rc *ReservationController) ShowReservation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		rc.NotFound(c)
		return
	}

	res, err := rc.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			rc.NotFound(c)
			return
		}
		rc.Error(c, err, ErrFetchReservation.Message)
		return
	}

	rc.Render(c, http.StatusOK, "detail.html", gin.H{
		"Title":       "Reservation Details",
		"Reservation": res,
	})
}

func (rc *ReservationController) newForm(draft validation.Draft, errs validation.FieldErrors) gin.H {
	return gin.H{
		"Title":        "Add Reservation",
		"Heading":      "Add New Reservation",
		"CardTitle":    "New Reservation",
		"CardSubtitle": "Enter the details for the new reservation.",
		"Action":       "/add-reservation",
		"BackURL":      "/",
		"BackLabel":    "Back to all reservations",
		"SubmitLabel":  "Create Reservation",
		"Draft":        draft,
		"Errors":       errs,
	}
}

func (rc *ReservationController) editForm(id uint, draft validation.Draft, errs validation.FieldErrors) gin.H {
	detail := "/reservation/" + strconv.FormatUint(uint64(id), 10)
	return gin.H{
		"Title":        "Edit Reservation",
		"Heading":      "Edit Reservation",
		"CardTitle":    "Edit Reservation",
		"CardSubtitle": "Update the details for this reservation.",
		"Action":       detail + "/edit",
		"BackURL":      detail,
		"BackLabel":    "Back to reservation details",
		"SubmitLabel":  "Update Reservation",
		"Draft":        draft,
		"Errors":       errs,
	}
}

// NewReservationForm -> form kosong dengan nilai default
func (rc *ReservationController) NewReservationForm(c *gin.Context) {
	draft := validation.Draft{
		ReservationDate: time.Now().Format("2006-01-02"),
		ReservationTime: "19:00",
		PartySize:       "2",
	}
	rc.Render(c, http.StatusOK, "form.html", rc.newForm(draft, nil))
}

// CreateReservation -> submit form tambah reservasi
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var draft validation.Draft
	if err := c.ShouldBind(&draft); err != nil {
		rc.Render(c, http.StatusBadRequest, "form.html", rc.newForm(draft, nil))
		return
	}

	result := rc.Service.Create(c.Request.Context(), draft)
	if !result.Success {
		if result.Fields != nil {
			rc.Render(c, http.StatusUnprocessableEntity, "form.html", rc.newForm(draft, result.Fields))
			return
		}
		form := rc.newForm(draft, nil)
		form["Flash"] = flashFor("write_failed")
		rc.Render(c, http.StatusInternalServerError, "form.html", form)
		return
	}

	setFlash(c, "created")
	c.Redirect(http.StatusSeeOther, "/")
}

// EditReservationForm -> form edit yang sudah terisi
func (rc *ReservationController) EditReservationForm(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		rc.NotFound(c)
		return
	}

	res, err := rc.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			rc.NotFound(c)
			return
		}
		rc.Error(c, err, ErrFetchReservation.Message)
		return
	}

	rc.Render(c, http.StatusOK, "form.html", rc.editForm(id, validation.DraftFrom(*res), nil))
}

// UpdateReservation -> submit form edit
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		rc.NotFound(c)
		return
	}

	var draft validation.Draft
	if err := c.ShouldBind(&draft); err != nil {
		rc.Render(c, http.StatusBadRequest, "form.html", rc.editForm(id, draft, nil))
		return
	}

	result := rc.Service.Update(c.Request.Context(), id, draft)
	if !result.Success {
		if result.Fields != nil {
			rc.Render(c, http.StatusUnprocessableEntity, "form.html", rc.editForm(id, draft, result.Fields))
			return
		}
		form := rc.editForm(id, draft, nil)
		form["Flash"] = flashFor("write_failed")
		rc.Render(c, http.StatusInternalServerError, "form.html", form)
		return
	}

	setFlash(c, "updated")
	c.Redirect(http.StatusSeeOther, "/reservation/"+strconv.FormatUint(uint64(id), 10))
}

// DeleteReservation -> tombol "Cancel Reservation" di halaman detail
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		rc.NotFound(c)
		return
	}

	result := rc.Service.Delete(c.Request.Context(), id)
	if !result.Success {
		rc.Error(c, errors.New(result.Error), result.Error)
		return
	}

	setFlash(c, "deleted")
	c.Redirect(http.StatusSeeOther, "/")
}

// ----------------------------------------------------------------
//                      JSON API
// ----------------------------------------------------------------

// GetReservationAPI -> GET /api/reservations/:id
func (rc *ReservationController) GetReservationAPI(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidReservationID)
		return
	}

	res, err := rc.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, ErrReservationNotFound)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, ErrFetchReservation)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation detail", res)
}

// ListReservationsAPI -> GET /api/reservations
func (rc *ReservationController) ListReservationsAPI(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "List of reservations", rc.Service.List(c.Request.Context()))
}

// apiReservationRequest accepts partySize as a JSON number or a string.
type apiReservationRequest struct {
	CustomerName    string          `json:"customerName"`
	Phone           string          `json:"phone"`
	ReservationDate string          `json:"reservationDate"`
	ReservationTime string          `json:"reservationTime"`
	PartySize       json.RawMessage `json:"partySize"`
	SpecialRequests *string         `json:"specialRequests"`
}

func (r apiReservationRequest) draft() validation.Draft {
	d := validation.Draft{
		CustomerName:    r.CustomerName,
		Phone:           r.Phone,
		ReservationDate: r.ReservationDate,
		ReservationTime: r.ReservationTime,
	}

	raw := strings.TrimSpace(string(r.PartySize))
	var s string
	switch {
	case raw == "" || raw == "null":
	case json.Unmarshal(r.PartySize, &s) == nil:
		d.PartySize = s
	default:
		d.PartySize = raw
	}

	if r.SpecialRequests != nil {
		d.SpecialRequests = *r.SpecialRequests
	}
	return d
}

// CreateReservationAPI -> POST /api/reservations
func (rc *ReservationController) CreateReservationAPI(c *gin.Context) {
	var req apiReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, ErrInvalidPayload)
		return
	}

	result := rc.Service.Create(c.Request.Context(), req.draft())
	if !result.Success {
		if result.Fields != nil {
			utils.RespondFieldErrors(c, http.StatusBadRequest, errors.New(result.Error), result.Fields)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, errors.New(result.Error))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reservation created", gin.H{"id": result.ID})
}
