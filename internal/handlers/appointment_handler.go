package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/dto"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/httperr"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/httpresp"
	"github.com/BruuAmorim/eva-agendmento-sub000/internal/middleware"
	ucAppointment "github.com/BruuAmorim/eva-agendmento-sub000/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC       *ucAppointment.CreateAppointment
	updateUC       *ucAppointment.UpdateAppointment
	confirmUC      *ucAppointment.ConfirmAppointment
	completeUC     *ucAppointment.CompleteAppointment
	cancelUC       *ucAppointment.CancelAppointment
	deleteUC       *ucAppointment.DeleteAppointment
	getUC          *ucAppointment.GetAppointment
	findUC         *ucAppointment.FindAppointments
	availabilityUC *ucAppointment.GetAvailability

	log *logrus.Entry
}

func NewAppointmentHandler(deps ucAppointment.Deps, availability *ucAppointment.GetAvailability) *AppointmentHandler {
	log := deps.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &AppointmentHandler{
		createUC:       ucAppointment.NewCreateAppointment(deps),
		updateUC:       ucAppointment.NewUpdateAppointment(deps),
		confirmUC:      ucAppointment.NewConfirmAppointment(deps),
		completeUC:     ucAppointment.NewCompleteAppointment(deps),
		cancelUC:       ucAppointment.NewCancelAppointment(deps),
		deleteUC:       ucAppointment.NewDeleteAppointment(deps),
		getUC:          ucAppointment.NewGetAppointment(deps),
		findUC:         ucAppointment.NewFindAppointments(deps),
		availabilityUC: availability,
		log:            log.WithField("component", "http"),
	}
}

func (h *AppointmentHandler) fail(c *gin.Context, err error) {
	httperr.FromDomain(c, h.log.WithField("request_id", c.GetString(middleware.ContextRequestID)), err)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Request body must be valid JSON.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), req.Input())
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.Created(c, dto.NewAppointmentDTO(ap))
}

// ======================================================
// LIST / GET
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	list, err := h.findUC.Execute(c.Request.Context(), ucAppointment.FindAppointmentsInput{
		CustomerName: c.Query("customer_name"),
		Date:         c.Query("date"),
		Status:       c.Query("status"),
		StartDate:    c.Query("start_date"),
		EndDate:      c.Query("end_date"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.List(c, dto.NewAppointmentDTOs(list))
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	ap, err := h.getUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	var req dto.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Request body must be valid JSON.")
		return
	}

	patch, err := req.Patch()
	if err != nil {
		h.fail(c, err)
		return
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	ap, err := h.confirmUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	ap, err := h.completeUC.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

// Cancel accepts an optional {"reason": "..."} body.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	var req dto.CancelAppointmentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.BadRequest(c, "invalid_request", "Request body must be valid JSON.")
			return
		}
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentDTO(ap))
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	if err := h.deleteUC.Execute(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	var duration *int
	if raw := c.Query("duration"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_duration", "duration must be an integer number of minutes.")
			return
		}
		duration = &d
	}

	date := c.Query("date")
	slots, err := h.availabilityUC.Execute(c.Request.Context(), date, duration)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := dto.AvailabilityDTO{Date: date, DurationMinutes: domain.DefaultDurationMinutes, Slots: slots}
	if duration != nil {
		resp.DurationMinutes = *duration
	}
	httpresp.OK(c, resp)
}
