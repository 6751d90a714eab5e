package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hqvu/groundroster/internal/config"
	"github.com/hqvu/groundroster/pkg/core/availability"
	"github.com/hqvu/groundroster/pkg/core/model"
	"github.com/hqvu/groundroster/pkg/core/timewin"
	"github.com/hqvu/groundroster/pkg/workbook"
)

type Handler struct {
	validate *validator.Validate
	cfg      *config.Config
	store    *workbook.Store
	logger   *zap.Logger

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, store *workbook.Store, logger *zap.Logger) *Handler {
	return &Handler{
		validate: validator.New(),
		cfg:      cfg,
		store:    store,
		logger:   logger,

		Mux: chi.NewRouter(),
	}
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Route("/staff", func(r chi.Router) {
		r.Get("/", h.ListStaff)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/attendance", h.WeeklyAttendance)
			r.Get("/day/{day}", h.DayShift)
			r.Get("/flights/{day}", h.FlightAssignments)
		})
	})
	h.Mux.Get("/availability", h.Availability)
}

// Response is the uniform JSON envelope.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{Success: true, Data: data})
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, Response{Success: false, Message: msg})
}

// DTOs

type shiftDTO struct {
	Code     string  `json:"code"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Hours    float64 `json:"hours"`
	IsDirect bool    `json:"isDirect"`
	Label    string  `json:"label,omitempty"`
}

type dayDTO struct {
	Day        string     `json:"day"`
	TotalHours float64    `json:"totalHours"`
	Shifts     []shiftDTO `json:"shifts"`
	RawDisplay string     `json:"rawDisplay,omitempty"`
	IsOff      bool       `json:"isOff"`
	Unknown    []string   `json:"unknownCodes,omitempty"`
}

type weeklyDTO struct {
	Name       string   `json:"name"`
	TotalHours float64  `json:"totalHours"`
	ShiftCount int      `json:"shiftCount"`
	Days       []dayDTO `json:"days"`
}

type assignmentDTO struct {
	Flight   string `json:"flight"`
	ETD      string `json:"etd"`
	Position string `json:"position"`
	Gate     string `json:"gate,omitempty"`
	Section  string `json:"section"`
}

type staffStatusDTO struct {
	Name        string          `json:"name"`
	Shifts      []string        `json:"shifts"`
	BusyFlights []assignmentDTO `json:"busyFlights,omitempty"`
}

type availabilityDTO struct {
	Day       string           `json:"day"`
	Start     string           `json:"start"`
	End       string           `json:"end"`
	Sheet     string           `json:"sheet"`
	Available []staffStatusDTO `json:"available"`
	Busy      []staffStatusDTO `json:"busy"`
}

func toShiftDTO(s model.ParsedShift) shiftDTO {
	return shiftDTO{
		Code:     s.Code,
		Start:    timewin.Clock(s.Start),
		End:      timewin.Clock(s.End),
		Hours:    s.DurationHours,
		IsDirect: s.IsDirect,
		Label:    s.Label,
	}
}

func toDayDTO(day model.Weekday, agg model.DayAggregate) dayDTO {
	shifts := make([]shiftDTO, 0, len(agg.Shifts))
	for _, s := range agg.Shifts {
		shifts = append(shifts, toShiftDTO(s))
	}
	return dayDTO{
		Day:        day.Code(),
		TotalHours: agg.TotalHours,
		Shifts:     shifts,
		RawDisplay: agg.RawDisplay,
		IsOff:      agg.IsOff,
		Unknown:    agg.Unknown,
	}
}

func toAssignmentDTO(f model.FlightAssignment) assignmentDTO {
	return assignmentDTO{
		Flight:   f.Flight,
		ETD:      timewin.FormatCell(f.ETD),
		Position: f.Position,
		Gate:     f.Gate,
		Section:  string(f.Section),
	}
}

func toStaffStatusDTO(s availability.StaffStatus) staffStatusDTO {
	busy := make([]assignmentDTO, 0, len(s.BusyFlights))
	for _, f := range s.BusyFlights {
		busy = append(busy, toAssignmentDTO(f))
	}
	return staffStatusDTO{Name: s.Name, Shifts: s.ShiftLabels, BusyFlights: busy}
}

// Handlers

func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, h.store.ListStaff())
}

func (h *Handler) WeeklyAttendance(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	week, ok := h.store.WeeklyAttendance(name)
	if !ok {
		h.errorResponse(w, r, http.StatusNotFound, "staff not found")
		return
	}

	dto := weeklyDTO{
		Name:       name,
		TotalHours: week.TotalHours,
		ShiftCount: week.ShiftCount,
		Days:       make([]dayDTO, 0, 7),
	}
	for day := model.Monday; day <= model.Sunday; day++ {
		dto.Days = append(dto.Days, toDayDTO(day, week.Days[day]))
	}

	h.successResponse(w, r, dto)
}

func (h *Handler) DayShift(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	day, ok := model.ParseWeekday(chi.URLParam(r, "day"))
	if !ok {
		h.errorResponse(w, r, http.StatusBadRequest, "invalid day, expected MON..SUN")
		return
	}

	agg, found := h.store.DayShift(name, day)
	if !found {
		h.errorResponse(w, r, http.StatusNotFound, "staff not found")
		return
	}

	h.successResponse(w, r, toDayDTO(day, agg))
}

func (h *Handler) FlightAssignments(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	day, ok := model.ParseWeekday(chi.URLParam(r, "day"))
	if !ok {
		h.errorResponse(w, r, http.StatusBadRequest, "invalid day, expected MON..SUN")
		return
	}

	assignments, sheetName, err := h.store.FlightAssignments(name, day)
	if err != nil {
		if errors.Is(err, workbook.ErrNoDaySheet) {
			h.errorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("Flight scan failed", zap.Error(err))
		h.errorResponse(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	dtos := make([]assignmentDTO, 0, len(assignments))
	for _, f := range assignments {
		dtos = append(dtos, toAssignmentDTO(f))
	}

	h.successResponse(w, r, map[string]any{"sheet": sheetName, "assignments": dtos})
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	day, ok := model.ParseWeekday(r.URL.Query().Get("day"))
	if !ok {
		h.errorResponse(w, r, http.StatusBadRequest, "invalid day, expected MON..SUN")
		return
	}

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if h.validate.Var(start, "required,datetime=15:04") != nil ||
		h.validate.Var(end, "required,datetime=15:04") != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "start and end must be HH:MM")
		return
	}

	opts := availability.Options{
		BusyLeadMinutes:  h.cfg.BusyLeadMinutes,
		BusyTrailMinutes: h.cfg.BusyTrailMinutes,
	}

	result, err := availability.Resolve(r.Context(), h.store, h.logger, opts, day, start, end)
	if err != nil {
		if errors.Is(err, workbook.ErrNoDaySheet) {
			h.errorResponse(w, r, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("Availability search failed", zap.Error(err))
		h.errorResponse(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	dto := availabilityDTO{
		Day:       result.Day.Code(),
		Start:     result.Start,
		End:       result.End,
		Sheet:     result.SheetName,
		Available: make([]staffStatusDTO, 0, len(result.Available)),
		Busy:      make([]staffStatusDTO, 0, len(result.Busy)),
	}
	for _, s := range result.Available {
		dto.Available = append(dto.Available, toStaffStatusDTO(s))
	}
	for _, s := range result.Busy {
		dto.Busy = append(dto.Busy, toStaffStatusDTO(s))
	}

	h.successResponse(w, r, dto)
}
