package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tmukana/uongozi/core/calendar"
)

type calendarApi struct {
	agg     *calendar.Aggregator
	overlay *calendar.Overlay
}

// The calendar is public: guests get the full grid without attendance badges,
// signed-in members get theirs overlaid when a bearer token is supplied.
func registerCalendarAPI(g *echo.Group, agg *calendar.Aggregator, overlay *calendar.Overlay) {
	api := calendarApi{agg: agg, overlay: overlay}

	cg := g.Group("/calendar")
	cg.GET("", api.month)
	cg.GET("/day", api.day)
	cg.GET("/export.ics", api.exportICS)
}

type (
	eventResponse struct {
		calendar.Event
		Icon      string `json:"icon"`
		Color     string `json:"color"`
		Attending bool   `json:"attending"`
	}

	dayCellResponse struct {
		Day      int             `json:"day"`
		Date     time.Time       `json:"date"`
		Events   []eventResponse `json:"events"`
		More     int             `json:"more"`
		Attended bool            `json:"attended"`
	}

	monthResponse struct {
		Year  int                  `json:"year"`
		Month time.Month           `json:"month"`
		Days  int                  `json:"days"`
		Weeks [][]*dayCellResponse `json:"weeks"`
	}

	dayResponse struct {
		Date   time.Time       `json:"date"`
		Events []eventResponse `json:"events"`
	}
)

// Handlers

func (api *calendarApi) month(ctx echo.Context) error {
	win, err := bindMonthWindow(ctx)
	if err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	events := api.agg.MonthEvents(rctx, win)
	attendance := api.overlay.AttendanceSet(rctx, optionalContextUserID(ctx))

	grid := calendar.BuildGrid(win, events)
	resp := monthResponse{Year: win.Year, Month: win.Month, Days: win.Days()}
	for _, week := range grid.Weeks() {
		row := make([]*dayCellResponse, len(week))
		for i, cell := range week {
			if cell == nil {
				continue
			}
			dc := &dayCellResponse{
				Day:    cell.Day,
				Date:   cell.Date,
				More:   cell.Overflow(),
				Events: make([]eventResponse, 0, len(cell.Visible())),
			}
			for _, e := range cell.Visible() {
				dc.Events = append(dc.Events, newEventResponse(e, attendance))
			}
			for _, e := range cell.Events {
				if attendance.Attending(e) {
					dc.Attended = true
					break
				}
			}
			row[i] = dc
		}
		resp.Weeks = append(resp.Weeks, row)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// day returns the full, untruncated event list for a single day.
func (api *calendarApi) day(ctx echo.Context) error {
	win, err := bindMonthWindow(ctx)
	if err != nil {
		return err
	}
	day, err := strconv.Atoi(ctx.QueryParam("day"))
	if err != nil || day < 1 || day > win.Days() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid day")
	}

	rctx := ctx.Request().Context()
	events := api.agg.MonthEvents(rctx, win)
	attendance := api.overlay.AttendanceSet(rctx, optionalContextUserID(ctx))

	resp := dayResponse{
		Date:   time.Date(win.Year, win.Month, day, 0, 0, 0, 0, time.UTC),
		Events: make([]eventResponse, 0),
	}
	for _, e := range events {
		if e.Date.Day() == day && e.Date.Month() == win.Month && e.Date.Year() == win.Year {
			resp.Events = append(resp.Events, newEventResponse(e, attendance))
		}
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *calendarApi) exportICS(ctx echo.Context) error {
	win, err := bindMonthWindow(ctx)
	if err != nil {
		return err
	}

	cal := calendar.BuildICS(win, api.agg.MonthEvents(ctx.Request().Context(), win))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="calendar.ics"`)
	return ctx.Blob(http.StatusOK, "text/calendar", []byte(cal.Serialize()))
}

func newEventResponse(e calendar.Event, attendance calendar.AttendanceSet) eventResponse {
	return eventResponse{
		Event:     e,
		Icon:      e.Type.Icon(),
		Color:     e.Type.ColorClass(),
		Attending: attendance.Attending(e),
	}
}

// bindMonthWindow reads ?year=&month=, defaulting to the current month.
func bindMonthWindow(ctx echo.Context) (calendar.MonthWindow, error) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	if v := ctx.QueryParam("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1970 || y > 9999 {
			return calendar.MonthWindow{}, echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		year = y
	}
	if v := ctx.QueryParam("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return calendar.MonthWindow{}, echo.NewHTTPError(http.StatusBadRequest, "invalid month")
		}
		month = m
	}
	return calendar.NewMonthWindow(year, time.Month(month)), nil
}
