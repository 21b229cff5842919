package holi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/thansetan/holi/ephemeris"
	"github.com/thansetan/holi/helper"
	"github.com/thansetan/holi/model"
)

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

type controller struct {
	tmpl   executor
	logger *slog.Logger
	svc    *holiService
}

func NewController(svc *holiService, tmpl executor, logger *slog.Logger) *controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &controller{tmpl, logger, svc}
}

func (c *controller) Index(w http.ResponseWriter, r *http.Request) {
	data := model.PageData{
		Label:   LabelFuture,
		MinYear: ephemeris.MinYear,
		MaxYear: ephemeris.MaxYear,
	}
	if r.Method == http.MethodPost {
		c.fill(r, &data)
	}
	c.render(w, r, http.StatusOK, "holi", data)
}

func (c *controller) fill(r *http.Request, data *model.PageData) {
	yearStr := strings.TrimSpace(r.PostFormValue("year"))
	if yearStr == "" {
		return
	}
	data.SelectedYear = yearStr

	year, err := ParseYear(yearStr)
	if err != nil {
		c.logger.InfoContext(r.Context(), "invalid year submitted", "year", yearStr, "remote_addr", r.RemoteAddr)
		data.Error = "Invalid year"
		return
	}

	res, err := c.svc.Lookup(r.Context(), year)
	switch {
	case errors.Is(err, ErrUnsupportedYear):
		c.logger.InfoContext(r.Context(), "unsupported year submitted", "year", year, "remote_addr", r.RemoteAddr)
		data.Error = fmt.Sprintf("Unsupported year (supported %d–%d)", ephemeris.MinYear, ephemeris.MaxYear)
		return
	case err != nil:
		c.logger.ErrorContext(r.Context(), "failed to calculate holi date!", "error", err, "year", year)
		data.Error = "Couldn't calculate the date, please try again"
		return
	}

	data.Year = year
	data.HoliDate = res.String()
	data.Label = c.svc.Label(year)
}

func (c *controller) render(w http.ResponseWriter, r *http.Request, code int, name string, data any) {
	var buf bytes.Buffer
	err := c.tmpl.ExecuteTemplate(&buf, name, data)
	if err != nil {
		c.logger.ErrorContext(r.Context(), fmt.Sprintf("failed to execute %s template", name), "error", err.Error(), "remote_addr", r.RemoteAddr)
		helper.OurFault(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func (c *controller) FourOFour(w http.ResponseWriter, r *http.Request) {
	c.render(w, r, http.StatusNotFound, "404", nil)
}
