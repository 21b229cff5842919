package holi

import (
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thansetan/holi/ephemeris"
	"github.com/thansetan/holi/view"
)

func newTestController(t *testing.T, currentYear int) *controller {
	t.Helper()
	tmpl, err := view.New(os.DirFS("../templates"), discardLogger)
	require.NoError(t, err)
	svc := NewService(NewCalculator(ephemeris.NewMeeus()), nil, time.Hour, discardLogger)
	svc.now = fixedClock(currentYear)
	return NewController(svc, tmpl, discardLogger)
}

func postYear(c *controller, year string, set bool) *httptest.ResponseRecorder {
	form := url.Values{}
	if set {
		form.Set("year", year)
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	c.Index(w, req)
	return w
}

func TestIndex_Get(t *testing.T) {
	c := newTestController(t, 2025)
	w := httptest.NewRecorder()
	c.Index(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, LabelFuture)
	assert.Contains(t, body, `<p id="holi-date"></p>`)
	assert.Contains(t, body, `value=""`)
	assert.NotContains(t, body, `class="error"`)
}

func TestIndex_PostYear(t *testing.T) {
	c := newTestController(t, 2025)

	w := postYear(c, "2025", true)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<p id="holi-date">March 14, 2025</p>`)
	assert.Contains(t, body, LabelFuture)
	assert.Contains(t, body, `value="2025"`)
	assert.Contains(t, body, `value="2026"`)
	assert.Contains(t, body, `value="2024"`)
}

func TestIndex_PostPastYear(t *testing.T) {
	c := newTestController(t, 2025)

	w := postYear(c, "2020", true)
	body := w.Body.String()
	assert.Contains(t, body, LabelPast)
	assert.NotContains(t, body, LabelFuture)
	assert.Contains(t, body, `value="2020"`)
}

func TestIndex_PostEmptyYear(t *testing.T) {
	c := newTestController(t, 2025)

	for _, tt := range []struct {
		name string
		year string
		set  bool
	}{
		{"absent", "", false},
		{"empty", "", true},
		{"blank", "   ", true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			w := postYear(c, tt.year, tt.set)
			assert.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, `<p id="holi-date"></p>`)
			assert.Contains(t, body, LabelFuture)
			assert.NotContains(t, body, `class="error"`)
		})
	}
}

func TestIndex_PostInvalidYear(t *testing.T) {
	c := newTestController(t, 2025)

	for _, year := range []string{"twenty", "0", "-2020", "20.5"} {
		t.Run(year, func(t *testing.T) {
			w := postYear(c, year, true)
			assert.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, "Invalid year")
			assert.NotContains(t, body, "Unsupported year")
			assert.Contains(t, body, `<p id="holi-date"></p>`)
			assert.Contains(t, body, `value="`+year+`"`)
		})
	}
}

func TestIndex_PostUnsupportedYear(t *testing.T) {
	c := newTestController(t, 2025)

	w := postYear(c, "5000", true)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Unsupported year")
	assert.Contains(t, body, `<p id="holi-date"></p>`)
}

type failingExecutor struct{}

func (failingExecutor) ExecuteTemplate(io.Writer, string, any) error {
	return errors.New("broken template")
}

func TestIndex_TemplateFailure(t *testing.T) {
	svc := NewService(NewCalculator(ephemeris.NewMeeus()), nil, time.Hour, discardLogger)
	c := NewController(svc, failingExecutor{}, discardLogger)

	w := httptest.NewRecorder()
	c.Index(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "it's our fault")
}

func TestFourOFour(t *testing.T) {
	tmpl := template.Must(template.New("404").Parse(`nope`))
	c := NewController(nil, tmpl, discardLogger)

	w := httptest.NewRecorder()
	c.FourOFour(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "nope", w.Body.String())
}
