package holi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thansetan/holi/ephemeris"
	"github.com/thansetan/holi/helper"
)

const DateLayout = "January 02, 2006"

var (
	ErrInvalidYear     = errors.New("invalid year")
	ErrUnsupportedYear = errors.New("unsupported year")
)

// Rule names the branch of the selection rule that picked a full moon.
type Rule string

const (
	RuleLateFebruary Rule = "late_february"
	RuleMarch        Rule = "march"
	RuleApril        Rule = "april"
)

type Result struct {
	Year int
	Moon time.Time
	Rule Rule
}

func (r Result) String() string {
	return r.Moon.Format(DateLayout)
}

type Calculator struct {
	eph ephemeris.Provider
}

func NewCalculator(eph ephemeris.Provider) *Calculator {
	return &Calculator{eph}
}

// Date picks the full moon Holi is celebrated on. A full moon late in
// February wins, then one in March, and the first full moon of April is
// the fallback. Adhika months are not accounted for.
func (c *Calculator) Date(year int) (Result, error) {
	if year < 1 {
		return Result{}, ErrInvalidYear
	}
	if year < ephemeris.MinYear || year > ephemeris.MaxYear {
		return Result{}, fmt.Errorf("%w: %d", ErrUnsupportedYear, year)
	}

	march1 := helper.FirstOfMonth(year, time.March)
	febFM, err := c.eph.PreviousFullMoon(march1)
	if err != nil {
		return Result{}, ephemerisErr(year, err)
	}
	marchFM, err := c.eph.NextFullMoon(march1)
	if err != nil {
		return Result{}, ephemerisErr(year, err)
	}
	aprilFM, err := c.eph.NextFullMoon(helper.FirstOfMonth(year, time.April))
	if err != nil {
		return Result{}, ephemerisErr(year, err)
	}

	febFM, marchFM, aprilFM = febFM.UTC(), marchFM.UTC(), aprilFM.UTC()
	switch {
	case febFM.Month() == time.February && febFM.Day() > 20:
		return Result{year, febFM, RuleLateFebruary}, nil
	case marchFM.Month() == time.March:
		return Result{year, marchFM, RuleMarch}, nil
	default:
		return Result{year, aprilFM, RuleApril}, nil
	}
}

// Compute returns the Holi date of year formatted as "January 02, 2006".
func (c *Calculator) Compute(year int) (string, error) {
	res, err := c.Date(year)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

func ParseYear(s string) (int, error) {
	year, err := strconv.ParseUint(strings.TrimSpace(s), 10, 31)
	if err != nil || year < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidYear, s)
	}
	return int(year), nil
}

func ephemerisErr(year int, err error) error {
	if errors.Is(err, ephemeris.ErrOutOfRange) {
		return fmt.Errorf("%w: %d: %w", ErrUnsupportedYear, year, err)
	}
	return fmt.Errorf("compute full moon for %d: %w", year, err)
}
