package ephemeris

import (
	"errors"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/deltat"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonphase"
)

const (
	// MinYear is the first full year of the Gregorian calendar.
	MinYear = 1583
	// MaxYear is the end of the range the Meeus lunar phase series is valid for.
	MaxYear = 4000

	// lunations per Julian year, Meeus eq. 49.2
	lunationsPerYear = 12.3685
	// JDE of J2000.0
	j2000 = 2451545.0
	// days per mean Gregorian year
	gregorianYear = 365.2425
	// a true full moon never strays farther than this from its mean lunation
	searchSlack = 3
)

var ErrOutOfRange = errors.New("instant outside supported ephemeris range")

type Provider interface {
	PreviousFullMoon(t time.Time) (time.Time, error)
	NextFullMoon(t time.Time) (time.Time, error)
}

// Meeus computes full moon instants with the algorithm from chapter 49 of
// Astronomical Algorithms. The series yields dynamical time; instants are
// shifted by DeltaT and returned in UTC.
type Meeus struct{}

func NewMeeus() *Meeus {
	return &Meeus{}
}

func (Meeus) NextFullMoon(t time.Time) (time.Time, error) {
	if err := checkRange(t); err != nil {
		return time.Time{}, err
	}
	k := lunation(t) - searchSlack
	for i := 0; i <= 2*searchSlack+1; i, k = i+1, k+1 {
		fm := fullMoon(k)
		if !fm.Before(t) {
			return fm, nil
		}
	}
	return time.Time{}, ErrOutOfRange
}

func (Meeus) PreviousFullMoon(t time.Time) (time.Time, error) {
	if err := checkRange(t); err != nil {
		return time.Time{}, err
	}
	k := lunation(t) + searchSlack
	for i := 0; i <= 2*searchSlack+1; i, k = i+1, k-1 {
		fm := fullMoon(k)
		if fm.Before(t) {
			return fm, nil
		}
	}
	return time.Time{}, ErrOutOfRange
}

// lunation returns the index of the mean lunation containing t, counted
// from the new moon of 2000-01-06.
func lunation(t time.Time) int {
	years := (julian.TimeToJD(t.UTC()) - j2000) / gregorianYear
	return int(math.Floor(years * lunationsPerYear))
}

// fullMoon returns the full moon of lunation k. moonphase.Full snaps the
// decimal year it is given to a lunation, so the year is placed a quarter
// lunation past k's new moon to land unambiguously inside k.
func fullMoon(k int) time.Time {
	year := 2000 + (float64(k)+.25)/lunationsPerYear
	tt := julian.JDToTime(moonphase.Full(year)).UTC()
	return tt.Add(-DeltaT(year)).Truncate(time.Second)
}

// DeltaT estimates TT-UT for a decimal year. 2000-2050 uses the Meeus
// polynomial, elsewhere the Morrison-Stephenson parabola, with the
// Espenak-Meeus correction joining the two between 2050 and 2150.
func DeltaT(year float64) time.Duration {
	if year >= 2000 && year <= 2050 {
		return seconds(float64(deltat.PolyAfter2000(year)))
	}
	u := (year - 1820) / 100
	sec := -20 + 32*u*u
	if year > 2050 && year < 2150 {
		sec -= .5628 * (2150 - year)
	}
	return seconds(sec)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func checkRange(t time.Time) error {
	y := t.UTC().Year()
	if y < MinYear || y > MaxYear {
		return ErrOutOfRange
	}
	return nil
}
