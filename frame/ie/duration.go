package ie

import "fmt"

// Duration is a span of time expressed in integer microseconds. It has no
// relationship to a wall clock; it exists purely to give the TSCH Timeslot
// timing fields a typed, self-documenting unit instead of bare integers.
type Duration int64

// FromMicroseconds builds a Duration from a microsecond count.
func FromMicroseconds(us int64) Duration { return Duration(us) }

// Microseconds returns the duration as an integer microsecond count.
func (d Duration) Microseconds() int64 { return int64(d) }

// Add returns d+o.
func (d Duration) Add(o Duration) Duration { return d + o }

// Sub returns d-o.
func (d Duration) Sub(o Duration) Duration { return d - o }

// Scale returns d multiplied by n.
func (d Duration) Scale(n int64) Duration { return Duration(int64(d) * n) }

// Div returns d divided by n.
func (d Duration) Div(n int64) Duration { return Duration(int64(d) / n) }

func (d Duration) String() string {
	return fmt.Sprintf("%.2fms", float64(d)/1000.0)
}
