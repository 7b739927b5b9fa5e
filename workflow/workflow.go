package workflow

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/openlabs-org/labops/orders"
)

var (
	// Stage membership. A test contributes to exactly one stage;
	// superseded and removed tests contribute to none.
	SamplingStatuses   = mapset.NewSet(orders.TestStatusPending)
	EntryStatuses      = mapset.NewSet(orders.TestStatusSampleCollected, orders.TestStatusInProgress)
	ValidationStatuses = mapset.NewSet(orders.TestStatusResulted)
)

// Day is the caller's local calendar day. All "completed today" counts
// are bounded by it rather than by the server's clock.
type Day struct {
	Reference time.Time
	Location  *time.Location
}

func NewDay(reference time.Time, location *time.Location) Day {
	if location == nil {
		location = time.Local
	}
	return Day{Reference: reference.In(location), Location: location}
}

func Today(location *time.Location) Day {
	return NewDay(time.Now(), location)
}

func (d Day) Start() time.Time {
	year, month, day := d.Reference.In(d.Location).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, d.Location)
}

func (d Day) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	start := d.Start()
	end := start.AddDate(0, 0, 1)
	local := t.In(d.Location)
	return !local.Before(start) && local.Before(end)
}

func (d Day) AddDays(n int) Day {
	return NewDay(d.Start().AddDate(0, 0, n), d.Location)
}

// Key is the calendar-date bucket key used by trend series.
func (d Day) Key() string {
	return d.Start().Format("2006-01-02")
}

// StageCounts is one command-center card. Total is completed-today plus
// still-pending work, not the sum of all historical activity.
type StageCounts struct {
	CompletedToday int `json:"completedToday"`
	Pending        int `json:"pending"`
	Total          int `json:"total"`
}

func (s StageCounts) PercentComplete() float64 {
	return Percentage(s.CompletedToday, s.Total)
}

type Counts struct {
	Sampling   StageCounts `json:"sampling"`
	Entry      StageCounts `json:"entry"`
	Validation StageCounts `json:"validation"`

	// Orders with at least one validated test and at least one active
	// test still awaiting validation.
	PartiallyValidated int `json:"partiallyValidated"`

	// Tests awaiting supervisor review.
	EscalationQueue int `json:"escalationQueue"`
}

// Percentage guards against a zero denominator.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// Aggregate classifies every active test of the snapshot into a pipeline
// stage and derives the day-bounded command-center counts.
func Aggregate(snapshot *orders.Snapshot, day Day) Counts {
	counts := Counts{}

	for i := range snapshot.Orders {
		order := &snapshot.Orders[i]
		validated := 0
		awaiting := 0

		for j := range order.Tests {
			test := &order.Tests[j]
			if !test.IsActive() {
				continue
			}

			switch {
			case SamplingStatuses.Contains(test.Status):
				counts.Sampling.Pending++
				awaiting++
			case EntryStatuses.Contains(test.Status):
				counts.Entry.Pending++
				awaiting++
			case ValidationStatuses.Contains(test.Status):
				counts.Validation.Pending++
				awaiting++
			case test.Status == orders.TestStatusValidated:
				validated++
			}

			if day.Contains(test.ResultEnteredAt) {
				counts.Entry.CompletedToday++
			}
			if day.Contains(test.ResultValidatedAt) {
				counts.Validation.CompletedToday++
			}
			if test.NeedsEscalationReview() {
				counts.EscalationQueue++
			}
		}

		if validated > 0 && awaiting > 0 {
			counts.PartiallyValidated++
		}
	}

	for i := range snapshot.Samples {
		sample := &snapshot.Samples[i]
		if sample.Status == orders.SampleStatusCollected && day.Contains(sample.CollectedAt) {
			counts.Sampling.CompletedToday++
		}
	}

	counts.Sampling.Total = counts.Sampling.CompletedToday + counts.Sampling.Pending
	counts.Entry.Total = counts.Entry.CompletedToday + counts.Entry.Pending
	counts.Validation.Total = counts.Validation.CompletedToday + counts.Validation.Pending

	return counts
}

// TrendPoint is one calendar day of throughput.
type TrendPoint struct {
	Date      string `json:"date"`
	Collected int    `json:"collected"`
	Entered   int    `json:"entered"`
	Validated int    `json:"validated"`
}

// Trend buckets throughput by calendar day over the trailing window
// ending on the given day. Every day in the window is pre-seeded, so
// quiet days produce explicit zero points rather than gaps.
func Trend(snapshot *orders.Snapshot, day Day, days int) []TrendPoint {
	if days < 1 {
		days = 1
	}

	series := make([]TrendPoint, days)
	index := make(map[string]*TrendPoint, days)
	for i := 0; i < days; i++ {
		bucket := day.AddDays(i - days + 1)
		series[i] = TrendPoint{Date: bucket.Key()}
		index[bucket.Key()] = &series[i]
	}

	bucketFor := func(t *time.Time) *TrendPoint {
		if t == nil {
			return nil
		}
		return index[NewDay(*t, day.Location).Key()]
	}

	for i := range snapshot.Orders {
		for j := range snapshot.Orders[i].Tests {
			test := &snapshot.Orders[i].Tests[j]
			if !test.IsActive() {
				continue
			}
			if point := bucketFor(test.ResultEnteredAt); point != nil {
				point.Entered++
			}
			if point := bucketFor(test.ResultValidatedAt); point != nil {
				point.Validated++
			}
		}
	}

	for i := range snapshot.Samples {
		sample := &snapshot.Samples[i]
		if sample.Status != orders.SampleStatusCollected {
			continue
		}
		if point := bucketFor(sample.CollectedAt); point != nil {
			point.Collected++
		}
	}

	return series
}
