package models

import "time"

// Bucket names accepted by the data list endpoint, in the fixed order the
// server documents them.
const (
	BucketAuto       = "auto"
	BucketManual     = "manual"
	BucketMonitoring = "monitoring"
)

// BucketSelection is the set of measurement buckets to query.
// An empty selection means "no bucket restriction" server-side.
type BucketSelection struct {
	Auto       bool
	Manual     bool
	Monitoring bool
}

// Buckets returns the characteristic list of the three toggles in fixed
// order [auto, manual, monitoring].
func (s BucketSelection) Buckets() []string {
	buckets := []string{}
	if s.Auto {
		buckets = append(buckets, BucketAuto)
	}
	if s.Manual {
		buckets = append(buckets, BucketManual)
	}
	if s.Monitoring {
		buckets = append(buckets, BucketMonitoring)
	}
	return buckets
}

// IsEmpty reports whether no bucket is selected.
func (s BucketSelection) IsEmpty() bool {
	return !s.Auto && !s.Manual && !s.Monitoring
}

// DateRange is an inclusive query window. Start and End are normalized to
// start-of-day and end-of-day boundaries before querying.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Normalized returns the range expanded to 00:00:00 on Start and 23:59:59 on
// End, in UTC.
func (r DateRange) Normalized() DateRange {
	start := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 23, 59, 59, 0, time.UTC)
	return DateRange{Start: start, End: end}
}

// ListFilter is the request body of POST /api/v1/data/list.
type ListFilter struct {
	DeviceIDs        []string `json:"deviceIDs"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	PageSize         int      `json:"pageSize"`
	Page             int      `json:"page"`
	Buckets          []string `json:"buckets,omitempty"`
	WithComputations bool     `json:"withComputations,omitempty"`
}

// NewListFilter builds the filter for one device over a normalized range.
// Timestamps are ISO-8601 UTC with a Z suffix, as the server expects.
func NewListFilter(deviceID string, rng DateRange, buckets []string, pageSize int) ListFilter {
	norm := rng.Normalized()
	return ListFilter{
		DeviceIDs: []string{deviceID},
		StartDate: norm.Start.Format("2006-01-02T15:04:05") + "Z",
		EndDate:   norm.End.Format("2006-01-02T15:04:05") + "Z",
		PageSize:  pageSize,
		Page:      1,
		Buckets:   buckets,
	}
}
