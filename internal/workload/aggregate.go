package workload

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// Thresholds on raw total load. Tiering always uses the raw sum, never the
// normalized display score.
const (
	CriticalLoadThreshold = 300
	ModerateLoadThreshold = 150

	// LoadPerScorePoint compresses raw load into the 0..100 display score.
	LoadPerScorePoint = 5

	// BucketDisplayCap caps a single bucket's displayed load.
	BucketDisplayCap = 100

	dailyBucketCount  = 7
	weeklyBucketCount = 4
)

// DefaultWindowPolicy is 7 days back through 30 days ahead, daily buckets.
func DefaultWindowPolicy() WindowPolicy {
	return WindowPolicy{PastDays: 7, FutureDays: 30, Buckets: BucketsDaily}
}

// CohortWindowPolicy is the default window with weekly buckets.
func CohortWindowPolicy() WindowPolicy {
	p := DefaultWindowPolicy()
	p.Buckets = BucketsWeekly
	return p
}

func (p WindowPolicy) normalize() WindowPolicy {
	if p.PastDays < 0 {
		p.PastDays = 0
	}
	if p.FutureDays < 0 {
		p.FutureDays = 0
	}
	if p.Buckets != BucketsWeekly {
		p.Buckets = BucketsDaily
	}
	return p
}

// TierForLoad classifies raw total load.
func TierForLoad(totalLoad int) RiskTier {
	switch {
	case totalLoad > CriticalLoadThreshold:
		return RiskCritical
	case totalLoad > ModerateLoadThreshold:
		return RiskModerate
	default:
		return RiskOptimal
	}
}

// NormalizedScore is min(round(totalLoad/5), 100), floored at 0.
func NormalizedScore(totalLoad int) int {
	score := int(math.Round(float64(totalLoad) / LoadPerScorePoint))
	return clampInt(score, 0, 100)
}

// Readiness is max(0, round(100 - avgStress*0.8)), or 100 with no tasks.
func Readiness(active []Task) int {
	if len(active) == 0 {
		return 100
	}
	avg := float64(sumStress(active)) / float64(len(active))
	return clampInt(int(math.Round(100-avg*0.8)), 0, 100)
}

// Aggregator computes risk indices against a clock.
type Aggregator struct {
	Clock Clock
}

// NewAggregator returns an aggregator reading the given clock.
func NewAggregator(clock Clock) *Aggregator {
	return &Aggregator{Clock: clock}
}

// Active filters tasks to those counted toward current load: admitted by
// the inclusion rules, not completed, and either undated or due inside the
// relevance window. The result is a new slice in input order.
func (a *Aggregator) Active(tasks []Task, policy WindowPolicy) []Task {
	policy = policy.normalize()
	today := a.Clock.Today()
	from := today.AddDate(0, 0, -policy.PastDays)
	to := today.AddDate(0, 0, policy.FutureDays)

	active := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.CountsTowardLoad() || t.IsCompleted {
			continue
		}
		if t.DueDate != nil {
			due := DateOf(*t.DueDate, time.UTC)
			if due.Before(from) || due.After(to) {
				continue
			}
		}
		active = append(active, t)
	}
	return active
}

// Aggregate computes the risk index for tasks. It never fails; an empty
// active set yields score 0, OPTIMAL and no buckets.
func (a *Aggregator) Aggregate(tasks []Task, policy WindowPolicy) AggregateStats {
	policy = policy.normalize()
	active := a.Active(tasks, policy)

	total := sumStress(active)
	stats := AggregateStats{
		Score:           NormalizedScore(total),
		RiskTier:        TierForLoad(total),
		ActiveTaskCount: len(active),
		TotalLoad:       total,
		Readiness:       Readiness(active),
		TimeBuckets:     []TimeBucket{},
	}
	if len(active) > 0 {
		stats.TimeBuckets = bucketize(active, a.Clock.Today(), policy.Buckets, 1)
	}
	return stats
}

// AggregateCohort computes the class view over a roster. Only
// cohort-visible tasks count. Per-student entries use the same score and
// tier rules as a personal dashboard. The class-wide score, tier and
// bucket loads are per-student means; TotalLoad and bucket RawLoad are sums.
func (a *Aggregator) AggregateCohort(tasks []Task, studentIDs []string, policy WindowPolicy) CohortStats {
	policy = policy.normalize()

	byStudent := make(map[string][]Task, len(studentIDs))
	for _, id := range studentIDs {
		byStudent[id] = nil
	}
	for _, t := range tasks {
		if !t.CohortVisible() {
			continue
		}
		if _, enrolled := byStudent[t.OwnerID]; !enrolled {
			continue
		}
		byStudent[t.OwnerID] = append(byStudent[t.OwnerID], t)
	}

	ids := make([]string, 0, len(byStudent))
	for id := range byStudent {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var (
		students     = make([]StudentLoad, 0, len(ids))
		classActive  []Task
		scoreSum     int
		readinessSum int
	)
	for _, id := range ids {
		active := a.Active(byStudent[id], policy)
		total := sumStress(active)
		load := StudentLoad{
			StudentID:       id,
			Score:           NormalizedScore(total),
			RiskTier:        TierForLoad(total),
			TotalLoad:       total,
			ActiveTaskCount: len(active),
		}
		for _, t := range active {
			if t.Kind == KindPersonal {
				load.HasPersonalTasks = true
				break
			}
		}
		students = append(students, load)
		classActive = append(classActive, active...)
		scoreSum += load.Score
		readinessSum += Readiness(active)
	}

	class := AggregateStats{
		RiskTier:    RiskOptimal,
		Readiness:   100,
		TimeBuckets: []TimeBucket{},
	}
	if n := len(students); n > 0 {
		total := sumStress(classActive)
		class.Score = roundDiv(scoreSum, n)
		class.RiskTier = TierForLoad(roundDiv(total, n))
		class.ActiveTaskCount = len(classActive)
		class.TotalLoad = total
		class.Readiness = roundDiv(readinessSum, n)
		if len(classActive) > 0 {
			class.TimeBuckets = bucketize(classActive, a.Clock.Today(), policy.Buckets, n)
		}
	}

	return CohortStats{Class: class, Students: students}
}

// bucketize sums stress per day (7 buckets from today) or per week (4
// buckets from today). Displayed load is RawLoad/divisor capped at 100.
func bucketize(active []Task, today time.Time, mode BucketMode, divisor int) []TimeBucket {
	span, count := 1, dailyBucketCount
	if mode == BucketsWeekly {
		span, count = 7, weeklyBucketCount
	}

	buckets := make([]TimeBucket, count)
	for i := range buckets {
		start := today.AddDate(0, 0, i*span)
		label := start.Format("Mon Jan 2")
		if mode == BucketsWeekly {
			label = "Week " + strconv.Itoa(i+1)
		}
		buckets[i] = TimeBucket{Label: label, Start: start}
	}

	for _, t := range active {
		if t.DueDate == nil {
			continue
		}
		days := int(DateOf(*t.DueDate, time.UTC).Sub(today).Hours() / 24)
		if days < 0 {
			continue
		}
		idx := days / span
		if idx >= count {
			continue
		}
		buckets[idx].RawLoad += t.StressScore
	}

	for i := range buckets {
		buckets[i].Load = clampInt(roundDiv(buckets[i].RawLoad, divisor), 0, BucketDisplayCap)
	}
	return buckets
}

func sumStress(tasks []Task) int {
	total := 0
	for _, t := range tasks {
		total += t.StressScore
	}
	return total
}

func roundDiv(n, d int) int {
	if d <= 1 {
		return n
	}
	return int(math.Round(float64(n) / float64(d)))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
