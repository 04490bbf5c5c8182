// models/student.go
package models

import (
	"sort"
	"time"
)

// Student is the top-level document for a learner, keyed by email. It owns
// its achievement records exclusively; they are embedded rather than
// independently addressable.
type Student struct {
	Email        string              `bson:"email" json:"email"`
	Achievements []AchievementRecord `bson:"achievements" json:"achievements"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updated_at"`
}

// TotalXP sums the xp_reward metadata across earned achievements.
func (s *Student) TotalXP() int {
	total := 0
	for _, a := range s.Achievements {
		if a.Achieved && a.Metadata != nil {
			total += a.Metadata.XPReward
		}
	}
	return total
}

// AverageScore is the mean percentage across all achievement records, 0 when
// the student has none.
func (s *Student) AverageScore() float64 {
	if len(s.Achievements) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range s.Achievements {
		sum += a.Percentage
	}
	return sum / float64(len(s.Achievements))
}

// CompletionRate is the share of records marked achieved, as a percentage.
func (s *Student) CompletionRate() float64 {
	if len(s.Achievements) == 0 {
		return 0
	}
	earned := 0
	for _, a := range s.Achievements {
		if a.Achieved {
			earned++
		}
	}
	return float64(earned) / float64(len(s.Achievements)) * 100
}

// CountByCourse groups achievement counts by course id.
func (s *Student) CountByCourse() map[string]int {
	counts := make(map[string]int)
	for _, a := range s.Achievements {
		counts[a.CourseID]++
	}
	return counts
}

// RecentAchievements returns up to limit earned achievements, most recent
// first.
func (s *Student) RecentAchievements(limit int) []AchievementRecord {
	earned := make([]AchievementRecord, 0, len(s.Achievements))
	for _, a := range s.Achievements {
		if a.Achieved && a.DateEarned != nil {
			earned = append(earned, a)
		}
	}
	sort.Slice(earned, func(i, j int) bool {
		return earned[i].DateEarned.After(*earned[j].DateEarned)
	})
	if limit > 0 && len(earned) > limit {
		earned = earned[:limit]
	}
	return earned
}

// Stats assembles the per-student summary served by the stats endpoint.
func (s *Student) Stats() AchievementStats {
	return AchievementStats{
		TotalAchievements:    len(s.Achievements),
		TotalXP:              s.TotalXP(),
		AverageScore:         s.AverageScore(),
		AchievementsByCourse: s.CountByCourse(),
		RecentAchievements:   s.RecentAchievements(5),
		CompletionRate:       s.CompletionRate(),
	}
}
