package app

import "fitrooms/internal/domain"

// maxStreakDays bounds the backwards walk of a streak computation.
const maxStreakDays = 365

// currentStreak counts consecutive logged days walking back from today when
// today is logged, otherwise from yesterday. The walk stops at the first gap,
// at floor when floor is set, or after maxStreakDays days.
func currentStreak(logged map[domain.Date]bool, today, floor domain.Date) int {
	day := today
	if !logged[today] {
		day = today.AddDays(-1)
	}
	streak := 0
	for streak < maxStreakDays {
		if !floor.IsZero() && day.Before(floor) {
			break
		}
		if !logged[day] {
			break
		}
		streak++
		day = day.AddDays(-1)
	}
	return streak
}
