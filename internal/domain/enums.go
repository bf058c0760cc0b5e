package domain

import "strings"

// RoomStatus is the lifecycle state of a room.
type RoomStatus string

const (
	RoomActive  RoomStatus = "active"
	RoomEnded   RoomStatus = "ended"
	RoomDeleted RoomStatus = "deleted"
)

// MemberRole is the role a user holds in a room.
type MemberRole string

const (
	RoleCreator MemberRole = "creator"
	RoleMember  MemberRole = "member"
)

// WorkoutType classifies a logged workout.
type WorkoutType string

const (
	WorkoutGym   WorkoutType = "gym"
	WorkoutWalk  WorkoutType = "walk"
	WorkoutRun   WorkoutType = "run"
	WorkoutRest  WorkoutType = "rest"
	WorkoutOther WorkoutType = "other"
)

// ActivityLevel is a user's self-reported daily activity.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityAthlete          ActivityLevel = "athlete"
)

// WorkoutFrequency is how often a user trained before joining.
type WorkoutFrequency string

const (
	FrequencyNever WorkoutFrequency = "never"
	Frequency1To2  WorkoutFrequency = "1_2_per_week"
	Frequency3To4  WorkoutFrequency = "3_4_per_week"
	Frequency5To6  WorkoutFrequency = "5_6_per_week"
	FrequencyDaily WorkoutFrequency = "daily"
)

// FitnessGoal is the outcome a user is working towards.
type FitnessGoal string

const (
	GoalLoseWeight     FitnessGoal = "lose_weight"
	GoalBuildMuscle    FitnessGoal = "build_muscle"
	GoalMaintain       FitnessGoal = "maintain"
	GoalImproveFitness FitnessGoal = "improve_fitness"
	GoalGeneralHealth  FitnessGoal = "general_health"
)

var (
	roomStatuses       = []RoomStatus{RoomActive, RoomEnded, RoomDeleted}
	memberRoles        = []MemberRole{RoleCreator, RoleMember}
	workoutTypes       = []WorkoutType{WorkoutGym, WorkoutWalk, WorkoutRun, WorkoutRest, WorkoutOther}
	activityLevels     = []ActivityLevel{ActivitySedentary, ActivityLightlyActive, ActivityModeratelyActive, ActivityVeryActive, ActivityAthlete}
	workoutFrequencies = []WorkoutFrequency{FrequencyNever, Frequency1To2, Frequency3To4, Frequency5To6, FrequencyDaily}
	fitnessGoals       = []FitnessGoal{GoalLoseWeight, GoalBuildMuscle, GoalMaintain, GoalImproveFitness, GoalGeneralHealth}
)

func parseEnum[T ~string](field, s string, allowed []T) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	var zero T
	return zero, Invalid(field, "unknown value %q", s)
}

// ParseRoomStatus converts s to a RoomStatus.
func ParseRoomStatus(s string) (RoomStatus, error) {
	return parseEnum("status", s, roomStatuses)
}

// ParseMemberRole converts s to a MemberRole.
func ParseMemberRole(s string) (MemberRole, error) {
	return parseEnum("role", s, memberRoles)
}

// ParseWorkoutType converts s to a WorkoutType.
func ParseWorkoutType(s string) (WorkoutType, error) {
	return parseEnum("workoutType", s, workoutTypes)
}

// ParseActivityLevel converts s to an ActivityLevel.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	return parseEnum("activityLevel", s, activityLevels)
}

// ParseWorkoutFrequency converts s to a WorkoutFrequency.
func ParseWorkoutFrequency(s string) (WorkoutFrequency, error) {
	return parseEnum("workoutFrequency", s, workoutFrequencies)
}

// ParseFitnessGoal converts s to a FitnessGoal.
func ParseFitnessGoal(s string) (FitnessGoal, error) {
	return parseEnum("fitnessGoal", s, fitnessGoals)
}
