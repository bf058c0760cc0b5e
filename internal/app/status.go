package app

import "fitrooms/internal/domain"

// ResolveRoomStatus returns the status room should have on today: an active
// room whose end date has passed is ended, anything else keeps its stored
// status. It has no side effects.
func ResolveRoomStatus(room domain.Room, today domain.Date) domain.RoomStatus {
	if room.Status == domain.RoomActive && room.EndDate.Before(today) {
		return domain.RoomEnded
	}
	return room.Status
}
