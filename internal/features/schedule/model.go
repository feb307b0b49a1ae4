package schedule

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleStop is an intermediate stop with its arrival time. StopName
// must belong to the stop set of the schedule's route.
type ScheduleStop struct {
	StopName    string    `bson:"stopName" json:"stopName"`
	ArrivalTime time.Time `bson:"arrivalTime" json:"arrivalTime"`
}

// Schedule is a recurring trip derived from a route, a bus and a time
// window. It may exist only while an active permit covers the bus+route
// for [StartTime, EndTime] and the bus is active.
type Schedule struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ScheduleID string             `bson:"scheduleId" json:"scheduleId"`
	RouteID    string             `bson:"routeId" json:"routeId"`
	StartPoint string             `bson:"startPoint" json:"startPoint"`
	EndPoint   string             `bson:"endPoint" json:"endPoint"`
	BusNumber  string             `bson:"busNumber" json:"busNumber"`
	StartTime  time.Time          `bson:"startTime" json:"startTime"`
	EndTime    time.Time          `bson:"endTime" json:"endTime"`
	Stops      []ScheduleStop     `bson:"stops" json:"stops"`
	Days       []string           `bson:"days" json:"days"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RunsOn reports whether the schedule recurs on the given weekday.
func (s *Schedule) RunsOn(weekday time.Weekday) bool {
	name := weekday.String()
	for _, d := range s.Days {
		if d == name {
			return true
		}
	}
	return false
}
