package route

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SegmentPrice is the fare between two points on a route, directional.
type SegmentPrice struct {
	From  string  `bson:"from" json:"from"`
	To    string  `bson:"to" json:"to"`
	Price float64 `bson:"price" json:"price"`
}

// PricePair identifies a (from, to) segment without its fare. Returned
// when route creation rejects an incomplete price table.
type PricePair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Route is keyed by RouteID. Stops excludes the start and end points;
// the full ordered sequence is [StartPoint, Stops..., EndPoint].
type Route struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RouteID    string             `bson:"routeId" json:"routeId"`
	StartPoint string             `bson:"startPoint" json:"startPoint"`
	EndPoint   string             `bson:"endPoint" json:"endPoint"`
	Distance   float64            `bson:"distance" json:"distance"`
	Stops      []string           `bson:"stops" json:"stops"`
	Prices     []SegmentPrice     `bson:"prices" json:"prices"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AllPoints returns the full ordered point sequence of the route.
func (r *Route) AllPoints() []string {
	points := make([]string, 0, len(r.Stops)+2)
	points = append(points, r.StartPoint)
	points = append(points, r.Stops...)
	points = append(points, r.EndPoint)
	return points
}

// PriceFor returns the fare for the (from, to) segment, if present.
func (r *Route) PriceFor(from, to string) (float64, bool) {
	for _, p := range r.Prices {
		if p.From == from && p.To == to {
			return p.Price, true
		}
	}
	return 0, false
}

// OrderedIndexes returns the positions of from and to in the full point
// sequence. ok is false when either is absent or from does not precede to.
func (r *Route) OrderedIndexes(from, to string) (int, int, bool) {
	points := r.AllPoints()
	fromIdx, toIdx := -1, -1
	for i, p := range points {
		if p == from && fromIdx == -1 {
			fromIdx = i
		}
		if p == to {
			toIdx = i
		}
	}
	if fromIdx == -1 || toIdx == -1 || fromIdx >= toIdx {
		return fromIdx, toIdx, false
	}
	return fromIdx, toIdx, true
}

// MissingPricePairs enumerates every ordered (i < j) pair of points that
// has no entry in prices.
func MissingPricePairs(points []string, prices []SegmentPrice) []PricePair {
	var missing []PricePair
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			found := false
			for _, p := range prices {
				if p.From == points[i] && p.To == points[j] {
					found = true
					break
				}
			}
			if !found {
				missing = append(missing, PricePair{From: points[i], To: points[j]})
			}
		}
	}
	return missing
}
