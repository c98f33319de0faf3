package domain

// MooringParent names the record a mooring hangs off.
type MooringParent string

const (
	ParentCustomer    MooringParent = "customer_id"
	ParentBoatyard    MooringParent = "boatyard_id"
	ParentServiceArea MooringParent = "service_area_id"
)

// Mooring is a physical mooring and the boat on it.
type Mooring struct {
	ID                     int64
	MooringNumber          string
	BoatName               string
	BoatSize               string
	BoatType               string
	BoatWeight             string
	SizeOfWeight           string
	TypeOfWeight           string
	TopChainCondition      string
	BottomChainCondition   string
	ShackleSwivelCondition string
	EyeCondition           string
	PennantCondition       string
	DepthAtMeanHighWater   string
	GPSCoordinates         string
	Status                 string
	CustomerID             *int64
	BoatyardID             *int64
	ServiceAreaID          *int64
	OwnerID                int64
	Audit
}

// ParentID returns the id stored for parent, if any.
func (m Mooring) ParentID(parent MooringParent) *int64 {
	switch parent {
	case ParentCustomer:
		return m.CustomerID
	case ParentBoatyard:
		return m.BoatyardID
	case ParentServiceArea:
		return m.ServiceAreaID
	}
	return nil
}
