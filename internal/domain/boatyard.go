package domain

// Boatyard is a yard where moorings are kept. BoatyardID is the
// human-readable business id ("BY" + three digits).
type Boatyard struct {
	ID             int64
	BoatyardID     string
	Name           string
	Street         string
	Apt            string
	ZipCode        string
	StateID        *int64
	CountryID      *int64
	GPSCoordinates string
	MainContact    string
	OwnerID        int64
	Audit
}

// ServiceArea is an open-water area grouping moorings. ServiceAreaID is
// the business id ("SA" + three digits).
type ServiceArea struct {
	ID             int64
	ServiceAreaID  string
	Name           string
	TypeID         *int64
	Street         string
	Apt            string
	ZipCode        string
	StateID        *int64
	CountryID      *int64
	GPSCoordinates string
	Notes          string
	OwnerID        int64
	Audit
}
