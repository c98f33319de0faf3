package domain

// Customer is a boat owner served by a customer owner.
type Customer struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Street    string
	Apt       string
	ZipCode   string
	StateID   *int64
	CountryID *int64
	OwnerID   int64
	Audit
}

// FullName joins first and last name.
func (c Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	if c.FirstName == "" {
		return c.LastName
	}
	return c.FirstName + " " + c.LastName
}
