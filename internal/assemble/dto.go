package assemble

import "time"

// Audit is embedded in every top-level response.
type Audit struct {
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	CreatedBy      string    `json:"createdBy"`
	LastModifiedBy string    `json:"lastModifiedBy"`
}

type StateResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type CountryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// LookupResponse renders any id/name reference row.
type LookupResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type CustomerRef struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
}

type BoatyardRef struct {
	ID           int64  `json:"id"`
	BoatyardID   string `json:"boatyardId"`
	BoatyardName string `json:"boatyardName"`
}

type ServiceAreaRef struct {
	ID              int64  `json:"id"`
	ServiceAreaID   string `json:"serviceAreaId"`
	ServiceAreaName string `json:"serviceAreaName"`
}

type VendorRef struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"companyName"`
}

type MooringRef struct {
	ID            int64  `json:"id"`
	MooringNumber string `json:"mooringNumber"`
	BoatName      string `json:"boatName"`
}

type JobRef struct {
	ID     int64  `json:"id"`
	Number string `json:"number"`
}

type InvoiceRef struct {
	ID          int64 `json:"id"`
	AmountCents int64 `json:"amountCents"`
}

type UserResponse struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	Phone         string           `json:"phone"`
	Role          string           `json:"role"`
	State         *StateResponse   `json:"state,omitempty"`
	Country       *CountryResponse `json:"country,omitempty"`
	CustomerAdmin *UserRef         `json:"customerAdmin,omitempty"`
	Audit
}

// MooringResponse is returned on its own with its references resolved,
// and nested under a parent with only the reference ids.
type MooringResponse struct {
	ID                     int64           `json:"id"`
	MooringNumber          string          `json:"mooringNumber"`
	BoatName               string          `json:"boatName"`
	BoatSize               string          `json:"boatSize"`
	BoatType               string          `json:"boatType"`
	BoatWeight             string          `json:"boatWeight"`
	SizeOfWeight           string          `json:"sizeOfWeight"`
	TypeOfWeight           string          `json:"typeOfWeight"`
	TopChainCondition      string          `json:"topChainCondition"`
	BottomChainCondition   string          `json:"bottomChainCondition"`
	ShackleSwivelCondition string          `json:"shackleSwivelCondition"`
	EyeCondition           string          `json:"eyeCondition"`
	PennantCondition       string          `json:"pennantCondition"`
	DepthAtMeanHighWater   string          `json:"depthAtMeanHighWater"`
	GPSCoordinates         string          `json:"gpsCoordinates"`
	Status                 string          `json:"status"`
	CustomerID             *int64          `json:"customerId,omitempty"`
	BoatyardID             *int64          `json:"boatyardId,omitempty"`
	ServiceAreaID          *int64          `json:"serviceAreaId,omitempty"`
	CustomerOwnerID        int64           `json:"customerOwnerId"`
	Customer               *CustomerRef    `json:"customer,omitempty"`
	Boatyard               *BoatyardRef    `json:"boatyard,omitempty"`
	ServiceArea            *ServiceAreaRef `json:"serviceArea,omitempty"`
	Audit
}

type CustomerResponse struct {
	ID              int64             `json:"id"`
	FirstName       string            `json:"firstName"`
	LastName        string            `json:"lastName"`
	EmailAddress    string            `json:"emailAddress"`
	Phone           string            `json:"phone"`
	StreetHouse     string            `json:"streetHouse"`
	AptSuite        string            `json:"aptSuite"`
	ZipCode         string            `json:"zipCode"`
	State           *StateResponse    `json:"state,omitempty"`
	Country         *CountryResponse  `json:"country,omitempty"`
	CustomerOwnerID int64             `json:"customerOwnerId"`
	Moorings        []MooringResponse `json:"moorings"`
	Audit
}

type BoatyardResponse struct {
	ID                 int64             `json:"id"`
	BoatyardID         string            `json:"boatyardId"`
	BoatyardName       string            `json:"boatyardName"`
	Street             string            `json:"street"`
	Apt                string            `json:"apt"`
	ZipCode            string            `json:"zipCode"`
	State              *StateResponse    `json:"state,omitempty"`
	Country            *CountryResponse  `json:"country,omitempty"`
	GPSCoordinates     string            `json:"gpsCoordinates"`
	MainContact        string            `json:"mainContact"`
	CustomerOwnerID    int64             `json:"customerOwnerId"`
	MooringInventoried int               `json:"mooringInventoried"`
	Moorings           []MooringResponse `json:"moorings"`
	Audit
}

type ServiceAreaResponse struct {
	ID                 int64             `json:"id"`
	ServiceAreaID      string            `json:"serviceAreaId"`
	ServiceAreaName    string            `json:"serviceAreaName"`
	ServiceAreaType    *LookupResponse   `json:"serviceAreaType,omitempty"`
	Street             string            `json:"street"`
	Apt                string            `json:"apt"`
	ZipCode            string            `json:"zipCode"`
	State              *StateResponse    `json:"state,omitempty"`
	Country            *CountryResponse  `json:"country,omitempty"`
	GPSCoordinates     string            `json:"gpsCoordinates"`
	Notes              string            `json:"notes"`
	CustomerOwnerID    int64             `json:"customerOwnerId"`
	MooringInventoried int               `json:"mooringInventoried"`
	Moorings           []MooringResponse `json:"moorings"`
	Audit
}

type VendorResponse struct {
	ID              int64            `json:"id"`
	CompanyName     string           `json:"companyName"`
	CompanyPhone    string           `json:"companyPhoneNumber"`
	CompanyEmail    string           `json:"companyEmail"`
	Website         string           `json:"website"`
	Street          string           `json:"street"`
	Apt             string           `json:"apt"`
	ZipCode         string           `json:"zipCode"`
	State           *StateResponse   `json:"state,omitempty"`
	Country         *CountryResponse `json:"country,omitempty"`
	RemitStreet     string           `json:"remitStreet"`
	RemitEmail      string           `json:"remitEmailAddress"`
	RemitPhone      string           `json:"remitPhoneNumber"`
	SalesRepName    string           `json:"salesRepName"`
	SalesRepPhone   string           `json:"salesRepPhoneNumber"`
	SalesRepEmail   string           `json:"salesRepEmail"`
	AccountNumber   string           `json:"accountNumber"`
	CustomerOwnerID int64            `json:"customerOwnerId"`
	InventoryItems  int              `json:"inventoryItems"`
	Audit
}

type InventoryResponse struct {
	ID             int64           `json:"id"`
	ItemName       string          `json:"itemName"`
	CostCents      int64           `json:"costCents"`
	SalePriceCents int64           `json:"salePriceCents"`
	Taxable        bool            `json:"taxable"`
	Quantity       int             `json:"quantity"`
	InventoryType  *LookupResponse `json:"inventoryType,omitempty"`
	Vendor         *VendorRef      `json:"vendor,omitempty"`
	Audit
}

// JobResponse renders work orders and estimates alike.
type JobResponse struct {
	ID              int64           `json:"id"`
	Kind            string          `json:"kind"`
	Number          string          `json:"number"`
	ScheduledDate   string          `json:"scheduledDate,omitempty"`
	DueDate         string          `json:"dueDate,omitempty"`
	Problem         string          `json:"problem"`
	Mooring         *MooringRef     `json:"mooring,omitempty"`
	Customer        *CustomerRef    `json:"customer,omitempty"`
	Boatyard        *BoatyardRef    `json:"boatyard,omitempty"`
	Technician      *UserRef        `json:"technician,omitempty"`
	Status          *LookupResponse `json:"workOrderStatus,omitempty"`
	CustomerOwnerID int64           `json:"customerOwnerId"`
	Audit
}

type InvoiceResponse struct {
	ID              int64           `json:"id"`
	AmountCents     int64           `json:"amountCents"`
	PaymentStatus   *LookupResponse `json:"paymentStatus,omitempty"`
	WorkOrder       *JobRef         `json:"workOrder,omitempty"`
	CustomerOwnerID int64           `json:"customerOwnerId"`
	Audit
}

type PaymentResponse struct {
	ID              int64           `json:"id"`
	AmountCents     int64           `json:"amountCents"`
	PaymentType     string          `json:"paymentType"`
	PaymentStatus   *LookupResponse `json:"paymentStatus,omitempty"`
	Invoice         *InvoiceRef     `json:"invoice,omitempty"`
	CustomerOwnerID int64           `json:"customerOwnerId"`
	Audit
}

type NotificationResponse struct {
	ID         int64     `json:"id"`
	CreatedBy  *UserRef  `json:"createdBy,omitempty"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	EntityType string    `json:"entityType,omitempty"`
	EntityID   int64     `json:"entityId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
