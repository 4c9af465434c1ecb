package catalog

const (
	UnknownTreatment = "Unknown Treatment"
	UnknownLocation  = "Unknown Location"
)

type Treatment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type Location struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Distance string `json:"distance,omitempty"`
}

// Catalog is a read-only provider of treatments and locations.
type Catalog struct {
	treatments []Treatment
	locations  []Location
}

func New(treatments []Treatment, locations []Location) *Catalog {
	return &Catalog{
		treatments: append([]Treatment(nil), treatments...),
		locations:  append([]Location(nil), locations...),
	}
}

// Default returns the clinic's built-in catalog.
func Default() *Catalog {
	return New(defaultTreatments, defaultLocations)
}

func (c *Catalog) Treatments() []Treatment {
	return append([]Treatment(nil), c.treatments...)
}

func (c *Catalog) Locations() []Location {
	return append([]Location(nil), c.locations...)
}

func (c *Catalog) Treatment(id string) (Treatment, bool) {
	for _, t := range c.treatments {
		if t.ID == id {
			return t, true
		}
	}
	return Treatment{}, false
}

func (c *Catalog) Location(id string) (Location, bool) {
	for _, l := range c.locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}

// TreatmentName resolves a treatment id for display, falling back to
// UnknownTreatment.
func (c *Catalog) TreatmentName(id string) string {
	if t, ok := c.Treatment(id); ok {
		return t.Name
	}
	return UnknownTreatment
}

// LocationName resolves a location id for display, falling back to
// UnknownLocation.
func (c *Catalog) LocationName(id string) string {
	if l, ok := c.Location(id); ok {
		return l.Name
	}
	return UnknownLocation
}

var defaultTreatments = []Treatment{
	{ID: "1", Name: "General Checkup", Icon: "stethoscope", Description: "Regular medical examination to assess your overall health."},
	{ID: "2", Name: "Dental Care", Icon: "tooth", Description: "Dental cleaning, filling, crown, or other dental procedures."},
	{ID: "3", Name: "Eye Examination", Icon: "eye", Description: "Comprehensive eye exam and vision testing."},
	{ID: "4", Name: "Dermatology", Icon: "hand", Description: "Skin problems, rashes, acne, and other dermatological issues."},
	{ID: "5", Name: "Orthopedics", Icon: "bone", Description: "Bone and joint problems, fractures, and sports injuries."},
	{ID: "6", Name: "Cardiology", Icon: "heart", Description: "Heart and blood vessel-related issues and checkups."},
}

var defaultLocations = []Location{
	{ID: "1", Name: "Central Hospital", Address: "123 Medical Drive, Healthville, HV 12345", Distance: "2.3 miles"},
	{ID: "2", Name: "Riverside Clinic", Address: "456 Healing Blvd, Welltown, WT 67890", Distance: "4.1 miles"},
	{ID: "3", Name: "Metro Health Center", Address: "789 Care Street, Medford, MF 45678", Distance: "5.8 miles"},
	{ID: "4", Name: "Oakwood Medical", Address: "101 Wellness Road, Oakville, OV 23456", Distance: "7.2 miles"},
}
