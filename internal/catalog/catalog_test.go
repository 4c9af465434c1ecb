package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	assert.Len(t, c.Treatments(), 6)
	assert.Len(t, c.Locations(), 4)
	assert.Equal(t, "General Checkup", c.TreatmentName("1"))
	assert.Equal(t, "Riverside Clinic", c.LocationName("2"))
}

func TestLookupFallbacks(t *testing.T) {
	c := Default()

	assert.Equal(t, UnknownTreatment, c.TreatmentName("99"))
	assert.Equal(t, UnknownLocation, c.LocationName(""))

	_, ok := c.Treatment("99")
	assert.False(t, ok)
}

func TestListsAreCopies(t *testing.T) {
	c := Default()

	ts := c.Treatments()
	ts[0].Name = "changed"

	assert.Equal(t, "General Checkup", c.TreatmentName("1"))
}
