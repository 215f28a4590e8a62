package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressJSONCoordinates(t *testing.T) {
	a := Address{ID: "a1", Street: "12 Rizal St", City: "Makati", Province: "Metro Manila"}

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"coordinates":null`)
	assert.NotContains(t, string(data), "latitude")

	a.SetCoordinates(&Coordinates{Lat: 14.55, Lng: 121.02})
	data, err = json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"coordinates":{"lat":14.55,"lng":121.02}`)
}
