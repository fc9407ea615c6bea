package property

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFacts(t *testing.T) {
	f := Default()
	assert.Equal(t, "Wairimu Station", f.Name)
	assert.Equal(t, "New Zealand", f.Location.Country)
	assert.Positive(t, f.Area.Hectares)
	assert.NotEmpty(t, f.Features)
	assert.NotEmpty(t, f.Visa.Notes)
	assert.Equal(t, "+64 6 555 0199", f.Contact.Phone)
}

func TestFactsJSONUsesCamelCase(t *testing.T) {
	data, err := json.Marshal(Default())
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Contains(t, m, "investmentHighlights")
	assert.Contains(t, m, "landUse")
}

func TestParseRequiresName(t *testing.T) {
	_, err := Parse([]byte("features: [a]\n"))
	assert.Error(t, err)
}
