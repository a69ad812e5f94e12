package kml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoPlacemarksDoc = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Folder>
      <Placemark>
        <name> Sagrada Familia </name>
        <description> Basilica in Barcelona </description>
        <Point>
          <coordinates>2.1744,41.4036,0</coordinates>
        </Point>
      </Placemark>
      <Placemark>
        <name>Park Guell</name>
        <Point>
          <coordinates>2.1527,41.4145</coordinates>
        </Point>
      </Placemark>
    </Folder>
  </Document>
</kml>`

func TestParse_TwoPlacemarks(t *testing.T) {
	placemarks, err := Parse([]byte(twoPlacemarksDoc))
	require.NoError(t, err)
	require.Len(t, placemarks, 2)

	first := placemarks[0]
	assert.Equal(t, "Sagrada Familia", first.Name)
	assert.Equal(t, "Basilica in Barcelona", first.Description)
	assert.Equal(t, 2.1744, first.Lon)
	assert.Equal(t, 41.4036, first.Lat)

	// Second placemark has no description element at all
	second := placemarks[1]
	assert.Equal(t, "Park Guell", second.Name)
	assert.Equal(t, "", second.Description)
	assert.Equal(t, 2.1527, second.Lon)
	assert.Equal(t, 41.4145, second.Lat)
}

func TestParse_AltitudeDiscarded(t *testing.T) {
	doc := `<kml><Document><Folder><Placemark>
		<name>Somewhere</name>
		<Point><coordinates>12.34,56.78,1200.5</coordinates></Point>
	</Placemark></Folder></Document></kml>`

	placemarks, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, placemarks, 1)
	assert.Equal(t, 12.34, placemarks[0].Lon)
	assert.Equal(t, 56.78, placemarks[0].Lat)
}

func TestParse_MultipleFolders(t *testing.T) {
	doc := `<kml><Document>
		<Folder><Placemark><name>A</name><Point><coordinates>1,2</coordinates></Point></Placemark></Folder>
		<Folder><Placemark><name>B</name><Point><coordinates>3,4</coordinates></Point></Placemark></Folder>
	</Document></kml>`

	placemarks, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, placemarks, 2)
	assert.Equal(t, "A", placemarks[0].Name)
	assert.Equal(t, "B", placemarks[1].Name)
}

func TestParse_DocumentRoot(t *testing.T) {
	// Document без обёртки <kml>
	doc := `<Document><Folder><Placemark>
		<name>Bare</name>
		<Point><coordinates>5,6</coordinates></Point>
	</Placemark></Folder></Document>`

	placemarks, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, placemarks, 1)
	assert.Equal(t, "Bare", placemarks[0].Name)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "not xml at all",
			doc:  `{"this": "is json"}`,
		},
		{
			name: "truncated xml",
			doc:  `<kml><Document><Folder><Placemark><name>Broken`,
		},
		{
			name: "missing document element",
			doc:  `<kml><Folder><Placemark><name>X</name><Point><coordinates>1,2</coordinates></Point></Placemark></Folder></kml>`,
		},
		{
			name: "placemark without name",
			doc:  `<kml><Document><Folder><Placemark><Point><coordinates>1,2</coordinates></Point></Placemark></Folder></Document></kml>`,
		},
		{
			name: "placemark with whitespace-only name",
			doc:  `<kml><Document><Folder><Placemark><name>   </name><Point><coordinates>1,2</coordinates></Point></Placemark></Folder></Document></kml>`,
		},
		{
			name: "placemark without point",
			doc:  `<kml><Document><Folder><Placemark><name>X</name></Placemark></Folder></Document></kml>`,
		},
		{
			name: "single coordinate field",
			doc:  `<kml><Document><Folder><Placemark><name>X</name><Point><coordinates>1.5</coordinates></Point></Placemark></Folder></Document></kml>`,
		},
		{
			name: "non-numeric longitude",
			doc:  `<kml><Document><Folder><Placemark><name>X</name><Point><coordinates>abc,2</coordinates></Point></Placemark></Folder></Document></kml>`,
		},
		{
			name: "non-numeric latitude",
			doc:  `<kml><Document><Folder><Placemark><name>X</name><Point><coordinates>1,xyz</coordinates></Point></Placemark></Folder></Document></kml>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			placemarks, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
			assert.Nil(t, placemarks)
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	doc := `<kml><Document></Document></kml>`

	placemarks, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, placemarks)
}

func TestParse_CoordinatesWithWhitespace(t *testing.T) {
	// KML-генераторы часто кладут переводы строк внутрь coordinates
	doc := `<kml><Document><Folder><Placemark>
		<name>Spaced</name>
		<Point><coordinates>
			2.17, 41.40 ,0
		</coordinates></Point>
	</Placemark></Folder></Document></kml>`

	placemarks, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, placemarks, 1)
	assert.Equal(t, 2.17, placemarks[0].Lon)
	assert.Equal(t, 41.40, placemarks[0].Lat)
}
