package noaa

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

const sampleCSV = `STATE__,BGN_DATE,STATE,EVTYPE,FATALITIES,INJURIES,PROPDMG,PROPDMGEXP,CROPDMG,CROPDMGEXP,REFNUM
1.00,4/18/1950 0:00:00,AL,TORNADO,5.00,10.00,0.00,,0.00,,1.00
13.00,2/20/1998 0:00:00,GA,FLOOD,0.00,0.00,25.00,M,0.00,,2.00
48.00,6/1/1998 0:00:00,TX,DROUGHT,0.00,0.00,0.00,,2.00,B,4.00
31.00,5/22/1996 0:00:00,NE,HAIL,0.00,2.00,7.00,k,0.00,,6.00
`

func TestParseDataset(t *testing.T) {
	records, err := parseDataset(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, domain.EventRecord{
		EventType:  "TORNADO",
		Fatalities: 5,
		Injuries:   10,
	}, records[0])

	assert.Equal(t, domain.EventRecord{
		EventType:     "FLOOD",
		PropDamage:    25,
		PropDamageExp: "M",
	}, records[1])

	// Lowercase magnitude codes survive parsing untouched; resolution
	// upper-cases them later.
	assert.Equal(t, "k", records[3].PropDamageExp)
	assert.Equal(t, 2, records[3].Injuries)
}

func TestParseDataset_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "empty input",
			input:   "",
			wantErr: "empty dataset",
		},
		{
			name:    "missing required column",
			input:   "EVTYPE,FATALITIES,INJURIES,PROPDMG,PROPDMGEXP,CROPDMG\nTORNADO,1,0,0,,0\n",
			wantErr: "missing column CROPDMGEXP",
		},
		{
			name: "malformed fatality count",
			input: "EVTYPE,FATALITIES,INJURIES,PROPDMG,PROPDMGEXP,CROPDMG,CROPDMGEXP\n" +
				"TORNADO,many,0,0,,0,\n",
			wantErr: `row 2: invalid FATALITIES "many"`,
		},
		{
			name: "negative mantissa",
			input: "EVTYPE,FATALITIES,INJURIES,PROPDMG,PROPDMGEXP,CROPDMG,CROPDMGEXP\n" +
				"TORNADO,0,0,-5,K,0,\n",
			wantErr: `row 2: invalid PROPDMG "-5"`,
		},
		{
			name: "wrong field count",
			input: "EVTYPE,FATALITIES,INJURIES,PROPDMG,PROPDMGEXP,CROPDMG,CROPDMGEXP\n" +
				"TORNADO,1\n",
			wantErr: "row 2",
		},
		{
			name:    "corrupt bzip2 stream",
			input:   "BZh9 this is not a valid bzip2 payload",
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseDataset(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseDataset_EmptyNumericFieldsCountAsZero(t *testing.T) {
	input := "EVTYPE,FATALITIES,INJURIES,PROPDMG,PROPDMGEXP,CROPDMG,CROPDMGEXP\n" +
		"HEAT,,,,,,\n"

	records, err := parseDataset(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.EventRecord{EventType: "HEAT"}, records[0])
}

func TestParseDataset_Bzip2Fixture(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "storm_sample.csv.bz2"))
	require.NoError(t, err)
	defer f.Close()

	records, err := parseDataset(f)
	require.NoError(t, err)
	require.Len(t, records, 6)

	assert.Equal(t, "TORNADO", records[0].EventType)
	assert.Equal(t, 5, records[0].Fatalities)
	assert.Equal(t, "B", records[3].CropDamageExp)
	assert.Equal(t, "DENSE FOG", records[4].EventType)
	assert.Equal(t, "?", records[5].PropDamageExp)
}
