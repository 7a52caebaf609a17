package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
)

const dictionaryCSV = `VARIABLE NAME,developer-friendly name,API data type
INSTNM,name,string
CITY,city,string
LATITUDE,location.lat,float
LONGITUDE,location.lon,float
REGION,region_id,integer
ADM_RATE,admission_rate.overall,float
NPT4_PUB_110001,net_price.public.by_income_level.110001-plus,integer
NPT4_PRIV_110001,net_price.private.by_income_level.110001-plus,integer
UNUSED_CODE,,
`

const institutionsCSV = `,id,INSTNM,CITY,LATITUDE,LONGITUDE,REGION,ADM_RATE,NPT4_PUB_110001,NPT4_PRIV_110001,EXTRA
0,100,Alpha College,Boston,42.3,-71.1,1,0.5,NULL,30000,x
1,200,Beta University,Omaha,41.2,-95.9,4,PrivacySuppressed,20000,NULL,y
2,300,Gamma Institute,Nowhere,,,12,0.9,NULL,NULL,z
`

const programsCSV = `,cip.unit_id,cip.title,cip.credential.title,cip.earnings.median_earnings,cip.counts.awards
0,100,Computer Science.,Bachelor's Degree,80000,40
1,200,Computer Science.,Bachelor's Degree,70000,12
2,200,Nursing.,Associate's Degree,50000,30
`

// writeFile writes content under a fresh temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func mustReadCSV(t *testing.T, content string) *core.Table {
	t.Helper()
	tbl, err := ReadCSV(context.Background(), strings.NewReader(content), 0)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	return tbl
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
