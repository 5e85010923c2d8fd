package cmd

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/triage-sim/triage-sim/sim"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "population.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPopulation_ParsesRows(t *testing.T) {
	path := writeCSV(t, "age,race,sofa,survived,burden\n"+
		"67,white,11,1,4.5\n"+
		"34,black,3,true,\n"+
		"81,other,15,0,12\n")

	pop, err := loadPopulation(path)
	require.NoError(t, err)
	require.Len(t, pop, 3)

	assert.Equal(t, 67.0, pop[0].Age)
	assert.Equal(t, "white", pop[0].Race)
	assert.Equal(t, 11.0, pop[0].SOFA)
	assert.True(t, pop[0].Survived)
	assert.Equal(t, 4.5, pop[0].Burden)

	assert.True(t, pop[1].Survived, "survived accepts true/false as well as 0/1")
	assert.True(t, math.IsNaN(pop[1].Burden), "empty burden is the missing marker")

	assert.False(t, pop[2].Survived)
}

func TestLoadPopulation_HeaderCaseAndSpaces(t *testing.T) {
	path := writeCSV(t, "Age, Race ,SOFA,Survived,Burden\n55,asian,7,1,2\n")
	pop, err := loadPopulation(path)
	require.NoError(t, err)
	require.Len(t, pop, 1)
	assert.Equal(t, 55.0, pop[0].Age)
}

func TestLoadPopulation_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"wrong header", "years,race,sofa,survived,burden\n55,asian,7,1,2\n"},
		{"missing column", "age,race,sofa,survived\n55,asian,7,1\n"},
		{"no rows", "age,race,sofa,survived,burden\n"},
		{"bad age", "age,race,sofa,survived,burden\nold,asian,7,1,2\n"},
		{"bad severity", "age,race,sofa,survived,burden\n55,asian,high,1,2\n"},
		{"bad survival flag", "age,race,sofa,survived,burden\n55,asian,7,maybe,2\n"},
		{"bad burden", "age,race,sofa,survived,burden\n55,asian,7,1,heavy\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadPopulation(writeCSV(t, tt.content))
			assert.ErrorIs(t, err, sim.ErrInvalidInput)
		})
	}
}

func TestLoadPopulation_FileMissing(t *testing.T) {
	_, err := loadPopulation(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestGeneratePopulation_SeededAndValid(t *testing.T) {
	a := generatePopulation(200, 7)
	b := generatePopulation(200, 7)
	assert.Equal(t, a, b, "same seed must reproduce the population")

	c := generatePopulation(200, 8)
	assert.NotEqual(t, a, c)

	require.NoError(t, sim.ValidatePopulation(a))

	missing := 0
	for _, p := range a {
		assert.GreaterOrEqual(t, p.Age, 18.0)
		assert.LessOrEqual(t, p.SOFA, 24.0)
		if math.IsNaN(p.Burden) {
			missing++
		}
	}
	assert.Greater(t, missing, 0, "some patients should lack a burden score")
	assert.Less(t, missing, 200, "not all patients should lack a burden score")
}
