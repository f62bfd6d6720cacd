package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchAll(t *testing.T) {
	p := MatchAll()
	assert.Equal(t, "1=1", p.Expr)
	assert.Empty(t, p.Args)
}

func TestNameEquals(t *testing.T) {
	p := NameEquals("m.name", "  Corolla ")
	assert.Equal(t, "LOWER(m.name) = ?", p.Expr)
	require.Len(t, p.Args, 1)
	assert.Equal(t, "corolla", p.Args[0])
}

func TestNameEquals_EmptyValueMatchesEverything(t *testing.T) {
	p := NameEquals("m.name", "")
	assert.Equal(t, MatchAll(), p)

	p = NameEquals("m.name", "   ")
	assert.Equal(t, MatchAll(), p)
}

func TestAnd_DropsIdentityPredicates(t *testing.T) {
	p := And(MatchAll(), NameEquals("m.name", "A4"), MatchAll())
	assert.Equal(t, "LOWER(m.name) = ?", p.Expr)
	assert.Len(t, p.Args, 1)
}

func TestAnd_JoinsPredicates(t *testing.T) {
	p := And(NameEquals("m.name", "A4"), NameEquals("b.name", "Audi"))
	assert.Equal(t, "LOWER(m.name) = ? AND LOWER(b.name) = ?", p.Expr)
	assert.Equal(t, []interface{}{"a4", "audi"}, p.Args)
}

func TestAnd_AllIdentity(t *testing.T) {
	p := And(MatchAll(), MatchAll())
	assert.Equal(t, MatchAll(), p)
}

func TestManufacturingYearRange_BothBounds(t *testing.T) {
	p, err := ManufacturingYearRange("c.manufacturing_date", "2015", "2020")
	require.NoError(t, err)
	assert.Equal(t, "c.manufacturing_date BETWEEN ? AND ?", p.Expr)
	require.Len(t, p.Args, 2)
	assert.Equal(t, "2015-01-01T00:00:00Z", p.Args[0])
	assert.Equal(t, "2020-12-31T23:59:59Z", p.Args[1])
}

func TestManufacturingYearRange_FromOnly(t *testing.T) {
	p, err := ManufacturingYearRange("c.manufacturing_date", "2018", "")
	require.NoError(t, err)
	assert.Equal(t, "c.manufacturing_date >= ?", p.Expr)
	require.Len(t, p.Args, 1)
	// Lower bound is the start of the year, so cars manufactured in
	// January of the from-year are included.
	assert.Equal(t, "2018-01-01T00:00:00Z", p.Args[0])
}

func TestManufacturingYearRange_TillOnly(t *testing.T) {
	p, err := ManufacturingYearRange("c.manufacturing_date", "", "2019")
	require.NoError(t, err)
	assert.Equal(t, "c.manufacturing_date <= ?", p.Expr)
	require.Len(t, p.Args, 1)
	assert.Equal(t, "2019-12-31T23:59:59Z", p.Args[0])
}

func TestManufacturingYearRange_Unbounded(t *testing.T) {
	p, err := ManufacturingYearRange("c.manufacturing_date", "", "")
	require.NoError(t, err)
	assert.Equal(t, MatchAll(), p)
}

func TestManufacturingYearRange_InvalidYear(t *testing.T) {
	_, err := ManufacturingYearRange("c.manufacturing_date", "twenty", "")
	assert.ErrorIs(t, err, ErrInvalidYear)

	_, err = ManufacturingYearRange("c.manufacturing_date", "2015", "later")
	assert.ErrorIs(t, err, ErrInvalidYear)
}
