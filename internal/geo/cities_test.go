package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 205.53, Distance("Томск", "Новосибирск"), 0.01)
	assert.InDelta(t, 193.16, Distance("Екатеринбург", "Челябинск"), 0.01)
	assert.Equal(t, 0.0, Distance("Томск", "Томск"))
	assert.True(t, math.IsInf(Distance("Томск", "Атлантида"), 1))
}

func TestNearbyCities(t *testing.T) {
	assert.Empty(t, NearbyCities("Томск", 50))
	assert.Empty(t, NearbyCities("Томск", 200))
	assert.Equal(t, []string{"Новосибирск"}, NearbyCities("Томск", 206))
	assert.Equal(t, []string{"Челябинск"}, NearbyCities("Екатеринбург", 200))
	assert.Nil(t, NearbyCities("Атлантида", 10000))
}

func TestSearchArea(t *testing.T) {
	assert.Equal(t, []string{"Томск"}, SearchArea("Томск", 50))
	assert.Equal(t, []string{"Казань", "Нижний Новгород", "Самара"}, SearchArea("Казань", 330))
	// an unknown city still searches itself
	assert.Equal(t, []string{"Атлантида"}, SearchArea("Атлантида", 500))
}
