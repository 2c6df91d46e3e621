package duffel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsKeepOrder(t *testing.T) {
	p := Params{}
	p.Add("offer_request_id", "orq_1")
	p.AddInt("limit", 20)
	p.AddBool("return_available_services", true)
	p.AddList("selected_partial_offer", "off_1", "off_2")

	assert.Equal(t, "offer_request_id=orq_1&limit=20&return_available_services=true&selected_partial_offer%5B%5D=off_1&selected_partial_offer%5B%5D=off_2", p.Encode())
	assert.Equal(t, 5, p.Len())
	assert.Equal(t, "20", p.Get("limit"))
	assert.Equal(t, "", p.Get("missing"))
}

func TestParamsSet(t *testing.T) {
	p := Params{}
	p.Add("limit", "50")
	p.Add("sort", "total_amount")

	p.Set("limit", "10")
	p.Set("after", "g2wAAAACbQAAAA")

	assert.Equal(t, "limit=10&sort=total_amount&after=g2wAAAACbQAAAA", p.Encode())
}

func TestParamsCloneIsIndependent(t *testing.T) {
	p := Params{}
	p.Add("limit", "50")

	q := p.clone()
	q.Set("after", "x")

	assert.Equal(t, "limit=50", p.Encode())
	assert.Equal(t, "", Params{}.Encode())
}
