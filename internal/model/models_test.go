package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestOutcomeFlags(t *testing.T) {
	assert.True(t, Outcome{"success": true}.Success())
	assert.False(t, Outcome{"success": false}.Success())
	assert.False(t, Outcome{}.Success())
	assert.False(t, Outcome(nil).Success())

	// Failed means an explicit false, not a missing flag.
	assert.True(t, Outcome{"success": false}.Failed())
	assert.False(t, Outcome{}.Failed())
	assert.False(t, Outcome(nil).Failed())
}

func TestOutcomeAWBCoercesNumbers(t *testing.T) {
	assert.Equal(t, "1333110020164", Outcome{"AWB": "1333110020164"}.AWB())
	assert.Equal(t, "1333110020164", Outcome{"AWB": float64(1333110020164)}.AWB())
	assert.Equal(t, "42", Outcome{"AWB": int64(42)}.AWB())
	assert.Equal(t, "", Outcome{}.AWB())
}

func TestOutcomeErrorList(t *testing.T) {
	assert.True(t, Outcome{"error": []interface{}{"shipment cancelled"}}.HasErrorList())
	assert.True(t, Outcome{"error": bson.A{"shipment cancelled"}}.HasErrorList())
	assert.False(t, Outcome{"error": []interface{}{}}.HasErrorList())
	assert.False(t, Outcome{"error": "boom"}.HasErrorList())
	assert.False(t, Outcome{}.HasErrorList())
}

func TestAsListHandlesBSONArrays(t *testing.T) {
	list, ok := AsList(bson.A{"a", "b"})
	assert.True(t, ok)
	assert.Len(t, list, 2)

	list, ok = AsList([]interface{}{"a"})
	assert.True(t, ok)
	assert.Len(t, list, 1)

	_, ok = AsList("a")
	assert.False(t, ok)
	_, ok = AsList(nil)
	assert.False(t, ok)
}

func TestOrderExtraFields(t *testing.T) {
	o := &Order{OrderID: "A1", Extra: map[string]interface{}{"carrier_id": float64(17)}}
	assert.True(t, o.HasField("carrier_id"))
	assert.Equal(t, float64(17), o.Field("carrier_id"))
	assert.False(t, o.HasField("warehouse_id"))

	empty := &Order{OrderID: "A1"}
	assert.False(t, empty.HasField("carrier_id"))
	assert.Nil(t, empty.Field("carrier_id"))
}

func TestWarehouseSignature(t *testing.T) {
	a := &Warehouse{Title: "Main WH", Phone: "9999999999", Address1: "Plot 4", City: "Mumbai", Pincode: "400001"}
	b := &Warehouse{Title: "Main WH", Phone: "9999999999", Address1: "Plot 4", City: "Mumbai", Pincode: "400001"}
	assert.Equal(t, a.Signature(), b.Signature())

	b.Pincode = "400002"
	assert.NotEqual(t, a.Signature(), b.Signature())
}
