package clinic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseRecordID(t *testing.T) {
	oid := primitive.NewObjectID()

	structured := ParseRecordID(oid.Hex())
	assert.True(t, structured.IsStructured())
	got, ok := structured.ObjectID()
	assert.True(t, ok)
	assert.Equal(t, oid, got)
	assert.Equal(t, oid.Hex(), structured.String())

	raw := ParseRecordID("doc-42")
	assert.False(t, raw.IsStructured())
	assert.Equal(t, "doc-42", raw.String())
	assert.False(t, raw.IsZero())

	assert.True(t, ParseRecordID("").IsZero())
}

func TestRecordID_CandidatesCoverBothStoredForms(t *testing.T) {
	oid := primitive.NewObjectID()

	assert.Equal(t, []any{oid, oid.Hex()}, ParseRecordID(oid.Hex()).Candidates())
	assert.Equal(t, []any{"doc-42"}, ParseRecordID("doc-42").Candidates())
}

func TestRecordID_EqualAcrossForms(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.True(t, RecordIDFromObjectID(oid).Equal(ParseRecordID(oid.Hex())))
	assert.False(t, ParseRecordID("a").Equal(ParseRecordID("b")))
}

func TestRecordID_BSONRoundTrip(t *testing.T) {
	type doc struct {
		ID RecordID `bson:"_id,omitempty"`
	}

	oid := primitive.NewObjectID()
	for _, id := range []RecordID{RecordIDFromObjectID(oid), ParseRecordID("plain-id")} {
		data, err := bson.Marshal(doc{ID: id})
		require.NoError(t, err)

		var out doc
		require.NoError(t, bson.Unmarshal(data, &out))
		assert.Equal(t, id, out.ID)
	}
}

func TestRecordID_BSONStoresNativeTypes(t *testing.T) {
	oid := primitive.NewObjectID()

	data, err := bson.Marshal(Doctor{ID: RecordIDFromObjectID(oid), Name: "Dr. Huda"})
	require.NoError(t, err)
	assert.Equal(t, oid, bson.Raw(data).Lookup("_id").ObjectID())

	data, err = bson.Marshal(Doctor{ID: ParseRecordID("legacy-7"), Name: "Dr. Huda"})
	require.NoError(t, err)
	assert.Equal(t, "legacy-7", bson.Raw(data).Lookup("_id").StringValue())
}

func TestRecordID_ZeroIsOmitted(t *testing.T) {
	data, err := bson.Marshal(Doctor{Name: "Dr. Huda"})
	require.NoError(t, err)

	_, err = bson.Raw(data).LookupErr("_id")
	assert.Error(t, err)
}

func TestRecordID_JSON(t *testing.T) {
	oid := primitive.NewObjectID()

	data, err := json.Marshal(map[string]RecordID{"_id": RecordIDFromObjectID(oid)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"`+oid.Hex()+`"}`, string(data))

	var back RecordID
	require.NoError(t, json.Unmarshal([]byte(`"`+oid.Hex()+`"`), &back))
	assert.True(t, back.IsStructured())
}
