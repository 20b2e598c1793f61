package clinic

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecordID identifies a stored record. Records created by this service use
// object IDs; records written by other processes may carry plain strings.
// The zero value is an empty raw ID.
type RecordID struct {
	oid        primitive.ObjectID
	raw        string
	structured bool
}

func NewRecordID() RecordID {
	return RecordID{oid: primitive.NewObjectID(), structured: true}
}

// ParseRecordID interprets s as an object ID when it is one, and as an
// opaque string otherwise. It never fails.
func ParseRecordID(s string) RecordID {
	if oid, err := primitive.ObjectIDFromHex(s); err == nil {
		return RecordID{oid: oid, structured: true}
	}
	return RecordID{raw: s}
}

func RecordIDFromObjectID(oid primitive.ObjectID) RecordID {
	return RecordID{oid: oid, structured: true}
}

func (id RecordID) IsStructured() bool { return id.structured }

func (id RecordID) IsZero() bool { return !id.structured && id.raw == "" }

func (id RecordID) ObjectID() (primitive.ObjectID, bool) {
	return id.oid, id.structured
}

func (id RecordID) String() string {
	if id.structured {
		return id.oid.Hex()
	}
	return id.raw
}

func (id RecordID) Equal(other RecordID) bool {
	return id.String() == other.String()
}

// Candidates lists every stored representation this ID may have. An object
// ID can also be stored as its hex string by external writers.
func (id RecordID) Candidates() []any {
	if id.structured {
		return []any{id.oid, id.oid.Hex()}
	}
	return []any{id.raw}
}

func (id RecordID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if id.structured {
		return bson.MarshalValue(id.oid)
	}
	return bson.MarshalValue(id.raw)
}

func (id *RecordID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.ObjectID:
		*id = RecordID{oid: rv.ObjectID(), structured: true}
	case bsontype.String:
		*id = RecordID{raw: rv.StringValue()}
	case bsontype.Null, bsontype.Undefined:
		*id = RecordID{}
	default:
		return fmt.Errorf("record id: unsupported bson type %s", t)
	}
	return nil
}

func (id RecordID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *RecordID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	*id = ParseRecordID(s)
	return nil
}
