package search

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
)

// SortBSON is the sort document matching Less on the indexed documents.
var SortBSON = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}

// BSON compiles pred into a MongoDB filter document over the search index,
// whose keys are the Field names.
func BSON(pred Predicate) (bson.M, error) {
	switch p := pred.(type) {
	case All:
		if len(p) == 0 {
			return bson.M{}, nil
		}
		parts, err := bsonList(p)
		if err != nil {
			return nil, err
		}
		if len(parts) == 1 {
			return parts[0].(bson.M), nil
		}
		return bson.M{"$and": parts}, nil
	case Any:
		if len(p) == 0 {
			return bson.M{"$nor": bson.A{bson.M{}}}, nil
		}
		parts, err := bsonList(p)
		if err != nil {
			return nil, err
		}
		return bson.M{"$or": parts}, nil
	case Contains:
		if _, ok := fields[p.Field]; !ok {
			return nil, fmt.Errorf("search: unknown field %q", p.Field)
		}
		return bson.M{string(p.Field): bson.M{"$regex": regexp.QuoteMeta(p.Text), "$options": "i"}}, nil
	case Equals:
		if _, ok := fields[p.Field]; !ok {
			return nil, fmt.Errorf("search: unknown field %q", p.Field)
		}
		return bson.M{string(p.Field): p.Value}, nil
	case AtLeast:
		return compareBSON(p.Field, "$gte", p.Value.Ceil().IntPart(), p.Value.InexactFloat64())
	case AtMost:
		return compareBSON(p.Field, "$lte", p.Value.Floor().IntPart(), p.Value.InexactFloat64())
	}
	return nil, fmt.Errorf("search: unsupported predicate %T", pred)
}

func bsonList(children []Predicate) (bson.A, error) {
	out := make(bson.A, 0, len(children))
	for _, child := range children {
		doc, err := BSON(child)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func compareBSON(f Field, op string, whole int64, exact float64) (bson.M, error) {
	info, ok := fields[f]
	if !ok {
		return nil, fmt.Errorf("search: unknown field %q", f)
	}
	switch info.kind {
	case kindInt:
		return bson.M{string(f): bson.M{op: whole}}, nil
	case kindFloat, kindMoney:
		return bson.M{string(f): bson.M{op: exact}}, nil
	}
	return nil, fmt.Errorf("search: field %q is not numeric", f)
}
